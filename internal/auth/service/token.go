package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

// TokenObtainRequest is the body of a token pair request.
type TokenObtainRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *TokenObtainRequest) normalize() {
	r.Handle = strings.TrimSpace(r.Handle)
}

// TokenRefreshRequest is the body of an access token refresh.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Users      *UserService
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the issuing clock. nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) ttls() (access, refresh time.Duration) {
	access, refresh = s.AccessTTL, s.RefreshTTL
	if access <= 0 {
		access = jwtx.DefaultAccessTokenTTL
	}
	if refresh <= 0 {
		refresh = jwtx.DefaultRefreshTokenTTL
	}
	return access, refresh
}

// GenerateTokens issues a refresh token for u and an access token derived
// from it. Nothing is stored; the pair is valid until it expires.
func (s *TokenService) GenerateTokens(u domain.User) (domain.TokenPair, error) {
	if u.ID == "" {
		return domain.TokenPair{}, errors.New("generate tokens: user has no id")
	}

	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return domain.TokenPair{}, errors.New("generate tokens: no signing key")
	}

	now := s.now()
	accessTTL, refreshTTL := s.ttls()

	refreshClaims := jwtx.NewRefreshClaims(u.ID, u.Handle, s.Issuer, refreshTTL, now)
	refresh, err := signer.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	access, err := signer.Sign(refreshClaims.AccessFrom(accessTTL, now))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// AccessToken returns a fresh access token for u.
func (s *TokenService) AccessToken(u domain.User) (string, error) {
	pair, err := s.GenerateTokens(u)
	return pair.Access, err
}

// RefreshToken returns a fresh refresh token for u.
func (s *TokenService) RefreshToken(u domain.User) (string, error) {
	pair, err := s.GenerateTokens(u)
	return pair.Refresh, err
}

// ObtainPair authenticates a handle and password and issues a token pair.
func (s *TokenService) ObtainPair(ctx context.Context, req TokenObtainRequest) (domain.TokenPair, error) {
	req.normalize()
	if err := Validate(req); err != nil {
		return domain.TokenPair{}, err
	}

	u, err := s.Users.Authenticate(ctx, req.Handle, req.Password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.GenerateTokens(u)
	if err != nil {
		return domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("token pair issued", slog.String("user_id", u.ID))
	return pair, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *TokenService) Refresh(ctx context.Context, req TokenRefreshRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}
	l := slogx.FromContext(ctx)

	claims, err := s.KeyManager.Verifier.Verify(req.Refresh, jwtx.TokenTypeRefresh)
	if err != nil {
		l.Info("refresh token rejected", slog.Any("error", err))
		return "", ErrInvalidToken
	}

	u, err := s.Users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			l.Info("refresh token for unknown user", slog.String("user_id", claims.UserID))
			return "", ErrInvalidToken
		}
		return "", err
	}
	if !u.IsActive {
		l.Info("refresh token for inactive user", slog.String("user_id", u.ID))
		return "", ErrInvalidToken
	}

	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", errors.New("refresh: no signing key")
	}

	accessTTL, _ := s.ttls()
	access, err := signer.Sign(claims.AccessFrom(accessTTL, s.now()))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return access, nil
}
