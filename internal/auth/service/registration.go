package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/conduit/internal/auth/store"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

// Password length bounds accepted at registration.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// RegistrationRequest is the body of a sign up. Password is never echoed
// back to the client.
type RegistrationRequest struct {
	Handle   string `json:"handle" validate:"required,max=15"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// normalize trims the handle and email before they are validated, so the
// length limits apply to what is stored.
func (r *RegistrationRequest) normalize() {
	r.Handle = strings.TrimSpace(r.Handle)
	r.Email = strings.TrimSpace(r.Email)
}

// RegistrationResult is what a successful sign up returns.
type RegistrationResult struct {
	ID           string `json:"id"`
	Handle       string `json:"handle"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RegistrationService struct {
	Users  *UserService
	Tokens *TokenService
}

// Register validates req, creates the user and issues its first tokens. The
// user is only committed once its tokens have been signed.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) (RegistrationResult, error) {
	req.normalize()
	if err := Validate(req); err != nil {
		return RegistrationResult{}, err
	}

	password := req.Password
	record, err := newUserRecord(req.Handle, req.Email, &password)
	if err != nil {
		return RegistrationResult{}, err
	}

	var res RegistrationResult
	err = s.Users.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := s.Users.insert(ctx, tx, record)
		if err != nil {
			return err
		}

		pair, err := s.Tokens.GenerateTokens(u)
		if err != nil {
			return err
		}

		res = RegistrationResult{
			ID:           u.ID,
			Handle:       u.Handle,
			Email:        u.Email,
			AccessToken:  pair.Access,
			RefreshToken: pair.Refresh,
		}
		return nil
	})
	if err != nil {
		return RegistrationResult{}, err
	}

	slogx.FromContext(ctx).Info("user registered",
		slog.String("user_id", res.ID),
		slog.String("handle", res.Handle),
	)
	return res, nil
}
