package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
	"github.com/aussiebroadwan/conduit/internal/auth/store"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

var (
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapForbidden    = errors.New("system already bootstrapped")
)

// BootstrapRequest describes the first superuser.
type BootstrapRequest struct {
	Handle   string `json:"handle" validate:"required,max=15"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r *BootstrapRequest) normalize() {
	r.Handle = strings.TrimSpace(r.Handle)
	r.Email = strings.TrimSpace(r.Email)
}

// BootstrapService creates the first superuser of a fresh deployment. It is
// disabled when Token is empty.
type BootstrapService struct {
	Store store.Store
	Users *UserService
	Token string
}

func (s *BootstrapService) Enabled() bool { return s.Token != "" }

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	n, err := s.Store.Users().CountSuperusers(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if !s.Enabled() {
		return domain.User{}, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}
	req.normalize()
	if err := Validate(req); err != nil {
		return domain.User{}, err
	}

	var admin domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().LockSuperusers(ctx); err != nil {
			return fmt.Errorf("lock superusers: %w", err)
		}
		n, err := tx.Users().CountSuperusers(ctx)
		if err != nil {
			return fmt.Errorf("count superusers: %w", err)
		}
		if n > 0 {
			return ErrBootstrapForbidden
		}

		password := req.Password
		admin, err = s.Users.createSuperuser(ctx, tx, req.Handle, req.Email, &password)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapForbidden) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		}
		return domain.User{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", admin.ID))
	return admin, nil
}
