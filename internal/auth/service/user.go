package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
	"github.com/aussiebroadwan/conduit/internal/auth/store"
	"github.com/aussiebroadwan/conduit/pkg/cryptox"
	"github.com/aussiebroadwan/conduit/pkg/idx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
	"golang.org/x/text/cases"
)

type UserService struct {
	Store store.Store
}

// CreateUser stores a new active, non-staff user. A nil password leaves the
// account without a usable password, so it cannot log in until one is set.
func (s *UserService) CreateUser(ctx context.Context, handle, email string, password *string) (domain.User, error) {
	u, err := newUserRecord(handle, email, password)
	if err != nil {
		return domain.User{}, err
	}
	return s.insert(ctx, s.Store, u)
}

// CreateSuperuser stores a user with staff and superuser rights. Unlike
// CreateUser a password is mandatory.
func (s *UserService) CreateSuperuser(ctx context.Context, handle, email string, password *string) (domain.User, error) {
	var created domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		created, err = s.createSuperuser(ctx, tx, handle, email, password)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return created, nil
}

// createSuperuser does the work of CreateSuperuser inside tx so callers can
// combine it with other checks.
func (s *UserService) createSuperuser(ctx context.Context, tx store.Tx, handle, email string, password *string) (domain.User, error) {
	if password == nil {
		return domain.User{}, newValidationError("password", "Superusers must have a password.")
	}

	u, err := newUserRecord(handle, email, password)
	if err != nil {
		return domain.User{}, err
	}

	u, err = s.insert(ctx, tx, u)
	if err != nil {
		return domain.User{}, err
	}

	if err := tx.Users().UpdateFlags(ctx, u.ID, u.IsActive, true, true); err != nil {
		return domain.User{}, fmt.Errorf("grant superuser: %w", err)
	}
	u.IsStaff, u.IsSuperuser = true, true

	slogx.FromContext(ctx).Info("superuser created",
		slog.String("user_id", u.ID),
		slog.String("handle", u.Handle),
	)
	return u, nil
}

func (s *UserService) insert(ctx context.Context, st store.Store, u domain.User) (domain.User, error) {
	created, err := st.Users().CreateUser(ctx, u)
	if err != nil {
		var uv *store.UniqueViolationError
		if errors.As(err, &uv) {
			return domain.User{}, &ConflictError{Field: uv.Field}
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *UserService) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByHandle(ctx, handle)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// Authenticate checks a handle and password pair. The handle is trimmed the
// same way CreateUser trims it. Every failure, including an inactive
// account, is reported as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, handle, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password check failed", slog.String("user_id", u.ID), slog.Any("error", err))
		return domain.User{}, ErrInvalidCredentials
	}

	if !u.IsActive {
		l.Info("inactive user attempted login", slog.String("user_id", u.ID))
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// SetPassword replaces the password of a user. nil makes it unusable.
func (s *UserService) SetPassword(ctx context.Context, userID string, password *string) error {
	hash, err := hashOrUnusable(password)
	if err != nil {
		return err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// SetActive enables or disables logins for a user.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) error {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdateFlags(ctx, u.ID, active, u.IsStaff, u.IsSuperuser)
}

// DisplayName is how a user is shown to others: their handle.
func (s *UserService) DisplayName(u domain.User) string {
	return u.FullName()
}

func newUserRecord(handle, email string, password *string) (domain.User, error) {
	handle = strings.TrimSpace(handle)
	email = strings.TrimSpace(email)

	switch {
	case handle == "":
		return domain.User{}, newValidationError("handle", "Users must have a handle.")
	case utf8.RuneCountInString(handle) > domain.MaxHandleLength:
		return domain.User{}, newValidationError("handle",
			fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxHandleLength))
	case email == "":
		return domain.User{}, newValidationError("email", "Users must have an email address.")
	}

	if err := validate.Var(email, "email,max=254"); err != nil {
		return domain.User{}, newValidationError("email", "Enter a valid email address.")
	}

	hash, err := hashOrUnusable(password)
	if err != nil {
		return domain.User{}, err
	}

	return domain.User{
		ID:           idx.New().String(),
		Handle:       handle,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		IsActive:     true,
	}, nil
}

func hashOrUnusable(password *string) (string, error) {
	if password == nil {
		return cryptox.UnusablePassword(), nil
	}
	hash, err := cryptox.HashPassword(*password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

var foldDomain = cases.Fold()

// NormalizeEmail case folds the domain part of an address and leaves the
// local part alone, since mailbox names may be case sensitive.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + foldDomain.String(email[at+1:])
}
