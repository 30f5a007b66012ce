package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// UniqueViolationError reports which unique column rejected a write. It
// matches ErrAlreadyExists under errors.Is.
type UniqueViolationError struct {
	Field string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("store: %s already exists", e.Field)
}

func (e *UniqueViolationError) Unwrap() error { return ErrAlreadyExists }

// Store is the root data access interface implemented by each driver
// (sqlite, postgres). Repositories hang off it so a Tx exposes the same ones.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping checks the database connection.
	Ping(ctx context.Context) error
}

// Tx is a Store bound to one transaction.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByHandle looks a user up by login name.
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)

	// CreateUser inserts u. A taken handle or email yields a
	// *UniqueViolationError. CreatedAt and UpdatedAt are set by the store.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// UpdateFlags sets the active, staff and superuser flags.
	UpdateFlags(ctx context.Context, userID string, active, staff, superuser bool) error

	// CountSuperusers returns the number of superuser accounts.
	CountSuperusers(ctx context.Context) (int64, error)

	// LockSuperusers blocks other transactions that also take this lock
	// until the current transaction ends. Call it from inside a Tx.
	LockSuperusers(ctx context.Context) error
}
