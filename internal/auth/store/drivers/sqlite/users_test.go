package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/conduit/internal/auth/domain"
	"github.com/aussiebroadwan/conduit/internal/auth/store"
	"github.com/aussiebroadwan/conduit/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/conduit/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newUser(handle, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Handle:       handle,
		Email:        email,
		PasswordHash: "!unusable",
		IsActive:     true,
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created, err := s.Users().CreateUser(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	byID, err := s.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Handle)
	require.Equal(t, "alice@example.com", byID.Email)
	require.True(t, byID.IsActive)
	require.False(t, byID.IsStaff)
	require.False(t, byID.IsSuperuser)
	require.WithinDuration(t, created.CreatedAt, byID.CreatedAt, 0)

	byHandle, err := s.Users().GetUserByHandle(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created.ID, byHandle.ID)

	_, err = s.Users().GetUserByHandle(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_UniqueViolations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Users().CreateUser(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		user  domain.User
		field string
	}{
		{"duplicate handle", newUser("alice", "other@example.com"), "handle"},
		{"duplicate email", newUser("bob", "alice@example.com"), "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Users().CreateUser(ctx, tt.user)
			require.ErrorIs(t, err, store.ErrAlreadyExists)

			var uv *store.UniqueViolationError
			require.True(t, errors.As(err, &uv))
			require.Equal(t, tt.field, uv.Field)
		})
	}
}

func TestUsers_HandleLengthCheck(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Users().CreateUser(ctx, newUser("abcdefghijklmnop", "long@example.com"))
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().CreateUser(ctx, newUser("abcdefghijklmno", "ok@example.com"))
	require.NoError(t, err)
}

func TestUsers_Updates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u, err := s.Users().CreateUser(ctx, newUser("alice", "alice@example.com"))
	require.NoError(t, err)

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "$argon2id$new"))
	require.NoError(t, s.Users().UpdateFlags(ctx, u.ID, true, true, true))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "$argon2id$new", got.PasswordHash)
	require.True(t, got.IsStaff)
	require.True(t, got.IsSuperuser)
	require.False(t, got.UpdatedAt.Before(u.UpdatedAt))

	n, err := s.Users().CountSuperusers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
	require.ErrorIs(t, s.Users().UpdateFlags(ctx, "missing", true, false, false), store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, newUser("ghost", "ghost@example.com"))
			require.NoError(t, err)
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByHandle(ctx, "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit on success", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, newUser("kept", "kept@example.com"))
			return err
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByHandle(ctx, "kept")
		require.NoError(t, err)
	})

	t.Run("lock superusers", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().LockSuperusers(ctx); err != nil {
				return err
			}
			n, err := tx.Users().CountSuperusers(ctx)
			require.NoError(t, err)
			require.Zero(t, n)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("nested transactions refused", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.Error(t, err)
	})
}

func TestPingAndMigrationsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.ApplyMigrations())
}
