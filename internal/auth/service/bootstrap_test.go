package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	t.Parallel()

	req := BootstrapRequest{Handle: "admin", Email: "admin@example.com", Password: "password123"}

	t.Run("disabled without token", func(t *testing.T) {
		f := newFixture(t)
		svc := &BootstrapService{Store: f.store, Users: f.users}
		_, err := svc.Bootstrap(t.Context(), "", req)
		require.ErrorIs(t, err, ErrBootstrapDisabled)
	})

	t.Run("wrong token", func(t *testing.T) {
		f := newFixture(t)
		svc := &BootstrapService{Store: f.store, Users: f.users, Token: "s3cret"}
		_, err := svc.Bootstrap(t.Context(), "guess", req)
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})

	t.Run("invalid request", func(t *testing.T) {
		f := newFixture(t)
		svc := &BootstrapService{Store: f.store, Users: f.users, Token: "s3cret"}
		_, err := svc.Bootstrap(t.Context(), "s3cret", BootstrapRequest{Handle: "admin"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, verr.Fields, "email")
		require.Contains(t, verr.Fields, "password")
	})

	t.Run("creates superuser once", func(t *testing.T) {
		f := newFixture(t)
		svc := &BootstrapService{Store: f.store, Users: f.users, Token: "s3cret"}

		done, err := svc.IsBootstrapped(t.Context())
		require.NoError(t, err)
		require.False(t, done)

		admin, err := svc.Bootstrap(t.Context(), "s3cret", req)
		require.NoError(t, err)
		require.True(t, admin.IsSuperuser)
		require.True(t, admin.IsStaff)

		done, err = svc.IsBootstrapped(t.Context())
		require.NoError(t, err)
		require.True(t, done)

		_, err = svc.Bootstrap(t.Context(), "s3cret", BootstrapRequest{
			Handle: "second", Email: "second@example.com", Password: "password123",
		})
		require.ErrorIs(t, err, ErrBootstrapForbidden)

		_, err = f.users.GetUserByHandle(t.Context(), "second")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestBootstrap_Concurrent(t *testing.T) {
	t.Parallel()
	f := newFileFixture(t)
	svc := &BootstrapService{Store: f.store, Users: f.users, Token: "s3cret"}

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Bootstrap(t.Context(), "s3cret", BootstrapRequest{
				Handle:   fmt.Sprintf("admin%d", i),
				Email:    fmt.Sprintf("admin%d@example.com", i),
				Password: "password123",
			})
		}()
	}
	wg.Wait()

	var ok, forbidden int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrBootstrapForbidden):
			forbidden++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, n-1, forbidden)

	count, err := f.store.Users().CountSuperusers(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestBootstrap_TrimsHandle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := &BootstrapService{Store: f.store, Users: f.users, Token: "s3cret"}

	admin, err := svc.Bootstrap(t.Context(), "s3cret", BootstrapRequest{
		Handle:   " root ",
		Email:    "root@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "root", admin.Handle)

	_, err = f.tokens.ObtainPair(t.Context(), TokenObtainRequest{Handle: " root ", Password: "password123"})
	require.NoError(t, err)
}
