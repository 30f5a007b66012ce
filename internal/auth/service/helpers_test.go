package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/conduit/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "http://conduit.test"

type fixture struct {
	store  *sqlite.Store
	users  *UserService
	tokens *TokenService
	reg    *RegistrationService
	keys   *jwtx.KeyManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureDSN(t, ":memory:")
}

// newFileFixture backs the fixture with a WAL database file, so concurrent
// callers get separate connections the way the server does.
func newFileFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.db")
	return newFixtureDSN(t, fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path))
}

func newFixtureDSN(t *testing.T, dsn string) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmHS256,
		Issuer:    testIssuer,
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
	})
	require.NoError(t, err)

	users := &UserService{Store: st}
	tokens := &TokenService{
		KeyManager: km,
		Users:      users,
		Issuer:     testIssuer,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	return &fixture{
		store:  st,
		users:  users,
		tokens: tokens,
		reg:    &RegistrationService{Users: users, Tokens: tokens},
		keys:   km,
	}
}

func ptr[T any](v T) *T { return &v }
