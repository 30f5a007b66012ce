package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// TestJWKSVerification verifies tokens issued by the service against the
// keys it publishes.
func TestJWKSVerification(t *testing.T) {
	client := setupAuthContainer(t)
	user := registerUser(t, client, "alice", "password123")

	jwksResp, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, jwksResp.Keys)

	keySet := jwtx.NewKeySet()
	for _, k := range jwksResp.Keys {
		require.NoError(t, keySet.AddJWK(k))
	}
	verifier := jwtx.NewVerifier(keySet, jwtx.VerifyOptions{
		Algorithm: "EdDSA",
		Issuer:    "conduit-auth",
	})

	access, err := verifier.Verify(user.AccessToken, jwtx.TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, user.ID, access.UserID)
	require.Equal(t, user.ID, access.Subject)
	require.Equal(t, "alice", access.Handle)
	require.NotEmpty(t, access.ID)

	refresh, err := verifier.Verify(user.RefreshToken, jwtx.TokenTypeRefresh)
	require.NoError(t, err)
	require.Equal(t, user.ID, refresh.UserID)
	require.False(t, access.ExpiresAt.After(refresh.ExpiresAt.Time),
		"access token must not outlive its refresh token")

	_, err = verifier.Verify(user.RefreshToken, jwtx.TokenTypeAccess)
	require.ErrorIs(t, err, jwtx.ErrTokenType)
}
