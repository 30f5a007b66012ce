package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRefresh covers obtaining a pair, refreshing, and using the new
// access token.
func TestLoginRefresh(t *testing.T) {
	client := setupAuthContainer(t)
	registerUser(t, client, "alice", "password123")

	pair, err := client.ObtainToken(t.Context(), "alice", "password123")
	require.NoError(t, err)

	refreshed, err := client.RefreshToken(t.Context(), pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Access)
	require.NotEqual(t, pair.Access, refreshed.Access)

	session := client.NewSessionFromTokens(refreshed.Access, pair.Refresh)
	me, err := session.GetHandle(t.Context())
	require.NoError(t, err)
	require.Equal(t, "alice", me.Handle)
}

// TestAuthenticateWithPassword verifies the session helper.
func TestAuthenticateWithPassword(t *testing.T) {
	client := setupAuthContainer(t)
	registerUser(t, client, "bob", "password123")

	session, err := client.AuthenticateWithPassword(t.Context(), "bob", "password123")
	require.NoError(t, err)

	me, err := session.GetHandle(t.Context())
	require.NoError(t, err)
	require.Equal(t, "bob", me.Handle)
}

// TestInvalidCredentials verifies wrong passwords and unknown handles look
// the same to the caller.
func TestInvalidCredentials(t *testing.T) {
	client := setupAuthContainer(t)
	registerUser(t, client, "alice", "password123")

	_, err := client.ObtainToken(t.Context(), "alice", "wrong-password")
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)

	_, err = client.ObtainToken(t.Context(), "nobody", "password123")
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
}

// TestRefreshRejectsAccessToken verifies token types are not interchangeable.
func TestRefreshRejectsAccessToken(t *testing.T) {
	client := setupAuthContainer(t)
	user := registerUser(t, client, "alice", "password123")

	_, err := client.RefreshToken(t.Context(), user.AccessToken)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeTokenNotValid)

	session := client.NewSessionFromTokens(user.RefreshToken, "")
	_, err = session.GetHandle(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

// TestTamperedToken verifies a modified signature is rejected.
func TestTamperedToken(t *testing.T) {
	client := setupAuthContainer(t)
	user := registerUser(t, client, "alice", "password123")

	tampered := user.AccessToken[:len(user.AccessToken)-4] + "AAAA"
	session := client.NewSessionFromTokens(tampered, "")
	_, err := session.GetHandle(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}

// TestTokensDoNotSurviveRestartWithEphemeralKeys documents that a new
// container, with new keys, rejects tokens from the old one.
func TestTokensDoNotSurviveRestartWithEphemeralKeys(t *testing.T) {
	first := setupAuthContainer(t)
	user := registerUser(t, first, "alice", "password123")

	second := setupAuthContainer(t)
	_, err := second.RefreshToken(t.Context(), user.RefreshToken)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeTokenNotValid)
}
