package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func adminRequest() authsdk.BootstrapRequest {
	return authsdk.BootstrapRequest{
		Handle:   adminHandle,
		Email:    adminEmail,
		Password: adminPassword,
	}
}

// TestBootstrap verifies the first superuser can log in and that bootstrap
// only works once.
func TestBootstrap(t *testing.T) {
	client := setupAuthContainer(t)

	resp, err := client.Bootstrap(t.Context(), bootstrapToken, adminRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Equal(t, adminHandle, resp.Handle)

	session, err := client.AuthenticateWithPassword(t.Context(), adminHandle, adminPassword)
	require.NoError(t, err)
	me, err := session.GetHandle(t.Context())
	require.NoError(t, err)
	require.Equal(t, adminHandle, me.Handle)

	_, err = client.Bootstrap(t.Context(), bootstrapToken, authsdk.BootstrapRequest{
		Handle:   "admin2",
		Email:    "admin2@example.com",
		Password: adminPassword,
	})
	assertAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeForbidden)
}

// TestBootstrap_WrongToken verifies the bootstrap token is enforced.
func TestBootstrap_WrongToken(t *testing.T) {
	client := setupAuthContainer(t)

	_, err := client.Bootstrap(t.Context(), "wrong-token", adminRequest())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized)
}

// TestBootstrap_Disabled verifies the endpoint is hidden without a token.
func TestBootstrap_Disabled(t *testing.T) {
	client := setupAuthContainerWithEnv(t, map[string]string{"BOOTSTRAP_TOKEN": ""})

	_, err := client.Bootstrap(t.Context(), bootstrapToken, adminRequest())
	assertAPIError(t, err, http.StatusNotFound, authsdk.ErrorCodeNotFound)
}
