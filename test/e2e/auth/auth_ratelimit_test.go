package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitTokenEndpoint verifies repeated logins for one handle are
// throttled after the strict burst.
func TestRateLimitTokenEndpoint(t *testing.T) {
	client := setupAuthContainerWithDefaultRateLimits(t)

	for i := range 5 {
		_, err := client.ObtainToken(t.Context(), "nobody", "wrong-password")
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
		t.Logf("request %d rejected as invalid credentials", i+1)
	}

	_, err := client.ObtainToken(t.Context(), "nobody", "wrong-password")
	apiErr := assertAPIError(t, err, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimitExceeded)
	require.NotEmpty(t, apiErr.Description)
}

// TestRateLimitRegistration verifies sign ups from one address are throttled.
func TestRateLimitRegistration(t *testing.T) {
	client := setupAuthContainerWithDefaultRateLimits(t)

	var lastErr error
	for i := range 6 {
		_, lastErr = client.Register(t.Context(), authsdk.RegisterRequest{})
		if i < 5 {
			assertAPIError(t, lastErr, http.StatusBadRequest, authsdk.ErrorCodeValidation)
		}
	}
	assertAPIError(t, lastErr, http.StatusTooManyRequests, authsdk.ErrorCodeRateLimitExceeded)
}

// TestRateLimitHealthEndpoints verifies probes are not throttled at normal
// polling rates.
func TestRateLimitHealthEndpoints(t *testing.T) {
	client := setupAuthContainerWithDefaultRateLimits(t)

	for range 20 {
		health, err := client.GetLiveness(t.Context())
		assertHealthy(t, health, err)
	}
}
