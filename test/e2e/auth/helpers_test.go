package auth_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared assertions for the auth service end-to-end
 * tests. The image is built once in TestMain.
 */

const (
	testImageName = "conduit-auth-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	adminHandle    = "admin"
	adminEmail     = "admin@example.com"
	adminPassword  = "Admin123!pass"
)

func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// baseEnv is the container environment shared by every test. Strict rate
// limits are relaxed because tests make many rapid requests.
func baseEnv() map[string]string {
	return map[string]string{
		"BOOTSTRAP_TOKEN":           bootstrapToken,
		"AUTH_DATABASE_FILE":        "/data/auth.db",
		"AUTH_PEPPER_FILE":          "/data/pepper",
		"AUTH_ISSUER":               "conduit-auth",
		"AUTH_ALGORITHM":            "EdDSA",
		"AUTH_NUM_KEYS":             "1",
		"ENV":                       "test",
		"LOG_LEVEL":                 "info",
		"LOG_FORMAT":                "json",
		"RATELIMIT_STRICT_REQUESTS": "1000",
		"RATELIMIT_STRICT_WINDOW":   "1m",
		"RATELIMIT_STRICT_BURST":    "1000",
	}
}

// startAuthContainer runs the service image with env and returns its base URL.
func startAuthContainer(t *testing.T, env map[string]string, opts ...testcontainers.CustomizeRequestOption) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	}
	for _, opt := range opts {
		require.NoError(t, opt(&req))
	}

	container, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// setupAuthContainer starts the service with relaxed rate limits.
func setupAuthContainer(t *testing.T) *authsdk.SDKClient {
	t.Helper()
	return authsdk.NewSDKClient(startAuthContainer(t, baseEnv()))
}

// setupAuthContainerWithEnv starts the service with extra settings.
func setupAuthContainerWithEnv(t *testing.T, extra map[string]string) *authsdk.SDKClient {
	t.Helper()
	env := baseEnv()
	maps.Copy(env, extra)
	return authsdk.NewSDKClient(startAuthContainer(t, env))
}

// setupAuthContainerWithDefaultRateLimits starts the service with the
// production rate limits, for testing the limits themselves.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) *authsdk.SDKClient {
	t.Helper()
	env := baseEnv()
	delete(env, "RATELIMIT_STRICT_REQUESTS")
	delete(env, "RATELIMIT_STRICT_WINDOW")
	delete(env, "RATELIMIT_STRICT_BURST")
	return authsdk.NewSDKClient(startAuthContainer(t, env))
}

// registerUser signs up handle with a derived email and returns the result.
func registerUser(t *testing.T, client *authsdk.SDKClient, handle, password string) *authsdk.RegisterResponse {
	t.Helper()

	resp, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Handle:   handle,
		Email:    handle + "@example.com",
		Password: password,
	})
	require.NoError(t, err, "registration of %s should succeed", handle)
	require.NotEmpty(t, resp.ID)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp
}

// assertAPIError checks err is an *authsdk.APIError with status and code.
func assertAPIError(t *testing.T, err error, status int, code string) *authsdk.APIError {
	t.Helper()
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected an API error, got: %v", err)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
	require.Equal(t, code, apiErr.Code, "unexpected code: %v", err)
	return apiErr
}

func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
