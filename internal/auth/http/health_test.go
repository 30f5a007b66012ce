package http

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/livez", nil, nil)
	requireStatus(t, http.StatusOK, rec)
	require.Equal(t, "ok", decode[authsdk.HealthResponse](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/readyz", nil, nil)
	requireStatus(t, http.StatusOK, rec)
	body := decode[authsdk.HealthResponse](t, rec)
	require.NotNil(t, body.Checks)
	require.Equal(t, "ok", body.Checks.Database)
	require.Equal(t, "ok", body.Checks.Signer)
}

func TestReadyz_DatabaseDown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")
	require.NoError(t, s.store.Close())

	rec := s.do(t, http.MethodGet, "/readyz", nil, nil)
	requireStatus(t, http.StatusServiceUnavailable, rec)
	body := decode[authsdk.HealthResponse](t, rec)
	require.Equal(t, "degraded", body.Status)
	require.Contains(t, body.Checks.Database, "error")
}

func TestJWKS_HS256PublishesNothing(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	requireStatus(t, http.StatusOK, rec)
	require.Empty(t, decode[authsdk.JWKSResponse](t, rec).Keys)
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/livez", nil, nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
