package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/conduit/pkg/httpx"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler(), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmHS256,
		Issuer:    "test-issuer",
		Secret:    []byte(strings.Repeat("k", 32)),
	})
	require.NoError(t, err)

	refresh := jwtx.NewRefreshClaims("user-1", "alice", "test-issuer", time.Hour, time.Now())
	refreshRaw, err := km.GetSigner().Sign(refresh)
	require.NoError(t, err)
	accessRaw, err := km.GetSigner().Sign(refresh.AccessFrom(time.Minute, time.Now()))
	require.NoError(t, err)

	var seen string
	h := httpx.AuthnMiddleware(km.Verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.UserIDFromContext(r.Context())
		c, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "alice", c.Handle)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
		code   string
	}{
		{"access token", "Bearer " + accessRaw, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + accessRaw, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "not_authenticated"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "not_authenticated"},
		{"refresh token", "Bearer " + refreshRaw, http.StatusUnauthorized, "invalid_token"},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				require.Equal(t, "user-1", seen)
				return
			}

			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tt.code, body["error"])
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ A string }

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"A":"x"}`))
	require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &dst))
	require.Equal(t, "x", dst.A)

	for _, body := range []string{``, `{`, `{"A":"x"}{"A":"y"}`, `[1]`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		require.ErrorIs(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &dst), httpx.ErrBadJSON, body)
	}
}
