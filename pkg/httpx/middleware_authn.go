package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

// AuthnMiddleware requires a valid access token in the Authorization header.
// Refresh tokens are rejected.
func AuthnMiddleware(v *jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			raw = strings.TrimSpace(raw)
			if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				writeBearerError(w, "", "")
				return
			}

			claims, err := v.Verify(raw, jwtx.TokenTypeAccess)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				writeBearerError(w, "invalid_token", "Given token not valid for any token type")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims)))
		})
	}
}

// writeBearerError answers 401 with an RFC 6750 challenge. A request with no
// credentials gets a bare challenge.
func writeBearerError(w http.ResponseWriter, code, desc string) {
	challenge := `Bearer realm="api"`
	if code != "" {
		challenge += `, error="` + code + `", error_description="` + desc + `"`
	}
	w.Header().Set("WWW-Authenticate", challenge)

	if code == "" {
		code = "not_authenticated"
		desc = "Authentication credentials were not provided."
	}
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             code,
		"error_description": desc,
	})
}
