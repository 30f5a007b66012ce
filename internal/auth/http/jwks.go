package http

import (
	"net/http"

	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
)

// JWKSHandler publishes the public signing keys.
//
//	@Summary		Get JWKS
//	@Description	Returns the public keys that verify tokens. Empty when tokens are signed with a shared HS256 secret.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
