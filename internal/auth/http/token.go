package http

import (
	"net/http"

	"github.com/aussiebroadwan/conduit/internal/auth/service"
	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
)

type TokenObtainHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP issues a token pair for valid credentials.
//
//	@Summary		Obtain a token pair
//	@Description	Authenticates a handle and password and returns a refresh token and an access token derived from it.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TokenObtainRequest		true	"Credentials"
//	@Success		200		{object}	authsdk.TokenPairResponse		"Token pair"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Missing fields"
//	@Failure		401		{object}	authsdk.ErrorResponse			"No active account found with the given credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/api/token/ [post].
func (h *TokenObtainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TokenObtainRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ObtainPair(r.Context(), service.TokenObtainRequest{
		Handle:   req.Handle,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPairResponse{
		Refresh: pair.Refresh,
		Access:  pair.Access,
	})
}

type TokenRefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP exchanges a refresh token for a new access token.
//
//	@Summary		Refresh an access token
//	@Description	Verifies a refresh token and returns a new access token. The refresh token is not rotated.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TokenRefreshRequest		true	"Refresh token"
//	@Success		200		{object}	authsdk.TokenRefreshResponse	"New access token"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Missing refresh token"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Token is invalid or expired"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/api/token/refresh/ [post].
func (h *TokenRefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TokenRefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	access, err := h.TokenService.Refresh(r.Context(), service.TokenRefreshRequest{Refresh: req.Refresh})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenRefreshResponse{Access: access})
}
