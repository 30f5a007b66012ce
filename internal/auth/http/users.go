package http

import (
	"net/http"

	"github.com/aussiebroadwan/conduit/internal/auth/service"
	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
)

type RegistrationHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP registers a new user.
//
//	@Summary		Register a user
//	@Description	Creates an account from a handle, email and password, and returns it with a first access and refresh token. The password must be 8 to 128 characters and is never returned.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest			true	"New account"
//	@Success		201		{object}	authsdk.RegisterResponse		"Account created"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		409		{object}	authsdk.ErrorResponse			"Handle or email already taken"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limit exceeded"
//	@Router			/api/users/ [post].
func (h *RegistrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.RegistrationService.Register(r.Context(), service.RegistrationRequest{
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		ID:           res.ID,
		Handle:       res.Handle,
		Email:        res.Email,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}
