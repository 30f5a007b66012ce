package http

import (
	"net/http"

	"github.com/aussiebroadwan/conduit/internal/auth/service"
	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first superuser.
//
//	@Summary		Bootstrap the service
//	@Description	Creates the first superuser. Only available when a bootstrap token is configured, and only while no superuser exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		authsdk.BootstrapRequest		true	"Superuser account"
//	@Success		201					{object}	authsdk.BootstrapResponse		"Superuser created"
//	@Failure		400					{object}	authsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	authsdk.ErrorResponse			"Missing or invalid bootstrap token"
//	@Failure		403					{object}	authsdk.ErrorResponse			"System already bootstrapped"
//	@Failure		404					{object}	authsdk.ErrorResponse			"Bootstrap not enabled"
//	@Failure		409					{object}	authsdk.ErrorResponse			"Handle or email already taken"
//	@Router			/api/bootstrap/ [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slogx.FromContext(r.Context()).Info("starting bootstrap")

	if !h.BootstrapService.Enabled() {
		writeServiceError(w, r, service.ErrBootstrapDisabled)
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
			"Bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	var req authsdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, service.BootstrapRequest{
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.BootstrapResponse{
		ID:     admin.ID,
		Handle: admin.Handle,
		Email:  admin.Email,
	})
}
