package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/conduit/internal/auth/service"
	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

type HandleHandler struct {
	UserService *service.UserService
}

// ServeHTTP returns the handle of the authenticated user.
//
//	@Summary		Get own handle
//	@Description	Returns the display name of the user the access token belongs to.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.HandleResponse	"Handle"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing or invalid access token"
//	@Failure		429	{object}	authsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/api/handle/ [get].
func (h *HandleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("access token for unknown user", "user_id", userID)
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	if !user.IsActive {
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, "User is inactive").WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.HandleResponse{
		Handle: h.UserService.DisplayName(user),
	})
}
