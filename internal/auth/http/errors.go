package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/conduit/internal/auth/service"
	"github.com/aussiebroadwan/conduit/pkg/authsdk"
	"github.com/aussiebroadwan/conduit/pkg/slogx"
)

// writeServiceError maps a service error onto its response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var cerr *service.ConflictError

	switch {
	case errors.As(err, &verr):
		authsdk.WriteValidationError(w, verr.Fields)
	case errors.As(err, &cerr):
		authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, cerr.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		authsdk.ErrTokenNotValid.WriteError(w)
	case errors.Is(err, service.ErrBootstrapDisabled):
		authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound,
			"Bootstrap endpoint is not enabled").WriteError(w)
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
			"Invalid bootstrap token").WriteError(w)
	case errors.Is(err, service.ErrBootstrapForbidden):
		authsdk.NewAPIError(http.StatusForbidden, authsdk.ErrorCodeForbidden,
			"System has already been bootstrapped").WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		authsdk.ErrServerError.WriteError(w)
	}
}
