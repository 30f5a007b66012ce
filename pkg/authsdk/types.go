package authsdk

import (
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_credentials"`
	ErrorDescription string `json:"error_description" example:"No active account found with the given credentials"`
}

// ValidationErrorResponse is returned with 400 when request fields fail
// validation.
type ValidationErrorResponse struct {
	Code    string `json:"code" example:"validation_error"`
	Message string `json:"message"`

	// Details maps each rejected field to the reason.
	Details map[string]string `json:"details,omitempty"`
}

// ============================================================================
// Registration
// ============================================================================

// RegisterRequest is the body of POST /api/users/.
type RegisterRequest struct {
	Handle   string `json:"handle" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct-horse"`
}

// RegisterResponse is returned with 201 after a successful sign up. The
// password is never included.
type RegisterResponse struct {
	ID           string `json:"id" example:"01JABCDEF0123456789ABCDEFG"`
	Handle       string `json:"handle" example:"alice"`
	Email        string `json:"email" example:"alice@example.com"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// Tokens
// ============================================================================

// TokenObtainRequest is the body of POST /api/token/.
type TokenObtainRequest struct {
	Handle   string `json:"handle" example:"alice"`
	Password string `json:"password" example:"correct-horse"`
}

// TokenPairResponse carries a fresh refresh and access token.
type TokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// TokenRefreshRequest is the body of POST /api/token/refresh/.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenRefreshResponse carries a new access token.
type TokenRefreshResponse struct {
	Access string `json:"access"`
}

// HandleResponse is returned by GET /api/handle/.
type HandleResponse struct {
	Handle string `json:"handle" example:"alice"`
}

// ============================================================================
// Bootstrap
// ============================================================================

// BootstrapRequest describes the first superuser.
type BootstrapRequest struct {
	Handle   string `json:"handle" example:"admin"`
	Email    string `json:"email" example:"admin@example.com"`
	Password string `json:"password"`
}

// BootstrapResponse identifies the superuser that was created.
type BootstrapResponse struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Email  string `json:"email"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Uptime  string `json:"uptime,omitempty" example:"1h23m45s"`
	Version string `json:"version,omitempty"`

	// Checks is only set by /readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// JWKS
// ============================================================================

// JWKSResponse is the JSON Web Key Set. It is empty when tokens are signed
// with a shared secret.
type JWKSResponse jwtx.JWKS
