package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/conduit/internal/auth/service"
	"github.com/aussiebroadwan/conduit/internal/auth/store"
	"github.com/aussiebroadwan/conduit/pkg/httpx"
	"github.com/aussiebroadwan/conduit/pkg/jwtx"
	"github.com/aussiebroadwan/conduit/pkg/slogx"

	_ "github.com/aussiebroadwan/conduit/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService         *service.UserService
	TokenService        *service.TokenService
	RegistrationService *service.RegistrationService
	BootstrapService    *service.BootstrapService
}

func NewRouter(keys *jwtx.KeyManager, buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerTokens()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP applies the global middleware chain.
//
//	@title			Conduit Authentication API
//	@version		0.1.0
//	@description	User registration and JWT authentication. Access tokens are short lived; refresh tokens trade for new access tokens at /api/token/refresh/.
//	@description
//	@description				Tokens are signed with HS256 by default, or EdDSA with keys published at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/conduit
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	// POST /api/users/ - strict limit by IP, sign ups are cheap to abuse
	r.Mux.Handle("POST /api/users/{$}",
		httpx.Chain(&RegistrationHandler{RegistrationService: r.RegistrationService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /api/handle/ - authenticated, lenient limit by user
	r.Mux.Handle("GET /api/handle/{$}",
		httpx.Chain(&HandleHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.keys.Verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerTokens() {
	// POST /api/token/ - strict limit by IP + handle to slow password guessing
	r.Mux.Handle("POST /api/token/{$}",
		httpx.Chain(&TokenObtainHandler{TokenService: r.TokenService},
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "handle"),
		),
	)

	r.Mux.Handle("POST /api/token/refresh/{$}",
		httpx.Chain(&TokenRefreshHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /api/bootstrap/ - one-time setup, strict limit by IP
	r.Mux.Handle("POST /api/bootstrap/{$}",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	h := &HealthHandler{
		Store:     r.store,
		Keys:      r.keys,
		Version:   r.buildVersion,
		StartTime: r.startTime,
	}

	// Monitoring may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(h.Livez), httpx.RateLimitByIP(httpx.LenientLimit)),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(h.Readyz), httpx.RateLimitByIP(httpx.LenientLimit)),
	)
}
