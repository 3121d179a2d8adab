package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/internal/users/service"
	"github.com/midgarden/userd/internal/users/store"
	"github.com/midgarden/userd/pkg/httpx"
	"github.com/midgarden/userd/pkg/jwtx"
	"github.com/midgarden/userd/pkg/slogx"

	_ "github.com/midgarden/userd/api/users" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	AccountService *service.AccountService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPublic()
	r.registerSelfService()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			User Management Service API
//	@version		0.1.0
//	@description	User registration, authentication and account administration.
//	@description
//	@description				Access tokens are HS256-signed JWTs carrying the account id,
//	@description				username and role. Present them as "Bearer {token}".
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

func (r *Router) registerPublic() {
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	loginHandler := &LoginHandler{AuthService: r.AuthService}

	// Both endpoints accept credentials from unauthenticated callers, so
	// they share the strictest per-IP limit.
	r.Mux.Handle("POST /v1/users/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/users/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSelfService() {
	h := &MeHandler{
		AccountService: r.AccountService,
	}

	// Authn re-checks the account row each request so a deactivated or
	// deleted account is rejected immediately instead of riding out the
	// token's lifetime.
	authed := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.Authn(r.verifier, true, r.AuthService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/users/me", authed(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PATCH /v1/users/me", authed(http.HandlerFunc(h.HandleUpdate)))

	// Password change re-verifies the current password, but still gets a
	// tighter limit than plain profile reads.
	r.Mux.Handle("POST /v1/users/me/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.Authn(r.verifier, true, r.AuthService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &UsersHandler{AccountService: r.AccountService}

	adminOnly := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.Authn(r.verifier, true, r.AuthService),
			httpx.RequireRole(domain.RoleAdmin.String()),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", adminOnly(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("DELETE /v1/users/{id}", adminOnly(http.HandlerFunc(h.HandleDelete)))

	// Reading a single account is self-or-admin: a user may fetch their own
	// record by id, admins may fetch anyone's.
	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.Authn(r.verifier, true, r.AuthService),
			httpx.RequireSelfOrRole("id", domain.RoleAdmin.String()),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
