package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openkms/tokend/internal/token/realm"
	"github.com/openkms/tokend/internal/token/service"
	"github.com/openkms/tokend/internal/token/store"
	"github.com/openkms/tokend/pkg/httpx"
	"github.com/openkms/tokend/pkg/slogx"

	_ "github.com/openkms/tokend/api/tokend" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	queryTokenEnabled bool

	Authenticator *realm.Authenticator
	IssueService  *service.IssueService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	queryTokenEnabled bool,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:               http.NewServeMux(),
		buildVersion:      buildVersion,
		startTime:         time.Now(),
		store:             st,
		queryTokenEnabled: queryTokenEnabled,
		logger:            logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerTokens()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tokend Login Token Service API
//	@version		0.1.0
//	@description	Issues, extends and authenticates opaque login tokens with bounded lifetimes and usage limits.
//	@description
//	@description				Tokens are random opaque strings; no claims are embedded and possession is the only proof.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	TokenAuth
//	@in							header
//	@name						Authorization
//	@description				Login token. Format: "Token {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTokens() {
	createHandler := &LoginTokensHandler{IssueService: r.IssueService}

	// POST /login/tokens - strict rate limit by token (mints credentials)
	securedCreate := httpx.Chain(createHandler,
		TokenAuthn(r.Authenticator, r.queryTokenEnabled),
		httpx.RequirePermission("login_token:create"),
		httpx.RateLimitByToken(httpx.StrictLimit),
	)

	r.Mux.Handle("POST /v1/login/tokens", securedCreate)

	// POST /login/tokens/extend - moderate rate limit by IP. Possession of
	// the token being extended is the only credential required.
	extendHandler := &ExtendTokenHandler{IssueService: r.IssueService}
	r.Mux.Handle("POST /v1/login/tokens/extend",
		httpx.Chain(extendHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
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
