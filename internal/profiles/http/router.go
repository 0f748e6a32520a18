package http

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/profiles/api/profiles" // Swagger docs
	"github.com/aussiebroadwan/profiles/internal/profiles/identity"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	notFound    http.Handler

	verifier     identity.Verifier
	table        store.Table
	metrics      *Metrics
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	ProfileService *service.ProfileService
}

func NewRouter(
	verifier identity.Verifier,
	table store.Table,
	metrics *Metrics,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		table:        table,
		metrics:      metrics,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Global chain, outermost first. Preflight is answered by CORS before
	// any authentication happens.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(httpx.CORSConfig{
			AllowOrigin:  "*",
			AllowHeaders: []string{"Content-Type", "Authorization"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			Preflight:    http.HandlerFunc(handlePreflight),
		}),
	}
	if r.metrics != nil {
		r.middlewares = append(r.middlewares, r.metrics.Middleware)
	}
	r.middlewares = append(r.middlewares,
		httpx.Recover(http.HandlerFunc(handlePanic)),
	)

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Profiles Service API
//	@version		0.1.0
//	@description	Stores one profile per Firebase identity. Every /users call is authenticated with a Firebase ID token;
//	@description	the profile key is the token's verified uid, so callers can only read and change their own profile.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/profiles
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
//	@description				Firebase ID token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(http.HandlerFunc(r.dispatch), r.middlewares...).ServeHTTP(w, req)
}

// dispatch sends unclean paths to the authenticated not-found handler. The
// mux would answer them with a redirect before any credential is checked.
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if r.notFound != nil && !isCleanPath(req.URL.Path) {
		r.notFound.ServeHTTP(w, req)
		return
	}
	r.Mux.ServeHTTP(w, req)
}

// isCleanPath matches the canonical form ServeMux redirects to. A trailing
// slash is kept.
func isCleanPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	clean := path.Clean(p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	return clean == p
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Profiles: r.ProfileService}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			Authn(r.verifier), // verify Firebase ID token
			httpx.JSONBody(http.HandlerFunc(handleInvalidJSON)),
		)
	}

	r.Mux.Handle("POST /users", secured(h.HandleCreate))
	r.Mux.Handle("GET /users/me", secured(h.HandleGet))
	r.Mux.Handle("PUT /users/me", secured(h.HandleUpdate))

	// Anything else is still authenticated and parsed before being
	// reported as an unknown route.
	r.notFound = secured(HandleNotFound)
	r.Mux.Handle("/", r.notFound)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	keys, _ := r.verifier.(KeyStatus)
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.table, keys))

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}

func handlePreflight(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, profilesdk.PreflightResponse{OK: true})
}

func handleInvalidJSON(w http.ResponseWriter, r *http.Request) {
	profilesdk.ErrInvalidJSON.WriteError(w)
}

func handlePanic(w http.ResponseWriter, r *http.Request) {
	profilesdk.ErrInternal.WriteError(w)
}
