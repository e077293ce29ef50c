package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/cryptostarter/cryptostarter/internal/auth"
	"github.com/cryptostarter/cryptostarter/internal/config"
	"github.com/cryptostarter/cryptostarter/internal/httputil"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/preregister"
	"github.com/cryptostarter/cryptostarter/internal/project"
	"github.com/cryptostarter/cryptostarter/internal/user"
	"github.com/cryptostarter/cryptostarter/internal/web"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	User           *user.Handler
	Project        *project.Handler
	PreRegister    *preregister.Handler
	Web            *web.Handler
	Metrics        prometheus.Gatherer
}

var publicPages = []string{"about", "login", "project", "register", "registerProject", "restorePass", "term"}

var protectedPages = []string{"profile", "projectConstructor"}

// Static aliases kept from old links and press kits
var staticAliases = map[string][]string{
	"docs/whitepaper.pdf": {"/whitepaper", "/wp", "/whitepaper/whitepaper.pdf", "/docs/whitepaper.pdf"},
	"img/logo/origin.png": {"/logo", "/presskit/logo", "/artassets/logo", "/cslogo.png", "/logo.png"},
	"img/logo/origin.svg": {"/svglogo", "/presskit/svglogo", "/artassets/svglogo", "/cslogo.svg", "/logo.svg"},
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, localeCodes []string, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses
	r.Use(h.AuthMiddleware.LoadSession)  // Current user, if any

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.Metrics, promhttp.HandlerOpts{}))

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.Post("/pre-register", h.PreRegister.PreRegister)
		r.Get("/projects", h.Project.List)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAPI)
			r.Get("/user", h.User.Get)
			r.Post("/user", h.User.Update)
		})
	})

	// Pages
	r.Get("/", h.Web.Page(web.PageIndex))
	for _, name := range publicPages {
		r.Get("/"+name, h.Web.Page(name))
	}
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware.RequirePage)
		for _, name := range protectedPages {
			r.Get("/"+name, h.Web.Page(name))
		}
	})
	for _, code := range localeCodes {
		r.Get("/"+code, h.Web.Landing(code))
	}

	// Static files
	for file, paths := range staticAliases {
		serve := web.StaticFile(cfg.Site.PublicDir, file)
		for _, p := range paths {
			r.Get(p, serve)
		}
	}
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.Site.PublicDir))))

	r.NotFound(h.Web.NotFound)

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
