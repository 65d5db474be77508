package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dreschagin/k8s-orchestration-demo/internal/interfaces/http/handler"
	"github.com/dreschagin/k8s-orchestration-demo/internal/interfaces/http/middleware"
	"github.com/dreschagin/k8s-orchestration-demo/internal/metrics"
	"github.com/dreschagin/k8s-orchestration-demo/pkg/config"
	"github.com/dreschagin/k8s-orchestration-demo/pkg/logger"
)

const (
	// StaticPrefix is the URL prefix static assets are served under.
	StaticPrefix = "/static/"

	healthPath = "/health"
)

// Router настраивает маршруты приложения
type Router struct {
	router        *mux.Router
	pageHandler   *handler.PageHandler
	healthHandler *handler.HealthHandler
	staticHandler *handler.StaticHandler
	compression   config.CompressionConfig
	rateLimit     config.RateLimitConfig
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// NewRouter создает новый router (metrics может быть nil)
func NewRouter(
	pageHandler *handler.PageHandler,
	healthHandler *handler.HealthHandler,
	staticHandler *handler.StaticHandler,
	compression config.CompressionConfig,
	rateLimit config.RateLimitConfig,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		router:        mux.NewRouter(),
		pageHandler:   pageHandler,
		healthHandler: healthHandler,
		staticHandler: staticHandler,
		compression:   compression,
		rateLimit:     rateLimit,
		metrics:       metrics,
		logger:        logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Paths reach handlers as sent; the static handler rejects traversal itself
	// instead of the router redirecting to the cleaned location.
	rt.router.SkipClean(true)

	rt.router.HandleFunc("/", rt.pageHandler.ShowIndex).Methods(http.MethodGet, http.MethodHead)

	// Liveness check, never rate limited.
	rt.router.HandleFunc(healthPath, rt.healthHandler.Health).Methods(http.MethodGet, http.MethodHead)

	rt.router.PathPrefix(StaticPrefix).Handler(rt.staticHandler).Methods(http.MethodGet, http.MethodHead)

	rt.router.NotFoundHandler = http.HandlerFunc(http.NotFound)
	rt.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Applied inside out: the last wrapper runs first.
	var h http.Handler = rt.router
	if rt.compression.Enabled {
		h = middleware.Compression(h)
	}
	if rt.rateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(
			rt.rateLimit.RPS, rt.rateLimit.Burst,
			rt.rateLimit.GlobalRPS, rt.rateLimit.GlobalBurst,
		)
		h = middleware.RateLimit(limiter, rt.metrics.RateLimited, healthPath)(h)
	}
	h = rt.metrics.Middleware(h)
	h = middleware.Logger(rt.logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(rt.logger)(h)

	return h
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
