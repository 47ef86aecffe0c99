package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ProductTable/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// ActionLimitPerMin caps POST actions per client IP; zero disables it.
	ActionLimitPerMin int
	// SessionLimitPerMin caps new sessions per client IP; zero disables it.
	SessionLimitPerMin int
	// TrustProxyHeaders takes the client IP from X-Forwarded-For and
	// friends. Only set it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(kit.Recoverer(deps.Log))
	r.Use(kit.Logging(deps.Log))

	if deps.Registry != nil {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

		deps.Registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "product_table_sessions",
				Help: "Live browser sessions",
			},
			func() float64 { return float64(s.Sessions.Len()) },
		))

		if deps.MetricsEnabled {
			r.With(kit.MetricsAuth(deps.MetricsToken)).
				Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
		}
	}

	s.sessionLimit = kit.NewIPRateLimiter(deps.SessionLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Get("/", s.handleIndex)
	r.Get("/api/table", s.handleSnapshot)

	limiter := kit.NewIPRateLimiter(deps.ActionLimitPerMin, time.Minute)
	r.Group(func(ar chi.Router) {
		ar.Use(limiter.Middleware)

		ar.Post("/search", s.action(search))
		ar.Post("/rows/{id}/toggle", s.action(toggleRow))
		ar.Post("/rows/{id}/delete", s.action(deleteRow))
		ar.Post("/select-all", s.action(selectAll))
		ar.Post("/delete-selected", s.action(deleteSelected))
		ar.Post("/page/{n}", s.action(changePage))
		ar.Post("/next", s.action(nextPage))
		ar.Post("/prev", s.action(previousPage))
		ar.Post("/reload", s.action(reload))
	})

	return r
}
