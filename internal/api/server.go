// Package api serves the clustering engine over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/config"
	"github.com/sells-group/cluster-cli/internal/monitoring"
	"github.com/sells-group/cluster-cli/internal/registry"
	"github.com/sells-group/cluster-cli/internal/snapshot"
)

// Server wires the engine, its snapshot cache and a reference-data source
// into a chi router.
type Server struct {
	engine  *cluster.Engine
	cache   *snapshot.Cache
	source  registry.Source
	metrics *monitoring.Metrics
	cfg     config.ServerConfig
	router  chi.Router
}

// NewServer builds the router. metrics may be nil.
func NewServer(engine *cluster.Engine, cache *snapshot.Cache, source registry.Source, metrics *monitoring.Metrics, cfg config.ServerConfig) *Server {
	s := &Server{
		engine:  engine,
		cache:   cache,
		source:  source,
		metrics: metrics,
		cfg:     cfg,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(instrument(s.metrics))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(s.cfg.RateLimit), max(s.cfg.RateBurst, 1))))
		}

		r.Get("/clusters", s.handleClusters)
		r.Get("/businesses", s.handleBusinesses)
		r.Get("/businesses/{id}/recommendations", s.handleRecommendations)
		r.Get("/businesses/{id}/spaces", s.handleBusinessSpaces)
		r.Get("/spaces", s.handleSpaces)
		r.Get("/spaces/{id}/compatibility", s.handleSpaceCompatibility)
		r.Get("/analytics", s.handleAnalytics)
		r.Post("/compatibility", s.handlePairCompatibility)
	})

	return r
}

// snapshot loads the current reference data and returns its derived view.
func (s *Server) snapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	businesses, spaces, err := registry.LoadAll(ctx, s.source)
	if err != nil {
		return nil, err
	}
	s.metrics.SetReferenceData(len(businesses), len(spaces))

	snap, err := s.cache.Get(ctx, businesses, spaces)
	if err != nil {
		return nil, eris.Wrap(err, "api: compute snapshot")
	}
	return snap, nil
}
