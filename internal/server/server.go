package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/svcmap/pkg/buildinfo"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/pipeline"
)

// maxBodyBytes bounds request bodies; snapshots of large clusters stay far
// below it.
const maxBodyBytes = 16 << 20

// Config configures a Server.
type Config struct {
	Addr    string
	Layout  layout.Config
	ViewTTL time.Duration
}

// Server serves the layout API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	views  *Views
	logger *log.Logger
	router chi.Router
}

// New creates a server. Frames of stateless requests are cached through
// runner.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if cfg.Layout == (layout.Config{}) {
		cfg.Layout = layout.DefaultConfig()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		views:  NewViews(cfg.Layout, cfg.ViewTTL, logger),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)

		r.Post("/views", s.handleCreateView)
		r.Route("/views/{id}", func(r chi.Router) {
			r.Put("/topology", s.handleSetTopology)
			r.Post("/measurements", s.handleMeasurements)
			r.Get("/frame", s.handleFrame)
			r.Get("/svg", s.handleSVG)
			r.Get("/stats", s.handleStats)
			r.Delete("/", s.handleDeleteView)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Views returns the view registry.
func (s *Server) Views() *Views { return s.views }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.views.RunCleanup(cleanupCtx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
