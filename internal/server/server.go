// Package server provides the HTTP server and routing for Dugout.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/config"
	"github.com/dugoutapp/dugout/internal/ledger"
	bankrollhandlers "github.com/dugoutapp/dugout/internal/modules/bankroll/handlers"
	bethandlers "github.com/dugoutapp/dugout/internal/modules/bets/handlers"
	gamehandlers "github.com/dugoutapp/dugout/internal/modules/games/handlers"
	rechandlers "github.com/dugoutapp/dugout/internal/modules/recommendations/handlers"
	"github.com/dugoutapp/dugout/internal/reliability"
)

// Config holds server configuration.
type Config struct {
	Log     zerolog.Logger
	Cfg     *config.Config
	Ledger  *ledger.Service
	Picks   rechandlers.PickGenerator
	Backups *reliability.BackupService
}

// Server is the HTTP server.
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	ledger         *ledger.Service
	gameHandlers   *gamehandlers.Handler
	systemHandlers *SystemHandlers
	startedAt      time.Time
}

// New creates the HTTP server and wires all routes.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		ledger:    cfg.Ledger,
		startedAt: time.Now(),
	}

	s.gameHandlers = gamehandlers.NewHandler(cfg.Ledger, cfg.Log)
	s.systemHandlers = NewSystemHandlers(cfg.Log, cfg.Cfg.DataDir, cfg.Backups, cfg.Ledger)

	s.setupMiddleware(cfg.Cfg.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// SetRefreshJob registers the manual odds refresh trigger (called after
// job registration).
func (s *Server) SetRefreshJob(job gamehandlers.RefreshJob) {
	s.gameHandlers.SetRefreshJob(job)
}

// Router exposes the underlying router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		s.gameHandlers.RegisterRoutes(r)

		recHandlers := rechandlers.NewHandler(cfg.Ledger, cfg.Picks, cfg.Log)
		recHandlers.RegisterRoutes(r)

		betHandlers := bethandlers.NewHandler(cfg.Ledger, cfg.Log)
		betHandlers.RegisterRoutes(r)

		bankrollHandlers := bankrollhandlers.NewHandler(cfg.Ledger, cfg.Log)
		bankrollHandlers.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/disk", s.systemHandlers.HandleDiskUsage)
			r.Get("/backups", s.systemHandlers.HandleListBackups)
			r.Post("/backup", s.systemHandlers.HandleTriggerBackup)
			r.Post("/restore", s.systemHandlers.HandleRestoreBackup)
			r.Post("/refresh", s.gameHandlers.HandleRefresh)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","uptime_seconds":%d}`, int64(time.Since(s.startedAt).Seconds()))
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
