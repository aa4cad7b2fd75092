package rest

import (
	"context"
	"fmt"
	core_port "listing-site/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Server - REST API сайта объявлений
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает роутер; вынесен отдельно, чтобы тесты гоняли его через httptest
func NewRouter(cfg ServerConfig, handler *ListingSiteHandler, sessions *SessionManager, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", handler.Login)
			r.Post("/logout", handler.Logout)
			r.Get("/me", handler.CurrentUser)
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", handler.InitializeListing)
			r.Post("/search", handler.Search)
			r.Post("/more", handler.LoadMore)
			r.Get("/state", handler.ListingState)
			r.Get("/map", handler.MapView)
			r.Put("/scroll", handler.SaveScroll)
			r.Get("/scroll", handler.RestoreScroll)
		})

		r.Get("/filters", handler.GetFilters)
		r.Put("/filters", handler.PutFilters)
		r.Get("/properties/{propertyID}", handler.GetProperty)
		r.Get("/search/suggestions", handler.Suggestions)
	})

	return r
}

func NewServer(cfg ServerConfig, handler *ListingSiteHandler, sessions *SessionManager, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, handler, sessions, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start блокируется до остановки сервера
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
