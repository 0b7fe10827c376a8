package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, deps Dependencies) (Server, error) {
	if cfg == nil {
		return Server{}, errors.New("config is required")
	}
	if deps.Connections == nil {
		return Server{}, errors.New("a connection source is required")
	}

	// Bind to 0.0.0.0 for external access
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port)

	server := &http.Server{
		Addr:         address,
		Handler:      newRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return Server{server, time.Now()}, nil
}

func newRouter(cfg *config.Config, deps Dependencies) *chi.Mux {
	if deps.Chat == nil {
		deps.Chat = services.NewChatService(nil, 0)
	}

	production := cfg.App.IsProduction()
	responder := NewResponder(log.With().Str("handlerName", "router").Logger(), production)

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors(responder))
	chiRouter.Use(PrometheusMiddleware)

	acceptedOrigins := cfg.Server.AcceptedOrigins
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins, responder))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewNotFoundError("route not found"))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, errs.ErrValidation, "method not allowed"))
	})

	handlers := initializeHandlers(deps, production)
	setupRoutes(chiRouter, handlers, routeMiddleware{
		admin:     newAdminAuthMiddleware(cfg.Auth.AdminJWTSecret, responder, log.With().Str("handlerName", "adminAuth").Logger()),
		rateLimit: newIPRateLimiter(cfg.Server.RateLimitPerMinute, cfg.Server.TrustProxyHeaders),
		responder: responder,
	})

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

// Uptime reports how long ago the server was created.
func (s Server) Uptime() time.Duration {
	return time.Since(s.startupTime)
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msgf("HttpServer gracefully shut down after %s", s.Uptime().Round(time.Second))
	}
}
