package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type routeMiddleware struct {
	admin     adminAuthMiddleware
	rateLimit *ipRateLimiter
	responder Responder
}

// setupRoutes mounts the JSON API under /api and the metrics endpoint
func setupRoutes(r chi.Router, handlers *routeHandlers, mw routeMiddleware) {
	limited := rateLimitByIP(mw.rateLimit, mw.responder)

	r.Route("/api", func(r chi.Router) {
		r.Use(HTTPLoggingMiddleware(log.Logger))

		r.With(limited).Post("/chat", handlers.chatHandler.reply())
		r.With(limited).Post("/contact", handlers.contactHandler.createContactMessage())

		r.Get("/health/db", handlers.healthHandler.checkDatabase())

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.With(mw.admin.authenticate).Post("/projects", handlers.projectHandler.createProject())
		r.With(mw.admin.authenticate).Patch("/projects", handlers.projectHandler.updateProject())
	})

	r.Handle("/metrics", promhttp.Handler())
}
