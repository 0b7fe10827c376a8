package api

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/services"
)

// ConnectionSource hands out the shared database backend.
// *database.ConnectionCache implements it.
type ConnectionSource interface {
	RequireConfigured() error
	Get(ctx context.Context) (database.Backend, error)
	State() database.State
}

type ChatReplier interface {
	Reply(ctx context.Context, message string) services.ChatReply
}

// Dependencies are the collaborators the handlers need. Notifier may be nil.
type Dependencies struct {
	Connections ConnectionSource
	Chat        ChatReplier
	Notifier    services.ContactNotifier
}

// acquireBackend checks configuration before touching the connection cache.
func acquireBackend(ctx context.Context, connections ConnectionSource) (database.Backend, error) {
	if err := connections.RequireConfigured(); err != nil {
		return nil, err
	}
	return connections.Get(ctx)
}

func handlerLogger(name string) zerolog.Logger {
	return log.With().Str("handlerName", name).Logger()
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, production bool) *routeHandlers {
	return &routeHandlers{
		contactHandler: newContactHandler(deps.Connections, deps.Notifier, production),
		projectHandler: newProjectHandler(deps.Connections, production),
		chatHandler:    newChatHandler(deps.Chat, production),
		healthHandler:  newHealthHandler(deps.Connections, production),
	}
}
