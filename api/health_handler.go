package api

import (
	"net/http"

	"github.com/rs/zerolog"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	connections ConnectionSource
}

func newHealthHandler(connections ConnectionSource, production bool) healthHandler {
	logger := handlerLogger("healthHandler")

	return healthHandler{
		responder:   NewResponder(logger, production),
		logger:      logger,
		connections: connections,
	}
}

// checkDatabase reports the state of the shared database connection
// @Summary Database health
// @Description Connects if needed, pings the database and reports the connection state
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Connection state"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Configuration or database error"
// @Router /api/health/db [get]
func (h healthHandler) checkDatabase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		backend, err := acquireBackend(r.Context(), h.connections)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := backend.Ping(r.Context()); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("ping", "database", err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, HealthResponse{
			OK:     true,
			Status: h.connections.State().String(),
		})
	}
}
