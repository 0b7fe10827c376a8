package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

const notifyTimeout = 30 * time.Second

type contactHandler struct {
	responder   Responder
	logger      zerolog.Logger
	connections ConnectionSource
	notifier    services.ContactNotifier
}

func newContactHandler(connections ConnectionSource, notifier services.ContactNotifier, production bool) contactHandler {
	logger := handlerLogger("contactHandler")

	return contactHandler{
		responder:   NewResponder(logger, production),
		logger:      logger,
		connections: connections,
		notifier:    notifier,
	}
}

// createContactMessage stores a contact form submission
// @Summary Submit contact form
// @Description Stores a contact message and notifies the site owner in the background
// @Tags Contact
// @Accept json
// @Produce json
// @Success 201 {object} CreatedResponse "Identifier of the stored message"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing field"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Configuration or database error"
// @Router /api/contact [post]
func (h contactHandler) createContactMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseContactRequest(decodeBody(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		backend, err := acquireBackend(r.Context(), h.connections)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg := models.NewContactMessage(req.Name, req.Email, req.Subject, req.Message)
		id, err := backend.ContactMessages().Add(r.Context(), &msg)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("insert", "contact message", err))
			return
		}

		metrics.ContactMessagesTotal.Inc()
		h.notify(msg)

		h.responder.WriteJSON(w, http.StatusCreated, CreatedResponse{OK: true, ID: id})
	}
}

// notify runs detached from the request; failures are only logged.
func (h contactHandler) notify(msg models.ContactMessage) {
	if h.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := h.notifier.NotifyContact(ctx, msg); err != nil {
			metrics.ContactNotificationErrors.Inc()
			h.logger.Warn().Err(err).Str("contactMessageId", msg.ID).Msg("Failed to notify about contact message")
		}
	}()
}
