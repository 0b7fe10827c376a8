package api

import (
	"net/http"

	"github.com/rs/zerolog"
)

type chatHandler struct {
	responder Responder
	logger    zerolog.Logger
	chat      ChatReplier
}

func newChatHandler(chat ChatReplier, production bool) chatHandler {
	logger := handlerLogger("chatHandler")

	return chatHandler{
		responder: NewResponder(logger, production),
		logger:    logger,
		chat:      chat,
	}
}

// reply answers a chat message. It does not fail once the message is valid.
// @Summary Chat
// @Description Replies to a visitor message using the configured text generator or a canned reply
// @Tags Chat
// @Accept json
// @Produce json
// @Success 200 {object} ChatResponse "Reply text"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing message"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /api/chat [post]
func (h chatHandler) reply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message, err := parseChatRequest(decodeBody(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		reply := h.chat.Reply(r.Context(), message)
		h.logger.Debug().Str("source", reply.Source).Msg("Chat reply")

		h.responder.WriteJSON(w, http.StatusOK, ChatResponse{OK: true, Reply: reply.Text})
	}
}
