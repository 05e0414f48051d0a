package handlers

import (
	"encoding/json"
	"net/http"

	"pixelgram-backend/internal/middleware"
	"pixelgram-backend/internal/models"
	"pixelgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles direct-message HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest is the body for POST /message/{receiver_id}
type SendMessageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	envelope
	NewMessage *models.Message `json:"new_message,omitempty"`
}

type messagesResponse struct {
	envelope
	Messages []*models.Message `json:"messages"`
}

// Send handles POST /api/v1/message/{receiver_id}
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	senderID := middleware.GetUserID(ctx)
	receiverID := chi.URLParam(r, "receiver_id")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: "validation"})
		return
	}

	msg, err := h.messageService.SendMessage(ctx, senderID, receiverID, req.Message)
	if err != nil {
		log.Error().
			Err(err).
			Str("sender_id", senderID).
			Str("receiver_id", receiverID).
			Msg("Failed to send message")
		respondError(w, err)
		return
	}

	log.Info().
		Str("sender_id", senderID).
		Str("receiver_id", receiverID).
		Str("message_id", msg.ID).
		Msg("Message sent")

	respondJSON(w, http.StatusOK, messageResponse{
		envelope:   ok("message sent successfully"),
		NewMessage: msg,
	})
}

// Get handles GET /api/v1/message/{receiver_id}. A thread that has not
// started yields an empty list with success.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	peerID := chi.URLParam(r, "receiver_id")

	messages, err := h.messageService.GetMessages(ctx, userID, peerID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("peer_id", peerID).
			Msg("Failed to get messages")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messagesResponse{
		envelope: ok("messages fetched"),
		Messages: messages,
	})
}
