package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pixelgram-backend/internal/apperr"
	"pixelgram-backend/internal/models"

	"github.com/google/uuid"
)

// MessageService handles one-to-one conversations
type MessageService struct {
	users         UserStore
	conversations ConversationStore
	notifier      NotificationSink
}

// NewMessageService creates a new message service
func NewMessageService(users UserStore, conversations ConversationStore, notifier NotificationSink) *MessageService {
	return &MessageService{
		users:         users,
		conversations: conversations,
		notifier:      notifier,
	}
}

// SendMessage appends a message to the conversation between sender and
// receiver, creating the conversation on first contact. The participant
// pair is unordered: A→B and B→A share one conversation.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.New(apperr.Validation, "message text is required")
	}
	if senderID == receiverID {
		return nil, apperr.New(apperr.Validation, "you cannot message yourself")
	}

	for _, id := range []string{senderID, receiverID} {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		CreatedAt:  time.Now(),
	}

	if err := s.conversations.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	if sender, err := s.users.GetByID(ctx, senderID); err == nil {
		s.notifier.Notify(Event{
			RecipientID: receiverID,
			Type:        "message",
			UserID:      senderID,
			UserDetails: sender.Summary(),
			Message:     fmt.Sprintf("%s sent you a message", sender.Username),
		})
	}
	return msg, nil
}

// GetMessages returns the thread between two users, oldest first. A
// thread that has not started is an empty slice, not an error.
func (s *MessageService) GetMessages(ctx context.Context, userID, peerID string) ([]*models.Message, error) {
	return s.conversations.MessagesBetween(ctx, userID, peerID)
}
