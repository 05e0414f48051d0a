package services

import (
	"context"
	"time"

	"pixelgram-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Event is a best-effort notification delivered to a single recipient.
type Event struct {
	RecipientID string              `json:"-"`
	Type        string              `json:"type"` // like, follow, message
	UserID      string              `json:"user_id"`
	UserDetails *models.UserSummary `json:"user_details,omitempty"`
	PostID      string              `json:"post_id,omitempty"`
	Message     string              `json:"message"`
}

// NotificationSink is the one-way delivery capability the domain
// services depend on. Delivery is fire-and-forget: a sink never blocks
// its caller and its outcome never fails the triggering operation.
type NotificationSink interface {
	Notify(event Event)
}

// Pusher delivers a push notification to a device.
type Pusher interface {
	Push(deviceToken, title, body string) error
}

// Notifier delivers events over the recipient's live websocket session
// and falls back to push when the recipient is offline but has a
// registered device token.
type Notifier struct {
	hub    *Hub
	pusher Pusher // nil when push is not configured
	users  UserStore
}

// NewNotifier creates a notifier
func NewNotifier(hub *Hub, pusher Pusher, users UserStore) *Notifier {
	return &Notifier{
		hub:    hub,
		pusher: pusher,
		users:  users,
	}
}

// Notify delivers the event asynchronously. There is no persisted
// retry queue; failures are logged and dropped.
func (n *Notifier) Notify(event Event) {
	go n.deliver(event)
}

func (n *Notifier) deliver(event Event) {
	if n.hub.IsOnline(event.RecipientID) {
		msg := WSMessage{Type: "notification", Data: event}
		err := n.hub.SendToUser(event.RecipientID, msg)
		if err == nil {
			return
		}
		log.Warn().
			Err(err).
			Str("recipient_id", event.RecipientID).
			Str("type", event.Type).
			Msg("Failed to deliver notification over websocket")
	}

	if n.pusher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipient, err := n.users.GetByID(ctx, event.RecipientID)
	if err != nil || recipient.PushToken == nil {
		return
	}

	if err := n.pusher.Push(*recipient.PushToken, "Pixelgram", event.Message); err != nil {
		log.Warn().
			Err(err).
			Str("recipient_id", event.RecipientID).
			Str("type", event.Type).
			Msg("Failed to deliver push notification")
	}
}
