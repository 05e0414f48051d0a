package repository

import (
	"context"
	"fmt"
	"time"

	"pixelgram-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository handles database operations for conversations
// and their messages
type ConversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CanonicalPair orders two participant ids so an unordered pair always
// maps to the same (user_a, user_b) tuple.
func CanonicalPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// AddMessage stores a message and attaches it to the conversation for
// the sender/receiver pair, creating the conversation if the pair has
// never talked. Both writes run in one transaction, so the conversation
// can never reference a message that failed to persist.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	userA, userB := CanonicalPair(msg.SenderID, msg.ReceiverID)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin message write: %w", err)
	}
	defer tx.Rollback(ctx)

	// Upsert the conversation for the pair. The DO UPDATE branch is a
	// no-op write that lets RETURNING yield the existing row's id.
	query := `
		INSERT INTO conversations (id, user_a_id, user_b_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_a_id, user_b_id)
		DO UPDATE SET user_a_id = EXCLUDED.user_a_id
		RETURNING id
	`
	err = tx.QueryRow(ctx, query, uuid.New().String(), userA, userB, time.Now()).
		Scan(&msg.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to find or create conversation: %w", err)
	}

	query = `
		INSERT INTO messages (id, conversation_id, sender_id, receiver_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.Exec(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.Body, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit message write: %w", err)
	}
	return nil
}

// MessagesBetween retrieves the thread for an unordered participant
// pair, oldest first. A pair that has never talked yields an empty
// slice, not an error.
func (r *ConversationRepository) MessagesBetween(ctx context.Context, a, b string) ([]*models.Message, error) {
	userA, userB := CanonicalPair(a, b)
	query := `
		SELECT m.id, m.conversation_id, m.sender_id, m.receiver_id, m.body, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE c.user_a_id = $1 AND c.user_b_id = $2
		ORDER BY m.created_at, m.id
	`
	rows, err := r.db.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var m models.Message
		err := rows.Scan(
			&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}
