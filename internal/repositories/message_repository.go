package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"linkup-service/internal/models"
)

// MessageRepository defines interactions for conversation messages.
// Messages are append-only.
type MessageRepository interface {
	Create(ctx context.Context, conversationID, senderID, receiverID int, body string) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create appends a message to a conversation.
func (r *MessageRepo) Create(ctx context.Context, conversationID, senderID, receiverID int, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`INSERT INTO messages (conversation_id, sender_id, receiver_id, body)
         VALUES ($1, $2, $3, $4)
         RETURNING id, conversation_id, sender_id, receiver_id, body, created_at`,
		conversationID, senderID, receiverID, body)
	return msg, err
}

// ListByConversation returns a conversation's messages in ascending creation
// order, ties broken by insertion order.
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, conversation_id, sender_id, receiver_id, body, created_at
         FROM messages
         WHERE conversation_id=$1
         ORDER BY created_at ASC, id ASC`,
		conversationID)
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, err
}
