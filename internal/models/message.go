package models

import "time"

// Message is an immutable text unit within a conversation, ordered by
// creation time (ties broken by id).
type Message struct {
	ID             int       `db:"id" json:"id"`
	ConversationID int       `db:"conversation_id" json:"conversation_id"`
	SenderID       int       `db:"sender_id" json:"sender_id"`
	ReceiverID     int       `db:"receiver_id" json:"receiver_id"`
	Body           string    `db:"body" json:"message"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
