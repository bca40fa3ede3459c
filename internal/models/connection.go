package models

import "time"

// Connection statuses. A connection starts pending and is decided exactly
// once by the recipient; accepted and rejected are terminal.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is a directed connection request between two users.
type Connection struct {
	ID          int       `db:"id" json:"id"`
	RequesterID int       `db:"requester_id" json:"requester_id"`
	RecipientID int       `db:"recipient_id" json:"recipient_id"`
	Status      string    `db:"status" json:"status"`
	Message     string    `db:"message" json:"message"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PendingRequest is a pending connection expanded with the counterparty's
// public profile: the requester for incoming lists, the recipient for sent.
type PendingRequest struct {
	ID        int           `db:"id" json:"id"`
	Status    string        `db:"status" json:"status"`
	Message   string        `db:"message" json:"message"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	User      PublicProfile `db:"user" json:"user"`
}

// AcceptedConnection projects an accepted connection to "the other user"
// plus the moment the request was accepted.
type AcceptedConnection struct {
	ID          int           `db:"id" json:"id"`
	User        PublicProfile `db:"user" json:"user"`
	ConnectedAt time.Time     `db:"connected_at" json:"connected_at"`
}
