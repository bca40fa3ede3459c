package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"linkup-service/internal/models"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists or pending")
)

const connectionColumns = `id, requester_id, recipient_id, status, message, created_at, updated_at`

// ConnectionRepository owns the lifecycle of pairwise connections. All
// mutation of the connections table goes through it so the one-row-per-pair
// and terminal-state invariants hold at a single choke point.
type ConnectionRepository interface {
	Create(ctx context.Context, requesterID, recipientID int, message string) (models.Connection, error)
	GetBetween(ctx context.Context, userA, userB int) (models.Connection, error)
	ListIncoming(ctx context.Context, userID int) ([]models.PendingRequest, error)
	ListOutgoing(ctx context.Context, userID int) ([]models.PendingRequest, error)
	Respond(ctx context.Context, connectionID, responderID int, status string) (models.Connection, error)
	ListAccepted(ctx context.Context, userID int) ([]models.AcceptedConnection, error)
	IsConnected(ctx context.Context, userA, userB int) (bool, error)
	Remove(ctx context.Context, connectionID, userID int) (models.Connection, error)
}

// ConnectionRepo is a sqlx implementation of ConnectionRepository.
type ConnectionRepo struct {
	db *sqlx.DB
}

// NewConnectionRepo constructs a ConnectionRepo.
func NewConnectionRepo(db *sqlx.DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

// Create inserts a pending connection. The unique index over the normalized
// pair rejects a second request between the same two users, in either
// direction and any status, including under concurrent requests.
func (r *ConnectionRepo) Create(ctx context.Context, requesterID, recipientID int, message string) (models.Connection, error) {
	var conn models.Connection
	err := r.db.GetContext(ctx, &conn,
		`INSERT INTO connections (requester_id, recipient_id, status, message)
         VALUES ($1, $2, 'pending', $3)
         RETURNING `+connectionColumns,
		requesterID, recipientID, message)
	if isUniqueViolation(err) {
		return models.Connection{}, ErrConnectionExists
	}
	return conn, err
}

// GetBetween fetches the connection for an unordered pair, whatever its
// direction or status.
func (r *ConnectionRepo) GetBetween(ctx context.Context, userA, userB int) (models.Connection, error) {
	var conn models.Connection
	err := r.db.GetContext(ctx, &conn,
		`SELECT `+connectionColumns+` FROM connections
         WHERE (requester_id=$1 AND recipient_id=$2) OR (requester_id=$2 AND recipient_id=$1)`,
		userA, userB)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Connection{}, ErrConnectionNotFound
	}
	return conn, err
}

// ListIncoming returns pending requests addressed to the user, expanded with
// the requester's public profile.
func (r *ConnectionRepo) ListIncoming(ctx context.Context, userID int) ([]models.PendingRequest, error) {
	return r.listPending(ctx,
		`SELECT c.id, c.status, c.message, c.created_at,
                u.id AS "user.id", u.full_name AS "user.full_name", u.username AS "user.username",
                u.avatar AS "user.avatar", u.bio AS "user.bio", u.location AS "user.location",
                u.skills AS "user.skills"
         FROM connections c
         JOIN users u ON u.id = c.requester_id
         WHERE c.recipient_id=$1 AND c.status='pending'
         ORDER BY c.created_at DESC`, userID)
}

// ListOutgoing returns pending requests the user has sent, expanded with the
// recipient's public profile.
func (r *ConnectionRepo) ListOutgoing(ctx context.Context, userID int) ([]models.PendingRequest, error) {
	return r.listPending(ctx,
		`SELECT c.id, c.status, c.message, c.created_at,
                u.id AS "user.id", u.full_name AS "user.full_name", u.username AS "user.username",
                u.avatar AS "user.avatar", u.bio AS "user.bio", u.location AS "user.location",
                u.skills AS "user.skills"
         FROM connections c
         JOIN users u ON u.id = c.recipient_id
         WHERE c.requester_id=$1 AND c.status='pending'
         ORDER BY c.created_at DESC`, userID)
}

func (r *ConnectionRepo) listPending(ctx context.Context, query string, userID int) ([]models.PendingRequest, error) {
	var requests []models.PendingRequest
	err := r.db.SelectContext(ctx, &requests, query, userID)
	if requests == nil {
		requests = []models.PendingRequest{}
	}
	return requests, err
}

// Respond decides a pending request. The conditional update succeeds only
// while the row is still pending and the responder is its recipient, so a
// concurrent second respond finds zero rows and reports not found.
func (r *ConnectionRepo) Respond(ctx context.Context, connectionID, responderID int, status string) (models.Connection, error) {
	var conn models.Connection
	err := r.db.GetContext(ctx, &conn,
		`UPDATE connections SET status=$3, updated_at=NOW()
         WHERE id=$1 AND recipient_id=$2 AND status='pending'
         RETURNING `+connectionColumns,
		connectionID, responderID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Connection{}, ErrConnectionNotFound
	}
	return conn, err
}

// ListAccepted returns the user's accepted connections projected to the
// other party, with the acceptance time.
func (r *ConnectionRepo) ListAccepted(ctx context.Context, userID int) ([]models.AcceptedConnection, error) {
	var connections []models.AcceptedConnection
	err := r.db.SelectContext(ctx, &connections,
		`SELECT c.id, c.updated_at AS connected_at,
                u.id AS "user.id", u.full_name AS "user.full_name", u.username AS "user.username",
                u.avatar AS "user.avatar", u.bio AS "user.bio", u.location AS "user.location",
                u.skills AS "user.skills"
         FROM connections c
         JOIN users u ON u.id = CASE WHEN c.requester_id=$1 THEN c.recipient_id ELSE c.requester_id END
         WHERE (c.requester_id=$1 OR c.recipient_id=$1) AND c.status='accepted'
         ORDER BY c.updated_at DESC`, userID)
	if connections == nil {
		connections = []models.AcceptedConnection{}
	}
	return connections, err
}

// IsConnected reports whether an accepted connection exists between the
// unordered pair. This predicate is the messaging gate.
func (r *ConnectionRepo) IsConnected(ctx context.Context, userA, userB int) (bool, error) {
	var connected bool
	err := r.db.GetContext(ctx, &connected,
		`SELECT EXISTS(
            SELECT 1 FROM connections
            WHERE ((requester_id=$1 AND recipient_id=$2) OR (requester_id=$2 AND recipient_id=$1))
            AND status='accepted'
         )`, userA, userB)
	return connected, err
}

// Remove deletes an accepted connection the user is party to and returns
// the deleted record. Pending and rejected rows cannot be removed.
func (r *ConnectionRepo) Remove(ctx context.Context, connectionID, userID int) (models.Connection, error) {
	var conn models.Connection
	err := r.db.GetContext(ctx, &conn,
		`DELETE FROM connections
         WHERE id=$1 AND status='accepted' AND (requester_id=$2 OR recipient_id=$2)
         RETURNING `+connectionColumns,
		connectionID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Connection{}, ErrConnectionNotFound
	}
	return conn, err
}
