package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"linkup-service/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

const conversationColumns = `id, user1_id, user2_id, created_at, updated_at`

// ConversationRepository maps an unordered user pair to exactly one
// conversation.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, userA, userB int) (models.Conversation, error)
	GetByID(ctx context.Context, conversationID int) (models.Conversation, error)
	GetByParticipants(ctx context.Context, userA, userB int) (models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetOrCreate returns the pair's conversation, creating it if absent. The
// upsert over the sorted pair is atomic, so concurrent calls for the same
// pair converge on a single row.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, userA, userB int) (models.Conversation, error) {
	if userA == userB {
		return models.Conversation{}, errors.New("cannot open a conversation with self")
	}
	user1, user2 := sortPair(userA, userB)

	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`INSERT INTO conversations (user1_id, user2_id) VALUES ($1, $2)
         ON CONFLICT (user1_id, user2_id) DO UPDATE SET user1_id = EXCLUDED.user1_id
         RETURNING `+conversationColumns,
		user1, user2)
	return conv, err
}

// GetByID fetches a conversation by id.
func (r *ConversationRepo) GetByID(ctx context.Context, conversationID int) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// GetByParticipants fetches the conversation for an unordered pair.
func (r *ConversationRepo) GetByParticipants(ctx context.Context, userA, userB int) (models.Conversation, error) {
	user1, user2 := sortPair(userA, userB)
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT `+conversationColumns+` FROM conversations WHERE user1_id=$1 AND user2_id=$2`,
		user1, user2)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

func sortPair(a, b int) (int, int) {
	pair := []int{a, b}
	sort.Ints(pair)
	return pair[0], pair[1]
}
