package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"linkup-service/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("email or username already in use")
)

const userColumns = `id, full_name, username, email, password_hash, gender, avatar, bio, location, skills, created_at, updated_at`

const publicColumns = `id, full_name, username, avatar, bio, location, skills`

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	FullName *string
	Avatar   *string
	Bio      *string
	Location *string
	Skills   []string
}

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	PublicByIDs(ctx context.Context, ids []int) ([]models.PublicProfile, error)
	Search(ctx context.Context, term string, excludeID int) ([]models.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) (models.User, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	var created models.User
	err := r.db.GetContext(ctx, &created,
		`INSERT INTO users (full_name, username, email, password_hash, gender, avatar, bio, location, skills)
         VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'default-avatar.png'), $7, $8, $9)
         RETURNING `+userColumns,
		user.FullName, user.Username, user.Email, user.PasswordHash, user.Gender,
		user.Avatar, user.Bio, user.Location, pq.StringArray(user.Skills))
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateUser
	}
	return created, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByEmail fetches a user by email, including the password hash.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=LOWER($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// PublicByIDs returns public projections for the given ids.
func (r *UserRepo) PublicByIDs(ctx context.Context, ids []int) ([]models.PublicProfile, error) {
	if len(ids) == 0 {
		return []models.PublicProfile{}, nil
	}
	var users []models.PublicProfile
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+publicColumns+` FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return users, err
}

// Search finds users whose username or full name contains the term,
// excluding the caller. The term is bound as a parameter, never spliced.
func (r *UserRepo) Search(ctx context.Context, term string, excludeID int) ([]models.PublicProfile, error) {
	var users []models.PublicProfile
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+publicColumns+` FROM users
         WHERE (username ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%')
         AND id <> $2
         ORDER BY username`,
		term, excludeID)
	return users, err
}

// UpdateProfile applies the non-nil fields and returns the updated user.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) (models.User, error) {
	var skills interface{}
	if update.Skills != nil {
		skills = pq.StringArray(update.Skills)
	}
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`UPDATE users SET
            full_name = COALESCE($2, full_name),
            avatar    = COALESCE($3, avatar),
            bio       = COALESCE($4, bio),
            location  = COALESCE($5, location),
            skills    = COALESCE($6, skills),
            updated_at = NOW()
         WHERE id=$1
         RETURNING `+userColumns,
		userID, update.FullName, update.Avatar, update.Bio, update.Location, skills)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
