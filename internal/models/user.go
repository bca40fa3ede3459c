package models

import (
	"time"

	"github.com/lib/pq"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int            `db:"id" json:"id"`
	FullName     string         `db:"full_name" json:"full_name"`
	Username     string         `db:"username" json:"username"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Gender       string         `db:"gender" json:"gender,omitempty"`
	Avatar       string         `db:"avatar" json:"avatar"`
	Bio          string         `db:"bio" json:"bio,omitempty"`
	Location     string         `db:"location" json:"location,omitempty"`
	Skills       pq.StringArray `db:"skills" json:"skills"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// PublicProfile is the projection of a user shown to other users.
type PublicProfile struct {
	ID       int            `db:"id" json:"id"`
	FullName string         `db:"full_name" json:"full_name"`
	Username string         `db:"username" json:"username"`
	Avatar   string         `db:"avatar" json:"avatar"`
	Bio      string         `db:"bio" json:"bio,omitempty"`
	Location string         `db:"location" json:"location,omitempty"`
	Skills   pq.StringArray `db:"skills" json:"skills"`
}

// Public returns the user's public projection.
func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		FullName: u.FullName,
		Username: u.Username,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		Location: u.Location,
		Skills:   u.Skills,
	}
}
