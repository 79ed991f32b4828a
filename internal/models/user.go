// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered member of the forum.
//
// Username doubles as the public display name. Email and username are
// normalized (trimmed, email lowercased) before they reach the store, so the
// unique indexes operate on canonical values.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:80;uniqueIndex;not null" json:"name"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
}

// PublicUser is the projection of a user safe to show to other members.
type PublicUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Username,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}
