// Package domain defines the persistence models for users and posts.
// These types are mapped with GORM and form the core data layer of the
// posting application.
package domain

import (
	"time"
)

// User represents a registered account. The email doubles as the login
// handle and is unique across the table. Only the bcrypt hash of the
// password is ever stored.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique, indexed login handle (stored lowercase).
//   - PasswordHash: bcrypt digest; never serialized to JSON.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID           string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"     gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Post represents a short text entry owned by a single user. Posts are
// immutable after creation; the only mutation is deletion by the owner.
//
// Fields:
//   - ID: UUID primary key (char(36)), assigned by the store.
//   - Text: non-empty post content.
//   - OwnerID: foreign key to the owning user (indexed). A post never
//     outlives its owner; account deletion removes owned posts in the
//     same transaction (see repo.DeleteUser).
//   - CreatedAt: insertion timestamp; owner listings are ordered by it.
type Post struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	Text      string    `json:"text"     gorm:"type:text;not null"`
	OwnerID   string    `json:"owner_id" gorm:"type:char(36);not null;index:idx_owner_posts,priority:1"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_owner_posts,priority:2"`

	// Owner is the FK association; kept for schema generation only.
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }
