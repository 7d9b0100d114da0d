// ABOUTME: Store interfaces and data types for blog persistence
// ABOUTME: Defines User, Post records and the UserDirectory/PostStore interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user whose email is already
// registered.
var ErrDuplicateEmail = errors.New("email already registered")

// User represents a registered account. PasswordHash never leaves the
// server process.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Post represents a blog post owned by a user.
type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// UserDirectory is the user persistence collaborator consumed by the auth
// service. Lookups return ErrNotFound for unknown ids or emails.
type UserDirectory interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// PostStore is the post persistence collaborator consumed by the transport
// handlers. Get/Update/Delete return ErrNotFound for unknown ids. ListPosts
// returns newest-first pages; an empty authorID lists posts by all authors.
type PostStore interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, authorID string, limit, offset int) ([]*Post, error)
}

// Store combines both collaborators plus resource cleanup.
type Store interface {
	UserDirectory
	PostStore

	// Close releases any resources held by the store.
	Close() error
}
