// Package store persists the application's own user records in sqlite.
package store

import (
	"context"
	"time"
)

// User is a locally stored user record. Token mirrors the remote account
// identifier and is the join key for synchronization.
type User struct {
	ID        int64
	Username  string
	Token     string
	Email     string
	CreatedAt time.Time
}

// Repository is the local user store surface consumed by the sync engine.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, username, token, email string) (*User, error)
	Delete(ctx context.Context, id int64) error
}
