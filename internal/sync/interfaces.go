package sync

import (
	"context"

	"github.com/plexsync/plexsync/internal/plex"
	"github.com/plexsync/plexsync/internal/store"
)

// Directory interface for media server account operations
type Directory interface {
	Libraries(ctx context.Context) ([]plex.Library, error)
	Accounts(ctx context.Context) ([]plex.Account, error)
	Account(ctx context.Context, userID string) (*plex.Account, error)
	RemoveFriend(ctx context.Context, userID string) error
	RemoveHomeUser(ctx context.Context, userID string) error
}

// UserStore interface for local user record operations
type UserStore interface {
	List(ctx context.Context) ([]store.User, error)
	Create(ctx context.Context, username, token, email string) (*store.User, error)
	Delete(ctx context.Context, id int64) error
}
