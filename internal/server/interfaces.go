package server

import (
	"context"

	"github.com/plexsync/plexsync/internal/sync"
)

// SyncEngine interface for sync operations
type SyncEngine interface {
	SyncUsers(ctx context.Context) (*sync.SyncResult, error)
}
