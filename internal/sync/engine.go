// Package sync reconciles the media server's account directory with the
// local user store.
package sync

import (
	"context"

	"github.com/plexsync/plexsync/internal/config"
	"github.com/plexsync/plexsync/internal/plex"
	"github.com/sirupsen/logrus"
)

// Engine orchestrates the synchronization between the media server and the
// local user store
type Engine struct {
	directory Directory
	store     UserStore
	config    *config.Config
	logger    *logrus.Logger
}

// SyncResult contains the results of a synchronization operation
type SyncResult struct {
	AccountsSeen int
	UsersCreated int
	UsersDeleted int
}

// NewEngine creates a new sync engine
func NewEngine(directory Directory, userStore UserStore, cfg *config.Config, logger *logrus.Logger) *Engine {
	return &Engine{
		directory: directory,
		store:     userStore,
		config:    cfg,
		logger:    logger,
	}
}

// Libraries returns all library sections of the media server
func (e *Engine) Libraries(ctx context.Context) ([]plex.Library, error) {
	return e.directory.Libraries(ctx)
}

// Account returns a single remote account by username, email or identifier
func (e *Engine) Account(ctx context.Context, userID string) (*plex.Account, error) {
	return e.directory.Account(ctx, userID)
}

// DeleteAccount removes a remote account. Both relationship types the server
// supports are revoked; the account is not required to exist.
func (e *Engine) DeleteAccount(ctx context.Context, userID string) error {
	if e.config.App.DryRun {
		e.logger.Infof("DRY RUN: Would remove account %s from the media server", userID)
		return nil
	}

	if err := e.directory.RemoveFriend(ctx, userID); err != nil {
		return err
	}
	if err := e.directory.RemoveHomeUser(ctx, userID); err != nil {
		return err
	}

	e.logger.Infof("Account %s removed from the media server", userID)
	return nil
}

// SyncUsers aligns the local user store with the media server's account
// directory: accounts missing locally are imported, records whose token no
// longer matches any remote account are removed. The operation is not
// transactional; a failure partway through leaves earlier changes in place.
func (e *Engine) SyncUsers(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}

	e.logger.Info("Starting user sync process")

	accounts, err := e.directory.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	result.AccountsSeen = len(accounts)

	users, err := e.store.List(ctx)
	if err != nil {
		return nil, err
	}

	// Index both sides by the comparable string form of the identifier
	tokens := make(map[string]bool, len(users))
	for _, user := range users {
		tokens[user.Token] = true
	}
	remoteIDs := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		remoteIDs[account.ID.String()] = true
	}

	// Import remote accounts with no matching local record
	for _, account := range accounts {
		if tokens[account.ID.String()] {
			continue
		}

		if e.config.App.DryRun {
			e.logger.Infof("DRY RUN: Would import user %s to database", account.Username)
			continue
		}

		if _, err := e.store.Create(ctx, account.Username, account.ID.String(), account.Email); err != nil {
			return nil, err
		}
		result.UsersCreated++
		e.logger.Infof("User %s successfully imported to database", account.Username)
	}

	// Remove local records whose token matches no remote account
	for _, user := range users {
		if remoteIDs[user.Token] {
			continue
		}

		if e.config.App.DryRun {
			e.logger.Infof("DRY RUN: Would remove user %s from database", user.Username)
			continue
		}

		if err := e.store.Delete(ctx, user.ID); err != nil {
			return nil, err
		}
		result.UsersDeleted++
		e.logger.Infof("User %s successfully removed from database", user.Username)
	}

	e.logger.Infof("Sync completed. Accounts: %d, Users created: %d, Users deleted: %d",
		result.AccountsSeen, result.UsersCreated, result.UsersDeleted)

	return result, nil
}
