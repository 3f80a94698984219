package playlist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/troutctl/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Commands provides asynchronous operations (includes CRUD).
// Implements domain.PlaylistCommands.
type Commands struct {
	repo   domain.PlaylistRepository
	store  domain.Store
	logger *slog.Logger
	group  singleflight.Group
}

// NewCommands creates a new Commands instance.
func NewCommands(repo domain.PlaylistRepository, store domain.Store, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{repo: repo, store: store, logger: logger}
}

// List fetches every playlist and replaces the cached listing. On failure the
// previous listing stays in place. Concurrent calls share one request.
func (c *Commands) List(ctx context.Context) ([]*domain.Playlist, error) {
	v, err, _ := c.group.Do("playlists", func() (any, error) {
		playlists, err := c.repo.ListPlaylists(ctx)
		if err != nil {
			c.logger.Error("failed to fetch playlists", "error", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrLoad, err)
		}
		if err := c.store.SavePlaylists(playlists); err != nil {
			// Memory already holds the new listing; only the on-disk copy is stale
			c.logger.Warn("failed to persist playlists cache", "error", err)
		}
		c.logger.Debug("fetched playlists", "count", len(playlists))
		return playlists, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Playlist), nil
}

func (c *Commands) Create(ctx context.Context, p *domain.Playlist) (*domain.Playlist, error) {
	created, err := c.repo.CreatePlaylist(ctx, p)
	if err != nil {
		c.logger.Error("failed to create playlist", "error", err, "name", p.Name)
		return nil, err
	}
	c.logger.Info("created playlist", "name", created.Name, "id", created.ID, "items", len(created.Items))
	return created, nil
}

func (c *Commands) Update(ctx context.Context, id string, p *domain.Playlist) (*domain.Playlist, error) {
	updated, err := c.repo.UpdatePlaylist(ctx, id, p)
	if err != nil {
		c.logger.Error("failed to update playlist", "error", err, "playlistID", id)
		return nil, err
	}
	c.logger.Info("updated playlist", "playlistID", id, "items", len(updated.Items))
	return updated, nil
}

// Delete removes a playlist. A playlist still bound to a channel fails with
// domain.ErrConflict carrying the server's message.
func (c *Commands) Delete(ctx context.Context, id string) error {
	if err := c.repo.DeletePlaylist(ctx, id); err != nil {
		c.logger.Error("failed to delete playlist", "error", err, "playlistID", id)
		return err
	}
	c.logger.Info("deleted playlist", "playlistID", id)
	return nil
}
