package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/troutctl/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Commands provides asynchronous operations (includes CRUD and the two-phase save).
// Implements domain.ChannelCommands.
type Commands struct {
	repo   domain.ChannelRepository
	logos  domain.LogoRepository
	store  domain.Store
	logger *slog.Logger
	group  singleflight.Group
}

// NewCommands creates a new Commands instance.
func NewCommands(repo domain.ChannelRepository, logos domain.LogoRepository, store domain.Store, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{repo: repo, logos: logos, store: store, logger: logger}
}

// List fetches every channel and replaces the cached listing. On failure the
// previous listing stays in place. Concurrent calls share one request.
func (c *Commands) List(ctx context.Context) ([]*domain.Channel, error) {
	v, err, _ := c.group.Do("channels", func() (any, error) {
		channels, err := c.repo.ListChannels(ctx)
		if err != nil {
			c.logger.Error("failed to fetch channels", "error", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrLoad, err)
		}
		if err := c.store.SaveChannels(channels); err != nil {
			// Memory already holds the new listing; only the on-disk copy is stale
			c.logger.Warn("failed to persist channels cache", "error", err)
		}
		c.logger.Debug("fetched channels", "count", len(channels))
		return channels, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Channel), nil
}

func (c *Commands) Create(ctx context.Context, ch *domain.Channel) (*domain.Channel, error) {
	created, err := c.repo.CreateChannel(ctx, ch)
	if err != nil {
		c.logger.Error("failed to create channel", "error", err, "name", ch.Name)
		return nil, err
	}
	c.logger.Info("created channel", "name", created.Name, "id", created.ID, "number", created.Number)
	return created, nil
}

func (c *Commands) Update(ctx context.Context, id string, ch *domain.Channel) (*domain.Channel, error) {
	updated, err := c.repo.UpdateChannel(ctx, id, ch)
	if err != nil {
		c.logger.Error("failed to update channel", "error", err, "channelID", id)
		return nil, err
	}
	c.logger.Info("updated channel", "channelID", id)
	return updated, nil
}

// Delete removes a channel. If the cached channel had an uploaded logo the
// asset is removed afterwards; that cleanup is best-effort and only logged.
func (c *Commands) Delete(ctx context.Context, id string) error {
	cached, _ := c.store.FindChannel(id)

	if err := c.repo.DeleteChannel(ctx, id); err != nil {
		c.logger.Error("failed to delete channel", "error", err, "channelID", id)
		return err
	}
	c.logger.Info("deleted channel", "channelID", id)

	if cached != nil && cached.Logo.Kind() == domain.LogoUploaded {
		err := c.logos.DeleteLogo(ctx, id)
		switch {
		case err == nil:
			c.logger.Debug("deleted channel logo", "channelID", id)
		case errors.Is(err, domain.ErrNotFound):
			// Already removed together with the channel
		default:
			c.logger.Warn("failed to delete channel logo", "error", err, "channelID", id)
		}
	}
	return nil
}

// Save persists a channel in up to three steps:
//
//	Started -> BaseSaved -> LogoUploaded -> Patched
//
// The base record is written first with its previous logo reference. Only
// when a pending asset exists and the base save produced an ID is the asset
// uploaded and the record patched with the returned reference. A failed base
// save returns the plain error; a failed upload or patch returns a
// *domain.PartialSaveError since the channel already exists. Nothing is
// rolled back.
func (c *Commands) Save(ctx context.Context, ch *domain.Channel, pending *domain.LogoAsset) (*domain.SaveResult, error) {
	res := &domain.SaveResult{Stage: domain.StageStarted}
	var ref domain.LogoRef

	for {
		switch res.Stage {
		case domain.StageStarted:
			saved, err := c.persistBase(ctx, ch)
			if err != nil {
				return c.fail(res, domain.StageFailedBase, err)
			}
			res.Channel = saved
			c.advance(res, domain.StageBaseSaved)

		case domain.StageBaseSaved:
			if pending == nil {
				return res, nil
			}
			uploaded, err := c.logos.UploadLogo(ctx, res.Channel.ID, *pending)
			if err != nil {
				return c.fail(res, domain.StageFailedUpload, err)
			}
			ref = uploaded
			c.advance(res, domain.StageLogoUploaded)

		case domain.StageLogoUploaded:
			patch := res.Channel.Clone()
			patch.Logo = ref
			patched, err := c.repo.UpdateChannel(ctx, patch.ID, patch)
			if err != nil {
				return c.fail(res, domain.StageFailedPatch, err)
			}
			res.Channel = patched
			c.advance(res, domain.StagePatched)

		case domain.StagePatched:
			return res, nil

		default:
			return res, fmt.Errorf("save channel: unexpected stage %s", res.Stage)
		}
	}
}

func (c *Commands) persistBase(ctx context.Context, ch *domain.Channel) (*domain.Channel, error) {
	if ch.ID == "" {
		return c.Create(ctx, ch)
	}
	return c.Update(ctx, ch.ID, ch)
}

func (c *Commands) advance(res *domain.SaveResult, next domain.SaveStage) {
	c.logger.Debug("channel save", "from", res.Stage, "to", next, "channelID", res.Channel.ID)
	res.Stage = next
}

func (c *Commands) fail(res *domain.SaveResult, stage domain.SaveStage, err error) (*domain.SaveResult, error) {
	res.Stage = stage
	if res.Channel == nil {
		return res, err
	}
	c.logger.Warn("channel saved without new logo", "stage", stage, "channelID", res.Channel.ID, "error", err)
	return res, &domain.PartialSaveError{Stage: stage, ChannelID: res.Channel.ID, Err: err}
}
