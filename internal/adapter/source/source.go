package source

import (
	"errors"
	"log/slog"

	"github.com/mmcdole/troutctl/internal/adapter"
	"github.com/mmcdole/troutctl/internal/adapter/source/trout"
	"github.com/mmcdole/troutctl/internal/domain"
)

// Backend combines every repository interface the channel server provides
type Backend interface {
	domain.ChannelRepository  // Channels: list, create, update, delete
	domain.PlaylistRepository // Playlists: list, create, update, delete
	domain.LogoRepository     // Logo assets: upload, delete
	domain.CatalogRepository  // Media catalog browsing
	domain.MetadataRepository // Server version
	domain.PlaybackClient     // Channel stream URLs
}

// ErrNotConfigured is returned when no server URL is set
var ErrNotConfigured = errors.New("server URL is required")

var _ Backend = (*trout.Client)(nil)

// NewClientFromConfig creates the backend client from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (Backend, error) {
	if cfg == nil || !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return trout.NewClient(cfg.Server.URL, cfg.Server.Timeout, logger), nil
}
