package domain

import (
	"context"
)

// ChannelRepository provides CRUD access to the remote channel collection
type ChannelRepository interface {
	// ListChannels returns every channel known to the server
	ListChannels(ctx context.Context) ([]*Channel, error)

	// CreateChannel persists a new channel; the server assigns its ID
	CreateChannel(ctx context.Context, ch *Channel) (*Channel, error)

	// UpdateChannel replaces the channel stored under id
	UpdateChannel(ctx context.Context, id string, ch *Channel) (*Channel, error)

	// DeleteChannel removes a channel
	DeleteChannel(ctx context.Context, id string) error
}

// PlaylistRepository provides CRUD access to the remote playlist collection
type PlaylistRepository interface {
	// ListPlaylists returns every playlist known to the server
	ListPlaylists(ctx context.Context) ([]*Playlist, error)

	// CreatePlaylist persists a new playlist; the server assigns its ID
	CreatePlaylist(ctx context.Context, p *Playlist) (*Playlist, error)

	// UpdatePlaylist replaces the playlist stored under id
	UpdatePlaylist(ctx context.Context, id string, p *Playlist) (*Playlist, error)

	// DeletePlaylist removes a playlist. Fails with ErrConflict while a channel uses it.
	DeletePlaylist(ctx context.Context, id string) error
}

// LogoRepository uploads and removes channel logo assets
type LogoRepository interface {
	// UploadLogo stores the asset for a channel and returns its canonical reference
	UploadLogo(ctx context.Context, channelID string, asset LogoAsset) (LogoRef, error)

	// DeleteLogo removes any uploaded logo files for a channel
	DeleteLogo(ctx context.Context, channelID string) error
}

// CatalogRepository lists the external media catalog
type CatalogRepository interface {
	// Browse lists one catalog directory; "" is the root
	Browse(ctx context.Context, path string) (Listing, error)
}

// MetadataRepository provides server metadata lookups
type MetadataRepository interface {
	// Version returns the server version string
	Version(ctx context.Context) (string, error)
}
