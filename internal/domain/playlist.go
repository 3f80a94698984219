package domain

import "context"

// PlaylistQueries: Synchronous, cache-only reads.
type PlaylistQueries interface {
	GetCachedPlaylists() ([]*Playlist, bool)
	FilterPlaylists(query string) []*Playlist
}

// PlaylistCommands: Asynchronous operations against the server.
type PlaylistCommands interface {
	// List refreshes the cache wholesale
	List(ctx context.Context) ([]*Playlist, error)

	Create(ctx context.Context, p *Playlist) (*Playlist, error)
	Update(ctx context.Context, id string, p *Playlist) (*Playlist, error)
	Delete(ctx context.Context, id string) error
}

// ChannelQueries: Synchronous, cache-only reads.
type ChannelQueries interface {
	GetCachedChannels() ([]*Channel, bool)
	FilterChannels(query string) []*Channel
	ChannelsUsingPlaylist(playlistID string) []*Channel
}

// ChannelCommands: Asynchronous operations against the server.
type ChannelCommands interface {
	// List refreshes the cache wholesale
	List(ctx context.Context) ([]*Channel, error)

	Create(ctx context.Context, ch *Channel) (*Channel, error)
	Update(ctx context.Context, id string, ch *Channel) (*Channel, error)
	Delete(ctx context.Context, id string) error

	// Save persists a channel draft, uploading a pending logo in a second phase
	Save(ctx context.Context, ch *Channel, pending *LogoAsset) (*SaveResult, error)
}

// SaveResult describes how far a channel save got
type SaveResult struct {
	Stage   SaveStage
	Channel *Channel // Last state the server acknowledged, nil if the base save failed
}
