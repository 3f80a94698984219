package domain

// Store is the collection cache: the last full listing of each collection.
// Saves replace a collection wholesale; reads return a private copy.
type Store interface {
	// === Channels ===
	GetChannels() ([]*Channel, bool)
	SaveChannels(channels []*Channel) error
	FindChannel(id string) (*Channel, bool)

	// === Playlists ===
	GetPlaylists() ([]*Playlist, bool)
	SavePlaylists(playlists []*Playlist) error
	FindPlaylist(id string) (*Playlist, bool)

	// === Invalidation ===
	InvalidateAll()

	Close() error
}
