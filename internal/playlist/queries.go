package playlist

import (
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/search"
)

// Queries provides synchronous, cache-only reads.
// Implements domain.PlaylistQueries.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) GetCachedPlaylists() ([]*domain.Playlist, bool) {
	return q.store.GetPlaylists()
}

// FilterPlaylists fuzzy-filters the cached playlists by name and summary.
// An empty query returns the whole listing.
func (q *Queries) FilterPlaylists(query string) []*domain.Playlist {
	playlists, _ := q.store.GetPlaylists()
	return search.Filter(playlists, query)
}
