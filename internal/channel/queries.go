package channel

import (
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/search"
)

// Queries provides synchronous, cache-only reads.
// Implements domain.ChannelQueries.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) GetCachedChannels() ([]*domain.Channel, bool) {
	return q.store.GetChannels()
}

// FilterChannels fuzzy-filters the cached channels by name, number and category.
// An empty query returns the whole listing.
func (q *Queries) FilterChannels(query string) []*domain.Channel {
	channels, _ := q.store.GetChannels()
	return search.Filter(channels, query)
}

// ChannelsUsingPlaylist returns the cached channels bound to a playlist
func (q *Queries) ChannelsUsingPlaylist(playlistID string) []*domain.Channel {
	if playlistID == "" {
		return nil
	}
	channels, _ := q.store.GetChannels()
	var out []*domain.Channel
	for _, ch := range channels {
		if ch.PlaylistID == playlistID {
			out = append(out, ch)
		}
	}
	return out
}
