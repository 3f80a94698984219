package search

import (
	"testing"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFilterChannels(t *testing.T) {
	channels := []*domain.Channel{
		{ID: "1", Name: "Morning News", Category: "News", Number: 1},
		{ID: "2", Name: "Cartoons", Category: "Kids", Number: 2},
		{ID: "3", Name: "Late News", Category: "News", Number: 3},
	}

	got := Filter(channels, "news")
	ids := make([]string, len(got))
	for i, ch := range got {
		ids[i] = ch.ID
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	assert.Len(t, Filter(channels, "kids"), 1, "description is searchable")
	assert.Empty(t, Filter(channels, "zzz"))
	assert.Equal(t, channels, Filter(channels, "  "))
}

func TestRankOrdersByDistance(t *testing.T) {
	playlists := []*domain.Playlist{
		{ID: "long", Name: "Saturday morning cartoon marathon"},
		{ID: "short", Name: "Cartoons"},
	}

	ranked := Rank(playlists, "cartoon")
	if assert.Len(t, ranked, 2) {
		assert.Equal(t, "short", ranked[0].Item.ID)
		assert.LessOrEqual(t, ranked[0].Score, ranked[1].Score)
	}
	assert.Nil(t, Rank(playlists, ""))
}
