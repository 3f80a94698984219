package trout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 0, nil), fake
}

func TestPlaylistRoundTripKeepsItemOrder(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreatePlaylist(ctx, &domain.Playlist{
		Name: "Morning",
		Items: []domain.PlaylistItem{
			{FilePath: "/a.mp4", Duration: 10, Title: "A"},
			{FilePath: "/b.mp4", Duration: 20, Title: "B"},
		},
		Tags: []string{"news", "news", " am "},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.CreatedAt)

	list, err := c.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []domain.PlaylistItem{
		{FilePath: "/a.mp4", Duration: 10, Title: "A"},
		{FilePath: "/b.mp4", Duration: 20, Title: "B"},
	}, got.Items)
	assert.Equal(t, []string{"news", "am"}, got.Tags)
}

func TestChannelCreateSendsEmptyIDAndMapsFields(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateChannel(ctx, &domain.Channel{
		ID:         "ignored",
		Name:       "News",
		Number:     4,
		Category:   "News",
		Logo:       "https://cdn.example/n.png",
		PlaylistID: "p1",
		Loop:       true,
		Enabled:    true,
		Stream:     domain.DefaultStreamSettings(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", created.ID)
	assert.Equal(t, domain.LogoURL, created.Logo.Kind())
	assert.Equal(t, "p1", created.PlaylistID)
	assert.Equal(t, domain.DefaultStreamSettings(), created.Stream)

	stored, ok := fake.Channel(created.ID)
	require.True(t, ok)
	require.NotNil(t, stored.PlaylistID)
	assert.Equal(t, "p1", *stored.PlaylistID)
}

func TestChannelWithoutLogoSendsNull(t *testing.T) {
	c, fake := newTestClient(t)

	created, err := c.CreateChannel(context.Background(), &domain.Channel{Name: "Kids"})
	require.NoError(t, err)
	assert.Equal(t, domain.LogoAbsent, created.Logo.Kind())

	stored, _ := fake.Channel(created.ID)
	assert.Nil(t, stored.LogoURL)
	assert.Nil(t, stored.PlaylistID)
}

func TestErrorMapping(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := c.UpdateChannel(ctx, "nope", &domain.Channel{Name: "x"})
		require.ErrorIs(t, err, domain.ErrNotFound)

		var apiErr *domain.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "Channel nope not found", apiErr.Message)
	})

	t.Run("validation list detail", func(t *testing.T) {
		_, err := c.CreatePlaylist(ctx, &domain.Playlist{
			Name:  "Bad",
			Items: []domain.PlaylistItem{{FilePath: "/a.mp4", Duration: 0, Title: "A"}},
		})
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "items.0.duration: ensure this value is greater than or equal to 1", domain.UserMessage(err))
	})

	t.Run("conflict verbatim", func(t *testing.T) {
		pid := fake.SeedPlaylist(fakeapi.Playlist{Name: "Bound"})
		fake.SeedChannel(fakeapi.Channel{Name: "Uses it", PlaylistID: &pid})

		err := c.DeletePlaylist(ctx, pid)
		require.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, "Playlist is in use by one or more channels", domain.UserMessage(err))
	})

	t.Run("server error is transport", func(t *testing.T) {
		fake.Fail(fakeapi.RouteListChannels, http.StatusInternalServerError, "boom")
		defer fake.Recover(fakeapi.RouteListChannels)

		_, err := c.ListChannels(ctx)
		require.ErrorIs(t, err, domain.ErrTransport)
	})

	t.Run("too large is validation", func(t *testing.T) {
		fake.Fail(fakeapi.RouteUploadLogo, http.StatusRequestEntityTooLarge, "File too large. Maximum size: 5MB")
		defer fake.Recover(fakeapi.RouteUploadLogo)

		_, err := c.UploadLogo(ctx, "c1", domain.LogoAsset{Filename: "a.png", Data: []byte("x")})
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUnreachableServerIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 0, nil)
	_, err := c.ListPlaylists(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.NotNil(t, apiErr.Err)
}

func TestNoRetries(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Fail(fakeapi.RouteCreateChannel, http.StatusServiceUnavailable, "down")

	_, err := c.CreateChannel(context.Background(), &domain.Channel{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, fake.Calls(fakeapi.RouteCreateChannel))
}

func TestUploadAndDeleteLogo(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()

	ref, err := c.UploadLogo(ctx, "c1", domain.LogoAsset{Filename: "Logo.PNG", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, domain.LogoUploaded, ref.Kind())
	assert.Regexp(t, `^/logos/c1_[0-9a-f-]{8}\.png$`, string(ref))

	stored, ok := fake.Logo("c1")
	require.True(t, ok)
	assert.Equal(t, string(ref), stored)

	require.NoError(t, c.DeleteLogo(ctx, "c1"))
	assert.ErrorIs(t, c.DeleteLogo(ctx, "c1"), domain.ErrNotFound)

	_, err = c.UploadLogo(ctx, "c1", domain.LogoAsset{Filename: "logo.bmp", Data: []byte("bmp")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBrowse(t *testing.T) {
	c, fake := newTestClient(t)
	ctx := context.Background()
	fake.AddFile("shows/pilot.mkv", 2048, 1799.6)
	fake.AddFile("shows/extra.mkv", 100, 0)
	fake.AddFile("intro.mp4", 10, 12)

	root, err := c.Browse(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "", root.CurrentPath)
	assert.False(t, root.HasParent)
	require.Len(t, root.Entries, 2)
	assert.Equal(t, domain.EntryDirectory, root.Entries[0].Kind)
	assert.Equal(t, "shows", root.Entries[0].Path)
	assert.Equal(t, "intro.mp4", root.Entries[1].Path)

	shows, err := c.Browse(ctx, "shows")
	require.NoError(t, err)
	assert.True(t, shows.HasParent)
	assert.Equal(t, "", shows.ParentPath)
	require.Len(t, shows.Entries, 2)
	assert.Equal(t, "extra.mkv", shows.Entries[0].Name)
	assert.Equal(t, 0, shows.Entries[0].Duration)
	assert.Equal(t, 1800, shows.Entries[1].Duration)
	assert.Equal(t, int64(2048), shows.Entries[1].Size)

	_, err = c.Browse(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrBrowse)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.Browse(ctx, "../etc")
	assert.ErrorIs(t, err, domain.ErrBrowse)
}

func TestVersionAndStreamURL(t *testing.T) {
	c, _ := newTestClient(t)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)

	assert.Equal(t, c.BaseURL()+"/stream/c%201/master.m3u8", c.StreamURL("c 1"))
}

func TestErrorMessageShapes(t *testing.T) {
	cases := map[string]string{
		`{"detail":"Path not found"}`: "Path not found",
		`{"detail":[{"loc":["body","name"],"msg":"field required","type":"value_error.missing"},{"loc":["query","path"],"msg":"bad","type":"x"}]}`: "name: field required; query.path: bad",
		`Internal Server Error`: "Internal Server Error",
		`{"detail":{"code":7}}`: `{"code":7}`,
	}
	for body, want := range cases {
		assert.Equal(t, want, errorMessage([]byte(body)), body)
	}
}

func TestProbe(t *testing.T) {
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Router())
	defer srv.Close()

	info, err := Probe(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, info.URL)
	assert.Equal(t, "1.0.0", info.Version)

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html></html>`))
	}))
	defer other.Close()

	_, err = Probe(context.Background(), other.URL)
	assert.Error(t, err)
}
