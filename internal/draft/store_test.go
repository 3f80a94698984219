package draft

import (
	"testing"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *store.CollectionStore) {
	t.Helper()
	cache, err := store.NewCollectionStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	require.NoError(t, cache.SaveChannels([]*domain.Channel{
		{ID: "c1", Name: "News", Number: 4, Logo: "https://cdn.example/news.png", Enabled: true,
			Stream: domain.DefaultStreamSettings()},
		{ID: "c2", Name: "Movies", Number: 7, Logo: "/logos/c2_1a2b3c4d.png"},
		{ID: "c3", Name: "Kids"},
	}))
	require.NoError(t, cache.SavePlaylists([]*domain.Playlist{
		{ID: "p1", Name: "Morning", Items: []domain.PlaylistItem{
			{FilePath: "/a.mp4", Duration: 10, Title: "A"},
			{FilePath: "/b.mp4", Duration: 20, Title: "B"},
		}, Tags: []string{"news"}},
	}))
	return NewStore(cache, nil), cache
}

func TestOpenForCreateChannelDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindChannel))

	assert.Equal(t, StateCreating, s.State())
	d := s.Current()
	require.NotNil(t, d)

	ch := d.Channel()
	assert.Equal(t, "", ch.ID)
	assert.Equal(t, 3000, ch.Stream.VideoBitrate)
	assert.Equal(t, 128, ch.Stream.AudioBitrate)
	assert.Equal(t, "1280x720", ch.Stream.Resolution)
	assert.Equal(t, domain.PresetSoftwareFast, ch.Stream.TranscodePreset)
	assert.Equal(t, domain.DefaultCategory, ch.Category)
	assert.True(t, ch.Loop)
	assert.True(t, ch.Enabled)
	assert.Nil(t, d.PendingLogo())
	assert.Equal(t, LogoNone, d.LogoMode())
	assert.Nil(t, d.Items())
}

func TestOpenForEditUnknownStaysClosed(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.OpenForEdit(domain.KindChannel, "ch1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, StateClosed, s.State())
	assert.Nil(t, s.Current())

	err = s.OpenForEdit(domain.KindPlaylist, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, StateClosed, s.State())
}

func TestOpenForEditDerivesLogoMode(t *testing.T) {
	cases := map[string]LogoMode{
		"c1": LogoURL,
		"c2": LogoKeep,
		"c3": LogoNone,
	}
	for id, want := range cases {
		t.Run(id, func(t *testing.T) {
			s, _ := newTestStore(t)
			require.NoError(t, s.OpenForEdit(domain.KindChannel, id))
			assert.Equal(t, StateEditing, s.State())
			assert.Equal(t, id, s.EntityID())
			assert.Equal(t, want, s.Current().LogoMode())
		})
	}
}

func TestOpenForEditRebuildsItemList(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForEdit(domain.KindPlaylist, "p1"))

	d := s.Current()
	require.Equal(t, 2, d.Items().Len())
	assert.Equal(t, 0, d.Items().Entries()[0].ID)

	// Reopening starts the session counter over
	d.Items().Append(domain.PlaylistItem{FilePath: "/c.mp4"})
	s.Close()
	require.NoError(t, s.OpenForEdit(domain.KindPlaylist, "p1"))
	assert.Equal(t, 2, s.Current().Items().Len())
	assert.Equal(t, []int{0, 1}, []int{
		s.Current().Items().Entries()[0].ID,
		s.Current().Items().Entries()[1].ID,
	})
}

func TestEditsDoNotTouchCache(t *testing.T) {
	s, cache := newTestStore(t)
	require.NoError(t, s.OpenForEdit(domain.KindPlaylist, "p1"))

	d, err := s.Mutable()
	require.NoError(t, err)
	d.SetName("Changed")
	d.Items().RemoveByID(0)
	s.Close()

	p, ok := cache.FindPlaylist("p1")
	require.True(t, ok)
	assert.Equal(t, "Morning", p.Name)
	assert.Len(t, p.Items, 2)
}

func TestOpenWhileOpenFails(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindPlaylist))
	assert.ErrorIs(t, s.OpenForCreate(domain.KindChannel), ErrDraftOpen)
	assert.ErrorIs(t, s.OpenForEdit(domain.KindChannel, "c1"), ErrDraftOpen)
}

func TestCloseFromAnyState(t *testing.T) {
	s, _ := newTestStore(t)
	s.Close()
	assert.Equal(t, StateClosed, s.State())

	require.NoError(t, s.OpenForEdit(domain.KindChannel, "c1"))
	s.Close()
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, "", s.EntityID())

	_, err := s.Mutable()
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestSetPendingLogoChannelOnly(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindPlaylist))
	d, _ := s.Mutable()
	assert.ErrorIs(t, d.SetPendingLogo(domain.LogoAsset{Filename: "x.png"}), ErrWrongKind)
	s.Close()

	require.NoError(t, s.OpenForEdit(domain.KindChannel, "c1"))
	d, _ = s.Mutable()
	require.NoError(t, d.SetPendingLogo(domain.LogoAsset{Filename: "x.png", Data: []byte{1}}))
	assert.Equal(t, LogoPending, d.LogoMode())
	// The persisted reference is kept until the upload succeeds
	assert.Equal(t, domain.LogoRef("https://cdn.example/news.png"), d.Channel().Logo)

	require.NoError(t, d.SetLogoURL("https://cdn.example/other.png"))
	assert.Equal(t, LogoURL, d.LogoMode())
	assert.Nil(t, d.PendingLogo())

	require.NoError(t, d.ClearLogo())
	assert.Equal(t, LogoNone, d.LogoMode())
	assert.True(t, d.Channel().Logo.IsZero())
}

func TestPendingLogoRestoresPersistedReference(t *testing.T) {
	cases := map[string]func(d *Draft) error{
		"after clear": (*Draft).ClearLogo,
		"after url": func(d *Draft) error {
			return d.SetLogoURL("https://cdn.example/unsaved.png")
		},
	}
	for name, edit := range cases {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStore(t)
			require.NoError(t, s.OpenForEdit(domain.KindChannel, "c2"))
			d, _ := s.Mutable()

			require.NoError(t, edit(d))
			require.NoError(t, d.SetPendingLogo(domain.LogoAsset{Filename: "new.png", Data: []byte{1}}))

			sub, err := s.BeginSubmit()
			require.NoError(t, err)
			assert.Equal(t, domain.LogoRef("/logos/c2_1a2b3c4d.png"), sub.Channel.Logo)
			require.NotNil(t, sub.PendingLogo)
			assert.Equal(t, "new.png", sub.PendingLogo.Filename)
		})
	}
}

func TestPendingLogoOnNewChannelHasNoReference(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindChannel))
	d, _ := s.Mutable()
	require.NoError(t, d.SetLogoURL("https://cdn.example/typed.png"))
	require.NoError(t, d.SetPendingLogo(domain.LogoAsset{Filename: "new.png"}))

	sub, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, sub.Channel.Logo.IsZero())
}

func TestNumericTextSetters(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindChannel))
	d, _ := s.Mutable()

	require.NoError(t, d.SetNumberText(" 12 "))
	require.NoError(t, d.SetVideoBitrateText("4500"))
	require.NoError(t, d.SetAudioBitrateText("192"))

	err := d.SetAudioBitrateText("loud")
	assert.ErrorIs(t, err, ErrNotInteger)

	ch := d.Channel()
	assert.Equal(t, 12, ch.Number)
	assert.Equal(t, 4500, ch.Stream.VideoBitrate)
	assert.Equal(t, 192, ch.Stream.AudioBitrate, "failed parse leaves the field unchanged")
}

func TestChannelSettersRejectPlaylistDraft(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindPlaylist))
	d, _ := s.Mutable()

	assert.ErrorIs(t, d.SetCategory("News"), ErrWrongKind)
	assert.ErrorIs(t, d.SetLoop(false), ErrWrongKind)
	assert.ErrorIs(t, d.SetPreset(domain.PresetQSV), ErrWrongKind)
	assert.NoError(t, d.SetDescription("desc"))
	assert.NoError(t, d.SetTagsText("a, b,a,,c"))
	assert.Equal(t, []string{"a", "b", "c"}, d.Playlist().Tags)
}

func TestSubmitLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForEdit(domain.KindPlaylist, "p1"))

	sub, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.False(t, sub.IsCreate())
	assert.Equal(t, "p1", sub.Playlist.ID)
	require.Len(t, sub.Playlist.Items, 2)

	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	_, err = s.Mutable()
	assert.ErrorIs(t, err, ErrDraftBusy)

	// A failed save unlocks the draft
	assert.True(t, s.Finish(sub, false))
	assert.Equal(t, StateEditing, s.State())
	_, err = s.Mutable()
	assert.NoError(t, err)

	sub, err = s.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, s.Finish(sub, true))
	assert.Equal(t, StateClosed, s.State())
}

func TestSubmissionIsSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForCreate(domain.KindChannel))
	d, _ := s.Mutable()
	d.SetName("Before")
	require.NoError(t, d.SetPendingLogo(domain.LogoAsset{Filename: "a.png", Data: []byte("png")}))

	sub, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.True(t, sub.IsCreate())

	s.Current().SetName("After")
	s.Current().PendingLogo().Data[0] = 'X'

	assert.Equal(t, "Before", sub.Channel.Name)
	assert.Equal(t, []byte("png"), sub.PendingLogo.Data)
}

func TestFinishStaleSubmission(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.OpenForEdit(domain.KindChannel, "c1"))
	sub, err := s.BeginSubmit()
	require.NoError(t, err)

	s.Close()
	assert.False(t, s.Finish(sub, true))

	// A new draft is unaffected by the old result
	require.NoError(t, s.OpenForEdit(domain.KindChannel, "c2"))
	assert.False(t, s.Finish(sub, true))
	assert.Equal(t, StateEditing, s.State())
	assert.Equal(t, "c2", s.EntityID())
}
