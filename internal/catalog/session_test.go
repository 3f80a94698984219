package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/troutctl/internal/adapter/source/trout"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/draft"
	"github.com/mmcdole/troutctl/internal/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	fake.AddFile("shows/pilot.mkv", 2048, 1800.4)
	fake.AddFile("shows/finale.mkv", 4096, 0)
	fake.AddFile("shows/season2/opener.mp4", 10, 60)
	fake.AddFile("intro.mp4", 10, 12)
	fake.AddDir("empty")

	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)
	return NewSession(trout.NewClient(srv.URL, 0, nil), nil), fake
}

func names(matches []Match) []string {
	var out []string
	for _, m := range matches {
		out = append(out, m.Entry.Name)
	}
	return out
}

func TestSessionStartsAtRootWithEmptySelection(t *testing.T) {
	s, _ := newTestSession(t)
	assert.False(t, s.Loaded())
	assert.Equal(t, 0, s.SelectedCount())

	require.NoError(t, s.Open(context.Background()))
	assert.True(t, s.Loaded())
	assert.Equal(t, "", s.CurrentPath())
	assert.Equal(t, []string{"empty", "shows", "intro.mp4"}, names(s.Visible()))
	assert.Equal(t, []Crumb{{Name: "Media", Path: ""}}, s.Breadcrumbs())
}

func TestNavigationClearsSelection(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, "shows"))

	s.SelectAll()
	assert.Equal(t, 2, s.SelectedCount())

	require.NoError(t, s.Navigate(ctx, "shows/season2"))
	assert.Equal(t, 0, s.SelectedCount())

	assert.Equal(t, []Crumb{
		{Name: "Media", Path: ""},
		{Name: "shows", Path: "shows"},
		{Name: "season2", Path: "shows/season2"},
	}, s.Breadcrumbs())

	require.NoError(t, s.Up(ctx))
	assert.Equal(t, "shows", s.CurrentPath())
	require.NoError(t, s.Up(ctx))
	assert.Equal(t, "", s.CurrentPath())
	require.NoError(t, s.Up(ctx), "up at the root is a no-op")
	assert.Equal(t, "", s.CurrentPath())
}

func TestBrowseFailureKeepsListing(t *testing.T) {
	s, fake := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, "shows"))
	s.Toggle(domain.CatalogEntry{Path: "shows/pilot.mkv"})

	err := s.Navigate(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrBrowse)
	assert.Equal(t, "shows", s.CurrentPath())
	assert.Len(t, s.Listing().Entries, 3)
	assert.Equal(t, 0, s.SelectedCount(), "selection is cleared before fetching")

	fake.Fail(fakeapi.RouteBrowse, http.StatusInternalServerError, "scanner down")
	err = s.Navigate(ctx, "")
	require.ErrorIs(t, err, domain.ErrBrowse)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, "shows", s.CurrentPath())
}

func TestAddSelectedConvertsFiles(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Navigate(context.Background(), "shows"))

	listing := s.Listing()
	var pilot, finale domain.CatalogEntry
	for _, e := range listing.Entries {
		switch e.Name {
		case "pilot.mkv":
			pilot = e
		case "finale.mkv":
			finale = e
		}
	}
	s.Toggle(pilot)
	s.Toggle(finale)
	assert.True(t, s.IsSelected("shows/pilot.mkv"))

	items := draft.NewItemList([]domain.PlaylistItem{{FilePath: "/x.mp4", Duration: 5, Title: "X"}})
	added := s.AddSelected(items)

	assert.Equal(t, 2, added)
	assert.Equal(t, 0, s.SelectedCount())
	assert.Equal(t, []domain.PlaylistItem{
		{FilePath: "/x.mp4", Duration: 5, Title: "X"},
		{FilePath: "shows/pilot.mkv", Duration: 1800, Title: "pilot"},
		{FilePath: "shows/finale.mkv", Duration: 0, Title: "finale"},
	}, items.Items())
}

func TestAddAllUsesListingOrder(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.Navigate(context.Background(), "shows"))

	items := draft.NewItemList(nil)
	assert.Equal(t, 2, s.AddAll(items))

	got := items.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "shows/finale.mkv", got[0].FilePath)
	assert.Equal(t, "shows/pilot.mkv", got[1].FilePath)
}

func TestApplyTo(t *testing.T) {
	s, _ := newTestSession(t)
	items := draft.NewItemList([]domain.PlaylistItem{{FilePath: "/old.mp4", Title: "Keep"}})
	id := items.Entries()[0].ID

	ok := s.ApplyTo(items, id, domain.CatalogEntry{Path: "intro.mp4", Duration: 12})
	require.True(t, ok)
	got, _ := items.Get(id)
	assert.Equal(t, domain.PlaylistItem{FilePath: "intro.mp4", Duration: 12, Title: "Keep"}, got)

	assert.False(t, s.ApplyTo(items, id, domain.CatalogEntry{Kind: domain.EntryDirectory, Path: "shows"}))
}

func TestFilter(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, "shows"))

	s.SetFilter("PIL")
	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "pilot.mkv", visible[0].Entry.Name)
	assert.Equal(t, []int{0, 1, 2}, visible[0].MatchedIndexes)

	require.NoError(t, s.Navigate(ctx, "shows"))
	assert.Equal(t, "", s.FilterQuery(), "navigation resets the filter")
	assert.Len(t, s.Visible(), 3)
}

// gatedRepo answers Browse only when the test releases the path. Paths
// without a gate answer at once.
type gatedRepo struct {
	gates    map[string]chan struct{}
	listings map[string]domain.Listing
}

func (g *gatedRepo) Browse(ctx context.Context, path string) (domain.Listing, error) {
	if gate, ok := g.gates[path]; ok {
		<-gate
	}
	if l, ok := g.listings[path]; ok {
		return l, nil
	}
	return domain.Listing{CurrentPath: path, HasParent: path != ""}, nil
}

func TestSupersededNavigationIsDropped(t *testing.T) {
	repo := &gatedRepo{gates: map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}}
	s := NewSession(repo, nil)

	done := make(chan error)
	go func() { done <- s.Navigate(context.Background(), "slow") }()

	// Wait until the slow request is registered before starting the next
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.seq == 1
	}, time.Second, time.Millisecond)

	close(repo.gates["fast"])
	require.NoError(t, s.Navigate(context.Background(), "fast"))

	close(repo.gates["slow"])
	require.NoError(t, <-done)
	assert.Equal(t, "fast", s.CurrentPath())
}

func TestSelectionDuringNavigationDoesNotCarryOver(t *testing.T) {
	repo := &gatedRepo{
		gates: map[string]chan struct{}{"dir": make(chan struct{})},
		listings: map[string]domain.Listing{
			"": {Entries: []domain.CatalogEntry{
				{Name: "old.mp4", Path: "old.mp4", Kind: domain.EntryFile},
			}},
			"dir": {CurrentPath: "dir", HasParent: true, Entries: []domain.CatalogEntry{
				{Name: "new.mp4", Path: "dir/new.mp4", Kind: domain.EntryFile},
			}},
		},
	}
	s := NewSession(repo, nil)
	require.NoError(t, s.Open(context.Background()))

	done := make(chan error)
	go func() { done <- s.Navigate(context.Background(), "dir") }()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.seq == 2
	}, time.Second, time.Millisecond)

	// The old listing is still shown while the request is pending
	s.SelectAll()
	s.SetFilter("old")
	assert.Equal(t, 1, s.SelectedCount())

	close(repo.gates["dir"])
	require.NoError(t, <-done)
	assert.Equal(t, "dir", s.CurrentPath())
	assert.Zero(t, s.SelectedCount())
	assert.Empty(t, s.FilterQuery())

	items := draft.NewItemList(nil)
	assert.Zero(t, s.AddSelected(items))
	assert.Zero(t, items.Len())
}
