package draft

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(path string) domain.PlaylistItem {
	return domain.PlaylistItem{FilePath: path, Duration: 1, Title: path}
}

func paths(l *ItemList) []string {
	var out []string
	for _, it := range l.Items() {
		out = append(out, it.FilePath)
	}
	return out
}

func TestItemListAppendAssignsIncreasingIDs(t *testing.T) {
	l := NewItemList(nil)
	a := l.Append(item("/a"))
	b := l.Append(item("/b"))
	c := l.Append(item("/c"))

	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Equal(t, []string{"/a", "/b", "/c"}, paths(l))
}

func TestItemListIDsRestartPerList(t *testing.T) {
	first := NewItemList([]domain.PlaylistItem{item("/a"), item("/b")})
	second := NewItemList([]domain.PlaylistItem{item("/a"), item("/b")})

	assert.Equal(t, first.Entries()[0].ID, second.Entries()[0].ID)
	assert.Equal(t, 0, second.Entries()[0].ID)
}

func TestItemListBoundaryMovesAreNoOps(t *testing.T) {
	l := NewItemList([]domain.PlaylistItem{item("/a"), item("/b"), item("/c")})
	entries := l.Entries()

	l.MoveUp(entries[0].ID)
	l.MoveDown(entries[2].ID)

	assert.Equal(t, []string{"/a", "/b", "/c"}, paths(l))
}

func TestItemListMoves(t *testing.T) {
	l := NewItemList([]domain.PlaylistItem{item("/a"), item("/b"), item("/c")})
	entries := l.Entries()

	l.MoveUp(entries[2].ID)
	assert.Equal(t, []string{"/a", "/c", "/b"}, paths(l))

	l.MoveDown(entries[0].ID)
	assert.Equal(t, []string{"/c", "/a", "/b"}, paths(l))
}

func TestItemListRemoveUnknownIsNoOp(t *testing.T) {
	l := NewItemList([]domain.PlaylistItem{item("/a"), item("/b")})

	l.RemoveByID(99)
	l.RemoveByID(-1)

	assert.Equal(t, []string{"/a", "/b"}, paths(l))

	id := l.Entries()[0].ID
	l.RemoveByID(id)
	l.RemoveByID(id)
	assert.Equal(t, []string{"/b"}, paths(l))
}

func TestItemListAppendManyKeepsOrderAfterExisting(t *testing.T) {
	l := NewItemList([]domain.PlaylistItem{item("/x")})
	ids := l.AppendMany([]domain.PlaylistItem{item("/a"), item("/b"), item("/c")})

	require.Len(t, ids, 3)
	assert.Equal(t, []string{"/x", "/a", "/b", "/c"}, paths(l))
}

func TestItemListUpdate(t *testing.T) {
	l := NewItemList([]domain.PlaylistItem{item("/a")})
	id := l.Entries()[0].ID

	ok := l.Update(id, func(it *domain.PlaylistItem) { it.Title = "Alpha" })
	require.True(t, ok)
	got, _ := l.Get(id)
	assert.Equal(t, "Alpha", got.Title)

	assert.False(t, l.Update(42, func(*domain.PlaylistItem) {}))
}

func TestItemListItemsAreCopies(t *testing.T) {
	l := NewItemList([]domain.PlaylistItem{item("/a")})
	items := l.Items()
	items[0].Title = "changed"

	got, _ := l.Get(l.Entries()[0].ID)
	assert.Equal(t, "/a", got.Title)
}

// refModel mirrors ItemList with a plain slice of IDs
type refModel struct {
	ids  []int
	next int
}

func (m *refModel) append() int {
	id := m.next
	m.next++
	m.ids = append(m.ids, id)
	return id
}

func (m *refModel) index(id int) int {
	for i, v := range m.ids {
		if v == id {
			return i
		}
	}
	return -1
}

func (m *refModel) remove(id int) {
	if i := m.index(id); i >= 0 {
		m.ids = append(m.ids[:i], m.ids[i+1:]...)
	}
}

func (m *refModel) up(id int) {
	if i := m.index(id); i > 0 {
		m.ids[i-1], m.ids[i] = m.ids[i], m.ids[i-1]
	}
}

func (m *refModel) down(id int) {
	if i := m.index(id); i >= 0 && i < len(m.ids)-1 {
		m.ids[i], m.ids[i+1] = m.ids[i+1], m.ids[i]
	}
}

func TestItemListMatchesReferenceModel(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*7))
			l := NewItemList(nil)
			ref := &refModel{}

			for step := 0; step < 200; step++ {
				// Target IDs include some that were never issued
				target := rng.IntN(ref.next + 3)
				switch rng.IntN(4) {
				case 0:
					got := l.Append(item(fmt.Sprintf("/f%d", step)))
					want := ref.append()
					require.Equal(t, want, got)
				case 1:
					l.RemoveByID(target)
					ref.remove(target)
				case 2:
					l.MoveUp(target)
					ref.up(target)
				case 3:
					l.MoveDown(target)
					ref.down(target)
				}

				var got []int
				for _, e := range l.Entries() {
					got = append(got, e.ID)
				}
				if diff := cmp.Diff(ref.ids, got); diff != "" {
					t.Fatalf("step %d order mismatch (-want +got):\n%s", step, diff)
				}
			}
		})
	}
}

func TestItemFromEntry(t *testing.T) {
	got := ItemFromEntry(domain.CatalogEntry{
		Kind:     domain.EntryFile,
		Name:     "Pilot.Episode.mkv",
		Path:     "shows/Pilot.Episode.mkv",
		Duration: 1800,
	})

	assert.Equal(t, domain.PlaylistItem{
		FilePath: "shows/Pilot.Episode.mkv",
		Duration: 1800,
		Title:    "Pilot.Episode",
	}, got)
}

func TestApplyEntryFillsOnlyEmptyFields(t *testing.T) {
	entry := domain.CatalogEntry{Path: "movies/b.mp4", Duration: 90}

	blank := domain.PlaylistItem{FilePath: "/old.mp4"}
	ApplyEntry(&blank, entry)
	assert.Equal(t, domain.PlaylistItem{FilePath: "movies/b.mp4", Duration: 90, Title: "b"}, blank)

	filled := domain.PlaylistItem{FilePath: "/old.mp4", Duration: 10, Title: "Keep"}
	ApplyEntry(&filled, entry)
	assert.Equal(t, domain.PlaylistItem{FilePath: "movies/b.mp4", Duration: 10, Title: "Keep"}, filled)
}

func TestAppendSelection(t *testing.T) {
	sel := NewSelectionSet()
	sel.Toggle(domain.CatalogEntry{Path: "b.mp4", Duration: 20})
	sel.Toggle(domain.CatalogEntry{Path: "a.mp4", Duration: 10})

	l := NewItemList([]domain.PlaylistItem{item("/x")})
	l.AppendSelection(sel)

	assert.Equal(t, []string{"/x", "b.mp4", "a.mp4"}, paths(l))
}
