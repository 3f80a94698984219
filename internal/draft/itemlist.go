package draft

import (
	"math"

	"github.com/mmcdole/troutctl/internal/domain"
)

// Entry is a playlist item addressed by its session identifier
type Entry struct {
	ID   int
	Item domain.PlaylistItem
}

// ItemList is the ordered item sequence of a playlist draft.
//
// IDs are handed out by a counter owned by the list, so they are unique and
// increasing within one editing session and start over when a draft is
// reopened. They are never sent to the server; the wire order is the
// iteration order.
type ItemList struct {
	entries []Entry
	nextID  int
}

// NewItemList builds a list from persisted items, assigning fresh session IDs
func NewItemList(items []domain.PlaylistItem) *ItemList {
	l := &ItemList{}
	l.AppendMany(items)
	return l
}

// Append adds an item at the end and returns its session ID
func (l *ItemList) Append(item domain.PlaylistItem) int {
	id := l.nextID
	l.nextID++
	l.entries = append(l.entries, Entry{ID: id, Item: item})
	return id
}

// AppendMany adds items after all existing ones, keeping their relative order
func (l *ItemList) AppendMany(items []domain.PlaylistItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, l.Append(item))
	}
	return ids
}

// AppendSelection bulk-appends the selected catalog files in selection order
func (l *ItemList) AppendSelection(sel *SelectionSet) []int {
	files := sel.Files()
	items := make([]domain.PlaylistItem, 0, len(files))
	for _, f := range files {
		items = append(items, ItemFromEntry(f))
	}
	return l.AppendMany(items)
}

// RemoveByID removes an item; unknown IDs are ignored
func (l *ItemList) RemoveByID(id int) {
	i := l.Index(id)
	if i < 0 {
		return
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

// MoveUp swaps an item with its predecessor; no-op for the first item
func (l *ItemList) MoveUp(id int) {
	i := l.Index(id)
	if i <= 0 {
		return
	}
	l.entries[i-1], l.entries[i] = l.entries[i], l.entries[i-1]
}

// MoveDown swaps an item with its successor; no-op for the last item
func (l *ItemList) MoveDown(id int) {
	i := l.Index(id)
	if i < 0 || i >= len(l.entries)-1 {
		return
	}
	l.entries[i], l.entries[i+1] = l.entries[i+1], l.entries[i]
}

// Update applies fn to the item in place. Returns false for unknown IDs.
func (l *ItemList) Update(id int, fn func(item *domain.PlaylistItem)) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	fn(&l.entries[i].Item)
	return true
}

// Get returns the item with the given ID
func (l *ItemList) Get(id int) (domain.PlaylistItem, bool) {
	i := l.Index(id)
	if i < 0 {
		return domain.PlaylistItem{}, false
	}
	return l.entries[i].Item, true
}

// Index returns the current position of an ID, or -1
func (l *ItemList) Index(id int) int {
	for i, e := range l.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of items
func (l *ItemList) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in order
func (l *ItemList) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Items returns a copy of the items in order, as they will be persisted
func (l *ItemList) Items() []domain.PlaylistItem {
	items := make([]domain.PlaylistItem, len(l.entries))
	for i, e := range l.entries {
		items[i] = e.Item
	}
	return items
}

func (l *ItemList) clone() *ItemList {
	if l == nil {
		return nil
	}
	return &ItemList{entries: l.Entries(), nextID: l.nextID}
}

// ItemFromEntry converts a catalog file into a playlist item: the title is the
// file name without extension and the duration is the probed duration rounded
// to whole seconds (0 when unknown, left for the operator to fill in).
func ItemFromEntry(e domain.CatalogEntry) domain.PlaylistItem {
	return domain.PlaylistItem{
		FilePath: e.Path,
		Duration: int(math.Round(float64(e.Duration))),
		Title:    e.Title(),
	}
}

// ApplyEntry points an existing item at a catalog file, filling the title and
// duration only where they are still empty.
func ApplyEntry(item *domain.PlaylistItem, e domain.CatalogEntry) {
	item.FilePath = e.Path
	if item.Duration == 0 && e.Duration > 0 {
		item.Duration = e.Duration
	}
	if item.Title == "" {
		item.Title = e.Title()
	}
}
