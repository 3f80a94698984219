// Package catalog holds the state of one media catalog browse session: the
// current directory, the selected files and an optional name filter.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/draft"
	"github.com/sahilm/fuzzy"
)

// Match is a listing entry that passed the filter
type Match struct {
	Entry          domain.CatalogEntry
	MatchedIndexes []int // byte offsets in Entry.Name, for highlighting
}

// Crumb is one segment of the current path
type Crumb struct {
	Name string
	Path string
}

// Session is a single catalog browse invocation. It starts at the catalog
// root with nothing selected; every navigation clears the selection and the
// filter.
type Session struct {
	repo   domain.CatalogRepository
	logger *slog.Logger

	mu        sync.Mutex
	listing   domain.Listing
	loaded    bool
	seq       uint64 // latest navigation; older responses are dropped
	selection *draft.SelectionSet
	filter    string
}

// NewSession starts a browse session at the catalog root
func NewSession(repo domain.CatalogRepository, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		repo:      repo,
		logger:    logger,
		selection: draft.NewSelectionSet(),
	}
}

// Open loads the catalog root
func (s *Session) Open(ctx context.Context) error {
	return s.Navigate(ctx, "")
}

// Navigate lists path. The selection is cleared before the request is made
// and again when the new listing is applied, so nothing picked from the old
// listing while the request was in flight carries over. On failure the
// current path and entries are kept and a domain.ErrBrowse is returned.
func (s *Session) Navigate(ctx context.Context, path string) error {
	s.mu.Lock()
	s.selection.Clear()
	s.filter = ""
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	listing, err := s.repo.Browse(ctx, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.logger.Debug("dropping superseded browse result", "path", path)
		return nil
	}
	if err != nil {
		s.logger.Error("browse failed", "path", path, "error", err)
		return err
	}
	s.listing = listing
	s.loaded = true
	s.selection.Clear()
	s.filter = ""
	s.logger.Debug("browsed catalog", "path", listing.CurrentPath, "entries", len(listing.Entries))
	return nil
}

// Enter navigates into a directory entry; files are ignored
func (s *Session) Enter(ctx context.Context, entry domain.CatalogEntry) error {
	if !entry.IsDir() {
		return nil
	}
	return s.Navigate(ctx, entry.Path)
}

// Up navigates to the parent directory; no-op at the root
func (s *Session) Up(ctx context.Context) error {
	s.mu.Lock()
	parent, ok := s.listing.ParentPath, s.listing.HasParent
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Navigate(ctx, parent)
}

// Loaded reports whether any listing has been fetched yet
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Listing returns the current directory page
func (s *Session) Listing() domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.listing
	l.Entries = append([]domain.CatalogEntry(nil), s.listing.Entries...)
	return l
}

// CurrentPath returns the current directory, "" at the root
func (s *Session) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing.CurrentPath
}

// Breadcrumbs splits the current path into navigable segments, root first
func (s *Session) Breadcrumbs() []Crumb {
	s.mu.Lock()
	current := s.listing.CurrentPath
	s.mu.Unlock()

	crumbs := []Crumb{{Name: "Media", Path: ""}}
	if current == "" {
		return crumbs
	}
	var acc []string
	for _, part := range strings.Split(current, "/") {
		if part == "" {
			continue
		}
		acc = append(acc, part)
		crumbs = append(crumbs, Crumb{Name: part, Path: strings.Join(acc, "/")})
	}
	return crumbs
}

// === Selection ===

// Toggle flips a file's selection and reports whether it is now selected
func (s *Session) Toggle(entry domain.CatalogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Toggle(entry)
}

// SelectAll selects every file in the current directory
func (s *Session) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.SelectAll(s.listing.Files())
}

// ClearSelection deselects everything
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// IsSelected reports whether a path is selected
func (s *Session) IsSelected(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Contains(path)
}

// SelectedCount returns the number of selected files
func (s *Session) SelectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Count()
}

// AddSelected appends the selected files to items in selection order and
// clears the selection. Returns how many were added.
func (s *Session) AddSelected(items *draft.ItemList) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := items.AppendSelection(s.selection)
	s.selection.Clear()
	return len(ids)
}

// AddAll appends every file of the current directory in listing order
func (s *Session) AddAll(items *draft.ItemList) int {
	s.mu.Lock()
	files := s.listing.Files()
	s.mu.Unlock()

	converted := make([]domain.PlaylistItem, 0, len(files))
	for _, f := range files {
		converted = append(converted, draft.ItemFromEntry(f))
	}
	return len(items.AppendMany(converted))
}

// ApplyTo points an existing item at a catalog file, filling its title and
// duration only when empty
func (s *Session) ApplyTo(items *draft.ItemList, itemID int, entry domain.CatalogEntry) bool {
	if entry.IsDir() {
		return false
	}
	return items.Update(itemID, func(it *domain.PlaylistItem) {
		draft.ApplyEntry(it, entry)
	})
}

// === Filter ===

// SetFilter sets the name filter for the current directory
func (s *Session) SetFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = query
}

// FilterQuery returns the active filter
func (s *Session) FilterQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Visible returns the entries that pass the filter. Without a filter all
// entries are returned in listing order; with one, best matches come first.
func (s *Session) Visible() []Match {
	s.mu.Lock()
	entries := append([]domain.CatalogEntry(nil), s.listing.Entries...)
	query := s.filter
	s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		out := make([]Match, len(entries))
		for i, e := range entries {
			out[i] = Match{Entry: e}
		}
		return out
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = strings.ToLower(e.Name)
	}

	matches := fuzzy.Find(strings.ToLower(query), names)
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{Entry: entries[m.Index], MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
