package draft

import "github.com/mmcdole/troutctl/internal/domain"

// SelectionSet is the set of catalog files picked in one browse session.
// Membership is keyed by catalog path and files are reported in the order
// they were selected. The set does not know when its listing goes stale; the
// browse session clears it on navigation. The zero value is an empty set.
type SelectionSet struct {
	order []string
	files map[string]domain.CatalogEntry
}

// NewSelectionSet returns an empty set
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{files: make(map[string]domain.CatalogEntry)}
}

// Toggle adds the file if absent and removes it if present. Directories are
// never selectable. Returns whether the file is selected afterwards.
func (s *SelectionSet) Toggle(file domain.CatalogEntry) bool {
	if file.IsDir() {
		return false
	}
	if _, ok := s.files[file.Path]; ok {
		s.remove(file.Path)
		return false
	}
	if s.files == nil {
		s.files = make(map[string]domain.CatalogEntry)
	}
	s.files[file.Path] = file
	s.order = append(s.order, file.Path)
	return true
}

// SelectAll replaces the set with the given files
func (s *SelectionSet) SelectAll(files []domain.CatalogEntry) {
	s.Clear()
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if _, dup := s.files[f.Path]; dup {
			continue
		}
		s.files[f.Path] = f
		s.order = append(s.order, f.Path)
	}
}

// Clear empties the set
func (s *SelectionSet) Clear() {
	s.order = nil
	s.files = make(map[string]domain.CatalogEntry)
}

// Count returns the number of selected files
func (s *SelectionSet) Count() int { return len(s.order) }

// Contains reports whether the path is selected
func (s *SelectionSet) Contains(path string) bool {
	_, ok := s.files[path]
	return ok
}

// Files returns the selected files in selection order
func (s *SelectionSet) Files() []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, s.files[p])
	}
	return out
}

func (s *SelectionSet) remove(path string) {
	delete(s.files, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
