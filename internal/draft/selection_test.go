package draft

import (
	"testing"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func file(path string) domain.CatalogEntry {
	return domain.CatalogEntry{Kind: domain.EntryFile, Name: path, Path: path}
}

func TestSelectionToggleIsInvolution(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle(file("a.mp4"))
	before := s.Files()

	assert.True(t, s.Toggle(file("b.mp4")))
	assert.False(t, s.Toggle(file("b.mp4")))

	assert.Equal(t, before, s.Files())
	assert.Equal(t, 1, s.Count())
}

func TestSelectionKeyedByPath(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle(domain.CatalogEntry{Path: "a.mp4", Name: "a.mp4", Size: 1})
	s.Toggle(domain.CatalogEntry{Path: "a.mp4", Name: "renamed", Size: 2})

	assert.Equal(t, 0, s.Count())
	assert.False(t, s.Contains("a.mp4"))
}

func TestSelectionIgnoresDirectories(t *testing.T) {
	s := NewSelectionSet()
	assert.False(t, s.Toggle(domain.CatalogEntry{Kind: domain.EntryDirectory, Path: "shows"}))
	assert.Equal(t, 0, s.Count())
}

func TestSelectAllThenClear(t *testing.T) {
	files := []domain.CatalogEntry{file("a.mp4"), file("b.mp4"), file("c.mp4")}

	s := NewSelectionSet()
	s.Toggle(file("stale.mp4"))
	s.SelectAll(files)

	assert.Equal(t, len(files), s.Count())
	assert.False(t, s.Contains("stale.mp4"))
	assert.Equal(t, files, s.Files())

	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Files())
}

func TestSelectionPreservesSelectionOrder(t *testing.T) {
	s := NewSelectionSet()
	s.Toggle(file("c.mp4"))
	s.Toggle(file("a.mp4"))
	s.Toggle(file("b.mp4"))
	s.Toggle(file("a.mp4"))

	got := s.Files()
	assert.Equal(t, []domain.CatalogEntry{file("c.mp4"), file("b.mp4")}, got)
}

func TestSelectionZeroValueIsUsable(t *testing.T) {
	var s SelectionSet
	assert.False(t, s.Contains("a.mp4"))
	assert.True(t, s.Toggle(file("a.mp4")))
	assert.Equal(t, []domain.CatalogEntry{file("a.mp4")}, s.Files())

	var all SelectionSet
	all.SelectAll([]domain.CatalogEntry{file("b.mp4")})
	assert.Equal(t, 1, all.Count())
}
