package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/troutctl/internal/catalog"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/draft"
	"github.com/mmcdole/troutctl/internal/tui/styles"
)

// openBrowser starts a fresh catalog session at the root. In replace mode a
// single file is picked for the item replaceID instead of a multi-selection.
func (m Model) openBrowser(replacing bool, replaceID int) (tea.Model, tea.Cmd) {
	if _, err := m.deps.Editor.Drafts().Mutable(); err != nil {
		return m.setError(err, "browse")
	}
	m.browse = catalog.NewSession(m.deps.Catalog, m.deps.Logger)
	m.replacing = replacing
	m.replaceID = replaceID
	m.browser.ClearFilter()
	m.browser.SetCursor(0, 0)
	m.browser.SetFocused(true)
	if replacing {
		m.browser.SetTitle("Replace file")
	} else {
		m.browser.SetTitle("Add from catalog")
	}
	m.Screen = ScreenBrowser
	return m.navigate("")
}

// closeBrowser ends the browse session and returns to the editor
func (m Model) closeBrowser() Model {
	m.browse = nil
	m.replacing = false
	m.browsing = false
	m.Screen = ScreenEditor
	return m
}

func (m Model) navigate(path string) (tea.Model, tea.Cmd) {
	m.browsing = true
	m.browser.ClearFilter()
	return m, BrowseCmd(m.browse, path)
}

func (m Model) selectedEntry() (domain.CatalogEntry, bool) {
	visible := m.browse.Visible()
	i := m.browser.Cursor()
	if i < 0 || i >= len(visible) {
		return domain.CatalogEntry{}, false
	}
	return visible[i].Entry, true
}

func (m Model) handleBrowserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browse == nil {
		m.Screen = ScreenEditor
		return m, nil
	}

	if m.browser.IsFilterTyping() {
		cmd, changed := m.browser.UpdateFilter(msg)
		if changed {
			m.browse.SetFilter(m.browser.FilterQuery())
		}
		return m, cmd
	}

	visible := m.browse.Visible()
	if m.browser.HandleNav(msg, len(visible)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Escape):
		if m.browser.IsFiltering() {
			m.browser.ClearFilter()
			m.browse.SetFilter("")
			return m, nil
		}
		return m.closeBrowser(), nil

	case key.Matches(msg, Keys.Filter):
		return m, m.browser.ToggleFilter()

	case key.Matches(msg, Keys.Back):
		l := m.browse.Listing()
		if !l.HasParent {
			return m, nil
		}
		return m.navigate(l.ParentPath)

	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Right):
		entry, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		if entry.IsDir() {
			return m.navigate(entry.Path)
		}
		if m.replacing {
			return m.applyReplacement(entry)
		}
		m.browse.Toggle(entry)
		return m, nil
	}

	if m.replacing {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Toggle):
		if entry, ok := m.selectedEntry(); ok && !entry.IsDir() {
			m.browse.Toggle(entry)
			m.browser.SetCursor(m.browser.Cursor()+1, len(visible))
		}
	case key.Matches(msg, Keys.SelectAll):
		m.browse.SelectAll()
	case key.Matches(msg, Keys.Deselect):
		m.browse.ClearSelection()
	case key.Matches(msg, Keys.AddMarked):
		return m.addToDraft(m.browse.AddSelected)
	case key.Matches(msg, Keys.AddFolder):
		return m.addToDraft(m.browse.AddAll)
	}
	return m, nil
}

func (m Model) addToDraft(add func(items *draft.ItemList) int) (tea.Model, tea.Cmd) {
	d, err := m.deps.Editor.Drafts().Mutable()
	if err != nil {
		return m.setError(err, "add items")
	}
	n := add(d.Items())
	if n == 0 {
		return m.setStatus("Nothing selected")
	}
	m = m.closeBrowser()
	m.itemsCol.SetCursor(d.Items().Len()-1, d.Items().Len())
	return m.setStatus(fmt.Sprintf("Added %d item(s)", n))
}

func (m Model) applyReplacement(entry domain.CatalogEntry) (tea.Model, tea.Cmd) {
	d, err := m.deps.Editor.Drafts().Mutable()
	if err != nil {
		return m.setError(err, "replace file")
	}
	if !m.browse.ApplyTo(d.Items(), m.replaceID, entry) {
		m = m.closeBrowser()
		return m.setError(fmt.Errorf("%w: item was removed", domain.ErrNotFound), "replace file")
	}
	m = m.closeBrowser()
	return m.setStatus("Replaced with " + entry.Name)
}

// === Rendering ===

func (m Model) browserView() string {
	if m.browse == nil {
		return ""
	}

	crumbs := m.browse.Breadcrumbs()
	names := make([]string, len(crumbs))
	for i, c := range crumbs {
		names[i] = c.Name
	}
	path := styles.SubtitleStyle.Render(strings.Join(names, " / "))
	if n := m.browse.SelectedCount(); n > 0 {
		path += "  " + styles.BadgeStyle.Render(fmt.Sprintf("%d selected", n))
	}

	empty := "Empty folder"
	if !m.browse.Loaded() {
		empty = "Loading..."
	}
	visible := m.browse.Visible()
	list := m.browser.View(len(visible), func(i int, selected bool, width int) string {
		return m.renderCatalogRow(visible[i], selected, width)
	}, empty)
	return lipgloss.JoinVertical(lipgloss.Left, path, list)
}

func (m Model) renderCatalogRow(match catalog.Match, selected bool, width int) string {
	e := match.Entry

	mark := "  "
	markColor := styles.DimGray
	switch {
	case e.IsDir():
		mark = styles.DirChar + " "
		markColor = styles.TroutTeal
	case m.replacing:
	case m.browse.IsSelected(e.Path):
		mark = styles.CheckedChar + " "
		markColor = styles.TroutTeal
	default:
		mark = styles.UncheckedChar + " "
	}

	var meta string
	if !e.IsDir() {
		parts := []string{}
		if d := e.FormattedDuration(); d != "" {
			parts = append(parts, d)
		}
		if s := e.FormattedSize(); s != "" {
			parts = append(parts, s)
		}
		if len(parts) > 0 {
			meta = "  " + strings.Join(parts, " · ")
		}
	}

	nameW := max(width-lipgloss.Width(mark)-lipgloss.Width(meta)-2, 8)
	name := styles.Pad(e.Name, nameW)
	if len(match.MatchedIndexes) > 0 && lipgloss.Width(e.Name) <= nameW {
		name = styles.HighlightMatches(e.Name, match.MatchedIndexes, selected) + strings.Repeat(" ", nameW-lipgloss.Width(e.Name))
	}

	return styles.RenderListRow([]styles.RowPart{
		{Text: mark, Foreground: &markColor},
		{Text: name},
		{Text: meta, Foreground: &styles.DimGray},
	}, selected, width)
}
