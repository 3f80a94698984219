package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/troutctl/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// navKeys are the cursor movements every list column understands
var navKeys = struct {
	up, down, top, bottom, halfUp, halfDown, pageUp, pageDown key.Binding
}{
	up:       key.NewBinding(key.WithKeys("k", "up")),
	down:     key.NewBinding(key.WithKeys("j", "down")),
	top:      key.NewBinding(key.WithKeys("g", "home")),
	bottom:   key.NewBinding(key.WithKeys("G", "end")),
	halfUp:   key.NewBinding(key.WithKeys("ctrl+u")),
	halfDown: key.NewBinding(key.WithKeys("ctrl+d")),
	pageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b")),
	pageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f")),
}

// RowRenderer draws row i of a list. The list itself holds no rows: callers
// render straight from their own state on every frame.
type RowRenderer func(i int, selected bool, width int) string

// ListColumn is a bordered, scrollable window over a list owned elsewhere.
// It tracks only the cursor, the scroll offset and an optional filter input.
type ListColumn struct {
	title string

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool

	filterable   bool
	filterActive bool
	filterInput  textinput.Model
}

// NewListColumn creates a list column with the given title
func NewListColumn(title string, filterable bool) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		title:       title,
		filterable:  filterable,
		filterInput: ti,
	}
}

// SetSize sets the outer dimensions including the border
func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *ListColumn) SetFocused(focused bool) { c.focused = focused }
func (c *ListColumn) IsFocused() bool         { return c.focused }
func (c *ListColumn) SetTitle(title string)   { c.title = title }

// Cursor returns the selected row index
func (c *ListColumn) Cursor() int { return c.cursor }

// SetCursor moves the cursor to i, clamped to count rows
func (c *ListColumn) SetCursor(i, count int) {
	c.cursor = i
	c.Clamp(count)
}

// Clamp keeps the cursor inside count rows after the list changed size
func (c *ListColumn) Clamp(count int) {
	if c.cursor >= count {
		c.cursor = count - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	c.ensureVisible()
}

// HandleNav applies a movement key and reports whether it was one
func (c *ListColumn) HandleNav(msg tea.KeyMsg, count int) bool {
	half := max(c.maxVisible/2, 1)
	switch {
	case key.Matches(msg, navKeys.down):
		c.cursor++
	case key.Matches(msg, navKeys.up):
		c.cursor--
	case key.Matches(msg, navKeys.top):
		c.cursor = 0
	case key.Matches(msg, navKeys.bottom):
		c.cursor = count - 1
	case key.Matches(msg, navKeys.halfDown):
		c.cursor += half
	case key.Matches(msg, navKeys.halfUp):
		c.cursor -= half
	case key.Matches(msg, navKeys.pageDown):
		c.cursor += c.maxVisible
	case key.Matches(msg, navKeys.pageUp):
		c.cursor -= c.maxVisible
	default:
		return false
	}
	c.Clamp(count)
	return true
}

// === Filter ===

// ToggleFilter activates the filter input
func (c *ListColumn) ToggleFilter() tea.Cmd {
	if !c.filterable {
		return nil
	}
	c.filterActive = true
	c.recalcMaxVisible()
	return c.filterInput.Focus()
}

// IsFiltering returns true if a filter is shown
func (c *ListColumn) IsFiltering() bool { return c.filterActive }

// IsFilterTyping returns true if the filter input has focus
func (c *ListColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// FilterQuery returns the current filter text
func (c *ListColumn) FilterQuery() string {
	if !c.filterActive {
		return ""
	}
	return c.filterInput.Value()
}

// ClearFilter deactivates the filter
func (c *ListColumn) ClearFilter() {
	c.filterActive = false
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.cursor, c.offset = 0, 0
	c.recalcMaxVisible()
}

// UpdateFilter routes a key to the filter input while typing. It reports
// whether the query changed so the caller can re-run its filter.
func (c *ListColumn) UpdateFilter(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "esc":
		c.ClearFilter()
		return nil, true
	case "enter":
		// Accept filter, keep results and return to navigation
		c.filterInput.Blur()
		return nil, false
	case "backspace":
		if c.filterInput.Value() == "" {
			c.ClearFilter()
			return nil, true
		}
	}

	before := c.filterInput.Value()
	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	changed := c.filterInput.Value() != before
	if changed {
		c.cursor, c.offset = 0, 0
	}
	return cmd, changed
}

// === Rendering ===

// View renders count rows through render, showing empty when there are none
func (c *ListColumn) View(count int, render RowRenderer, empty string) string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 1)).
		Height(max(c.height-frameH, 1)).
		Render(c.renderContent(count, render, empty))
}

func (c *ListColumn) renderContent(count int, render RowRenderer, empty string) string {
	itemWidth := max(c.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	if count == 0 {
		if c.filterActive && c.filterInput.Value() != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty) + "\n "
		if c.filterActive {
			content += "\n" + c.renderFilterBar(count)
		}
		return content
	}

	c.Clamp(count)
	end := min(c.offset+c.maxVisible, count)

	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, render(i, i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar(count)
	}
	return content
}

func (c *ListColumn) renderFilterBar(count int) string {
	bar := c.filterInput.View()
	if c.filterInput.Value() != "" {
		bar += styles.DimStyle.Render(fmt.Sprintf(" [%d]", count))
	}
	return bar
}

func (c *ListColumn) recalcMaxVisible() {
	// Interior height minus the title line and both scroll indicators
	c.maxVisible = c.height - BorderHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *ListColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}
