package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/tui/styles"
)

// visibleChannels returns the cached channels passing the tab's filter
func (m Model) visibleChannels() []*domain.Channel {
	if q := m.lists[TabChannels].FilterQuery(); q != "" {
		return m.deps.Channels.FilterChannels(q)
	}
	chs, _ := m.deps.Channels.GetCachedChannels()
	return chs
}

// visiblePlaylists returns the cached playlists passing the tab's filter
func (m Model) visiblePlaylists() []*domain.Playlist {
	if q := m.lists[TabPlaylists].FilterQuery(); q != "" {
		return m.deps.Playlists.FilterPlaylists(q)
	}
	pls, _ := m.deps.Playlists.GetCachedPlaylists()
	return pls
}

// selectedChannel returns the channel under the cursor, nil when empty
func (m Model) selectedChannel() *domain.Channel {
	chs := m.visibleChannels()
	i := m.lists[TabChannels].Cursor()
	if i < 0 || i >= len(chs) {
		return nil
	}
	return chs[i]
}

// selectedPlaylist returns the playlist under the cursor, nil when empty
func (m Model) selectedPlaylist() *domain.Playlist {
	pls := m.visiblePlaylists()
	i := m.lists[TabPlaylists].Cursor()
	if i < 0 || i >= len(pls) {
		return nil
	}
	return pls[i]
}

// playlistName resolves a playlist ID from the cache for display
func (m Model) playlistName(id string) string {
	if id == "" {
		return "(none)"
	}
	pls, _ := m.deps.Playlists.GetCachedPlaylists()
	for _, p := range pls {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (m Model) tabsView() string {
	chs, _ := m.deps.Channels.GetCachedChannels()
	pls, _ := m.deps.Playlists.GetCachedPlaylists()
	labels := []string{
		fmt.Sprintf("Channels (%d)", len(chs)),
		fmt.Sprintf("Playlists (%d)", len(pls)),
	}
	tabs := make([]string, len(labels))
	for i, l := range labels {
		if Tab(i) == m.Tab {
			tabs[i] = styles.ActiveTabStyle.Render(l)
		} else {
			tabs[i] = styles.InactiveTabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) collectionsView() string {
	list := m.lists[m.Tab]
	if m.Tab == TabPlaylists {
		pls := m.visiblePlaylists()
		body := list.View(len(pls), func(i int, selected bool, width int) string {
			return renderPlaylistRow(pls[i], selected, width)
		}, m.emptyText("No playlists. Press n to create one."))
		return lipgloss.JoinVertical(lipgloss.Left, m.tabsView(), body)
	}

	chs := m.visibleChannels()
	body := list.View(len(chs), func(i int, selected bool, width int) string {
		return m.renderChannelRow(chs[i], selected, width)
	}, m.emptyText("No channels. Press n to create one."))
	return lipgloss.JoinVertical(lipgloss.Left, m.tabsView(), body)
}

func (m Model) emptyText(text string) string {
	if m.Loading {
		return "Loading..."
	}
	return text
}

func (m Model) renderChannelRow(ch *domain.Channel, selected bool, width int) string {
	number := fmt.Sprintf("%4d  ", ch.Number)
	status := "  "
	statusColor := styles.Green
	if !ch.Enabled {
		status = "⏸ "
		statusColor = styles.DimGray
	}
	meta := fmt.Sprintf("  %s · %s", ch.Category, m.playlistName(ch.PlaylistID))
	nameW := max(width-lipgloss.Width(number)-lipgloss.Width(status)-lipgloss.Width(meta)-2, 8)

	return styles.RenderListRow([]styles.RowPart{
		{Text: number, Foreground: &styles.TroutTeal},
		{Text: status, Foreground: &statusColor},
		{Text: styles.Pad(ch.Name, nameW)},
		{Text: meta, Foreground: &styles.DimGray},
	}, selected, width)
}

func renderPlaylistRow(p *domain.Playlist, selected bool, width int) string {
	meta := "  " + p.GetDescription()
	if d := domain.FormatSeconds(int(p.TotalDuration().Seconds())); d != "" {
		meta += " · " + d
	}
	if len(p.Tags) > 0 {
		meta += " · " + strings.Join(p.Tags, ", ")
	}
	nameW := max(width-lipgloss.Width(meta)-2, 8)
	if lipgloss.Width(meta) > width/2 {
		meta = styles.Truncate(meta, width/2)
		nameW = max(width-lipgloss.Width(meta)-2, 8)
	}

	return styles.RenderListRow([]styles.RowPart{
		{Text: styles.Pad(p.Name, nameW)},
		{Text: meta, Foreground: &styles.DimGray},
	}, selected, width)
}

// footerView shows the bindings relevant to the current screen
func (m Model) footerView() string {
	var bindings []key.Binding
	switch m.Screen {
	case ScreenEditor:
		if m.focusItems {
			bindings = []key.Binding{Keys.Browse, Keys.Remove, Keys.MoveUp, Keys.MoveDown, Keys.Replace, Keys.Duration, Keys.NextField, Keys.Save, Keys.Escape}
		} else {
			bindings = []key.Binding{Keys.Enter, Keys.Cycle, Keys.Clear, Keys.NextField, Keys.Save, Keys.Escape}
		}
	case ScreenBrowser:
		if m.replacing {
			bindings = []key.Binding{Keys.Enter, Keys.Back, Keys.Filter, Keys.Escape}
		} else {
			bindings = []key.Binding{Keys.Toggle, Keys.SelectAll, Keys.Deselect, Keys.AddMarked, Keys.AddFolder, Keys.Filter, Keys.Escape}
		}
	case ScreenHelp:
		bindings = []key.Binding{Keys.Escape}
	default:
		bindings = []key.Binding{Keys.New, Keys.Edit, Keys.Delete, Keys.Play, Keys.Filter, Keys.Tab, Keys.Refresh, Keys.Help, Keys.Quit}
	}
	return renderBindings(bindings, m.Width)
}

func renderBindings(bindings []key.Binding, width int) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")
	if lipgloss.Width(line) > width && width > 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// helpSections groups bindings for the help screen
var helpSections = []struct {
	title    string
	bindings []key.Binding
}{
	{"Collections", []key.Binding{Keys.Tab, Keys.New, Keys.Edit, Keys.Delete, Keys.Play, Keys.Filter, Keys.Refresh, Keys.Reload, Keys.Quit}},
	{"Editor", []key.Binding{Keys.NextField, Keys.Enter, Keys.Cycle, Keys.Clear, Keys.Save, Keys.Escape}},
	{"Playlist items", []key.Binding{Keys.Browse, Keys.Remove, Keys.MoveUp, Keys.MoveDown, Keys.Replace, Keys.Duration, Keys.Describe}},
	{"Catalog", []key.Binding{Keys.Right, Keys.Back, Keys.Toggle, Keys.SelectAll, Keys.Deselect, Keys.AddMarked, Keys.AddFolder, Keys.Filter}},
}

func (m Model) helpView() string {
	var b strings.Builder
	for _, sec := range helpSections {
		b.WriteString(styles.AccentStyle.Render(sec.title) + "\n")
		for _, k := range sec.bindings {
			h := k.Help()
			b.WriteString("  " + styles.HelpKeyStyle.Render(styles.Pad(h.Key, 10)) + styles.HelpDescStyle.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	return styles.ActiveBorder.
		Width(max(m.Width-2, 1)).
		Height(max(m.Height-ChromeHeight-2, 1)).
		Render(b.String())
}
