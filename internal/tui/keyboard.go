package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/troutctl/internal/domain"
)

// handleKeyMsg routes key input to the active modal or screen
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.InputModal.IsVisible() {
		return m.handleInputModal(msg)
	}
	if m.ConfirmModal.IsVisible() {
		return m.handleConfirmModal(msg)
	}

	switch m.Screen {
	case ScreenHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.Screen = m.prevScreen
		}
		return m, nil
	case ScreenEditor:
		return m.handleEditorKeys(msg)
	case ScreenBrowser:
		return m.handleBrowserKeys(msg)
	default:
		return m.handleCollectionKeys(msg)
	}
}

func (m Model) handleInputModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.InputModal, cmd, submitted = m.InputModal.Update(msg)
	if !submitted {
		if !m.InputModal.IsVisible() {
			m.onInput = nil
		}
		return m, cmd
	}

	value := m.InputModal.Value()
	apply := m.onInput
	m.InputModal.Hide()
	m.onInput = nil
	if apply != nil {
		if err := apply(value); err != nil {
			return m.setError(err, "edit")
		}
	}
	return m, nil
}

func (m Model) handleConfirmModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.ConfirmModal.Hide()
		run := m.onConfirm
		m.onConfirm = nil
		if run != nil {
			return m, run()
		}
	case key.Matches(msg, Keys.Deny):
		m.ConfirmModal.Hide()
		m.onConfirm = nil
	}
	return m, nil
}

func (m Model) handleCollectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.lists[m.Tab]
	if list.IsFilterTyping() {
		cmd, _ := list.UpdateFilter(msg)
		return m, cmd
	}

	count := len(m.visibleChannels())
	if m.Tab == TabPlaylists {
		count = len(m.visiblePlaylists())
	}
	if list.HandleNav(msg, count) {
		return m, nil
	}

	kind := domain.KindChannel
	if m.Tab == TabPlaylists {
		kind = domain.KindPlaylist
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Escape):
		if list.IsFiltering() {
			list.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Help):
		m.prevScreen = m.Screen
		m.Screen = ScreenHelp
		return m, nil

	case key.Matches(msg, Keys.Tab):
		list.SetFocused(false)
		m.Tab = 1 - m.Tab
		m.lists[m.Tab].SetFocused(true)
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, list.ToggleFilter()

	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, RefreshAllCmd(m.deps.Editor)

	case key.Matches(msg, Keys.Reload):
		m.deps.Session.Reset()
		m.Loading = true
		m.clampLists()
		return m, RefreshAllCmd(m.deps.Editor)

	case key.Matches(msg, Keys.New):
		return m.openEditor(kind, "")

	case key.Matches(msg, Keys.Edit), key.Matches(msg, Keys.Enter):
		if id := m.selectedID(); id != "" {
			return m.openEditor(kind, id)
		}

	case key.Matches(msg, Keys.Delete):
		return m.confirmDelete(kind)

	case key.Matches(msg, Keys.Play):
		if ch := m.selectedChannel(); ch != nil && m.Tab == TabChannels {
			return m, PlayCmd(m.deps.Playback, ch)
		}
	}
	return m, nil
}

func (m Model) selectedID() string {
	if m.Tab == TabPlaylists {
		if p := m.selectedPlaylist(); p != nil {
			return p.ID
		}
		return ""
	}
	if ch := m.selectedChannel(); ch != nil {
		return ch.ID
	}
	return ""
}

// confirmDelete asks before deleting the selected entity. Playlists still
// bound to channels are flagged; the server refuses those deletes.
func (m Model) confirmDelete(kind domain.EntityKind) (tea.Model, tea.Cmd) {
	var id, name, message string
	switch kind {
	case domain.KindPlaylist:
		p := m.selectedPlaylist()
		if p == nil {
			return m, nil
		}
		id, name = p.ID, p.Name
		message = fmt.Sprintf("Delete playlist %q?", name)
		if users := m.deps.Channels.ChannelsUsingPlaylist(id); len(users) > 0 {
			names := make([]string, len(users))
			for i, ch := range users {
				names[i] = ch.Name
			}
			message += fmt.Sprintf("\nIt is used by: %s", strings.Join(names, ", "))
		}
	default:
		ch := m.selectedChannel()
		if ch == nil {
			return m, nil
		}
		id, name = ch.ID, ch.Name
		message = fmt.Sprintf("Delete channel #%d %q and its logo?", ch.Number, name)
	}

	m.ConfirmModal.Show("Delete "+kind.String(), message)
	ed := m.deps.Editor
	m.onConfirm = func() tea.Cmd {
		return DeleteCmd(ed, kind, id, name)
	}
	return m, nil
}
