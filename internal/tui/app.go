package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/troutctl/internal/catalog"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/editor"
	"github.com/mmcdole/troutctl/internal/service"
	"github.com/mmcdole/troutctl/internal/tui/components"
	"github.com/mmcdole/troutctl/internal/tui/styles"
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenCollections Screen = iota
	ScreenEditor
	ScreenBrowser
	ScreenHelp
)

// Tab selects which collection the list screen shows
type Tab int

const (
	TabChannels Tab = iota
	TabPlaylists
)

// Vertical chrome: header line, tab/breadcrumb line, status line, help line
const ChromeHeight = 4

// Deps are the services the UI drives
type Deps struct {
	Editor    *editor.Editor
	Channels  domain.ChannelQueries
	Playlists domain.PlaylistQueries
	Catalog   domain.CatalogRepository
	Playback  *service.PlaybackService
	Session   *service.SessionService
	ReadLogo  func(path string) (domain.LogoAsset, error)
	ServerURL string
	Logger    *slog.Logger
}

// Model is the main Bubble Tea model. It renders the draft, collection and
// catalog state owned by the services and keeps only cursor positions and
// modal state of its own.
type Model struct {
	deps Deps

	Screen     Screen
	prevScreen Screen // restored when help closes
	Tab        Tab
	Ready      bool

	Width  int
	Height int

	// Collections screen
	lists [2]*components.ListColumn

	// Editor screen
	form       *components.ListColumn
	itemsCol   *components.ListColumn
	focusItems bool
	saving     bool

	// Catalog browser
	browse    *catalog.Session
	browser   *components.ListColumn
	replaceID int  // item whose file is being replaced
	replacing bool // browser picks a single file for replaceID
	browsing  bool // navigation in flight

	// Modals
	InputModal   components.InputModal
	onInput      func(value string) error
	ConfirmModal components.ConfirmModal
	onConfirm    func() tea.Cmd

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	SpinnerFrame int
	Version      string
}

// NewModel creates a new application model
func NewModel(deps Deps, startTab Tab) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	m := Model{
		deps:       deps,
		Screen:     ScreenCollections,
		Tab:        startTab,
		lists:      [2]*components.ListColumn{components.NewListColumn("Channels", true), components.NewListColumn("Playlists", true)},
		form:       components.NewListColumn("", false),
		itemsCol:   components.NewListColumn("Items", false),
		browser:    components.NewListColumn("Media", true),
		InputModal: components.NewInputModal(),
		Loading:    true,
	}
	m.lists[m.Tab].SetFocused(true)
	return m
}

// Init loads both collections and the server version
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		RefreshAllCmd(m.deps.Editor),
		VersionCmd(m.deps.Session),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case VersionMsg:
		m.Version = msg.Version
		return m, nil

	case CollectionsLoadedMsg:
		m.Loading = false
		if msg.Err != nil {
			return m.setError(msg.Err, "refresh")
		}
		m.clampLists()
		return m, nil

	case SubmitDoneMsg:
		return m.handleSubmitDone(msg)

	case DeleteDoneMsg:
		m.Loading = false
		m.clampLists()
		if msg.Err != nil {
			return m.setError(msg.Err, "delete "+msg.Kind.String())
		}
		return m.setStatus(fmt.Sprintf("Deleted %s %q", msg.Kind, msg.Name))

	case BrowseDoneMsg:
		if m.browse == nil || msg.session != m.browse {
			// Result for a browse session that was already closed
			return m, nil
		}
		m.browsing = false
		if msg.Err != nil {
			return m.setError(msg.Err, "browse")
		}
		m.browser.Clamp(len(m.browse.Visible()))
		return m, nil

	case PlaybackStartedMsg:
		return m.setStatus("Launched: " + msg.Channel)

	case ErrMsg:
		m.Loading = false
		return m.setError(msg.Err, msg.Context)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleSubmitDone(msg SubmitDoneMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	out := msg.Outcome

	if msg.Err != nil {
		if out != nil && out.Stale {
			return m, nil
		}
		return m.setError(msg.Err, "save")
	}

	m.clampLists()
	if out.Stale {
		// The draft was closed or replaced while saving; nothing to update
		return m, nil
	}

	// A closed draft leaves the editor
	if m.Screen == ScreenEditor || m.Screen == ScreenBrowser {
		m.Screen = ScreenCollections
	}

	switch {
	case out.Warning != nil:
		m.StatusMsg = "Saved without new logo: " + domain.UserMessage(out.Warning)
		m.StatusIsErr = true
		return m, ClearStatusCmd(8 * time.Second)
	case out.RefreshErr != nil:
		return m.setError(out.RefreshErr, "saved, but refresh failed")
	}
	return m.setStatus("Saved " + out.Kind.String())
}

func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.StatusMsg = text
	m.StatusIsErr = false
	return m, ClearStatusCmd(3 * time.Second)
}

func (m Model) setError(err error, context string) (tea.Model, tea.Cmd) {
	e := ErrMsg{Err: err, Context: context}
	m.deps.Logger.Error("ui error", "context", context, "error", err)
	m.StatusMsg = e.Error()
	m.StatusIsErr = true
	return m, ClearStatusCmd(6 * time.Second)
}

// updateLayout sizes every column to the window
func (m *Model) updateLayout() {
	h := max(m.Height-ChromeHeight, 5)
	for _, l := range m.lists {
		l.SetSize(m.Width, h)
	}
	m.browser.SetSize(m.Width, h)

	// Editor: form on the left, items on the right for playlists
	formW := m.Width
	if d := m.deps.Editor.Drafts().Current(); d != nil && d.Kind() == domain.KindPlaylist {
		formW = m.Width * 2 / 5
		m.itemsCol.SetSize(m.Width-formW, h)
	}
	m.form.SetSize(formW, h)
}

func (m *Model) clampLists() {
	m.lists[TabChannels].Clamp(len(m.visibleChannels()))
	m.lists[TabPlaylists].Clamp(len(m.visiblePlaylists()))
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.Screen {
	case ScreenEditor:
		body = m.editorView()
	case ScreenBrowser:
		body = m.browserView()
	case ScreenHelp:
		body = m.helpView()
	default:
		body = m.collectionsView()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.statusView(),
		m.footerView(),
	)

	switch {
	case m.InputModal.IsVisible():
		return m.overlay(m.InputModal.View())
	case m.ConfirmModal.IsVisible():
		return m.overlay(m.ConfirmModal.View())
	}
	return screen
}

func (m Model) overlay(modal string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) headerView() string {
	title := styles.TitleStyle.Render("troutctl")
	server := styles.DimStyle.Render(m.deps.ServerURL)
	parts := []string{title, server}
	if m.Version != "" {
		parts = append(parts, styles.DimBadgeStyle.Render("v"+m.Version))
	}
	if m.Loading || m.saving || m.browsing {
		parts = append(parts, styles.AccentStyle.Render(styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]))
	}
	return strings.Join(parts, "  ")
}

func (m Model) statusView() string {
	if m.StatusMsg == "" {
		return " "
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
	}
	return styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, m.Width))
}
