package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/draft"
	"github.com/mmcdole/troutctl/internal/tui/styles"
)

// formField is one editable row of the editor form. Nil funcs mean the
// action is not available for the field.
type formField struct {
	label string
	value func(d *draft.Draft) string
	hint  string

	// set applies text entered in the input modal
	set func(d *draft.Draft, text string) error
	// cycle toggles a boolean or steps through a fixed set of values
	cycle func(d *draft.Draft) error
	// clear resets the field
	clear func(d *draft.Draft) error
}

func (m Model) fields(d *draft.Draft) []formField {
	if d.Kind() == domain.KindPlaylist {
		return playlistFields
	}
	return m.channelFields()
}

var playlistFields = []formField{
	{
		label: "Name",
		value: func(d *draft.Draft) string { return d.Name() },
		set:   func(d *draft.Draft, s string) error { d.SetName(s); return nil },
	},
	{
		label: "Description",
		value: func(d *draft.Draft) string { return d.Playlist().Description },
		set:   (*draft.Draft).SetDescription,
		clear: func(d *draft.Draft) error { return d.SetDescription("") },
	},
	{
		label: "Tags",
		hint:  "comma separated",
		value: func(d *draft.Draft) string { return strings.Join(d.Playlist().Tags, ", ") },
		set:   (*draft.Draft).SetTagsText,
		clear: func(d *draft.Draft) error { return d.SetTags(nil) },
	},
}

func (m Model) channelFields() []formField {
	// Unbound first, then cached playlists in list order
	playlistIDs := []string{""}
	if pls, ok := m.deps.Playlists.GetCachedPlaylists(); ok {
		for _, p := range pls {
			playlistIDs = append(playlistIDs, p.ID)
		}
	}

	return []formField{
		{
			label: "Name",
			value: func(d *draft.Draft) string { return d.Name() },
			set:   func(d *draft.Draft, s string) error { d.SetName(s); return nil },
		},
		{
			label: "Number",
			value: func(d *draft.Draft) string { return strconv.Itoa(d.Channel().Number) },
			set:   (*draft.Draft).SetNumberText,
		},
		{
			label: "Category",
			value: func(d *draft.Draft) string { return d.Channel().Category },
			set:   (*draft.Draft).SetCategory,
			clear: func(d *draft.Draft) error { return d.SetCategory("") },
		},
		{
			label: "Playlist",
			value: func(d *draft.Draft) string { return m.playlistName(d.Channel().PlaylistID) },
			cycle: func(d *draft.Draft) error {
				return d.SetPlaylistID(nextValue(playlistIDs, d.Channel().PlaylistID))
			},
			clear: func(d *draft.Draft) error { return d.SetPlaylistID("") },
		},
		{
			label: "Loop",
			value: func(d *draft.Draft) string { return yesNo(d.Channel().Loop) },
			cycle: func(d *draft.Draft) error { return d.SetLoop(!d.Channel().Loop) },
		},
		{
			label: "Enabled",
			value: func(d *draft.Draft) string { return yesNo(d.Channel().Enabled) },
			cycle: func(d *draft.Draft) error { return d.SetEnabled(!d.Channel().Enabled) },
		},
		{
			label: "Logo",
			hint:  "http(s) URL or a local image file; empty clears",
			value: logoValue,
			set:   m.setLogo,
			clear: (*draft.Draft).ClearLogo,
		},
		{
			label: "Video kbps",
			value: func(d *draft.Draft) string { return strconv.Itoa(d.Channel().Stream.VideoBitrate) },
			set:   (*draft.Draft).SetVideoBitrateText,
		},
		{
			label: "Audio kbps",
			value: func(d *draft.Draft) string { return strconv.Itoa(d.Channel().Stream.AudioBitrate) },
			set:   (*draft.Draft).SetAudioBitrateText,
		},
		{
			label: "Resolution",
			hint:  "WIDTHxHEIGHT, e.g. 1920x1080",
			value: func(d *draft.Draft) string { return d.Channel().Stream.Resolution },
			set:   (*draft.Draft).SetResolution,
		},
		{
			label: "Preset",
			value: func(d *draft.Draft) string { return d.Channel().Stream.TranscodePreset },
			cycle: func(d *draft.Draft) error {
				return d.SetPreset(nextValue(domain.Presets, d.Channel().Stream.TranscodePreset))
			},
		},
	}
}

// setLogo routes logo input: empty clears, a URL is stored as is, anything
// else is read as a local image to upload after save
func (m Model) setLogo(d *draft.Draft, text string) error {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return d.ClearLogo()
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		return d.SetLogoURL(text)
	}
	asset, err := m.deps.ReadLogo(text)
	if err != nil {
		return err
	}
	return d.SetPendingLogo(asset)
}

func logoValue(d *draft.Draft) string {
	switch d.LogoMode() {
	case draft.LogoPending:
		if p := d.PendingLogo(); p != nil {
			return p.Filename + " (upload on save)"
		}
	case draft.LogoNone:
		return "(none)"
	}
	return string(d.Channel().Logo)
}

func nextValue(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// === Opening and closing ===

// openEditor starts a create or edit draft and switches to the editor
func (m Model) openEditor(kind domain.EntityKind, id string) (tea.Model, tea.Cmd) {
	drafts := m.deps.Editor.Drafts()
	var err error
	if id == "" {
		err = drafts.OpenForCreate(kind)
	} else {
		err = drafts.OpenForEdit(kind, id)
	}
	if err != nil {
		return m.setError(err, "open "+kind.String())
	}

	m.Screen = ScreenEditor
	m.focusItems = false
	m.form.SetCursor(0, 0)
	m.itemsCol.SetCursor(0, 0)
	m.form.SetFocused(true)
	m.itemsCol.SetFocused(false)
	verb := "New"
	if id != "" {
		verb = "Edit"
	}
	m.form.SetTitle(verb + " " + kind.String())
	m.updateLayout()
	return m, nil
}

// closeEditor discards the draft. A save still in flight completes on the
// server but its result is ignored.
func (m Model) closeEditor() (tea.Model, tea.Cmd) {
	m.deps.Editor.Drafts().Close()
	m.Screen = ScreenCollections
	m.saving = false
	m.browse = nil
	m.replacing = false
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, err := m.deps.Editor.Begin()
	if err != nil {
		return m.setError(err, "save")
	}
	m.saving = true
	return m, SubmitCmd(m.deps.Editor, sub)
}

// mutate applies fn to the open draft, reporting a busy or invalid edit
func (m Model) mutate(fn func(d *draft.Draft) error) (tea.Model, tea.Cmd) {
	d, err := m.deps.Editor.Drafts().Mutable()
	if err == nil {
		err = fn(d)
	}
	if err != nil {
		return m.setError(err, "edit")
	}
	return m, nil
}

// prompt opens the input modal and applies the entered text through fn
func (m Model) prompt(title, value, hint string, fn func(d *draft.Draft, text string) error) (tea.Model, tea.Cmd) {
	if _, err := m.deps.Editor.Drafts().Mutable(); err != nil {
		return m.setError(err, "edit")
	}
	cmd := m.InputModal.Show(title, value, hint)
	m.onInput = func(text string) error {
		d, err := m.deps.Editor.Drafts().Mutable()
		if err != nil {
			return err
		}
		return fn(d, text)
	}
	return m, cmd
}

// === Keys ===

func (m Model) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.deps.Editor.Drafts().Current()
	if d == nil {
		m.Screen = ScreenCollections
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Save):
		return m.submit()
	case key.Matches(msg, Keys.Escape):
		return m.closeEditor()
	case key.Matches(msg, Keys.NextField), key.Matches(msg, Keys.PrevField):
		if d.Kind() == domain.KindPlaylist {
			m.focusItems = !m.focusItems
			m.form.SetFocused(!m.focusItems)
			m.itemsCol.SetFocused(m.focusItems)
		}
		return m, nil
	}

	if m.focusItems {
		return m.handleItemKeys(msg, d)
	}
	return m.handleFormKeys(msg, d)
}

func (m Model) handleFormKeys(msg tea.KeyMsg, d *draft.Draft) (tea.Model, tea.Cmd) {
	fields := m.fields(d)
	if m.form.HandleNav(msg, len(fields)) {
		return m, nil
	}
	f := fields[min(m.form.Cursor(), len(fields)-1)]

	switch {
	case key.Matches(msg, Keys.Enter):
		if f.set != nil {
			return m.prompt(f.label, f.value(d), f.hint, f.set)
		}
		if f.cycle != nil {
			return m.mutate(f.cycle)
		}
	case key.Matches(msg, Keys.Cycle):
		if f.cycle != nil {
			return m.mutate(f.cycle)
		}
	case key.Matches(msg, Keys.Clear):
		if f.clear != nil {
			return m.mutate(f.clear)
		}
	}
	return m, nil
}

func (m Model) handleItemKeys(msg tea.KeyMsg, d *draft.Draft) (tea.Model, tea.Cmd) {
	entries := d.Items().Entries()
	if m.itemsCol.HandleNav(msg, len(entries)) {
		return m, nil
	}

	if key.Matches(msg, Keys.Browse) {
		return m.openBrowser(false, 0)
	}
	if len(entries) == 0 {
		return m, nil
	}
	cur := entries[min(m.itemsCol.Cursor(), len(entries)-1)]

	switch {
	case key.Matches(msg, Keys.MoveUp):
		model, cmd := m.mutate(func(d *draft.Draft) error { d.Items().MoveUp(cur.ID); return nil })
		mm := model.(Model)
		mm.itemsCol.SetCursor(d.Items().Index(cur.ID), d.Items().Len())
		return mm, cmd
	case key.Matches(msg, Keys.MoveDown):
		model, cmd := m.mutate(func(d *draft.Draft) error { d.Items().MoveDown(cur.ID); return nil })
		mm := model.(Model)
		mm.itemsCol.SetCursor(d.Items().Index(cur.ID), d.Items().Len())
		return mm, cmd
	case key.Matches(msg, Keys.Remove):
		model, cmd := m.mutate(func(d *draft.Draft) error { d.Items().RemoveByID(cur.ID); return nil })
		mm := model.(Model)
		mm.itemsCol.Clamp(d.Items().Len())
		return mm, cmd
	case key.Matches(msg, Keys.Replace):
		return m.openBrowser(true, cur.ID)
	case key.Matches(msg, Keys.Enter):
		return m.prompt("Title", cur.Item.Title, "", updateItem(cur.ID, func(it *domain.PlaylistItem, s string) error {
			it.Title = strings.TrimSpace(s)
			return nil
		}))
	case key.Matches(msg, Keys.Duration):
		return m.prompt("Duration (seconds)", strconv.Itoa(cur.Item.Duration), "", updateItem(cur.ID, func(it *domain.PlaylistItem, s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < 0 {
				return fmt.Errorf("%w: duration must be a whole number of seconds", domain.ErrValidation)
			}
			it.Duration = n
			return nil
		}))
	case key.Matches(msg, Keys.Describe):
		return m.prompt("Description", cur.Item.Description, "", updateItem(cur.ID, func(it *domain.PlaylistItem, s string) error {
			it.Description = s
			return nil
		}))
	}
	return m, nil
}

// updateItem adapts a per-item edit to the input modal. Parse errors leave
// the item untouched.
func updateItem(id int, apply func(it *domain.PlaylistItem, text string) error) func(d *draft.Draft, text string) error {
	return func(d *draft.Draft, text string) error {
		cur, ok := d.Items().Get(id)
		if !ok {
			return fmt.Errorf("%w: item was removed", domain.ErrNotFound)
		}
		if err := apply(&cur, text); err != nil {
			return err
		}
		d.Items().Update(id, func(it *domain.PlaylistItem) { *it = cur })
		return nil
	}
}

// === Rendering ===

func (m Model) editorView() string {
	d := m.deps.Editor.Drafts().Current()
	if d == nil {
		return ""
	}

	fields := m.fields(d)
	form := m.form.View(len(fields), func(i int, selected bool, width int) string {
		f := fields[i]
		label := styles.LabelStyle.Render(f.label)
		if selected && !m.focusItems {
			label = styles.FocusedLabelStyle.Render(f.label)
		}
		value := styles.Truncate(f.value(d), max(width-lipgloss.Width(label)-2, 4))
		return " " + label + styles.ValueStyle.Render(value)
	}, "")

	header := m.editorHeader(d)
	if d.Kind() != domain.KindPlaylist {
		return lipgloss.JoinVertical(lipgloss.Left, header, form)
	}

	entries := d.Items().Entries()
	items := m.itemsCol.View(len(entries), func(i int, selected bool, width int) string {
		return renderItemRow(i, entries[i].Item, selected && m.focusItems, width)
	}, "No items. Press tab then a to add from the catalog.")
	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinHorizontal(lipgloss.Top, form, items))
}

func (m Model) editorHeader(d *draft.Draft) string {
	drafts := m.deps.Editor.Drafts()
	parts := []string{styles.BadgeStyle.Render(drafts.State().String() + " " + d.Kind().String())}
	if d.Name() != "" {
		parts = append(parts, styles.TitleStyle.Render(d.Name()))
	}
	if d.Kind() == domain.KindPlaylist {
		var total int
		for _, it := range d.Items().Items() {
			total += it.Duration
		}
		summary := fmt.Sprintf("%d items", d.Items().Len())
		if s := domain.FormatSeconds(total); s != "" {
			summary += " · " + s
		}
		parts = append(parts, styles.DimStyle.Render(summary))
	}
	if drafts.Submitting() {
		parts = append(parts, styles.WarningStyle.Render("saving..."))
	}
	return strings.Join(parts, "  ")
}

func renderItemRow(i int, it domain.PlaylistItem, selected bool, width int) string {
	num := fmt.Sprintf("%3d. ", i+1)
	title := it.Title
	if title == "" {
		title = it.FilePath
	}
	dur := domain.FormatSeconds(it.Duration)
	if dur == "" {
		dur = "--"
	}
	dur = "  " + dur
	titleW := max(width-lipgloss.Width(num)-lipgloss.Width(dur)-2, 8)

	return styles.RenderListRow([]styles.RowPart{
		{Text: num, Foreground: &styles.DimGray},
		{Text: styles.Pad(title, titleW)},
		{Text: dur, Foreground: &styles.TroutTeal},
	}, selected, width)
}
