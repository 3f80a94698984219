package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/troutctl/internal/tui/styles"
)

// ConfirmModal asks a yes/no question
type ConfirmModal struct {
	visible bool
	title   string
	message string
}

// Show opens the modal
func (m *ConfirmModal) Show(title, message string) {
	m.visible = true
	m.title = title
	m.message = message
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() { m.visible = false }

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool { return m.visible }

// View renders the confirmation modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}
	row := lipgloss.NewStyle().Width(inputModalWidth).Background(styles.SlateDark)
	content := lipgloss.JoinVertical(lipgloss.Left,
		row.Foreground(styles.White).Bold(true).Render(m.title),
		row.Render(""),
		row.Foreground(styles.LightGray).Render(m.message),
		row.Render(""),
		row.Render(styles.HelpKeyStyle.Render("y")+styles.HelpDescStyle.Render(" confirm  ")+
			styles.HelpKeyStyle.Render("n/esc")+styles.HelpDescStyle.Render(" cancel")),
	)
	return styles.ModalStyle.Render(content)
}
