package tui

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/quill/internal/core/styles"
)

// Modal represents a confirmation dialog.
type Modal struct {
	title           string
	message         string
	confirmLabel    string
	cancelLabel     string
	visible         bool
	confirmSelected bool
}

// NewModal creates a new modal with the given title and message.
func NewModal(title, message, confirmLabel, cancelLabel string) Modal {
	return Modal{
		title:           title,
		message:         message,
		confirmLabel:    confirmLabel,
		cancelLabel:     cancelLabel,
		visible:         true,
		confirmSelected: true, // default to confirm button
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// Overlay renders the modal centered over the full screen area.
func (m Modal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	var confirmBtn, cancelBtn string
	if m.confirmSelected {
		confirmBtn = styles.ModalButtonSelectedStyle.Render(m.confirmLabel)
		cancelBtn = styles.ModalButtonStyle.Render(m.cancelLabel)
	} else {
		confirmBtn = styles.ModalButtonStyle.Render(m.confirmLabel)
		cancelBtn = styles.ModalButtonSelectedStyle.Render(m.cancelLabel)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)
	buttonRow := lipgloss.NewStyle().MarginTop(1).Render(buttons)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		buttonRow,
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
	)

	modal := styles.ModalStyle.Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}
