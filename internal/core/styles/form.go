package styles

import (
	"image/color"

	"github.com/charmbracelet/huh"
	lipglossv1 "github.com/charmbracelet/lipgloss"
)

// FormTheme returns the huh theme used by interactive prompts, matched to
// the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase16()

	primary := lipglossv1.Color(hexString(CurrentPalette.Primary))
	muted := lipglossv1.Color(hexString(CurrentPalette.Muted))
	errColor := lipglossv1.Color(hexString(CurrentPalette.Error))

	t.Focused.Title = t.Focused.Title.Foreground(primary)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(errColor)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(errColor)
	t.Blurred.Title = t.Blurred.Title.Foreground(muted)

	return t
}

func hexString(c color.Color) string {
	if p := colorHexPtr(c); p != nil {
		return *p
	}
	return ""
}
