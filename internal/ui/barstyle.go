package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barStyle paints every cell of a status bar, including the gaps between
// separately styled segments that lipgloss would otherwise leave unpainted.
type barStyle struct {
	bg    lipgloss.Color
	space string
}

func newBarStyle(bgColor string) barStyle {
	bg := lipgloss.Color(bgColor)
	return barStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render applies style on top of the bar background, word by word.
func (b barStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	words := strings.Split(text, " ")
	styled := style.Background(b.bg)
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Join concatenates already rendered segments with a painted separator.
func (b barStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// Fill pads content to width with the bar background.
func (b barStyle) Fill(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(max(width, 0)).Render(content)
}
