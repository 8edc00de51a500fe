package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// ProgressBar shows how much of a session has elapsed. Marks splits the
// bar into equal sections, as for the stages of a case.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Marks       int
	Fill        lipgloss.Style
}

// NewProgressBar creates a progress bar filled with the secondary color.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        lipgloss.NewStyle().Background(theme.Secondary),
	}
}

func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label) + "  ")
	}

	suffix := ""
	if p.ShowPercent {
		suffix = theme.Hint.Render(fmt.Sprintf(" %3d%%", int(p.Percent*100)))
	}

	cells := max(p.Width-lipgloss.Width(b.String())-lipgloss.Width(suffix), 4)
	filled := max(0, min(int(float64(cells)*p.Percent), cells))
	empty := lipgloss.NewStyle().Background(theme.Border)
	step := 0
	if p.Marks > 1 {
		step = cells / p.Marks
	}

	for i := 0; i < cells; i++ {
		glyph := " "
		if step > 0 && i > 0 && i%step == 0 && i < cells-1 {
			glyph = "│"
		}
		if i < filled {
			b.WriteString(p.Fill.Render(glyph))
		} else {
			b.WriteString(empty.Render(glyph))
		}
	}
	b.WriteString(suffix)
	return b.String()
}
