package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// FormatClock renders seconds as M:SS, or H:MM:SS from an hour up.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Countdown is the boxed clock shown on the timer screen.
type Countdown struct {
	Seconds  int
	Paused   bool
	Complete bool
	Style    lipgloss.Style
}

// View renders the clock with a status line under it.
func (c Countdown) View() string {
	clock := strings.Join(strings.Split(FormatClock(c.Seconds), ""), " ")
	status := "running"
	switch {
	case c.Complete:
		status = "complete"
	case c.Paused:
		status = "paused"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 4).
		Render(c.Style.Render(clock))

	return lipgloss.JoinVertical(lipgloss.Center,
		box,
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(status),
	)
}
