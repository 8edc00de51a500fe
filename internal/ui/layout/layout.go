package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// Smallest terminal the timer frame fits in.
const (
	MinWidth  = 60
	MinHeight = 18
)

// KeyHint is one key binding listed in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal can't hold the frame.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := theme.Title.Render("Too cramped in here") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("MetroFocus needs %dx%d, got %dx%d.", MinWidth, MinHeight, width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(body))
}

// HeaderStats is the player summary shown in the header.
type HeaderStats struct {
	Currency     int
	Rank         string
	FocusMinutes int
}

func (s HeaderStats) segments() []string {
	segs := []string{
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("$%d", s.Currency)),
		lipgloss.NewStyle().Foreground(theme.Frost).Render("★ " + s.Rank),
	}
	if s.FocusMinutes > 0 {
		segs = append(segs, theme.Hint.Render(fmt.Sprintf("%d min", s.FocusMinutes)))
	}
	return segs
}

// RenderHeader draws the app name, the screen title centered, and the
// player stats on the right. Stats are dropped from the right when the
// bar runs out of room.
func RenderHeader(title string, stats HeaderStats, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" MetroFocus")
	center := theme.Body.Render(title)

	inner := max(width-4, 0)
	segs := stats.segments()
	right := strings.Join(segs, "  ")
	for len(segs) > 0 && lipgloss.Width(brand)+lipgloss.Width(center)+lipgloss.Width(right)+2 > inner {
		segs = segs[:len(segs)-1]
		right = strings.Join(segs, "  ")
	}

	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(brand), 1)
	rightGap := max(inner-lipgloss.Width(brand)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar(width).Render(brand + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter lists the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			theme.Hint.Render(h.Description)
	}
	return bar(width).Render(" " + strings.Join(parts, "  ·  "))
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
