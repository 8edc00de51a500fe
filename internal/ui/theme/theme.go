package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/game"
)

// Color palette, one accent per district mood.
var (
	Primary   = lipgloss.Color("#3B82F6") // Precinct Blue
	Secondary = lipgloss.Color("#14B8A6") // Rainforest Teal
	Accent    = lipgloss.Color("#F59E0B") // Sahara Gold
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Frost     = lipgloss.Color("#A5F3FC") // Tundra Ice
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Owned = lipgloss.NewStyle().
		Foreground(Success)

	Unaffordable = lipgloss.NewStyle().
			Foreground(TextDim).
			Strikethrough(true)

	Warning = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// KindColor returns the accent used for a session kind.
func KindColor(kind game.Kind) lipgloss.Style {
	switch kind {
	case game.KindMultiStage:
		return lipgloss.NewStyle().Foreground(Primary).Bold(true)
	case game.KindWagered:
		return lipgloss.NewStyle().Foreground(Accent).Bold(true)
	case game.KindStandard:
		return lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(TextDim)
	}
}
