package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/ledger"
	"github.com/abhisek/metrofocus/internal/ui/components"
	"github.com/abhisek/metrofocus/internal/ui/layout"
	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// ApartmentScreen shows the furniture the player owns, room by room.
type ApartmentScreen struct {
	ctx    context.Context
	ledger *ledger.Ledger
}

// NewApartmentScreen creates the apartment view for l.
func NewApartmentScreen(ctx context.Context, l *ledger.Ledger) *ApartmentScreen {
	return &ApartmentScreen{ctx: ctx, ledger: l}
}

func (s *ApartmentScreen) Init() tea.Cmd {
	return nil
}

func (s *ApartmentScreen) Title() string {
	return "Apartment"
}

func (s *ApartmentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "s", Description: "Shop"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ApartmentScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, popScreen
		case "s":
			return s, pushScreen(NewShopScreen(s.ctx, s.ledger))
		}
	}
	return s, nil
}

// categories returns the catalog's categories in first-seen order.
func categories(f *catalog.Furniture) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range f.Items() {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

func (s *ApartmentScreen) View(width, height int) string {
	colWidth := min(width-4, 56)
	p := s.ledger.Snapshot()
	furniture := s.ledger.Furniture()

	var b strings.Builder
	b.WriteString(theme.Title.Width(colWidth).Render("Your apartment"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(colWidth).Render(
		fmt.Sprintf("Level %d/%d · %d of %d items", p.UnlockLevel, game.MaxUnlockLevel,
			len(p.OwnedList()), len(furniture.Items()))))
	b.WriteString("\n\n")

	for _, category := range categories(furniture) {
		items := furniture.ByCategory(category)
		owned := 0
		for _, it := range items {
			if p.Owns(it.ID) {
				owned++
			}
		}
		b.WriteString(theme.Body.Render(fmt.Sprintf("%s (%d/%d)", category, owned, len(items))))
		b.WriteString("\n")

		bar := components.NewProgressBar("", float64(owned)/float64(len(items)), false, min(colWidth, 30))
		b.WriteString(bar.View())
		b.WriteString("\n")

		for _, it := range items {
			line := "    · " + it.Name
			if it.Emoji != "" {
				line = "  " + it.Emoji + " " + it.Name
			}
			if p.Owns(it.ID) {
				b.WriteString(theme.Owned.Render(line))
			} else {
				b.WriteString(theme.Unaffordable.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
