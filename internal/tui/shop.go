package tui

import (
	"context"
	"errors"
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

// purchaseMsg reports the outcome of a purchase started from the menu.
type purchaseMsg struct {
	Item catalog.Item
	Err  error
}

// ShopScreen lists the furniture catalog and buys the selected item.
type ShopScreen struct {
	ctx    context.Context
	ledger *ledger.Ledger
	menu   components.Menu
	notice string
}

// NewShopScreen creates the shop for l.
func NewShopScreen(ctx context.Context, l *ledger.Ledger) *ShopScreen {
	s := &ShopScreen{ctx: ctx, ledger: l}
	s.rebuild()
	return s
}

func (s *ShopScreen) rebuild() {
	selected := s.menu.Selected
	p := s.ledger.Snapshot()

	var items []components.MenuItem
	for _, item := range s.ledger.Furniture().Items() {
		detail := fmt.Sprintf("$%d", item.Cost)
		if p.Owns(item.ID) {
			detail = "owned"
		}
		label := item.Name
		if item.Emoji != "" {
			label = item.Emoji + " " + label
		}
		items = append(items, components.MenuItem{
			Label:    label,
			Detail:   detail,
			Disabled: p.Owns(item.ID),
			Action:   s.buy(item.ID),
		})
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		s.menu.Selected = selected
	}
}

func (s *ShopScreen) buy(id game.ItemID) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			item, err := s.ledger.Purchase(s.ctx, id)
			return purchaseMsg{Item: item, Err: err}
		}
	}
}

func (s *ShopScreen) Init() tea.Cmd {
	return nil
}

func (s *ShopScreen) Title() string {
	return "Apartment Shop"
}

func (s *ShopScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Browse"},
		{Key: "Enter", Description: "Buy"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ShopScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case purchaseMsg:
		s.notice = purchaseNotice(msg)
		s.rebuild()
		return s, nil
	case playerMsg:
		s.rebuild()
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, popScreen
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func purchaseNotice(msg purchaseMsg) string {
	var funds *game.InsufficientFundsError
	switch {
	case msg.Err == nil:
		if msg.Item.ID == game.CapstoneItem {
			return "Welcome to the penthouse! Apartment fully unlocked."
		}
		return "Bought " + msg.Item.Name + "."
	case errors.As(msg.Err, &funds):
		return fmt.Sprintf("Need $%d more for %s.", funds.Needed-funds.Available, msg.Item.Name)
	case errors.Is(msg.Err, game.ErrAlreadyOwned):
		return "Already in your apartment."
	case game.IsPersistence(msg.Err):
		return "Bought " + msg.Item.Name + ", but it was not saved: " + msg.Err.Error()
	default:
		return msg.Err.Error()
	}
}

func (s *ShopScreen) View(width, height int) string {
	colWidth := min(width-4, 56)
	p := s.ledger.Snapshot()

	var b strings.Builder
	b.WriteString(theme.Title.Width(colWidth).Render("Furnish your apartment"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(colWidth).Render(
		fmt.Sprintf("Balance $%d · Level %d/%d", p.Currency, p.UnlockLevel, game.MaxUnlockLevel)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View(colWidth))
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
