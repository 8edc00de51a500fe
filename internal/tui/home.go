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
	"github.com/abhisek/metrofocus/internal/session"
	"github.com/abhisek/metrofocus/internal/ui/components"
	"github.com/abhisek/metrofocus/internal/ui/layout"
	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// sessionStartedMsg reports the outcome of a start chosen from a menu.
type sessionStartedMsg struct {
	Err error
}

// minuteStep is how far ←/→ move the citizen session length.
const minuteStep = 5

func startSession(ctx context.Context, start func(context.Context) (session.State, error)) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			_, err := start(ctx)
			return sessionStartedMsg{Err: err}
		}
	}
}

func errorNotice(err error) string {
	var te *game.InvalidTransitionError
	var funds *game.InsufficientFundsError
	switch {
	case errors.As(err, &te):
		return "Can't " + te.Op + ": " + te.Reason
	case errors.As(err, &funds):
		return fmt.Sprintf("Need $%d, you have $%d.", funds.Needed, funds.Available)
	case game.IsPersistence(err):
		return "progress not saved: " + err.Error()
	default:
		return err.Error()
	}
}

// rebuildHome refreshes the launcher from the current balance, keeping the
// cursor where it was.
func (s *TimerScreen) rebuildHome() {
	selected := s.home.Selected
	p := s.ledger.Snapshot()
	unlocked := catalog.UnlockedRegions(p.TotalFocusMinutes)

	items := []components.MenuItem{
		{
			Label:  "Citizen session",
			Detail: fmt.Sprintf("%d/%d regions", len(unlocked), len(catalog.Regions())),
			Action: func() tea.Cmd {
				return pushScreen(NewRegionScreen(s.ctx, s.engine, s.ledger))
			},
		},
		{
			Label:  "ZPD case",
			Detail: fmt.Sprintf("%d stages · rank", len(game.AllStages())),
			Action: startSession(s.ctx, s.engine.StartMultiStage),
		},
		{
			Label:    "Sahara Square hustle",
			Detail:   fmt.Sprintf("$%d stake · %d min", game.DefaultWagerStake, game.DefaultWagerMinutes),
			Disabled: !s.ledger.CanAffordWager(game.DefaultWagerStake),
			Action: startSession(s.ctx, func(ctx context.Context) (session.State, error) {
				return s.engine.StartWagered(ctx, game.DefaultWagerStake, game.DefaultWagerMinutes)
			}),
		},
		{
			Label:  "Apartment",
			Detail: fmt.Sprintf("level %d", p.UnlockLevel),
			Action: func() tea.Cmd {
				return pushScreen(NewApartmentScreen(s.ctx, s.ledger))
			},
		},
		{
			Label:  "Shop",
			Detail: fmt.Sprintf("$%d", p.Currency),
			Action: func() tea.Cmd {
				return pushScreen(NewShopScreen(s.ctx, s.ledger))
			},
		},
		{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	s.home = components.NewMenu(items)
	if selected < len(items) && !items[selected].Disabled {
		s.home.Selected = selected
	}
}

// RegionScreen picks the district and length of a citizen session.
type RegionScreen struct {
	ctx     context.Context
	engine  *session.Engine
	ledger  *ledger.Ledger
	menu    components.Menu
	minutes int
	notice  string
}

// NewRegionScreen lists the regions unlocked for the player.
func NewRegionScreen(ctx context.Context, engine *session.Engine, l *ledger.Ledger) *RegionScreen {
	s := &RegionScreen{ctx: ctx, engine: engine, ledger: l, minutes: game.DefaultStandardMinutes}
	s.rebuild()
	return s
}

func (s *RegionScreen) rebuild() {
	selected := s.menu.Selected
	p := s.ledger.Snapshot()

	var items []components.MenuItem
	for _, r := range catalog.UnlockedRegions(p.TotalFocusMinutes) {
		id := r.ID
		items = append(items, components.MenuItem{
			Label:  r.Icon + " " + r.Name,
			Detail: r.Character,
			Action: startSession(s.ctx, func(ctx context.Context) (session.State, error) {
				return s.engine.StartStandard(ctx, id, s.minutes)
			}),
		})
	}
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *RegionScreen) Init() tea.Cmd {
	return nil
}

func (s *RegionScreen) Title() string {
	return "Citizen Session"
}

func (s *RegionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Region"},
		{Key: "←→", Description: "Minutes"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RegionScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		if msg.Err != nil {
			s.notice = errorNotice(msg.Err)
		}
		if !s.engine.Snapshot().Idle() {
			return s, popScreen
		}
		return s, nil
	case playerMsg:
		s.rebuild()
		return s, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, popScreen
		case "left", "h":
			s.minutes = max(s.minutes-minuteStep, game.MinSessionMinutes)
			return s, nil
		case "right", "l":
			s.minutes = min(s.minutes+minuteStep, game.MaxSessionMinutes)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *RegionScreen) View(width, height int) string {
	colWidth := min(width-4, 56)
	p := s.ledger.Snapshot()

	var b strings.Builder
	b.WriteString(theme.Title.Width(colWidth).Render("Where to today?"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(colWidth).Render(
		fmt.Sprintf("◀ %d min ▶ · earns $%d", s.minutes, s.minutes*game.CurrencyPerMinute)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View(colWidth))
	if next, ok := catalog.NextRegion(p.TotalFocusMinutes); ok {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%s %s unlocks at %d focus minutes.",
			next.Icon, next.Name, next.UnlockThreshold)))
	}
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
