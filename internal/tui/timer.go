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
	"github.com/abhisek/metrofocus/internal/session"
	"github.com/abhisek/metrofocus/internal/ui/components"
	"github.com/abhisek/metrofocus/internal/ui/layout"
	"github.com/abhisek/metrofocus/internal/ui/theme"
)

// TimerScreen shows the active session and forwards keys to the engine.
type TimerScreen struct {
	ctx        context.Context
	engine     *session.Engine
	ledger     *ledger.Ledger
	lastReward *game.Reward
	notice     string
	confirmQ   bool
	home       components.Menu
}

// NewTimerScreen creates the root screen of the host.
func NewTimerScreen(ctx context.Context, engine *session.Engine, l *ledger.Ledger) *TimerScreen {
	s := &TimerScreen{ctx: ctx, engine: engine, ledger: l}
	s.rebuildHome()
	return s
}

func (s *TimerScreen) Init() tea.Cmd {
	return nil
}

func (s *TimerScreen) Title() string {
	st := s.engine.Snapshot()
	if st.Idle() {
		return "Home"
	}
	return st.Kind().DisplayName()
}

func (s *TimerScreen) KeyHints() []layout.KeyHint {
	st := s.engine.Snapshot()
	switch {
	case st.Idle():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Browse"},
			{Key: "Enter", Description: "Select"},
			{Key: "s", Description: "Shop"},
			{Key: "q", Description: "Quit"},
		}
	case st.AwaitingAdvance():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next stage"},
			{Key: "a", Description: "Abandon"},
			{Key: "s", Description: "Shop"},
			{Key: "q", Description: "Quit"},
		}
	case st.Completed():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "s", Description: "Shop"},
			{Key: "q", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Space", Description: "Pause/Resume"},
			{Key: "r", Description: "Reset"},
			{Key: "a", Description: "Abandon"},
			{Key: "s", Description: "Shop"},
			{Key: "q", Description: "Quit"},
		}
	}
}

// observe records engine notifications that the view can't derive from a
// snapshot. It is called for every event, whichever screen is on top.
func (s *TimerScreen) observe(ev session.Event) {
	switch ev.Type {
	case session.EventCompleted:
		s.lastReward = ev.Reward
		s.notice = ""
		if ev.Err != nil {
			s.notice = "progress not saved: " + ev.Err.Error()
		}
	case session.EventStarted, session.EventStageAdvanced, session.EventAbandoned, session.EventDismissed:
		s.lastReward = nil
	}
	s.rebuildHome()
}

func (s *TimerScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case playerMsg:
		s.rebuildHome()
		return s, nil
	case sessionStartedMsg:
		s.notice = ""
		if msg.Err != nil {
			s.notice = errorNotice(msg.Err)
		}
		s.rebuildHome()
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TimerScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	key := msg.String()
	if key != "q" {
		s.confirmQ = false
	}

	st := s.engine.Snapshot()
	if st.Idle() && key != "s" && key != "q" {
		var cmd tea.Cmd
		s.home, cmd = s.home.Update(msg)
		return s, cmd
	}

	var err error
	switch key {
	case "space", "p":
		if st.Running {
			_, err = s.engine.Pause()
		} else {
			_, err = s.engine.Resume()
		}
	case "r":
		_, err = s.engine.Reset()
	case "a":
		_, err = s.engine.Abandon(s.ctx)
		if err == nil {
			s.notice = "Session abandoned. No reward."
			if stake := st.Stake(); stake > 0 {
				s.notice = fmt.Sprintf("Hustle abandoned. $%d stake forfeited.", stake)
			}
		}
	case "enter":
		switch {
		case st.AwaitingAdvance():
			_, err = s.engine.AdvanceStage(s.ctx)
		case st.Completed():
			_, err = s.engine.Dismiss()
		}
	case "s":
		return s, pushScreen(NewShopScreen(s.ctx, s.ledger))
	case "q":
		if st.Idle() || st.Finished() || s.confirmQ {
			return s, tea.Quit
		}
		s.confirmQ = true
		s.notice = "Press q again to abandon the session and quit."
		return s, nil
	}

	if err != nil {
		s.notice = errorNotice(err)
	}
	return s, nil
}

func (s *TimerScreen) View(width, height int) string {
	st := s.engine.Snapshot()
	if st.Idle() {
		return s.renderIdle(width, height)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderHeading(st))
	b.WriteString("\n\n")

	clock := components.Countdown{
		Seconds:  st.RemainingSeconds,
		Paused:   st.Paused(),
		Complete: st.Completed(),
		Style:    theme.KindColor(st.Kind()),
	}
	b.WriteString(clock.View())
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", st.Progress(), true, min(width-8, 60))
	bar.Fill = lipgloss.NewStyle().Background(theme.KindColor(st.Kind()).GetForeground())
	if v, ok := st.Variant.(session.MultiStage); ok {
		stages := len(game.AllStages())
		bar.Marks = stages
		bar.Percent = (float64(v.Stage.Index()) + st.Progress()) / float64(stages)
	}
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	if detail := s.renderDetail(st); detail != "" {
		b.WriteString(detail)
		b.WriteString("\n")
	}
	if st.Completed() {
		b.WriteString(s.renderCompletion(st))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(theme.Warning.Render(s.notice))
		b.WriteString("\n")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *TimerScreen) renderIdle(width, height int) string {
	p := s.ledger.Snapshot()
	citizen := catalog.CitizenRankFor(p.TotalFocusMinutes)
	colWidth := min(width-4, 48)

	lines := []string{
		theme.Title.Render("Welcome home, " + p.Rank.DisplayName()),
		"",
		theme.Body.Render(fmt.Sprintf("%d focus minutes · %s", p.TotalFocusMinutes, citizen.Name)),
		theme.Body.Render(fmt.Sprintf("Apartment level %d · %d items owned", p.UnlockLevel, len(p.OwnedList()))),
		"",
		lipgloss.NewStyle().Width(colWidth).Render(s.home.View(colWidth)),
	}
	if s.notice != "" {
		lines = append(lines, "", theme.Warning.Render(s.notice))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (s *TimerScreen) renderHeading(st session.State) string {
	kindStyle := theme.KindColor(st.Kind())
	switch v := st.Variant.(type) {
	case session.Standard:
		region, ok := catalog.LookupRegion(v.Region)
		if !ok {
			return kindStyle.Render(string(v.Region))
		}
		return kindStyle.Render(region.Icon+"  "+region.Name) + "\n" +
			theme.Hint.Render(region.Character+": \""+region.Message+"\"")
	case session.MultiStage:
		return kindStyle.Render(fmt.Sprintf("Case file · Stage %d/%d · %s",
			v.Stage.Index()+1, len(game.AllStages()), v.Stage.DisplayName()))
	case session.Wagered:
		return kindStyle.Render("Sahara Square Hustle")
	}
	return ""
}

func (s *TimerScreen) renderDetail(st session.State) string {
	switch v := st.Variant.(type) {
	case session.Wagered:
		return theme.Body.Render(fmt.Sprintf("Stake $%d · Payout $%d on completion · Forfeit on abandon",
			v.Stake, game.WagerPayout(v.Stake)))
	case session.MultiStage:
		var stages []string
		for _, stage := range game.AllStages() {
			mark := "○"
			switch {
			case stage.Index() < v.Stage.Index(), stage == v.Stage && st.Completed():
				mark = "●"
			case stage == v.Stage:
				mark = "◐"
			}
			stages = append(stages, mark+" "+stage.DisplayName())
		}
		return theme.Body.Render(strings.Join(stages, "   "))
	}
	return ""
}

func (s *TimerScreen) renderCompletion(st session.State) string {
	if st.AwaitingAdvance() {
		return theme.Owned.Render("Stage complete! Press Enter for the next stage.")
	}
	r := s.lastReward
	if r == nil {
		return theme.Owned.Render("Session complete!")
	}

	parts := []string{fmt.Sprintf("+%d min", r.FocusMinutes)}
	if r.Currency > 0 {
		parts = append(parts, fmt.Sprintf("+$%d", r.Currency))
	}
	if r.RankProgress > 0 {
		parts = append(parts, fmt.Sprintf("+%d rank progress", r.RankProgress))
	}
	msg := "Session complete! " + strings.Join(parts, " · ")
	if r.Promoted {
		msg += "\nPromoted to " + r.RankAfter.DisplayName() + "!"
	}
	return theme.Owned.Render(msg)
}
