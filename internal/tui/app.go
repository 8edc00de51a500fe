package tui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/ledger"
	"github.com/abhisek/metrofocus/internal/session"
	"github.com/abhisek/metrofocus/internal/ui/layout"
)

// AppModel is the root Bubble Tea model. The engine is ticked elsewhere;
// the model only re-renders on engine and ledger notifications.
type AppModel struct {
	router   *Router
	timer    *TimerScreen
	ledger   *ledger.Ledger
	player   game.PlayerState
	sessions <-chan session.Event
	players  <-chan game.PlayerState
	width    int
	height   int
}

// NewAppModel subscribes to engine and ledger and shows the timer screen.
func NewAppModel(ctx context.Context, engine *session.Engine, l *ledger.Ledger) AppModel {
	timer := NewTimerScreen(ctx, engine, l)
	return AppModel{
		router:   NewRouter(timer),
		timer:    timer,
		ledger:   l,
		player:   l.Snapshot(),
		sessions: engine.Subscribe(64),
		players:  l.Subscribe(16),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		waitForSession(m.sessions),
		waitForPlayer(m.players),
		m.router.Active().Init(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, popScreen
			}
			return m, nil
		}

	case sessionEventMsg:
		m.timer.observe(session.Event(msg))
		return m, waitForSession(m.sessions)

	case playerMsg:
		m.player = game.PlayerState(msg)
		if m.router.Active() != Screen(m.timer) {
			m.timer.rebuildHome()
		}
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, waitForPlayer(m.players))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), layout.HeaderStats{
		Currency:     m.player.Currency,
		Rank:         m.player.Rank.DisplayName(),
		FocusMinutes: m.player.TotalFocusMinutes,
	}, m.width)

	hints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, engine *session.Engine, l *ledger.Ledger) error {
	p := tea.NewProgram(NewAppModel(ctx, engine, l))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
