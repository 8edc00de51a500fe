package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/session"
)

// sessionEventMsg carries an engine notification into the update loop.
type sessionEventMsg session.Event

// playerMsg carries a ledger update into the update loop.
type playerMsg game.PlayerState

func waitForSession(ch <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg(ev)
	}
}

func waitForPlayer(ch <-chan game.PlayerState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return playerMsg(st)
	}
}
