package tui

import (
	"context"
	"io"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/ledger"
	"github.com/abhisek/metrofocus/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTestDeps(t *testing.T) (*session.Engine, *ledger.Ledger) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	l, err := ledger.New(context.Background(), nil, ledger.WithLogger(log))
	require.NoError(t, err)
	e := session.New(l, session.WithLogger(log))
	return e, l
}

func tickAll(t *testing.T, e *session.Engine) {
	t.Helper()
	for e.Snapshot().Running {
		_, err := e.Tick(context.Background())
		require.NoError(t, err)
	}
}

func TestTimerPauseResume(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)
	_, err := e.StartStandard(context.Background(), "tundratown", 25)
	require.NoError(t, err)

	s.Update(specialKey(tea.KeySpace))
	assert.True(t, e.Snapshot().Paused())

	s.Update(keyPress('p'))
	assert.True(t, e.Snapshot().Running)
}

func TestTimerAbandonForfeitsStake(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)
	_, err := e.StartWagered(context.Background(), 500, 60)
	require.NoError(t, err)

	s.Update(keyPress('a'))
	assert.True(t, e.Snapshot().Idle())
	assert.Contains(t, s.notice, "$500 stake forfeited")
	assert.Equal(t, 0, l.Snapshot().Currency)
}

func TestTimerEnterAdvancesCase(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)
	_, err := e.StartMultiStage(context.Background())
	require.NoError(t, err)
	tickAll(t, e)

	assert.Contains(t, s.View(80, 30), "Press Enter for the next stage")

	s.Update(specialKey(tea.KeyEnter))
	st := e.Snapshot()
	assert.Equal(t, game.StageChase, st.Stage())
	assert.True(t, st.Running)
}

func TestTimerShowsRewardAndDismisses(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)
	events := e.Subscribe(4096)

	_, err := e.StartStandard(context.Background(), "tundratown", 1)
	require.NoError(t, err)
	tickAll(t, e)
	for len(events) > 0 {
		s.observe(<-events)
	}

	view := s.View(80, 30)
	assert.Contains(t, view, "+1 min")
	assert.Contains(t, view, "+$10")

	s.Update(specialKey(tea.KeyEnter))
	assert.True(t, e.Snapshot().Idle())
}

func TestTimerQuitNeedsConfirmationWhileRunning(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)
	_, err := e.StartStandard(context.Background(), "tundratown", 25)
	require.NoError(t, err)

	_, cmd := s.Update(keyPress('q'))
	assert.Nil(t, cmd)
	assert.True(t, s.confirmQ)

	_, cmd = s.Update(keyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTimerInvalidKeyShowsNotice(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)
	_, err := e.StartStandard(context.Background(), "tundratown", 1)
	require.NoError(t, err)
	tickAll(t, e)

	s.Update(keyPress('r'))
	assert.Contains(t, s.notice, "Can't reset")
}

func TestTimerOpensShop(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	_, cmd := s.Update(keyPress('s'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(pushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Apartment Shop", msg.Screen.Title())
}
