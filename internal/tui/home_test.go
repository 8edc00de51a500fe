package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/session"
)

func homeItem(t *testing.T, s *TimerScreen, label string) (int, bool) {
	t.Helper()
	for i, item := range s.home.Items {
		if item.Label == label {
			return i, item.Disabled
		}
	}
	t.Fatalf("no home item %q", label)
	return 0, false
}

// selectHome moves the cursor to label and presses Enter.
func selectHome(t *testing.T, s *TimerScreen, label string) tea.Cmd {
	t.Helper()
	idx, _ := homeItem(t, s, label)
	for s.home.Selected < idx {
		s.Update(specialKey(tea.KeyDown))
	}
	require.Equal(t, idx, s.home.Selected)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	return cmd
}

func TestHomeHustleNeedsStake(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	_, disabled := homeItem(t, s, "Sahara Square hustle")
	assert.False(t, disabled)

	require.NoError(t, l.Withdraw(context.Background(), 1))
	s.Update(playerMsg(l.Snapshot()))

	_, disabled = homeItem(t, s, "Sahara Square hustle")
	assert.True(t, disabled)
}

func TestHomeStartsCase(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	msg := selectHome(t, s, "ZPD case")()
	started, ok := msg.(sessionStartedMsg)
	require.True(t, ok)
	require.NoError(t, started.Err)

	st := e.Snapshot()
	assert.Equal(t, game.KindMultiStage, st.Kind())
	assert.Equal(t, game.StageClues, st.Stage())
	assert.True(t, st.Running)

	s.Update(started)
	assert.Empty(t, s.notice)
	assert.NotContains(t, s.View(80, 30), "Citizen session")
}

func TestHomeStartsHustle(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	msg := selectHome(t, s, "Sahara Square hustle")()
	require.NoError(t, msg.(sessionStartedMsg).Err)

	st := e.Snapshot()
	assert.Equal(t, game.KindWagered, st.Kind())
	assert.Equal(t, game.DefaultWagerStake, st.Stake())
	assert.Equal(t, game.DefaultWagerMinutes*60, st.TotalSeconds)
	assert.Equal(t, 0, l.Snapshot().Currency)
}

func TestHomeStartFailureShowsNotice(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	s.Update(sessionStartedMsg{Err: &game.InsufficientFundsError{Needed: 500, Available: 120}})
	assert.Equal(t, "Need $500, you have $120.", s.notice)
	assert.True(t, e.Snapshot().Idle())
}

func TestHomeIdleKeysDoNotReachEngine(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	s.Update(keyPress('r'))
	s.Update(keyPress('a'))
	s.Update(specialKey(tea.KeySpace))
	assert.Empty(t, s.notice)
	assert.True(t, e.Snapshot().Idle())
}

func TestHomeOpensRegionsAndApartment(t *testing.T) {
	e, l := newTestDeps(t)
	s := NewTimerScreen(context.Background(), e, l)

	push, ok := selectHome(t, s, "Citizen session")().(pushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Citizen Session", push.Screen.Title())

	push, ok = selectHome(t, s, "Apartment")().(pushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Apartment", push.Screen.Title())
}

func TestRegionScreenStartsStandard(t *testing.T) {
	e, l := newTestDeps(t)
	r := NewRegionScreen(context.Background(), e, l)
	require.Len(t, r.menu.Items, len(catalog.UnlockedRegions(0)))

	r.Update(specialKey(tea.KeyRight))
	r.Update(specialKey(tea.KeyDown))
	_, cmd := r.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	msg := cmd()

	st := e.Snapshot()
	assert.Equal(t, game.KindStandard, st.Kind())
	assert.Equal(t, catalog.UnlockedRegions(0)[1].ID, st.Region())
	assert.Equal(t, 30*60, st.TotalSeconds)

	_, cmd = r.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, popScreenMsg{}, cmd())
}

func TestRegionScreenClampsMinutes(t *testing.T) {
	e, l := newTestDeps(t)
	r := NewRegionScreen(context.Background(), e, l)

	for range 10 {
		r.Update(specialKey(tea.KeyLeft))
	}
	assert.Equal(t, game.MinSessionMinutes, r.minutes)

	for range 50 {
		r.Update(specialKey(tea.KeyRight))
	}
	assert.Equal(t, game.MaxSessionMinutes, r.minutes)
	assert.Contains(t, r.View(80, 30), "180 min")
}

func TestApartmentGroupsByCategory(t *testing.T) {
	_, l := newTestDeps(t)
	_, err := l.Purchase(context.Background(), "snow-globe")
	require.NoError(t, err)

	view := NewApartmentScreen(context.Background(), l).View(80, 40)
	assert.Contains(t, view, "tundra (1/4)")
	assert.Contains(t, view, "rainforest (0/3)")
	assert.Contains(t, view, "sahara (0/3)")
	assert.Contains(t, view, "Snow Globe")
}

func TestAppLaunchesSessionFromHome(t *testing.T) {
	e, l := newTestDeps(t)
	m := NewAppModel(context.Background(), e, l)

	// Enter on "Citizen session", then Enter on the first region.
	_, cmd := m.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Citizen Session", m.router.Active().Title())

	_, cmd = m.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, session.Standard{Region: catalog.UnlockedRegions(0)[0].ID}, e.Snapshot().Variant)
	assert.Equal(t, game.KindStandard.DisplayName(), m.router.Active().Title())
}
