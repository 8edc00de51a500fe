package cmd

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/ledger"
	"github.com/abhisek/metrofocus/internal/session"
)

func newHeadlessEnv(t *testing.T) *appEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	l, err := ledger.New(context.Background(), nil, ledger.WithLogger(log))
	require.NoError(t, err)
	return &appEnv{log: log, ledger: l, engine: session.New(l, session.WithLogger(log))}
}

func finishStandard(t *testing.T, e *session.Engine) {
	t.Helper()
	ctx := context.Background()
	_, err := e.StartStandard(ctx, "tundratown", 1)
	require.NoError(t, err)
	for e.Snapshot().Running {
		_, err := e.Tick(ctx)
		require.NoError(t, err)
	}
}

func TestCompletionFallbackWaitsForBufferedEvents(t *testing.T) {
	env := newHeadlessEnv(t)
	events := env.engine.Subscribe(256)
	finishStandard(t, env.engine)

	var out bytes.Buffer
	done, err := env.completionFallback(context.Background(), &out, events)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, out.String())
	assert.True(t, env.engine.Snapshot().Completed(), "left for the queued completion")

	for !done && len(events) > 0 {
		done, err = env.printEvent(context.Background(), &out, <-events)
		require.NoError(t, err)
	}
	assert.True(t, done)
	assert.Contains(t, out.String(), "complete: +1 min, +$10")
	assert.True(t, env.engine.Snapshot().Idle())
}

func TestCompletionFallbackHandlesDroppedEvent(t *testing.T) {
	env := newHeadlessEnv(t)
	events := env.engine.Subscribe(1)
	finishStandard(t, env.engine)
	<-events

	var out bytes.Buffer
	done, err := env.completionFallback(context.Background(), &out, events)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, out.String(), "complete")
	assert.True(t, env.engine.Snapshot().Idle())
}

func TestHeadlessCaseAdvancesOnlyOnce(t *testing.T) {
	env := newHeadlessEnv(t)
	ctx := context.Background()
	events := env.engine.Subscribe(4096)

	_, err := env.engine.StartMultiStage(ctx)
	require.NoError(t, err)
	for env.engine.Snapshot().Running {
		_, err := env.engine.Tick(ctx)
		require.NoError(t, err)
	}

	var out bytes.Buffer
	for len(events) > 0 {
		_, err := env.printEvent(ctx, &out, <-events)
		require.NoError(t, err)
	}
	st := env.engine.Snapshot()
	assert.Equal(t, "chase", string(st.Stage()))
	assert.True(t, st.Running)
	assert.Contains(t, out.String(), "stage")
}

func TestPlayHelpDescribesCaseStages(t *testing.T) {
	require.Len(t, game.AllStages(), 3)

	out, err := runCLI(t, "play", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Work a three-stage ZPD case")
	assert.NotContains(t, out, "four-stage")
}
