package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/store"
)

// ErrStaleTick is returned by TickFrom when the run it was scheduled for
// has been paused, completed or replaced.
var ErrStaleTick = errors.New("tick from superseded run")

// Ledger is the reward side of the engine. ledger.Ledger implements it.
type Ledger interface {
	Withdraw(ctx context.Context, amount int) error
	OnSessionComplete(ctx context.Context, c game.Completion) (game.Reward, error)
}

// Recorder receives session lifecycle events. store.Backend implements it.
type Recorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Metrics receives session lifecycle counts. metrics.Recorder implements it.
type Metrics interface {
	SessionStarted(kind game.Kind)
	SessionCompleted(kind game.Kind)
	SessionAbandoned(kind game.Kind)
}

// Scheduler is the external tick source. Schedule is called whenever a run
// starts with the run's epoch; Cancel whenever the session stops running.
// Neither may call back into the engine synchronously.
type Scheduler interface {
	Schedule(epoch uint64)
	Cancel()
}

// Engine owns the active session and its countdown. It never reads the
// clock to advance time: every second is one call to Tick or TickFrom.
type Engine struct {
	mu           sync.Mutex
	state        State
	epoch        uint64
	ledger       Ledger
	recorder     Recorder
	metrics      Metrics
	scheduler    Scheduler
	log          logrus.FieldLogger
	stageSeconds int
	subs         []chan Event
	newID        func() string
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRecorder records start, complete and abandon events.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithScheduler attaches a tick source. See also NewDriver.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithStageDuration overrides the length of each case stage.
func WithStageDuration(d time.Duration) Option {
	return func(e *Engine) {
		if secs := int(d / time.Second); secs > 0 {
			e.stageSeconds = secs
		}
	}
}

// New creates an idle engine that pays out through ledger.
func New(ledger Ledger, opts ...Option) *Engine {
	e := &Engine{
		ledger:       ledger,
		log:          logrus.StandardLogger(),
		stageSeconds: game.StageMinutes * 60,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetScheduler replaces the tick source. If a session is running it is
// scheduled on the new source immediately.
func (e *Engine) SetScheduler(s Scheduler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scheduler != nil {
		e.scheduler.Cancel()
	}
	e.scheduler = s
	if s != nil && e.state.Running {
		s.Schedule(e.epoch)
	}
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers an observer channel. Sends never block; a full
// channel misses events.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	e.subs = append(e.subs, ch)
	e.mu.Unlock()
	return ch
}

// StartStandard replaces any session with a running citizen session.
// The region is not checked against the catalog.
func (e *Engine) StartStandard(ctx context.Context, region game.RegionID, minutes int) (State, error) {
	if err := game.ValidateMinutes(minutes); err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked(ctx, Standard{Region: region}, minutes*60)
	return e.state, nil
}

// StartMultiStage replaces any session with the first stage of a case.
func (e *Engine) StartMultiStage(ctx context.Context) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startLocked(ctx, MultiStage{Stage: game.StageClues}, e.stageSeconds)
	return e.state, nil
}

// AdvanceStage starts the next stage of a case whose current stage has
// finished. Any other call fails with *game.InvalidTransitionError.
func (e *Engine) AdvanceStage(ctx context.Context) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, ok := e.state.Variant.(MultiStage)
	if !ok {
		return e.state, e.invalid("advance", "not a case")
	}
	if e.state.RemainingSeconds > 0 {
		return e.state, e.invalid("advance", "stage still in progress")
	}
	next, ok := v.Stage.Next()
	if !ok {
		return e.state, e.invalid("advance", "already at the final stage")
	}

	e.state.Variant = MultiStage{Stage: next}
	e.state.TotalSeconds = e.stageSeconds
	e.state.RemainingSeconds = e.stageSeconds
	e.state.Running = true
	e.state.StartedAt = e.now()
	e.rescheduleLocked()
	e.record(ctx, store.ActionStart)
	if e.metrics != nil {
		e.metrics.SessionStarted(game.KindMultiStage)
	}
	e.log.WithFields(logrus.Fields{"session": e.state.ID, "stage": next}).Debug("case stage advanced")
	e.emitLocked(Event{Type: EventStageAdvanced})
	return e.state, nil
}

// StartWagered withdraws stake from the ledger and, only if that succeeds,
// replaces any session with a running hustle. A rejected withdrawal leaves
// both the session and the balance untouched. A *game.PersistenceError from
// the ledger does not block the start and is returned with the new state.
func (e *Engine) StartWagered(ctx context.Context, stake, minutes int) (State, error) {
	if err := game.ValidateMinutes(minutes); err != nil {
		return e.Snapshot(), err
	}
	if stake <= 0 {
		return e.Snapshot(), game.ErrInvalidStake
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.ledger.Withdraw(ctx, stake)
	if err != nil && !game.IsPersistence(err) {
		e.log.WithError(err).WithField("stake", stake).Debug("wager rejected")
		return e.state, err
	}
	e.startLocked(ctx, Wagered{Stake: stake}, minutes*60)
	return e.state, err
}

// Pause freezes a running countdown. Pausing a paused session is a no-op.
func (e *Engine) Pause() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.state.Idle():
		return e.state, e.invalid("pause", "no session")
	case e.state.Paused():
		return e.state, nil
	case !e.state.Running:
		return e.state, e.invalid("pause", "session already complete")
	}

	e.state.Running = false
	e.rescheduleLocked()
	e.log.WithField("session", e.state.ID).Debug("session paused")
	e.emitLocked(Event{Type: EventPaused})
	return e.state, nil
}

// Resume restarts a paused countdown. Resuming a running session is a no-op.
func (e *Engine) Resume() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.state.Idle():
		return e.state, e.invalid("resume", "no session")
	case e.state.Running:
		return e.state, nil
	case e.state.RemainingSeconds == 0:
		return e.state, e.invalid("resume", "session already complete")
	}

	e.state.Running = true
	e.rescheduleLocked()
	e.log.WithField("session", e.state.ID).Debug("session resumed")
	e.emitLocked(Event{Type: EventResumed})
	return e.state, nil
}

// Reset restarts the countdown from the full duration, keeping the kind,
// stage, region and stake. No completion is delivered. A finished session
// cannot be reset, so a reward is never paid twice for one run.
func (e *Engine) Reset() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.state.Idle():
		return e.state, e.invalid("reset", "no session")
	case e.state.Completed():
		return e.state, e.invalid("reset", "session already complete")
	}

	e.state.RemainingSeconds = e.state.TotalSeconds
	e.state.Running = true
	e.rescheduleLocked()
	e.log.WithField("session", e.state.ID).Debug("session reset")
	e.emitLocked(Event{Type: EventReset})
	return e.state, nil
}

// Abandon drops the session. Nothing is paid and a wager stake is not
// refunded. Abandoning a finished session just dismisses it; a case waiting
// between stages is not finished and is abandoned.
func (e *Engine) Abandon(ctx context.Context) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Idle() {
		return e.state, e.invalid("abandon", "no session")
	}
	if e.state.Finished() {
		e.clearLocked(EventDismissed)
		return e.state, nil
	}

	kind := e.state.Kind()
	e.record(ctx, store.ActionAbandon)
	if e.metrics != nil {
		e.metrics.SessionAbandoned(kind)
	}
	e.log.WithFields(logrus.Fields{
		"session": e.state.ID,
		"kind":    kind,
		"elapsed": e.state.ElapsedSeconds(),
		"stake":   e.state.Stake(),
	}).Info("session abandoned")
	e.clearLocked(EventAbandoned)
	return e.state, nil
}

// Dismiss acknowledges a finished session and returns to idle.
func (e *Engine) Dismiss() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.state.AwaitingAdvance():
		return e.state, e.invalid("dismiss", "case has stages left")
	case !e.state.Completed():
		return e.state, e.invalid("dismiss", "session not complete")
	}
	e.clearLocked(EventDismissed)
	return e.state, nil
}

// Tick advances a running countdown by one second. On the step that reaches
// zero the session stops and exactly one completion is delivered to the
// ledger. Ticking an idle, paused or finished session does nothing. The
// returned error is the ledger's, if any.
func (e *Engine) Tick(ctx context.Context) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickLocked(ctx)
}

// TickFrom is Tick for a scheduled tick source: it is ignored with
// ErrStaleTick unless epoch is the current run.
func (e *Engine) TickFrom(ctx context.Context, epoch uint64) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch || !e.state.Running {
		return e.state, ErrStaleTick
	}
	return e.tickLocked(ctx)
}

func (e *Engine) tickLocked(ctx context.Context) (State, error) {
	if !e.state.Running || e.state.RemainingSeconds == 0 {
		return e.state, nil
	}

	e.state.RemainingSeconds--
	if e.state.RemainingSeconds > 0 {
		e.emitLocked(Event{Type: EventTick})
		return e.state, nil
	}

	e.state.Running = false
	e.rescheduleLocked()

	c := e.state.completion()
	reward, err := e.ledger.OnSessionComplete(ctx, c)
	if err != nil {
		e.log.WithError(err).WithField("session", c.SessionID).Warn("completion not fully applied")
	}
	e.record(ctx, store.ActionComplete)
	if e.metrics != nil {
		e.metrics.SessionCompleted(c.Kind)
	}
	e.log.WithFields(logrus.Fields{
		"session": c.SessionID,
		"kind":    c.Kind,
		"stage":   c.Stage,
		"minutes": c.MinutesCompleted(),
	}).Info("session complete")
	e.emitLocked(Event{Type: EventCompleted, Reward: &reward, Err: err})
	return e.state, err
}

// startLocked installs a new running session, superseding any current one.
func (e *Engine) startLocked(ctx context.Context, v Variant, seconds int) {
	if !e.state.Idle() && !e.state.Finished() {
		replaced := e.state.Kind()
		e.record(ctx, store.ActionAbandon)
		if e.metrics != nil {
			e.metrics.SessionAbandoned(replaced)
		}
		e.log.WithFields(logrus.Fields{
			"session": e.state.ID,
			"kind":    replaced,
		}).Info("session replaced")
	}

	e.state = State{
		ID:               e.newID(),
		Variant:          v,
		Running:          true,
		RemainingSeconds: seconds,
		TotalSeconds:     seconds,
		StartedAt:        e.now(),
	}
	e.rescheduleLocked()
	e.record(ctx, store.ActionStart)
	if e.metrics != nil {
		e.metrics.SessionStarted(v.Kind())
	}
	e.log.WithFields(logrus.Fields{
		"session": e.state.ID,
		"kind":    v.Kind(),
		"seconds": seconds,
	}).Debug("session started")
	e.emitLocked(Event{Type: EventStarted})
}

func (e *Engine) clearLocked(t EventType) {
	e.state = State{}
	e.rescheduleLocked()
	e.emitLocked(Event{Type: t})
}

// rescheduleLocked starts a new run epoch and points the scheduler at it,
// so ticks already in flight for the previous run are discarded.
func (e *Engine) rescheduleLocked() {
	e.epoch++
	if e.scheduler == nil {
		return
	}
	if e.state.Running {
		e.scheduler.Schedule(e.epoch)
	} else {
		e.scheduler.Cancel()
	}
}

func (e *Engine) record(ctx context.Context, action string) {
	if e.recorder == nil {
		return
	}
	data := store.SessionEventData{
		SessionID:   e.state.ID,
		Action:      action,
		Kind:        string(e.state.Kind()),
		Stage:       string(e.state.Stage()),
		Region:      string(e.state.Region()),
		Stake:       e.state.Stake(),
		TotalSecs:   e.state.TotalSeconds,
		ElapsedSecs: e.state.ElapsedSeconds(),
	}
	if err := e.recorder.AppendSessionEvent(ctx, data); err != nil {
		e.log.WithError(err).WithField("action", action).Warn("record session event failed")
	}
}

func (e *Engine) invalid(op, reason string) error {
	return &game.InvalidTransitionError{Op: op, Kind: e.state.Kind(), Reason: reason}
}

func (e *Engine) emitLocked(ev Event) {
	ev.State = e.state
	if ev.At.IsZero() {
		ev.At = e.now()
	}
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
