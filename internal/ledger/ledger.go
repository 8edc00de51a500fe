package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/game"
)

// Repo loads and saves the player state. store.PlayerRepo implements it.
//
// Load may return a recovered state together with an error wrapping
// game.ErrCorruptRecord; the unreadable values are kept by the repo, so
// saving over them is safe. Clear removes everything stored.
type Repo interface {
	Load(ctx context.Context) (game.PlayerState, bool, error)
	Save(ctx context.Context, state game.PlayerState) error
	Clear(ctx context.Context) error
}

// Metrics receives ledger activity. metrics.Recorder implements it.
type Metrics interface {
	CurrencyEarned(amount int)
	ItemPurchased(item game.ItemID)
	PlayerUpdated(state game.PlayerState)
}

// Ledger owns the persisted player state and applies reward rules.
// Every mutation is written through to the repo.
type Ledger struct {
	mu        sync.Mutex
	state     game.PlayerState
	repo      Repo
	furniture *catalog.Furniture
	log       logrus.FieldLogger
	metrics   Metrics
	subs      []chan game.PlayerState

	// detached is set when the stored state could not be read. Nothing is
	// saved until Reset, so the unread record is never overwritten.
	detached bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Ledger) { l.log = log }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithFurniture replaces the default furniture catalog.
func WithFurniture(f *catalog.Furniture) Option {
	return func(l *Ledger) { l.furniture = f }
}

// New hydrates a Ledger from repo. A load failure is not fatal and comes
// back as a *game.PersistenceError. When some stored values were corrupt the
// ledger keeps what was recovered and goes on saving. When the store could
// not be read at all the ledger holds the defaults and stops saving.
// A nil repo keeps state in memory only.
func New(ctx context.Context, repo Repo, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		state:     game.DefaultPlayerState(),
		repo:      repo,
		furniture: catalog.DefaultFurniture(),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if repo == nil {
		l.publishMetrics()
		return l, nil
	}

	state, found, err := repo.Load(ctx)
	switch {
	case errors.Is(err, game.ErrCorruptRecord):
		l.log.WithError(err).Warn("stored player state partly unreadable, keeping what was recovered")
		l.state = state
		l.publishMetrics()
		return l, &game.PersistenceError{Op: "load", Err: err}
	case err != nil:
		l.log.WithError(err).Warn("load player state failed, using defaults without saving")
		l.detached = true
		l.publishMetrics()
		return l, &game.PersistenceError{Op: "load", Err: err}
	}
	if found {
		l.state = state
	}
	l.log.WithFields(logrus.Fields{
		"found":    found,
		"currency": l.state.Currency,
		"rank":     l.state.Rank,
	}).Debug("player state loaded")
	l.publishMetrics()
	return l, nil
}

// Snapshot returns a copy of the current player state.
func (l *Ledger) Snapshot() game.PlayerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Clone()
}

// Furniture returns the catalog consulted by Purchase.
func (l *Ledger) Furniture() *catalog.Furniture {
	return l.furniture
}

// Subscribe registers a channel that receives the player state after every
// mutation. Sends never block; a full channel drops the update.
func (l *Ledger) Subscribe(buffer int) <-chan game.PlayerState {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan game.PlayerState, buffer)
	l.mu.Lock()
	l.subs = append(l.subs, ch)
	l.mu.Unlock()
	return ch
}

// OnSessionComplete credits a finished session. Focus minutes are always
// credited; currency and rank depend on the kind. The only possible error
// is a *game.PersistenceError, in which case the reward still applies.
func (l *Ledger) OnSessionComplete(ctx context.Context, c game.Completion) (game.Reward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	minutes := c.MinutesCompleted()
	reward := game.Reward{
		Kind:          c.Kind,
		FocusMinutes:  minutes,
		RankBefore:    l.state.Rank,
		RankAfter:     l.state.Rank,
		ProgressAfter: l.state.RankProgress,
	}

	l.state.TotalFocusMinutes += minutes

	switch c.Kind {
	case game.KindStandard:
		reward.Currency = minutes * game.CurrencyPerMinute
	case game.KindMultiStage:
		if c.Stage.IsFinal() {
			rank, progress, promoted := game.ApplyRankProgress(
				l.state.Rank, l.state.RankProgress, game.RankProgressIncrement)
			reward.RankProgress = game.RankProgressIncrement
			reward.RankAfter = rank
			reward.Promoted = promoted
			reward.ProgressAfter = progress
			l.state.Rank = rank
			l.state.RankProgress = progress
		}
	case game.KindWagered:
		reward.Currency = game.WagerPayout(c.Stake)
	}
	l.state.Currency += reward.Currency

	l.log.WithFields(logrus.Fields{
		"session":  c.SessionID,
		"kind":     c.Kind,
		"stage":    c.Stage,
		"minutes":  minutes,
		"currency": reward.Currency,
		"promoted": reward.Promoted,
	}).Info("session rewarded")

	if l.metrics != nil && reward.Currency > 0 {
		l.metrics.CurrencyEarned(reward.Currency)
	}
	return reward, l.commitLocked(ctx)
}

// Purchase buys a furniture item. It fails with *game.UnknownItemError,
// *game.AlreadyOwnedError or *game.InsufficientFundsError without changing
// anything. Buying the capstone item raises the unlock level to the maximum.
func (l *Ledger) Purchase(ctx context.Context, id game.ItemID) (catalog.Item, error) {
	item, ok := l.furniture.Lookup(id)
	if !ok {
		return catalog.Item{}, &game.UnknownItemError{Item: id}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Owns(id) {
		return item, &game.AlreadyOwnedError{Item: id}
	}
	if l.state.Currency < item.Cost {
		return item, &game.InsufficientFundsError{Needed: item.Cost, Available: l.state.Currency}
	}

	l.state.Currency -= item.Cost
	l.state.OwnedItems[id] = true
	if id == game.CapstoneItem {
		l.state.UnlockLevel = game.MaxUnlockLevel
	}

	l.log.WithFields(logrus.Fields{
		"item":    id,
		"cost":    item.Cost,
		"balance": l.state.Currency,
	}).Info("item purchased")

	if l.metrics != nil {
		l.metrics.ItemPurchased(id)
	}
	return item, l.commitLocked(ctx)
}

// CanAffordWager reports whether the balance covers stake.
func (l *Ledger) CanAffordWager(stake int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Currency >= stake
}

// Withdraw removes amount from the balance, as when a hustle is staked.
func (l *Ledger) Withdraw(ctx context.Context, amount int) error {
	return l.Spend(ctx, amount)
}

// Spend deducts amount. It fails with *game.InsufficientFundsError when the
// balance is short and game.ErrInvalidStake when amount is not positive.
func (l *Ledger) Spend(ctx context.Context, amount int) error {
	if amount <= 0 {
		return game.ErrInvalidStake
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Currency < amount {
		return &game.InsufficientFundsError{Needed: amount, Available: l.state.Currency}
	}
	l.state.Currency -= amount
	l.log.WithFields(logrus.Fields{
		"amount":  amount,
		"balance": l.state.Currency,
	}).Debug("currency spent")
	return l.commitLocked(ctx)
}

// Earn adds amount to the balance. Non-positive amounts are ignored.
func (l *Ledger) Earn(ctx context.Context, amount int) error {
	if amount <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Currency += amount
	if l.metrics != nil {
		l.metrics.CurrencyEarned(amount)
	}
	l.log.WithFields(logrus.Fields{
		"amount":  amount,
		"balance": l.state.Currency,
	}).Debug("currency earned")
	return l.commitLocked(ctx)
}

// Reset restores a brand new player and deletes the stored record.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = game.DefaultPlayerState()
	l.log.Info("player state reset")
	l.notifyLocked()

	if l.repo == nil {
		return nil
	}
	if err := l.repo.Clear(ctx); err != nil {
		l.log.WithError(err).Warn("clear player state failed")
		return &game.PersistenceError{Op: "reset", Err: err}
	}
	l.detached = false
	return nil
}

// commitLocked notifies subscribers and persists the state. Must hold mu.
func (l *Ledger) commitLocked(ctx context.Context) error {
	snapshot := l.notifyLocked()

	if l.repo == nil {
		return nil
	}
	if l.detached {
		return &game.PersistenceError{Op: "save", Err: game.ErrNotLoaded}
	}
	if err := l.repo.Save(ctx, snapshot); err != nil {
		l.log.WithError(err).Warn("save player state failed")
		return &game.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (l *Ledger) notifyLocked() game.PlayerState {
	snapshot := l.state.Clone()
	for _, ch := range l.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
	if l.metrics != nil {
		l.metrics.PlayerUpdated(snapshot)
	}
	return snapshot
}

func (l *Ledger) publishMetrics() {
	if l.metrics != nil {
		l.metrics.PlayerUpdated(l.state.Clone())
	}
}
