package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/store"
)

type fakeRepo struct {
	state   game.PlayerState
	found   bool
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (f *fakeRepo) Load(context.Context) (game.PlayerState, bool, error) {
	if f.loadErr != nil {
		return game.DefaultPlayerState(), false, f.loadErr
	}
	if !f.found {
		return game.DefaultPlayerState(), false, nil
	}
	return f.state.Clone(), true, nil
}

func (f *fakeRepo) Save(_ context.Context, state game.PlayerState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = state.Clone()
	f.found = true
	f.saves++
	return nil
}

func (f *fakeRepo) Clear(context.Context) error {
	f.state = game.PlayerState{}
	f.found = false
	f.clears++
	return nil
}

type fakeMetrics struct {
	earned    int
	purchases []game.ItemID
	updates   int
}

func (f *fakeMetrics) CurrencyEarned(amount int) { f.earned += amount }
func (f *fakeMetrics) ItemPurchased(item game.ItemID) { f.purchases = append(f.purchases, item) }
func (f *fakeMetrics) PlayerUpdated(game.PlayerState) { f.updates++ }

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestLedger(t *testing.T, repo *fakeRepo, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	l, err := New(context.Background(), repo, opts...)
	require.NoError(t, err)
	return l
}

func TestNewDefaults(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	assert.Equal(t, game.DefaultPlayerState(), l.Snapshot())
}

func TestNewHydratesFromRepo(t *testing.T) {
	stored := game.DefaultPlayerState()
	stored.Currency = 42
	stored.Rank = game.RankOfficer
	l := newTestLedger(t, &fakeRepo{state: stored, found: true})

	got := l.Snapshot()
	assert.Equal(t, 42, got.Currency)
	assert.Equal(t, game.RankOfficer, got.Rank)
}

func TestNewLoadFailureUsesDefaults(t *testing.T) {
	l, err := New(context.Background(), &fakeRepo{loadErr: errors.New("disk gone")},
		WithLogger(quietLogger()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrPersistence))
	require.NotNil(t, l)
	assert.Equal(t, game.DefaultPlayerState(), l.Snapshot())
}

func TestStandardCompletion(t *testing.T) {
	repo := &fakeRepo{}
	m := &fakeMetrics{}
	l := newTestLedger(t, repo, WithMetrics(m))

	reward, err := l.OnSessionComplete(context.Background(), game.Completion{
		Kind:         game.KindStandard,
		Region:       "tundratown",
		TotalSeconds: 25 * 60,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, reward.FocusMinutes)
	assert.Equal(t, 250, reward.Currency)
	assert.False(t, reward.Promoted)

	s := l.Snapshot()
	assert.Equal(t, 25, s.TotalFocusMinutes)
	assert.Equal(t, game.StartingCurrency+250, s.Currency)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 25, repo.state.TotalFocusMinutes)
	assert.Equal(t, 250, m.earned)
}

func TestCompletionFloorsPartialMinutes(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	reward, err := l.OnSessionComplete(context.Background(), game.Completion{
		Kind:         game.KindStandard,
		TotalSeconds: 119,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, reward.FocusMinutes)
	assert.Equal(t, 10, reward.Currency)
}

func TestMultiStageOnlyFinalStageAdvancesRank(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	ctx := context.Background()

	for _, stage := range []game.Stage{game.StageClues, game.StageChase} {
		reward, err := l.OnSessionComplete(ctx, game.Completion{
			Kind: game.KindMultiStage, Stage: stage, TotalSeconds: game.StageMinutes * 60,
		})
		require.NoError(t, err)
		assert.Zero(t, reward.RankProgress, "stage %s", stage)
		assert.Zero(t, reward.Currency, "stage %s", stage)
	}
	s := l.Snapshot()
	assert.Equal(t, game.RankMeterMaid, s.Rank)
	assert.Equal(t, 0, s.RankProgress)
	assert.Equal(t, 2*game.StageMinutes, s.TotalFocusMinutes)

	reward, err := l.OnSessionComplete(ctx, game.Completion{
		Kind: game.KindMultiStage, Stage: game.StageArrest, TotalSeconds: game.StageMinutes * 60,
	})
	require.NoError(t, err)
	assert.Equal(t, game.RankProgressIncrement, reward.RankProgress)
	assert.Equal(t, 25, l.Snapshot().RankProgress)
	assert.Equal(t, 3*game.StageMinutes, l.Snapshot().TotalFocusMinutes)
}

func TestMultiStagePromotion(t *testing.T) {
	stored := game.DefaultPlayerState()
	stored.RankProgress = 75
	l := newTestLedger(t, &fakeRepo{state: stored, found: true})

	reward, err := l.OnSessionComplete(context.Background(), game.Completion{
		Kind: game.KindMultiStage, Stage: game.StageArrest, TotalSeconds: 1500,
	})
	require.NoError(t, err)
	assert.True(t, reward.Promoted)
	assert.Equal(t, game.RankMeterMaid, reward.RankBefore)
	assert.Equal(t, game.RankOfficer, reward.RankAfter)

	s := l.Snapshot()
	assert.Equal(t, game.RankOfficer, s.Rank)
	assert.Equal(t, 0, s.RankProgress)
}

func TestMultiStageClampsAtMaxRank(t *testing.T) {
	stored := game.DefaultPlayerState()
	stored.Rank = game.RankChief
	stored.RankProgress = 90
	l := newTestLedger(t, &fakeRepo{state: stored, found: true})

	for i := 0; i < 3; i++ {
		_, err := l.OnSessionComplete(context.Background(), game.Completion{
			Kind: game.KindMultiStage, Stage: game.StageArrest, TotalSeconds: 1500,
		})
		require.NoError(t, err)
	}
	s := l.Snapshot()
	assert.Equal(t, game.RankChief, s.Rank)
	assert.Equal(t, game.RankProgressMax, s.RankProgress)
}

func TestWagerPayout(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	ctx := context.Background()

	require.NoError(t, l.Withdraw(ctx, 500))
	assert.Equal(t, 0, l.Snapshot().Currency)

	reward, err := l.OnSessionComplete(ctx, game.Completion{
		Kind: game.KindWagered, Stake: 500, TotalSeconds: 3600,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000, reward.Currency)
	assert.Equal(t, 1000, l.Snapshot().Currency)
	assert.Equal(t, 60, l.Snapshot().TotalFocusMinutes)
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		wantErr error
		balance int
	}{
		{"exact balance", 500, nil, 0},
		{"partial", 200, nil, 300},
		{"short by one", 501, game.ErrInsufficientFunds, 500},
		{"zero", 0, game.ErrInvalidStake, 500},
		{"negative", -5, game.ErrInvalidStake, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, &fakeRepo{})
			err := l.Withdraw(context.Background(), tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.balance, l.Snapshot().Currency)
		})
	}
}

func TestCanAffordWager(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	assert.True(t, l.CanAffordWager(500))
	assert.False(t, l.CanAffordWager(501))
}

func TestPurchase(t *testing.T) {
	repo := &fakeRepo{}
	m := &fakeMetrics{}
	l := newTestLedger(t, repo, WithMetrics(m))
	ctx := context.Background()

	item, err := l.Purchase(ctx, "ice-lamp")
	require.NoError(t, err)
	assert.Equal(t, 200, item.Cost)

	s := l.Snapshot()
	assert.Equal(t, 300, s.Currency)
	assert.True(t, s.Owns("ice-lamp"))
	assert.True(t, repo.state.Owns("ice-lamp"))
	assert.Equal(t, []game.ItemID{"ice-lamp"}, m.purchases)

	_, err = l.Purchase(ctx, "ice-lamp")
	var owned *game.AlreadyOwnedError
	require.ErrorAs(t, err, &owned)
	assert.Equal(t, game.ItemID("ice-lamp"), owned.Item)
	assert.Equal(t, 300, l.Snapshot().Currency, "no double charge")
}

func TestPurchaseFailures(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	ctx := context.Background()

	_, err := l.Purchase(ctx, "hover-car")
	assert.ErrorIs(t, err, game.ErrUnknownItem)

	_, err = l.Purchase(ctx, game.CapstoneItem)
	var funds *game.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, 2000, funds.Needed)
	assert.Equal(t, 500, funds.Available)

	s := l.Snapshot()
	assert.Equal(t, 500, s.Currency)
	assert.Empty(t, s.OwnedList())
	assert.Equal(t, 1, s.UnlockLevel)
}

func TestPurchaseCapstoneUnlocksPenthouse(t *testing.T) {
	stored := game.DefaultPlayerState()
	stored.Currency = 2500
	l := newTestLedger(t, &fakeRepo{state: stored, found: true})

	_, err := l.Purchase(context.Background(), game.CapstoneItem)
	require.NoError(t, err)

	s := l.Snapshot()
	assert.Equal(t, game.MaxUnlockLevel, s.UnlockLevel)
	assert.Equal(t, 500, s.Currency)
}

func TestPurchaseCustomCatalog(t *testing.T) {
	f, err := catalog.NewFurniture([]catalog.Item{{ID: "bench", Name: "Bench", Cost: 10}})
	require.NoError(t, err)
	l := newTestLedger(t, &fakeRepo{}, WithFurniture(f))

	_, err = l.Purchase(context.Background(), "bench")
	require.NoError(t, err)
	_, err = l.Purchase(context.Background(), "ice-lamp")
	assert.ErrorIs(t, err, game.ErrUnknownItem)
}

func TestSaveFailureIsNonFatal(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("read-only filesystem")}
	l := newTestLedger(t, repo)

	reward, err := l.OnSessionComplete(context.Background(), game.Completion{
		Kind: game.KindStandard, TotalSeconds: 600,
	})
	require.Error(t, err)
	assert.True(t, game.IsPersistence(err))
	assert.Equal(t, 100, reward.Currency)
	assert.Equal(t, 600, l.Snapshot().Currency, "in-memory state stays authoritative")

	repo.saveErr = nil
	require.NoError(t, l.Earn(context.Background(), 5))
	assert.Equal(t, 605, repo.state.Currency, "next save reconciles")
}

func TestEarnSpendReset(t *testing.T) {
	repo := &fakeRepo{}
	l := newTestLedger(t, repo)
	ctx := context.Background()

	require.NoError(t, l.Earn(ctx, 100))
	require.NoError(t, l.Earn(ctx, 0))
	assert.Equal(t, 600, l.Snapshot().Currency)

	require.NoError(t, l.Spend(ctx, 50))
	assert.Equal(t, 550, l.Snapshot().Currency)

	require.NoError(t, l.Reset(ctx))
	assert.Equal(t, game.DefaultPlayerState(), l.Snapshot())
	assert.Equal(t, 1, repo.clears)
	assert.False(t, repo.found, "stored record deleted")
}

func TestSubscribe(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	ch := l.Subscribe(4)

	require.NoError(t, l.Earn(context.Background(), 10))
	select {
	case s := <-ch:
		assert.Equal(t, 510, s.Currency)
	default:
		t.Fatal("expected player update")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	l := newTestLedger(t, &fakeRepo{})
	s := l.Snapshot()
	s.OwnedItems["ice-lamp"] = true
	assert.False(t, l.Snapshot().Owns("ice-lamp"))
}

// corruptRepo returns a recovered state along with a corrupt-record error.
type corruptRepo struct {
	fakeRepo
}

func (c *corruptRepo) Load(context.Context) (game.PlayerState, bool, error) {
	return c.state.Clone(), true, fmt.Errorf("parse furniture: %w", game.ErrCorruptRecord)
}

func TestNewCorruptRecordKeepsRecoveredState(t *testing.T) {
	recovered := game.DefaultPlayerState()
	recovered.Currency = 9000
	recovered.Rank = game.RankChief
	recovered.TotalFocusMinutes = 4000
	repo := &corruptRepo{fakeRepo{state: recovered}}

	l, err := New(context.Background(), repo, WithLogger(quietLogger()))
	require.Error(t, err)
	assert.True(t, game.IsPersistence(err))
	assert.ErrorIs(t, err, game.ErrCorruptRecord)
	assert.Equal(t, recovered, l.Snapshot())

	require.NoError(t, l.Earn(context.Background(), 1))
	assert.Equal(t, 9001, repo.state.Currency)
	assert.Equal(t, 4000, repo.state.TotalFocusMinutes)
}

func TestNewUnreadableStoreNeverOverwrites(t *testing.T) {
	repo := &fakeRepo{loadErr: errors.New("connection refused")}
	l, err := New(context.Background(), repo, WithLogger(quietLogger()))
	require.Error(t, err)
	ctx := context.Background()

	err = l.Earn(ctx, 10)
	assert.True(t, game.IsPersistence(err))
	assert.ErrorIs(t, err, game.ErrNotLoaded)
	assert.Equal(t, 510, l.Snapshot().Currency)
	assert.Zero(t, repo.saves)

	require.NoError(t, l.Reset(ctx))
	require.NoError(t, l.Earn(ctx, 10))
	assert.Equal(t, 1, repo.saves, "saving resumes after reset")
}

func TestCorruptFurnitureKeepsStoredStats(t *testing.T) {
	s, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, store.StatsKey, []byte(
		`{"bucks":9000,"rank":"chief","rankProgress":50,"apartmentLevel":3,"totalFocusMinutes":4000}`)))
	require.NoError(t, s.Save(ctx, store.FurnitureKey, []byte(`not json`)))

	l, err := New(ctx, store.NewPlayerRepo(s), WithLogger(quietLogger()))
	require.Error(t, err)
	require.NoError(t, l.Earn(ctx, 1))

	stats, err := s.Load(ctx, store.StatsKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"bucks":9001,"rank":"chief","rankProgress":50,"apartmentLevel":3,"totalFocusMinutes":4000}`,
		string(stats))

	kept, err := s.Load(ctx, store.FurnitureKey+store.CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(kept))
}
