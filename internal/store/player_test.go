package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/metrofocus/internal/game"
)

func TestPlayerRepoDefaultsWhenEmpty(t *testing.T) {
	repo := NewPlayerRepo(openTestStore(t))

	state, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, game.DefaultPlayerState(), state)
}

func TestPlayerRepoRoundTrip(t *testing.T) {
	backends := map[string]KV{
		"sqlite": openTestStore(t),
	}
	_, rs := setupTestRedis(t)
	backends["redis"] = rs

	for name, kv := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewPlayerRepo(kv)

			want := game.DefaultPlayerState()
			want.Currency = 1234
			want.Rank = game.RankDetective
			want.RankProgress = 50
			want.UnlockLevel = 3
			want.TotalFocusMinutes = 400
			want.OwnedItems["plant"] = true
			want.OwnedItems["sofa"] = true

			require.NoError(t, repo.Save(ctx, want))

			got, found, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, want, got)
		})
	}
}

func TestPlayerRepoStoredFormat(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := NewPlayerRepo(s)

	state := game.DefaultPlayerState()
	state.OwnedItems["plant"] = true
	require.NoError(t, repo.Save(ctx, state))

	stats, err := s.Load(ctx, StatsKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"bucks":500,"rank":"meter-maid","rankProgress":0,"apartmentLevel":1,"totalFocusMinutes":0}`,
		string(stats))

	furniture, err := s.Load(ctx, FurnitureKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["plant"]`, string(furniture))
}

func TestPlayerRepoNormalizesCorruptValues(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, StatsKey,
		[]byte(`{"bucks":-5,"rank":"sheriff","rankProgress":250,"apartmentLevel":9}`)))

	state, found, err := NewPlayerRepo(s).Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, state.Currency)
	assert.Equal(t, game.RankMeterMaid, state.Rank)
	assert.Equal(t, game.MaxUnlockLevel, state.UnlockLevel)
	assert.Less(t, state.RankProgress, game.RankProgressMax)
}

func TestPlayerRepoParseError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, StatsKey, []byte(`not json`)))

	state, _, err := NewPlayerRepo(s).Load(ctx)
	assert.ErrorIs(t, err, game.ErrCorruptRecord)
	assert.Equal(t, game.DefaultPlayerState(), state)

	kept, err := s.Load(ctx, StatsKey+CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(kept))
}

func TestPlayerRepoCorruptFurnitureKeepsStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, StatsKey, []byte(
		`{"bucks":9000,"rank":"chief","rankProgress":50,"apartmentLevel":3,"totalFocusMinutes":4000}`)))
	require.NoError(t, s.Save(ctx, FurnitureKey, []byte(`not json`)))

	state, found, err := NewPlayerRepo(s).Load(ctx)
	assert.ErrorIs(t, err, game.ErrCorruptRecord)
	assert.True(t, found)
	assert.Equal(t, 9000, state.Currency)
	assert.Equal(t, game.RankChief, state.Rank)
	assert.Equal(t, 4000, state.TotalFocusMinutes)
	assert.Empty(t, state.OwnedItems)

	kept, err := s.Load(ctx, FurnitureKey+CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(kept))
}

func TestPlayerRepoUnreadableStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, StatsKey, []byte(`{"bucks":9000}`)))
	require.NoError(t, s.Close())

	state, found, err := NewPlayerRepo(s).Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, game.ErrCorruptRecord)
	assert.False(t, found)
	assert.Equal(t, game.DefaultPlayerState(), state)
}

func TestPlayerRepoClear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := NewPlayerRepo(s)
	require.NoError(t, s.Save(ctx, FurnitureKey, []byte(`not json`)))
	_, _, _ = repo.Load(ctx)
	require.NoError(t, repo.Save(ctx, game.DefaultPlayerState()))

	require.NoError(t, repo.Clear(ctx))
	for _, key := range []string{StatsKey, FurnitureKey, FurnitureKey + CorruptSuffix} {
		_, err := s.Load(ctx, key)
		assert.ErrorIs(t, err, ErrNotFound, key)
	}
	_, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}
