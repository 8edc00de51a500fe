package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/metrofocus/internal/game"
)

// Keys under which the player state is stored. Stats and owned furniture
// are kept apart so either can be inspected or reset on its own.
const (
	StatsKey     = "metrofocus-stats"
	FurnitureKey = "metrofocus-furniture"

	// CorruptSuffix is appended to a key to keep an unreadable value
	// before it is overwritten.
	CorruptSuffix = ".corrupt"
)

type statsRecord struct {
	Bucks             int    `json:"bucks"`
	Rank              string `json:"rank"`
	RankProgress      int    `json:"rankProgress"`
	ApartmentLevel    int    `json:"apartmentLevel"`
	TotalFocusMinutes int    `json:"totalFocusMinutes"`
}

// PlayerRepo maps game.PlayerState onto a KV.
type PlayerRepo struct {
	kv KV
}

// NewPlayerRepo creates a PlayerRepo backed by kv.
func NewPlayerRepo(kv KV) *PlayerRepo {
	return &PlayerRepo{kv: kv}
}

// Load returns the stored player state. found is false when nothing usable
// was stored, in which case the defaults are returned.
//
// Stats and furniture are decoded separately. A value that fails to parse
// is copied under its key plus CorruptSuffix, its part of the state keeps
// the defaults, and the error wraps game.ErrCorruptRecord next to the
// recovered state. Any other error means the store could not be read.
func (r *PlayerRepo) Load(ctx context.Context) (state game.PlayerState, found bool, err error) {
	state = game.DefaultPlayerState()
	var corrupt []error

	raw, err := r.load(ctx, StatsKey)
	switch {
	case err != nil:
		return game.DefaultPlayerState(), false, err
	case raw != nil:
		var rec statsRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			corrupt = append(corrupt, r.quarantine(ctx, StatsKey, raw, err))
			break
		}
		state.Currency = rec.Bucks
		state.Rank = game.Rank(rec.Rank)
		state.RankProgress = rec.RankProgress
		state.UnlockLevel = rec.ApartmentLevel
		state.TotalFocusMinutes = rec.TotalFocusMinutes
		found = true
	}

	raw, err = r.load(ctx, FurnitureKey)
	switch {
	case err != nil:
		return game.DefaultPlayerState(), false, err
	case raw != nil:
		var ids []game.ItemID
		if err := json.Unmarshal(raw, &ids); err != nil {
			corrupt = append(corrupt, r.quarantine(ctx, FurnitureKey, raw, err))
			break
		}
		for _, id := range ids {
			state.OwnedItems[id] = true
		}
		found = true
	}

	state.Normalize()
	if len(corrupt) > 0 {
		return state, found, errors.Join(corrupt...)
	}
	return state, found, nil
}

func (r *PlayerRepo) load(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.kv.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return raw, err
}

// quarantine keeps an unparsable value so the next save can't destroy it.
func (r *PlayerRepo) quarantine(ctx context.Context, key string, raw []byte, parseErr error) error {
	err := fmt.Errorf("parse %s: %w: %w", key, game.ErrCorruptRecord, parseErr)
	if saveErr := r.kv.Save(ctx, key+CorruptSuffix, raw); saveErr != nil {
		return errors.Join(err, fmt.Errorf("keep %s: %w", key, saveErr))
	}
	return err
}

// Save writes both the stats and the owned furniture.
func (r *PlayerRepo) Save(ctx context.Context, state game.PlayerState) error {
	stats, err := json.Marshal(statsRecord{
		Bucks:             state.Currency,
		Rank:              string(state.Rank),
		RankProgress:      state.RankProgress,
		ApartmentLevel:    state.UnlockLevel,
		TotalFocusMinutes: state.TotalFocusMinutes,
	})
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	if err := r.kv.Save(ctx, StatsKey, stats); err != nil {
		return err
	}

	owned, err := json.Marshal(state.OwnedList())
	if err != nil {
		return fmt.Errorf("marshal furniture: %w", err)
	}
	return r.kv.Save(ctx, FurnitureKey, owned)
}

// Clear deletes every stored player key, including kept corrupt values.
func (r *PlayerRepo) Clear(ctx context.Context) error {
	for _, key := range []string{StatsKey, FurnitureKey, StatsKey + CorruptSuffix, FurnitureKey + CorruptSuffix} {
		if err := r.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
