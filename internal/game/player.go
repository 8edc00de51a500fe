package game

import "sort"

// PlayerState is the persisted progression of the single local player.
type PlayerState struct {
	Currency          int
	Rank              Rank
	RankProgress      int
	UnlockLevel       int
	TotalFocusMinutes int
	OwnedItems        map[ItemID]bool
}

// DefaultPlayerState returns the state of a brand new player.
func DefaultPlayerState() PlayerState {
	return PlayerState{
		Currency:     StartingCurrency,
		Rank:         RankMeterMaid,
		RankProgress: 0,
		UnlockLevel:  1,
		OwnedItems:   make(map[ItemID]bool),
	}
}

// Clone returns a deep copy so callers can't mutate the owned set.
func (p PlayerState) Clone() PlayerState {
	owned := make(map[ItemID]bool, len(p.OwnedItems))
	for id, ok := range p.OwnedItems {
		if ok {
			owned[id] = true
		}
	}
	p.OwnedItems = owned
	return p
}

// Owns reports whether id has been purchased.
func (p PlayerState) Owns(id ItemID) bool {
	return p.OwnedItems[id]
}

// OwnedList returns the owned item IDs sorted for stable display and storage.
func (p PlayerState) OwnedList() []ItemID {
	ids := make([]ItemID, 0, len(p.OwnedItems))
	for id, ok := range p.OwnedItems {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Normalize clamps values loaded from storage back into their valid ranges.
func (p *PlayerState) Normalize() {
	if p.Currency < 0 {
		p.Currency = 0
	}
	if !p.Rank.IsValid() {
		p.Rank = RankMeterMaid
	}
	if p.RankProgress < 0 {
		p.RankProgress = 0
	}
	if p.Rank.IsMax() {
		if p.RankProgress > RankProgressMax {
			p.RankProgress = RankProgressMax
		}
	} else if p.RankProgress >= RankProgressMax {
		p.RankProgress = RankProgressMax - 1
	}
	if p.UnlockLevel < 1 {
		p.UnlockLevel = 1
	}
	if p.UnlockLevel > MaxUnlockLevel {
		p.UnlockLevel = MaxUnlockLevel
	}
	if p.TotalFocusMinutes < 0 {
		p.TotalFocusMinutes = 0
	}
	if p.OwnedItems == nil {
		p.OwnedItems = make(map[ItemID]bool)
	}
}
