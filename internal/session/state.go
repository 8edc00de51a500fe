package session

import (
	"time"

	"github.com/abhisek/metrofocus/internal/game"
)

// Variant carries the fields specific to one session kind. Exactly one of
// Standard, MultiStage or Wagered.
type Variant interface {
	Kind() game.Kind
}

// Standard is a citizen session run in a region.
type Standard struct {
	Region game.RegionID
}

func (Standard) Kind() game.Kind { return game.KindStandard }

// MultiStage is a ZPD case; Stage is the stage currently being timed.
type MultiStage struct {
	Stage game.Stage
}

func (MultiStage) Kind() game.Kind { return game.KindMultiStage }

// Wagered is a hustle whose stake was withdrawn when it started.
type Wagered struct {
	Stake int
}

func (Wagered) Kind() game.Kind { return game.KindWagered }

// State is a snapshot of the active session. The zero value is idle.
type State struct {
	ID               string
	Variant          Variant
	Running          bool
	RemainingSeconds int
	TotalSeconds     int
	StartedAt        time.Time
}

// Kind returns the session kind, or game.KindIdle when no session exists.
func (s State) Kind() game.Kind {
	if s.Variant == nil {
		return game.KindIdle
	}
	return s.Variant.Kind()
}

// Idle reports whether there is no session.
func (s State) Idle() bool {
	return s.Variant == nil
}

// Completed reports whether the countdown reached zero. A completed
// multi-stage session on a non-final stage is awaiting AdvanceStage.
func (s State) Completed() bool {
	return s.Variant != nil && !s.Running && s.RemainingSeconds == 0
}

// Paused reports whether the countdown is frozen with time left.
func (s State) Paused() bool {
	return s.Variant != nil && !s.Running && s.RemainingSeconds > 0
}

// AwaitingAdvance reports whether a case stage finished and the next one
// has not started yet.
func (s State) AwaitingAdvance() bool {
	return s.Completed() && s.Kind() == game.KindMultiStage && !s.Stage().IsFinal()
}

// Finished reports whether the whole session ran out: a completed standard
// or wagered session, or a case whose final stage completed.
func (s State) Finished() bool {
	return s.Completed() && !s.AwaitingAdvance()
}

// Stage returns the current case stage, or game.StageNone.
func (s State) Stage() game.Stage {
	if v, ok := s.Variant.(MultiStage); ok {
		return v.Stage
	}
	return game.StageNone
}

// Region returns the region of a standard session.
func (s State) Region() game.RegionID {
	if v, ok := s.Variant.(Standard); ok {
		return v.Region
	}
	return ""
}

// Stake returns the stake of a wagered session.
func (s State) Stake() int {
	if v, ok := s.Variant.(Wagered); ok {
		return v.Stake
	}
	return 0
}

// ElapsedSeconds is the amount of the countdown already consumed.
func (s State) ElapsedSeconds() int {
	return s.TotalSeconds - s.RemainingSeconds
}

// Progress returns the fraction of the countdown consumed, in [0, 1].
func (s State) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	return float64(s.ElapsedSeconds()) / float64(s.TotalSeconds)
}

// Remaining returns the remaining time as a duration.
func (s State) Remaining() time.Duration {
	return time.Duration(s.RemainingSeconds) * time.Second
}

func (s State) completion() game.Completion {
	return game.Completion{
		SessionID:    s.ID,
		Kind:         s.Kind(),
		Stage:        s.Stage(),
		Region:       s.Region(),
		Stake:        s.Stake(),
		TotalSeconds: s.TotalSeconds,
	}
}
