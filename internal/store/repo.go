package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KV.Load when the key has never been saved.
var ErrNotFound = errors.New("key not found")

// KV is the persistence collaborator for player state: opaque values under
// caller-chosen keys.
type KV interface {
	// Load returns the value stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session event actions.
const (
	ActionStart    = "start"
	ActionComplete = "complete"
	ActionAbandon  = "abandon"
)

// SessionEventData captures one session lifecycle event.
type SessionEventData struct {
	SessionID   string `json:"session_id"`
	Action      string `json:"action"`
	Kind        string `json:"kind"`
	Stage       string `json:"stage,omitempty"`
	Region      string `json:"region,omitempty"`
	Stake       int    `json:"stake,omitempty"`
	TotalSecs   int    `json:"total_secs"`
	ElapsedSecs int    `json:"elapsed_secs"`
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	SessionEventData
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionTotals aggregates the session event log.
type SessionTotals struct {
	Started   int
	Completed int
	Abandoned int
	FocusSecs int // sum of TotalSecs over completions
}

// EventRepo provides append and query access to session events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns events newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error)

	// SessionTotals aggregates every recorded event.
	SessionTotals(ctx context.Context) (SessionTotals, error)
}

// Backend is a complete persistence backend.
type Backend interface {
	KV
	EventRepo
	Close() error
}

func matchesOpts(rec SessionEventRecord, opts QueryOpts) bool {
	if opts.After > 0 && rec.Sequence <= opts.After {
		return false
	}
	if opts.Before > 0 && rec.Sequence >= opts.Before {
		return false
	}
	if !opts.From.IsZero() && rec.Timestamp.Before(opts.From) {
		return false
	}
	if !opts.To.IsZero() && rec.Timestamp.After(opts.To) {
		return false
	}
	return true
}

func addToTotals(t *SessionTotals, data SessionEventData) {
	switch data.Action {
	case ActionStart:
		t.Started++
	case ActionComplete:
		t.Completed++
		t.FocusSecs += data.TotalSecs
	case ActionAbandon:
		t.Abandoned++
	}
}
