package session

import (
	"time"

	"github.com/abhisek/metrofocus/internal/game"
)

// EventType identifies a session notification.
type EventType string

const (
	EventStarted       EventType = "started"
	EventTick          EventType = "tick"
	EventPaused        EventType = "paused"
	EventResumed       EventType = "resumed"
	EventReset         EventType = "reset"
	EventStageAdvanced EventType = "stage_advanced"
	EventCompleted     EventType = "completed"
	EventAbandoned     EventType = "abandoned"
	EventDismissed     EventType = "dismissed"
)

// Event is delivered to subscribers after every transition and tick.
type Event struct {
	Type   EventType
	State  State
	Reward *game.Reward // set on EventCompleted
	Err    error        // non-fatal failure attached to the transition
	At     time.Time
}
