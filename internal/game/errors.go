package game

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below.
var (
	ErrInvalidDuration   = errors.New("invalid session duration")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrUnknownItem       = errors.New("unknown item")
	ErrPersistence       = errors.New("persistence failure")
	ErrInvalidStake      = errors.New("stake must be positive")
	ErrCorruptRecord     = errors.New("stored record is unreadable")
	ErrNotLoaded         = errors.New("player state was never loaded")
)

// InvalidDurationError indicates a session length outside the allowed range.
type InvalidDurationError struct {
	Minutes int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid session duration %d minutes (must be %d-%d)",
		e.Minutes, MinSessionMinutes, MaxSessionMinutes)
}

func (e *InvalidDurationError) Is(target error) bool { return target == ErrInvalidDuration }

// InsufficientFundsError indicates the balance can't cover a stake or cost.
type InsufficientFundsError struct {
	Needed    int
	Available int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Needed, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// InvalidTransitionError indicates an operation that doesn't apply to the
// current session.
type InvalidTransitionError struct {
	Op     string
	Kind   Kind
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s session: %s", e.Op, e.Kind, e.Reason)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// AlreadyOwnedError indicates a repeat purchase.
type AlreadyOwnedError struct {
	Item ItemID
}

func (e *AlreadyOwnedError) Error() string {
	return fmt.Sprintf("item %q already owned", e.Item)
}

func (e *AlreadyOwnedError) Is(target error) bool { return target == ErrAlreadyOwned }

// UnknownItemError indicates an item missing from the catalog.
type UnknownItemError struct {
	Item ItemID
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("item %q not in catalog", e.Item)
}

func (e *UnknownItemError) Is(target error) bool { return target == ErrUnknownItem }

// PersistenceError reports a failed load or save. It is never fatal: the
// in-memory state remains authoritative and the next save reconciles.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
	}
	return "persistence " + e.Op + " failed"
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// IsPersistence reports whether err is only a persistence failure, which
// callers treat as a warning rather than a rejected operation.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
