package engine

import "errors"

// ErrInvalidAllocation rejects an allocation outside the pool or below zero.
var ErrInvalidAllocation = errors.New("invalid allocation")

// ErrLockedStateAttempt rejects an allocation that lands in an extreme state
// the player has not unlocked yet.
var ErrLockedStateAttempt = errors.New("polarity state is locked")

// ErrAlreadyTerminal rejects any commit after the battle ended.
var ErrAlreadyTerminal = errors.New("battle already ended")
