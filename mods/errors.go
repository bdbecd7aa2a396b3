package mods

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks an upstream integration bug. Operations that return an
// error wrapping it abort only themselves; missing or inconsistent mod data is
// never reported this way.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrEmptyUUID      = fmt.Errorf("%w: empty mod uuid", ErrInvalidInput)
	ErrUnknownProfile = fmt.Errorf("%w: load order references unknown profile", ErrInvalidInput)
)

// Partitioner errors.
var (
	ErrModNotFound     = errors.New("mod not found")
	ErrNotEligible     = errors.New("mod cannot be placed in the load order")
	ErrIndexOutOfRange = errors.New("index out of range")
)
