package database

import "errors"

var (
	// ErrConflict means the requested time is already taken by another booking.
	ErrConflict = errors.New("time slot already booked")
	// ErrNoCapacity means the requested time falls outside the day's working ranges.
	ErrNoCapacity = errors.New("no capacity at requested time")
	// ErrNotFound means the booking does not exist.
	ErrNotFound = errors.New("booking not found")
	// ErrConcurrentModification means the record changed under an optimistic update.
	ErrConcurrentModification = errors.New("booking was modified concurrently")
)
