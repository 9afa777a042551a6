package db

import "errors"

// Domain-level database error sentinels.
var (
	// Listing errors
	ErrListingNotFound = errors.New("listing not found")

	// Promotion errors
	ErrPromotionNotFound = errors.New("promotion not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// ErrStateConflict is returned when a conditional state update matched
	// the record but not its expected state: a concurrent moderation action
	// got there first. The caller should reload and re-evaluate the
	// transition against the fresh state.
	ErrStateConflict = errors.New("record state changed concurrently")
)
