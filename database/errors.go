package database

import "errors"

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConditionFailed is returned when a conditional write was rejected
	// by the store, e.g. a stock decrement below the requested quantity.
	ErrConditionFailed = errors.New("condition check failed")
)
