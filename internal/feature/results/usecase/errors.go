package usecase

import "errors"

var (
	// ErrRunNotFound is returned when no run exists with the requested number.
	ErrRunNotFound = errors.New("run not found")

	// ErrGraphNotFound is returned when a run has no samples for the requested group/subgroup.
	ErrGraphNotFound = errors.New("graph not found")
)
