package usecase

import "errors"

var (
	// ErrActionFailed is returned when the measured action itself fails; no run is stored.
	ErrActionFailed = errors.New("monitored action failed")

	// ErrNoSamplers is returned when a session has nothing to sample.
	ErrNoSamplers = errors.New("no samplers")
)
