package daemon

import "errors"

var (
	// ErrStopped is returned by Call after the reactor has shut down.
	ErrStopped = errors.New("daemon: reactor stopped")

	// ErrDeveloperDisabled is returned by LoadTestDevice when the
	// daemon runs without developer mode.
	ErrDeveloperDisabled = errors.New("daemon: developer mode is disabled")
)
