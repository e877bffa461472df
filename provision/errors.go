package provision

import "errors"

var (
	// ErrBusy is returned when another `up` holds the lock for the same machine.
	ErrBusy = errors.New("machine is being provisioned by another process")
	// ErrBootTimeout is returned when the guest does not answer over SSH in time.
	ErrBootTimeout = errors.New("timed out waiting for machine to boot")
)
