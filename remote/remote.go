package remote

import "context"

// Shell runs commands on the provisioned guest.
// Run returns *utils.ExecutionError on a non-zero remote exit or when the
// guest cannot be reached.
type Shell interface {
	Run(ctx context.Context, command string) (string, error)
	// Ping succeeds once the guest accepts a session.
	Ping(ctx context.Context) error
	Close() error
}
