package hypervisor

import (
	"context"
	"errors"

	"github.com/rohitnair11/Virtualization/types"
)

// ErrNotFound is returned when a machine is not registered with the controller.
var ErrNotFound = errors.New("machine not found")

// Controller drives an external VM management tool.
// Every method that shells out returns *utils.ExecutionError on a non-zero exit;
// if the tool reports the machine as unregistered, the error also wraps ErrNotFound.
type Controller interface {
	Type() string

	// Show returns the current state of the named machine. A missing or
	// unparsable machine yields MachineStateNotFound / MachineStateUnknown
	// with a nil error.
	Show(ctx context.Context, name string) (types.MachineState, error)
	// Execute runs a raw controller subcommand ("modifyvm", "sharedfolder add", ...).
	Execute(ctx context.Context, subcommand string, args ...string) (string, error)

	EmergencyStop(ctx context.Context, name string) error
	PowerOff(ctx context.Context, name string) error
	Unregister(ctx context.Context, name string) error
	Import(ctx context.Context, image, name string) error
	ModifyVM(ctx context.Context, name string, args ...string) error
	StartHeadless(ctx context.Context, name string) error
	AddSharedFolder(ctx context.Context, name string, folder types.SharedFolder) error
}
