package virtualbox

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/projecteru2/core/log"

	"github.com/rohitnair11/Virtualization/config"
	"github.com/rohitnair11/Virtualization/hypervisor"
	"github.com/rohitnair11/Virtualization/types"
	"github.com/rohitnair11/Virtualization/utils"
)

const typ = "virtualbox"

// compile-time interface check.
var _ hypervisor.Controller = (*VirtualBox)(nil)

// VirtualBox implements hypervisor.Controller by invoking VBoxManage.
type VirtualBox struct {
	bin string
	run utils.Runner
}

// New creates a VirtualBox controller using the configured VBoxManage binary.
func New(conf *config.Config) *VirtualBox {
	return NewWithRunner(conf.VBoxManage, utils.RunCommand)
}

// NewWithRunner creates a controller with a custom command runner.
func NewWithRunner(bin string, run utils.Runner) *VirtualBox {
	return &VirtualBox{bin: bin, run: run}
}

func (vb *VirtualBox) Type() string { return typ }

// Execute runs `VBoxManage <subcommand> <args...>`. A multi-word subcommand
// such as "sharedfolder add" is split on whitespace. When VBoxManage reports
// the machine as unregistered the error also wraps hypervisor.ErrNotFound.
func (vb *VirtualBox) Execute(ctx context.Context, subcommand string, args ...string) (string, error) {
	argv := append(strings.Fields(subcommand), args...)
	log.WithFunc("virtualbox.Execute").Infof(ctx, "%s %s", vb.bin, strings.Join(argv, " "))
	out, err := vb.run(ctx, vb.bin, argv...)
	var execErr *utils.ExecutionError
	if errors.As(err, &execErr) && isNotRegistered(execErr.Stderr) {
		return string(out), fmt.Errorf("%w: %w", hypervisor.ErrNotFound, err)
	}
	return string(out), err
}

// Show queries `showvminfo --machinereadable` and extracts VMState.
// Only a failure to launch VBoxManage at all is returned as an error.
func (vb *VirtualBox) Show(ctx context.Context, name string) (types.MachineState, error) {
	out, err := vb.run(ctx, vb.bin, "showvminfo", name, "--machinereadable")
	if err != nil {
		var execErr *utils.ExecutionError
		switch {
		case errors.Is(err, exec.ErrNotFound), ctx.Err() != nil:
			return types.MachineStateUnknown, err
		case errors.As(err, &execErr) && isNotRegistered(execErr.Stderr):
			return types.MachineStateNotFound, nil
		default:
			log.WithFunc("virtualbox.Show").Warnf(ctx, "showvminfo %s: %v", name, err)
			return types.MachineStateUnknown, nil
		}
	}
	return parseVMState(string(out)), nil
}

// isNotRegistered matches VBoxManage's message for an unknown machine name.
func isNotRegistered(stderr string) bool {
	return strings.Contains(stderr, "Could not find a registered machine") ||
		strings.Contains(stderr, "VBOX_E_OBJECT_NOT_FOUND")
}
