package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/core/log"

	"github.com/rohitnair11/Virtualization/config"
	"github.com/rohitnair11/Virtualization/hypervisor"
	"github.com/rohitnair11/Virtualization/images"
	"github.com/rohitnair11/Virtualization/lock"
	"github.com/rohitnair11/Virtualization/lock/flock"
	"github.com/rohitnair11/Virtualization/progress"
	provisionProgress "github.com/rohitnair11/Virtualization/progress/provision"
	"github.com/rohitnair11/Virtualization/remote"
	"github.com/rohitnair11/Virtualization/types"
)

// Stage names, also used as log function suffixes.
const (
	StageDelete    = "delete"
	StageImport    = "import"
	StageConfigure = "configure"
	StageCustomize = "customize"
	StageBoot      = "boot"
	StagePostConf  = "postconfigure"
)

// UpOptions are the per-invocation inputs of Up.
type UpOptions struct {
	// WorkDir is the physical absolute directory the machine identity is
	// derived from (see ResolveWorkDir).
	WorkDir string
	// Force rebuilds the machine even if it is running.
	Force bool
}

// Provisioner brings up a development VM: it (re)creates the machine through
// the VM controller and configures the guest through the remote shell.
type Provisioner struct {
	conf  *config.Config
	vm    hypervisor.Controller
	shell remote.Shell
}

// New creates a Provisioner.
func New(conf *config.Config, vm hypervisor.Controller, shell remote.Shell) *Provisioner {
	return &Provisioner{conf: conf, vm: vm, shell: shell}
}

// Status returns the machine identity for workDir and its current state.
func (p *Provisioner) Status(ctx context.Context, workDir string) (string, types.MachineState, error) {
	name := MachineName(workDir)
	state, err := p.vm.Show(ctx, name)
	if err != nil {
		return name, state, fmt.Errorf("query state of %s: %w", name, err)
	}
	return name, state, nil
}

// Up provisions the machine for opts.WorkDir. A running machine is left
// untouched unless opts.Force is set; a stopped or aborted one is always
// rebuilt.
func (p *Provisioner) Up(ctx context.Context, opts UpOptions, tracker progress.Tracker) error {
	if tracker == nil {
		tracker = progress.Nop
	}
	logger := log.WithFunc("provision.Up")
	name := MachineName(opts.WorkDir)
	logger.Infof(ctx, "bringing up machine %s", name)

	if err := p.conf.EnsureRunDirs(); err != nil {
		return fmt.Errorf("ensure dirs: %w", err)
	}
	var locker lock.Locker = flock.New(p.conf.MachineLock(name))
	ok, err := locker.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("lock %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrBusy, name)
	}
	defer locker.Unlock(ctx) //nolint:errcheck

	box, err := images.Resolve(p.conf)
	if err != nil {
		if p.conf.StrictImage || !errors.Is(err, images.ErrImageNotFound) {
			return fmt.Errorf("resolve image: %w", err)
		}
		logger.Warnf(ctx, "could not find %s, download it with '%s'", box.Path, box.PullHint())
	}

	state, err := p.vm.Show(ctx, name)
	if err != nil {
		return fmt.Errorf("query state of %s: %w", name, err)
	}
	logger.Infof(ctx, "VM %s is currently: %s", name, state)

	switch {
	case state == types.MachineStateRunning && !opts.Force:
		logger.Infof(ctx, "VM %s is running, use 'v up --force' to build a new machine", name)
		tracker.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseSkipped, Machine: name})
		return nil
	case state.Stale(), state == types.MachineStateRunning:
		logger.Infof(ctx, "deleting machine %s", name)
		if err := runSteps(ctx, tracker, name, StageDelete, p.deleteSteps(name)); err != nil {
			return err
		}
	}

	stages := []struct {
		name  string
		steps []Step
	}{
		{StageImport, p.importSteps(name, box.Path)},
		{StageConfigure, p.configureSteps(name)},
		{StageCustomize, p.customizeSteps(name)},
		{StageBoot, p.bootSteps(name, tracker)},
		{StagePostConf, p.postConfigureSteps()},
	}
	for _, st := range stages {
		if err := runSteps(ctx, tracker, name, st.name, st.steps); err != nil {
			return err
		}
	}

	logger.Infof(ctx, "machine %s is ready", name)
	tracker.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseDone, Machine: name})
	return nil
}
