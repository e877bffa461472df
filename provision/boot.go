package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/projecteru2/core/log"

	"github.com/rohitnair11/Virtualization/config"
	"github.com/rohitnair11/Virtualization/progress"
	provisionProgress "github.com/rohitnair11/Virtualization/progress/provision"
	"github.com/rohitnair11/Virtualization/utils"
)

// waitForBoot blocks until the guest is usable. In poll mode it pings the
// remote shell until it answers or BootTimeout passes; in sleep mode it waits
// BootTimeout unconditionally.
func (p *Provisioner) waitForBoot(ctx context.Context, name string, tracker progress.Tracker) error {
	logger := log.WithFunc("provision.waitForBoot")
	timeout := p.conf.BootTimeout
	tracker.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseBootWait, Machine: name, Stage: StageBoot})

	if p.conf.BootMode == config.BootModeSleep {
		logger.Infof(ctx, "waiting %s for machine to boot", timeout)
		return utils.Sleep(ctx, timeout)
	}

	logger.Infof(ctx, "waiting up to %s for ssh on machine %s", timeout, name)
	// Pings share the boot deadline so a guest that accepts a session but
	// never answers cannot stall past it.
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var lastErr error
	err := utils.WaitFor(pollCtx, timeout, p.conf.BootPollInterval, func() (bool, error) {
		if err := p.shell.Ping(pollCtx); err != nil {
			lastErr = err
			return false, nil
		}
		return true, nil
	})
	if err == nil || ctx.Err() != nil {
		return err
	}
	if errors.Is(err, utils.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		if lastErr != nil {
			return fmt.Errorf("%w (%s): %w", ErrBootTimeout, timeout, lastErr)
		}
		return fmt.Errorf("%w (%s)", ErrBootTimeout, timeout)
	}
	return err
}
