package provision

import (
	"context"
	"fmt"

	"github.com/projecteru2/core/log"

	"github.com/rohitnair11/Virtualization/progress"
	provisionProgress "github.com/rohitnair11/Virtualization/progress/provision"
)

// Tolerance declares what a failing step does to its stage.
type Tolerance int

const (
	// Propagate aborts the stage, and with it the whole `up`.
	Propagate Tolerance = iota
	// Suppress logs the failure and moves on to the next step.
	Suppress
)

func (t Tolerance) String() string {
	if t == Suppress {
		return "suppress"
	}
	return "propagate"
}

// Step is one external call in a stage.
type Step struct {
	Name      string
	Tolerance Tolerance
	Action    func(context.Context) error
}

// runSteps executes steps in order, applying each step's tolerance.
// A canceled context always propagates, even through a Suppress step.
func runSteps(ctx context.Context, tracker progress.Tracker, machine, stage string, steps []Step) error {
	logger := log.WithFunc("provision." + stage)
	tracker.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseStage, Machine: machine, Stage: stage})

	for _, s := range steps {
		err := s.Action(ctx)
		if err == nil {
			tracker.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseStep, Machine: machine, Stage: stage, Step: s.Name})
			continue
		}
		if s.Tolerance == Suppress && ctx.Err() == nil {
			logger.Warnf(ctx, "%s failed, continuing: %v", s.Name, err)
			tracker.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseSuppressed, Machine: machine, Stage: stage, Step: s.Name, Err: err})
			continue
		}
		return fmt.Errorf("%s: %s: %w", stage, s.Name, err)
	}
	return nil
}
