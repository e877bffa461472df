package machine

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	cmdcore "github.com/rohitnair11/Virtualization/cmd/core"
	"github.com/rohitnair11/Virtualization/images"
	"github.com/rohitnair11/Virtualization/progress"
	provisionProgress "github.com/rohitnair11/Virtualization/progress/provision"
	"github.com/rohitnair11/Virtualization/provision"
	"github.com/rohitnair11/Virtualization/types"
)

const bannerColor = "\x1b[38;5;213m"

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) Up(cmd *cobra.Command, _ []string) error {
	ctx, conf, err := h.Init(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	workDir, err := cmdcore.WorkDir()
	if err != nil {
		return err
	}

	p, shell := cmdcore.InitProvisioner(conf, os.Stdout)
	defer shell.Close() //nolint:errcheck

	out := cmd.OutOrStdout()
	tracker := newTracker(ctx, out, isTerminal(out))
	return p.Up(ctx, provision.UpOptions{WorkDir: workDir, Force: force}, tracker)
}

func (h Handler) Status(cmd *cobra.Command, _ []string) error {
	ctx, conf, err := h.Init(cmd)
	if err != nil {
		return err
	}
	workDir, err := cmdcore.WorkDir()
	if err != nil {
		return err
	}

	p, shell := cmdcore.InitProvisioner(conf, io.Discard)
	defer shell.Close() //nolint:errcheck

	name, state, err := p.Status(ctx, workDir)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	boxes, err := images.List(conf)
	if err != nil {
		return fmt.Errorf("list boxes: %w", err)
	}
	return writeStatus(cmd.OutOrStdout(), name, state, conf.Box, boxes)
}

func writeStatus(out io.Writer, name string, state types.MachineState, box string, boxes []string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSTATE\tBOX")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, state, box)
	if err := w.Flush(); err != nil {
		return err
	}
	if len(boxes) == 0 {
		_, err := fmt.Fprintln(out, "No boxes found.")
		return err
	}
	_, err := fmt.Fprintf(out, "Available boxes: %s\n", strings.Join(boxes, ", "))
	return err
}

// newTracker renders provisioning events: stage banners go to out, step
// details go to the log.
func newTracker(ctx context.Context, out io.Writer, color bool) progress.Tracker {
	logger := log.WithFunc("cmd.up")
	banner := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if color {
			msg = bannerColor + msg + "\x1b[0m"
		}
		_, _ = fmt.Fprintln(out, msg)
	}
	return progress.NewTracker(func(e provisionProgress.Event) {
		switch e.Phase {
		case provisionProgress.PhaseStage:
			banner("==> %s: %s", e.Machine, e.Stage)
		case provisionProgress.PhaseStep:
			logger.Infof(ctx, "[%s] %s done", e.Stage, e.Step)
		case provisionProgress.PhaseSuppressed:
			logger.Warnf(ctx, "[%s] %s failed, continuing: %v", e.Stage, e.Step, e.Err)
		case provisionProgress.PhaseBootWait:
			banner("==> %s: waiting for the guest to accept SSH", e.Machine)
		case provisionProgress.PhaseSkipped:
			banner("VM %s is running. Use 'v up --force' to build a new machine.", e.Machine)
		case provisionProgress.PhaseDone:
			banner("==> %s: ready", e.Machine)
		}
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}
