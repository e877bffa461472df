package machine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	provisionProgress "github.com/rohitnair11/Virtualization/progress/provision"
	"github.com/rohitnair11/Virtualization/types"
)

func TestTrackerBanners(t *testing.T) {
	var out bytes.Buffer
	tr := newTracker(context.Background(), &out, false)
	tr.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseStage, Machine: "V-x", Stage: "import"})
	tr.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseStep, Machine: "V-x", Stage: "import", Step: "import image"})
	tr.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseSuppressed, Machine: "V-x", Stage: "customize", Step: "attach bridged nic2", Err: errors.New("no adapter")})
	tr.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseDone, Machine: "V-x"})

	got := out.String()
	want := "==> V-x: import\n==> V-x: ready\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTrackerSkippedAndColor(t *testing.T) {
	var out bytes.Buffer
	tr := newTracker(context.Background(), &out, true)
	tr.OnEvent(provisionProgress.Event{Phase: provisionProgress.PhaseSkipped, Machine: "V-x"})

	got := out.String()
	if !strings.HasPrefix(got, bannerColor) || !strings.Contains(got, "v up --force") {
		t.Errorf("output = %q", got)
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("buffer reported as terminal")
	}
}

func TestWriteStatus(t *testing.T) {
	var out bytes.Buffer
	if err := writeStatus(&out, "V--home-u-proj", types.MachineStateRunning, "bionic", []string{"bionic", "focal"}); err != nil {
		t.Fatalf("writeStatus: %v", err)
	}
	want := "NAME            STATE    BOX\nV--home-u-proj  running  bionic\nAvailable boxes: bionic, focal\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	out.Reset()
	if err := writeStatus(&out, "V-x", types.MachineStateNotFound, "bionic", nil); err != nil {
		t.Fatalf("writeStatus: %v", err)
	}
	if !strings.HasSuffix(out.String(), "No boxes found.\n") {
		t.Errorf("output = %q", out.String())
	}
}
