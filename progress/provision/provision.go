package provision

// Phase represents a point in the provisioning lifecycle.
type Phase int

const (
	PhaseStage      Phase = iota // A stage (delete, import, customize, ...) begins.
	PhaseStep                    // A step completed successfully.
	PhaseSuppressed              // A step failed and the failure was tolerated.
	PhaseBootWait                // Waiting for the guest to come up.
	PhaseSkipped                 // The machine is running and --force was not given.
	PhaseDone                    // Provisioning completed.
)

// Event describes a single provisioning progress update.
type Event struct {
	Phase   Phase
	Machine string // machine identity
	Stage   string
	Step    string
	Err     error // set for PhaseSuppressed
}
