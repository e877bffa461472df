package types

// MachineState is the VM state as reported by the VM controller.
// It is read-only for callers; only the controller mutates the VM.
type MachineState string

const (
	MachineStatePowerOff MachineState = "poweroff"
	MachineStateAborted  MachineState = "aborted"
	MachineStateRunning  MachineState = "running"
	MachineStateSaved    MachineState = "saved"
	MachineStatePaused   MachineState = "paused"
	MachineStateStarting MachineState = "starting"
	MachineStateStopping MachineState = "stopping"
	MachineStateNotFound MachineState = "notfound" // not registered with the controller
	MachineStateUnknown  MachineState = "unknown"  // query failed or output unparsable
)

// ParseMachineState maps a controller-reported state string onto a known
// MachineState. Unrecognized values map to MachineStateUnknown.
func ParseMachineState(s string) MachineState {
	switch st := MachineState(s); st {
	case MachineStatePowerOff, MachineStateAborted, MachineStateRunning,
		MachineStateSaved, MachineStatePaused, MachineStateStarting,
		MachineStateStopping, MachineStateNotFound:
		return st
	}
	return MachineStateUnknown
}

// Stale reports whether the VM is a leftover from a stopped or failed build.
func (s MachineState) Stale() bool {
	return s == MachineStatePowerOff || s == MachineStateAborted
}

// PortForward is a NAT port-forward rule on the first NIC.
type PortForward struct {
	Name      string `json:"name"`
	HostPort  int    `json:"host_port"`
	GuestPort int    `json:"guest_port"`
}

// SharedFolder maps a host directory into the guest.
type SharedFolder struct {
	Name     string `json:"name"`
	HostPath string `json:"host_path"`
}
