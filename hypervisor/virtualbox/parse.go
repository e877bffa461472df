package virtualbox

import (
	"bufio"
	"strings"

	"github.com/rohitnair11/Virtualization/types"
)

// parseVMState extracts the VMState key from `showvminfo --machinereadable`
// output, e.g. `VMState="poweroff"`.
func parseVMState(out string) types.MachineState {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || key != "VMState" {
			continue
		}
		return types.ParseMachineState(strings.Trim(value, `"`))
	}
	return types.MachineStateUnknown
}
