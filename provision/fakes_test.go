package provision

import (
	"context"
	"strings"

	"github.com/rohitnair11/Virtualization/hypervisor"
	"github.com/rohitnair11/Virtualization/remote"
	"github.com/rohitnair11/Virtualization/types"
)

// recorder is shared by the fake controller and fake shell so tests can
// assert on the interleaved order of VM and guest calls.
type recorder struct {
	calls  []string
	fail   map[string]error
	onCall func(call string)
}

func newRecorder() *recorder {
	return &recorder{fail: map[string]error{}}
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if r.onCall != nil {
		r.onCall(call)
	}
	return r.fail[call]
}

var (
	_ hypervisor.Controller = (*fakeVM)(nil)
	_ remote.Shell          = (*fakeShell)(nil)
)

type fakeVM struct {
	*recorder
	state   types.MachineState
	showErr error
}

func (f *fakeVM) Type() string { return "fake" }

func (f *fakeVM) Show(_ context.Context, name string) (types.MachineState, error) {
	_ = f.record("showvminfo " + name)
	return f.state, f.showErr
}

func (f *fakeVM) Execute(_ context.Context, subcommand string, args ...string) (string, error) {
	return "", f.record(strings.Join(append([]string{subcommand}, args...), " "))
}

func (f *fakeVM) exec(subcommand string, args ...string) error {
	_, err := f.Execute(context.Background(), subcommand, args...)
	return err
}

func (f *fakeVM) EmergencyStop(_ context.Context, name string) error {
	return f.exec("startvm", name, "--type", "emergencystop")
}

func (f *fakeVM) PowerOff(_ context.Context, name string) error {
	return f.exec("controlvm", name, "poweroff")
}

func (f *fakeVM) Unregister(_ context.Context, name string) error {
	return f.exec("unregistervm", name, "--delete")
}

func (f *fakeVM) Import(_ context.Context, image, name string) error {
	return f.exec("import", image, "--vsys", "0", "--vmname", name)
}

func (f *fakeVM) ModifyVM(_ context.Context, name string, args ...string) error {
	return f.exec("modifyvm", append([]string{name}, args...)...)
}

func (f *fakeVM) StartHeadless(_ context.Context, name string) error {
	return f.exec("startvm", name, "--type", "headless")
}

func (f *fakeVM) AddSharedFolder(_ context.Context, name string, folder types.SharedFolder) error {
	return f.exec("sharedfolder add", name, "--name", folder.Name, "--hostpath", folder.HostPath)
}

type fakeShell struct {
	*recorder
	hangPing bool // Ping blocks until its context is done
}

func (f *fakeShell) Run(_ context.Context, command string) (string, error) {
	return "", f.record("ssh " + command)
}

func (f *fakeShell) Ping(ctx context.Context) error {
	if err := f.record("ping"); err != nil {
		return err
	}
	if f.hangPing {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeShell) Close() error { return nil }
