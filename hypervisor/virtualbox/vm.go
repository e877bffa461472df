package virtualbox

import (
	"context"

	"github.com/rohitnair11/Virtualization/types"
)

// EmergencyStop releases a stale session lock held on the machine.
func (vb *VirtualBox) EmergencyStop(ctx context.Context, name string) error {
	_, err := vb.Execute(ctx, "startvm", name, "--type", "emergencystop")
	return err
}

func (vb *VirtualBox) PowerOff(ctx context.Context, name string) error {
	_, err := vb.Execute(ctx, "controlvm", name, "poweroff")
	return err
}

// Unregister removes the machine and deletes its disks.
func (vb *VirtualBox) Unregister(ctx context.Context, name string) error {
	_, err := vb.Execute(ctx, "unregistervm", name, "--delete")
	return err
}

// Import registers the OVF appliance at image as a new machine called name.
func (vb *VirtualBox) Import(ctx context.Context, image, name string) error {
	_, err := vb.Execute(ctx, "import", image, "--vsys", "0", "--vmname", name)
	return err
}

func (vb *VirtualBox) ModifyVM(ctx context.Context, name string, args ...string) error {
	_, err := vb.Execute(ctx, "modifyvm", append([]string{name}, args...)...)
	return err
}

func (vb *VirtualBox) StartHeadless(ctx context.Context, name string) error {
	_, err := vb.Execute(ctx, "startvm", name, "--type", "headless")
	return err
}

func (vb *VirtualBox) AddSharedFolder(ctx context.Context, name string, folder types.SharedFolder) error {
	_, err := vb.Execute(ctx, "sharedfolder add", name, "--name", folder.Name, "--hostpath", folder.HostPath)
	return err
}
