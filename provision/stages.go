package provision

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/projecteru2/core/log"

	"github.com/rohitnair11/Virtualization/hypervisor"
	"github.com/rohitnair11/Virtualization/progress"
	"github.com/rohitnair11/Virtualization/types"
)

const guestSSHPort = 22

// deleteSteps tears down a leftover machine. The first two calls only clear a
// stale session lock or a half-running VM, so their failures are expected.
func (p *Provisioner) deleteSteps(name string) []Step {
	return []Step{
		{Name: "emergency stop", Tolerance: Suppress, Action: func(ctx context.Context) error {
			return p.vm.EmergencyStop(ctx, name)
		}},
		{Name: "power off", Tolerance: Suppress, Action: func(ctx context.Context) error {
			return p.vm.PowerOff(ctx, name)
		}},
		{Name: "unregister and delete", Tolerance: Propagate, Action: func(ctx context.Context) error {
			err := p.vm.Unregister(ctx, name)
			if errors.Is(err, hypervisor.ErrNotFound) {
				// Removed behind our back since Show; nothing left to delete.
				log.WithFunc("provision.delete").Warnf(ctx, "machine %s already unregistered", name)
				return nil
			}
			return err
		}},
	}
}

func (p *Provisioner) importSteps(name, image string) []Step {
	return []Step{
		{Name: "import image", Tolerance: Propagate, Action: func(ctx context.Context) error {
			return p.vm.Import(ctx, image, name)
		}},
	}
}

func (p *Provisioner) configureSteps(name string) []Step {
	return []Step{
		{Name: "set memory and cpus", Tolerance: Propagate, Action: func(ctx context.Context) error {
			mb, err := p.conf.MemoryMB()
			if err != nil {
				return err
			}
			return p.vm.ModifyVM(ctx, name,
				"--memory", strconv.FormatInt(mb, 10),
				"--cpus", strconv.Itoa(p.conf.CPUs))
		}},
		{Name: "disconnect serial port", Tolerance: Propagate, Action: func(ctx context.Context) error {
			return p.vm.ModifyVM(ctx, name, "--uart1", "0x3f8", "4", "--uartmode1", "disconnected")
		}},
	}
}

// customizeSteps applies networking and sharing. Every step is best-effort:
// e.g. the bridge adapter only exists on some hosts.
func (p *Provisioner) customizeSteps(name string) []Step {
	modify := func(args ...string) func(context.Context) error {
		return func(ctx context.Context) error { return p.vm.ModifyVM(ctx, name, args...) }
	}
	sshRule := types.PortForward{Name: "guestssh", HostPort: p.conf.SSHPort, GuestPort: guestSSHPort}
	appRule := types.PortForward{Name: p.conf.AppRule, HostPort: p.conf.AppHostPort, GuestPort: p.conf.AppGuestPort}
	folder := types.SharedFolder{Name: p.conf.SharedFolderName, HostPath: p.conf.SharedFolderPath}

	return []Step{
		{Name: "attach NAT nic1", Tolerance: Suppress, Action: modify("--nic1", "nat")},
		{Name: "set nic1 type", Tolerance: Suppress, Action: modify("--nictype1", "virtio")},
		{Name: "attach bridged nic2", Tolerance: Suppress, Action: modify("--nic2", "bridged", "--bridgeadapter2", p.conf.BridgeAdapter)},
		{Name: "set nic2 type", Tolerance: Suppress, Action: modify("--nictype2", "virtio")},
		{Name: "forward ssh port", Tolerance: Suppress, Action: modify("--natpf1", natRule(sshRule))},
		{Name: "forward app port", Tolerance: Suppress, Action: modify("--natpf1", natRule(appRule))},
		{Name: "add shared folder", Tolerance: Suppress, Action: func(ctx context.Context) error {
			return p.vm.AddSharedFolder(ctx, name, folder)
		}},
	}
}

func (p *Provisioner) bootSteps(name string, tracker progress.Tracker) []Step {
	return []Step{
		{Name: "clear session lock", Tolerance: Suppress, Action: func(ctx context.Context) error {
			return p.vm.EmergencyStop(ctx, name)
		}},
		{Name: "start headless", Tolerance: Propagate, Action: func(ctx context.Context) error {
			return p.vm.StartHeadless(ctx, name)
		}},
		{Name: "wait for boot", Tolerance: Propagate, Action: func(ctx context.Context) error {
			return p.waitForBoot(ctx, name, tracker)
		}},
	}
}

// postConfigureSteps installs the toolchain and the application in the
// guest. Only the package index refresh may fail.
func (p *Provisioner) postConfigureSteps() []Step {
	c := p.conf
	return []Step{
		p.remoteStep("update package index", Suppress, "sudo apt update"),
		p.remoteStep("install nodejs", Propagate, "sudo apt install -y nodejs"),
		p.remoteStep("install npm", Propagate, "sudo apt install -y npm"),
		p.remoteStep("install git", Propagate, "sudo apt install -y git"),
		p.remoteStep("clone repository", Propagate, "git clone "+c.RepoURL),
		p.remoteStep("install app dependencies", Propagate, fmt.Sprintf("npm --prefix ./%[1]s install ./%[1]s", c.AppDir)),
		p.remoteStep("renew nic2 lease", Propagate, "sudo dhclient "+c.GuestInterface),
		p.remoteStep("create mount point", Propagate, "mkdir "+c.GuestMountDir),
		p.remoteStep("mount shared folder", Propagate, fmt.Sprintf("sudo mount -t vboxsf %s %s", c.SharedFolderName, c.GuestMountDir)),
	}
}

func (p *Provisioner) remoteStep(name string, tol Tolerance, command string) Step {
	return Step{Name: name, Tolerance: tol, Action: func(ctx context.Context) error {
		_, err := p.shell.Run(ctx, command)
		return err
	}}
}

// natRule formats a VBoxManage --natpf rule: name,proto,hostip,hostport,guestip,guestport.
func natRule(r types.PortForward) string {
	return fmt.Sprintf("%s,tcp,,%d,,%d", r.Name, r.HostPort, r.GuestPort)
}
