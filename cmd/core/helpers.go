package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohitnair11/Virtualization/config"
	"github.com/rohitnair11/Virtualization/hypervisor/virtualbox"
	"github.com/rohitnair11/Virtualization/provision"
	"github.com/rohitnair11/Virtualization/remote"
	"github.com/rohitnair11/Virtualization/remote/ssh"
)

// BaseHandler provides shared config access for all command handlers.
type BaseHandler struct {
	ConfProvider func() *config.Config
}

// Init returns the command context and validated config in one call.
func (h BaseHandler) Init(cmd *cobra.Command) (context.Context, *config.Config, error) {
	conf, err := h.Conf()
	if err != nil {
		return nil, nil, err
	}
	return CommandContext(cmd), conf, nil
}

// Conf validates and returns the config. All handlers call this first.
func (h BaseHandler) Conf() (*config.Config, error) {
	if h.ConfProvider == nil {
		return nil, fmt.Errorf("config provider is nil")
	}
	conf := h.ConfProvider()
	if conf == nil {
		return nil, fmt.Errorf("config not initialized")
	}
	return conf, nil
}

// CommandContext returns command context, falling back to Background.
func CommandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// InitProvisioner wires the VBoxManage client and the SSH shell into a
// provisioner. Remote command output is teed to out. The caller closes the
// returned shell.
func InitProvisioner(conf *config.Config, out io.Writer) (*provision.Provisioner, remote.Shell) {
	shell := ssh.New(conf, out)
	return provision.New(conf, virtualbox.New(conf), shell), shell
}

// WorkDir returns the physical path of the current directory, the input of
// the machine identity.
func WorkDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return provision.ResolveWorkDir(cwd)
}
