package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rohitnair11/Virtualization/utils"
)

// Normalize expands "~" in path options and fills the path defaults that
// depend on other options or on the working directory.
func (c *Config) Normalize(cwd string) error {
	var err error
	if c.RootDir, err = utils.ExpandHome(c.RootDir); err != nil {
		return fmt.Errorf("root_dir: %w", err)
	}
	if c.RunDir, err = utils.ExpandHome(c.RunDir); err != nil {
		return fmt.Errorf("run_dir: %w", err)
	}
	if c.SSHKey == "" {
		c.SSHKey = filepath.Join(c.RootDir, "insecure_private_key")
	} else if c.SSHKey, err = utils.ExpandHome(c.SSHKey); err != nil {
		return fmt.Errorf("ssh_key: %w", err)
	}
	if c.SharedFolderPath == "" {
		c.SharedFolderPath = filepath.Join(cwd, c.SharedFolderName)
	} else if c.SharedFolderPath, err = utils.ExpandHome(c.SharedFolderPath); err != nil {
		return fmt.Errorf("shared_folder_path: %w", err)
	}
	return nil
}

// EnsureRunDirs creates the runtime directories used by `up`.
func (c *Config) EnsureRunDirs() error {
	return utils.EnsureDirs(c.lockDir())
}

// ImageDir is where bakerx keeps pulled boxes.
func (c *Config) ImageDir() string {
	return filepath.Join(c.RootDir, ".persist", "images")
}

// ImagePath returns the OVF descriptor for the configured box.
func (c *Config) ImagePath() string {
	return filepath.Join(c.ImageDir(), c.Box, "box.ovf")
}

func (c *Config) lockDir() string { return filepath.Join(c.RunDir, "locks") }

// lockNameReplacer drops the drive colon a Windows identity carries
// ("V-C:-Users-u"); NTFS would read it as an alternate data stream.
var lockNameReplacer = strings.NewReplacer(":", "")

// MachineLock returns the lock file guarding `up` for one machine identity.
func (c *Config) MachineLock(name string) string {
	return filepath.Join(c.lockDir(), lockNameReplacer.Replace(name)+".lock")
}

// SSHAddr returns host:port of the guest SSH forward.
func (c *Config) SSHAddr() string {
	return fmt.Sprintf("%s:%d", c.SSHHost, c.SSHPort)
}
