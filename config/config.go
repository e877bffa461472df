package config

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
	coretypes "github.com/projecteru2/core/types"
)

// minBootTimeout rejects values that were meant as milliseconds but lost
// their unit.
const minBootTimeout = time.Second

// Boot wait strategies.
const (
	BootModePoll  = "poll"  // poll the guest SSH endpoint until it answers
	BootModeSleep = "sleep" // fixed sleep of BootTimeout
)

// Config holds global configuration for provisioning a machine.
type Config struct {
	// RootDir is the per-user image store shared with bakerx.
	RootDir string `json:"root_dir" mapstructure:"root_dir"`
	// RunDir holds runtime-only files (locks, logs).
	RunDir string `json:"run_dir" mapstructure:"run_dir"`

	// VBoxManage is the VM controller binary.
	VBoxManage string `json:"vboxmanage" mapstructure:"vboxmanage"`
	// Box is the image directory name under {RootDir}/.persist/images.
	Box string `json:"box" mapstructure:"box"`
	// StrictImage aborts `up` when the box image is missing instead of
	// logging a warning and attempting the import anyway.
	StrictImage bool `json:"strict_image" mapstructure:"strict_image"`

	Memory        string `json:"memory" mapstructure:"memory"`
	CPUs          int    `json:"cpus" mapstructure:"cpus"`
	BridgeAdapter string `json:"bridge_adapter" mapstructure:"bridge_adapter"`

	SSHHost string `json:"ssh_host" mapstructure:"ssh_host"`
	SSHPort int    `json:"ssh_port" mapstructure:"ssh_port"`
	SSHUser string `json:"ssh_user" mapstructure:"ssh_user"`
	// SSHKey defaults to {RootDir}/insecure_private_key when empty.
	SSHKey string `json:"ssh_key" mapstructure:"ssh_key"`

	AppRule      string `json:"app_rule" mapstructure:"app_rule"`
	AppHostPort  int    `json:"app_host_port" mapstructure:"app_host_port"`
	AppGuestPort int    `json:"app_guest_port" mapstructure:"app_guest_port"`

	SharedFolderName string `json:"shared_folder_name" mapstructure:"shared_folder_name"`
	// SharedFolderPath defaults to {cwd}/{SharedFolderName} when empty.
	SharedFolderPath string `json:"shared_folder_path" mapstructure:"shared_folder_path"`
	GuestMountDir    string `json:"guest_mount_dir" mapstructure:"guest_mount_dir"`
	GuestInterface   string `json:"guest_interface" mapstructure:"guest_interface"`

	RepoURL string `json:"repo_url" mapstructure:"repo_url"`
	AppDir  string `json:"app_dir" mapstructure:"app_dir"`

	BootMode         string        `json:"boot_mode" mapstructure:"boot_mode"`
	BootTimeout      time.Duration `json:"boot_timeout" mapstructure:"boot_timeout"`
	BootPollInterval time.Duration `json:"boot_poll_interval" mapstructure:"boot_poll_interval"`

	// Log configuration, uses eru core's ServerLogConfig.
	Log coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// DefaultConfig returns a Config with the stock provisioning values.
func DefaultConfig() *Config {
	return &Config{
		RootDir:          "~/.bakerx",
		RunDir:           "~/.v",
		VBoxManage:       "VBoxManage",
		Box:              "bionic",
		Memory:           "1024M",
		CPUs:             1,
		BridgeAdapter:    "en0",
		SSHHost:          "127.0.0.1",
		SSHPort:          2800, //nolint:mnd
		SSHUser:          "vagrant",
		AppRule:          "nodeport",
		AppHostPort:      8080, //nolint:mnd
		AppGuestPort:     9000, //nolint:mnd
		SharedFolderName: "sharedfolder1",
		GuestMountDir:    "sharedfolder2",
		GuestInterface:   "enp0s8",
		RepoURL:          "https://github.com/CSC-DevOps/App",
		AppDir:           "App",
		BootMode:         BootModePoll,
		BootTimeout:      60 * time.Second,
		BootPollInterval: 2 * time.Second,
		Log: coretypes.ServerLogConfig{
			Level:      "info",
			MaxSize:    500,
			MaxAge:     28,
			MaxBackups: 3,
		},
	}
}

// MemoryMB returns the configured memory size in MiB.
func (c *Config) MemoryMB() (int64, error) {
	b, err := units.RAMInBytes(c.Memory)
	if err != nil {
		return 0, fmt.Errorf("invalid memory %q: %w", c.Memory, err)
	}
	return b >> 20, nil //nolint:mnd
}

// Validate checks the values that would otherwise surface as confusing
// VBoxManage or SSH failures halfway through provisioning.
func (c *Config) Validate() error {
	mb, err := c.MemoryMB()
	if err != nil {
		return err
	}
	if mb <= 0 {
		return fmt.Errorf("memory %q is below 1M", c.Memory)
	}
	if c.CPUs <= 0 {
		return fmt.Errorf("cpus must be positive, got %d", c.CPUs)
	}
	for name, port := range map[string]int{
		"ssh_port":       c.SSHPort,
		"app_host_port":  c.AppHostPort,
		"app_guest_port": c.AppGuestPort,
	} {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%s out of range: %d", name, port)
		}
	}
	switch c.BootMode {
	case BootModePoll, BootModeSleep:
	default:
		return fmt.Errorf("unknown boot_mode %q", c.BootMode)
	}
	if c.BootTimeout < minBootTimeout {
		return fmt.Errorf("boot_timeout %s is below %s", c.BootTimeout, minBootTimeout)
	}
	if c.BootMode == BootModePoll && c.BootPollInterval <= 0 {
		return fmt.Errorf("boot_poll_interval must be positive, got %s", c.BootPollInterval)
	}
	return nil
}
