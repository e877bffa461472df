package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestMemoryMB(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1024M", want: 1024},
		{in: "2G", want: 2048},
		{in: "512m", want: 512},
		{in: "lots", wantErr: true},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		c.Memory = tt.in
		got, err := c.MemoryMB()
		if tt.wantErr {
			if err == nil {
				t.Errorf("MemoryMB(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("MemoryMB(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errHas string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "sleep mode ignores interval", mutate: func(c *Config) {
			c.BootMode = BootModeSleep
			c.BootPollInterval = 0
		}},
		{name: "bad memory", mutate: func(c *Config) { c.Memory = "x" }, errHas: "invalid memory"},
		{name: "tiny memory", mutate: func(c *Config) { c.Memory = "1K" }, errHas: "below 1M"},
		{name: "zero cpus", mutate: func(c *Config) { c.CPUs = 0 }, errHas: "cpus"},
		{name: "ssh port", mutate: func(c *Config) { c.SSHPort = 70000 }, errHas: "ssh_port"},
		{name: "app guest port", mutate: func(c *Config) { c.AppGuestPort = -1 }, errHas: "app_guest_port"},
		{name: "boot mode", mutate: func(c *Config) { c.BootMode = "wait" }, errHas: "boot_mode"},
		{name: "boot timeout", mutate: func(c *Config) { c.BootTimeout = 0 }, errHas: "boot_timeout"},
		{name: "boot timeout without unit", mutate: func(c *Config) { c.BootTimeout = 60 * time.Microsecond }, errHas: "below 1s"},
		{name: "poll interval", mutate: func(c *Config) { c.BootPollInterval = -time.Second }, errHas: "boot_poll_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.errHas == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errHas) {
				t.Fatalf("Validate = %v, want error containing %q", err, tt.errHas)
			}
		})
	}
}

func TestNormalizeDerivedPaths(t *testing.T) {
	root := t.TempDir()
	c := DefaultConfig()
	c.RootDir = root
	c.RunDir = filepath.Join(root, "run")
	if err := c.Normalize("/home/u/proj"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if want := filepath.Join(root, "insecure_private_key"); c.SSHKey != want {
		t.Errorf("SSHKey = %q, want %q", c.SSHKey, want)
	}
	if want := filepath.Join("/home/u/proj", "sharedfolder1"); c.SharedFolderPath != want {
		t.Errorf("SharedFolderPath = %q, want %q", c.SharedFolderPath, want)
	}
	if want := filepath.Join(root, ".persist", "images", "bionic", "box.ovf"); c.ImagePath() != want {
		t.Errorf("ImagePath = %q, want %q", c.ImagePath(), want)
	}
	if want := filepath.Join(root, "run", "locks", "V-x.lock"); c.MachineLock("V-x") != want {
		t.Errorf("MachineLock = %q, want %q", c.MachineLock("V-x"), want)
	}
	if c.SSHAddr() != "127.0.0.1:2800" {
		t.Errorf("SSHAddr = %q", c.SSHAddr())
	}
}

func TestNormalizeKeepsExplicitPaths(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	c := DefaultConfig()
	c.SSHKey = "~/keys/id"
	c.SharedFolderPath = "/srv/share"
	if err := c.Normalize("/work"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if c.RootDir != "/home/tester/.bakerx" {
		t.Errorf("RootDir = %q", c.RootDir)
	}
	if c.SSHKey != "/home/tester/keys/id" {
		t.Errorf("SSHKey = %q", c.SSHKey)
	}
	if c.SharedFolderPath != "/srv/share" {
		t.Errorf("SharedFolderPath = %q", c.SharedFolderPath)
	}
}

func TestUnmarshalDurations(t *testing.T) {
	tests := []struct {
		name         string
		yaml         string
		wantTimeout  time.Duration
		wantInterval time.Duration
	}{
		{name: "bare milliseconds", yaml: "boot_timeout: 60000\nboot_poll_interval: 1500\n", wantTimeout: time.Minute, wantInterval: 1500 * time.Millisecond},
		{name: "duration strings", yaml: "boot_timeout: 90s\nboot_poll_interval: 500ms\n", wantTimeout: 90 * time.Second, wantInterval: 500 * time.Millisecond},
		{name: "quoted milliseconds", yaml: "boot_timeout: \"45000\"\n", wantTimeout: 45 * time.Second, wantInterval: 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.SetConfigType("yaml")
			if err := v.ReadConfig(strings.NewReader(tt.yaml)); err != nil {
				t.Fatalf("ReadConfig: %v", err)
			}
			c := DefaultConfig()
			if err := Unmarshal(v, c); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if c.BootTimeout != tt.wantTimeout || c.BootPollInterval != tt.wantInterval {
				t.Errorf("boot_timeout=%s boot_poll_interval=%s, want %s / %s",
					c.BootTimeout, c.BootPollInterval, tt.wantTimeout, tt.wantInterval)
			}
			if err := c.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestUnmarshalKeepsDefaultDurations(t *testing.T) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("boot_timeout", def.BootTimeout)
	c := DefaultConfig()
	c.BootTimeout = 0
	if err := Unmarshal(v, c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if c.BootTimeout != time.Minute {
		t.Errorf("boot_timeout = %s, want 1m0s", c.BootTimeout)
	}
}

func TestMachineLockDropsDriveColon(t *testing.T) {
	c := DefaultConfig()
	c.RunDir = "/run/v"
	got := filepath.Base(c.MachineLock(`V-C:-Users-u-proj`))
	if got != "V-C-Users-u-proj.lock" {
		t.Errorf("lock file = %q, want %q", got, "V-C-Users-u-proj.lock")
	}
	if strings.Contains(got, ":") {
		t.Errorf("lock file %q keeps a colon", got)
	}
}
