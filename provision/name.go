package provision

import (
	"fmt"
	"path/filepath"
	"strings"
)

const namePrefix = "V-"

var separators = strings.NewReplacer("/", "-", `\`, "-")

// MachineName derives the VM name from the directory `up` was invoked in:
// path separators become "-" and the result is prefixed with "V-".
// "/home/u/proj" → "V--home-u-proj".
func MachineName(dir string) string {
	return namePrefix + separators.Replace(dir)
}

// ResolveWorkDir returns the physical absolute path of dir. A directory
// reached through a symlink and through its real path yields one machine.
func ResolveWorkDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return resolved, nil
}
