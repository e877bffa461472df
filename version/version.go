package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/rohitnair11/Virtualization/version.Version=..." at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns a multi-line human-readable version block.
func String() string {
	return fmt.Sprintf("Version:    %s\nGit commit: %s\nBuilt:      %s\nGo:         %s %s/%s\n",
		Version, GitCommit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
