package others

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Actions defines cross-cutting system operations.
type Actions interface {
	Version(cmd *cobra.Command, args []string) error
}

// Commands builds system command set (version, completion).
func Commands(h Actions) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "version",
			Short: "Show version, git revision, and build timestamp",
			RunE:  h.Version,
		},
		{
			Use:       "completion [bash|zsh|fish|powershell]",
			Short:     "Generate shell completion script",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
			RunE: func(cmd *cobra.Command, args []string) error {
				root, out := cmd.Root(), cmd.OutOrStdout()
				switch args[0] {
				case "bash":
					return root.GenBashCompletion(out)
				case "zsh":
					return root.GenZshCompletion(out)
				case "fish":
					return root.GenFishCompletion(out, true)
				case "powershell":
					return root.GenPowerShellCompletionWithDesc(out)
				default:
					return fmt.Errorf("unsupported shell: %s", args[0])
				}
			},
		},
	}
}
