package machine

import "github.com/spf13/cobra"

// Actions defines machine lifecycle operations for the current directory.
type Actions interface {
	Up(cmd *cobra.Command, args []string) error
	Status(cmd *cobra.Command, args []string) error
}

// Commands builds the machine command set (up, status).
func Commands(h Actions) []*cobra.Command {
	upCmd := &cobra.Command{
		Use:   "up [flags]",
		Short: "Provision the VM for the current directory (--force to rebuild a running VM)",
		Args:  cobra.NoArgs,
		RunE:  h.Up,
	}
	upCmd.Flags().BoolP("force", "f", false, "rebuild the VM even when it is running")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the VM name and state for the current directory",
		Args:  cobra.NoArgs,
		RunE:  h.Status,
	}

	return []*cobra.Command{upCmd, statusCmd}
}
