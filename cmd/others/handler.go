package others

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcore "github.com/rohitnair11/Virtualization/cmd/core"
	"github.com/rohitnair11/Virtualization/version"
)

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) Version(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), version.String())
	return err
}
