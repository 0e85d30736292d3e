package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/office-extract/version"
)

func newVersionCommand(tool Tool) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", tool.Name, version.GitRelease)
			fmt.Fprintf(w, "  Go:     %s\n", version.GoInfo)
			fmt.Fprintf(w, "  Commit: %s\n", version.GitCommit)
			fmt.Fprintf(w, "  Date:   %s\n", version.GitCommitDate)
		},
	}
}
