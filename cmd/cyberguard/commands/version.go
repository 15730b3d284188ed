package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of cyberguard`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cyberguard %s\n", version.Version)
		},
	}
}
