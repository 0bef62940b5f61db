package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/htmlsnap/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		full, _ := cmd.Flags().GetBool("full")
		if full {
			fmt.Fprint(cmd.OutOrStdout(), version.Full())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("full", false, "include commit, build date and platform")
}
