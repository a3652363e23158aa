package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/sitecrawl/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		if full {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sitecrawl", version.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("full", false, "include commit, build date and platform")
}
