package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at release build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the promptshield version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("promptshield %s (commit %s, %s)\n", Version, GitCommit, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
