package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reconciler version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("reconciler", Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
