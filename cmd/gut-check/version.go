// cmd/gut-check/version.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of gut-check",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gut-check version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
