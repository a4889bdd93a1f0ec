package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jothq/jot/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("jot %s (%s)\n", version.Version, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
