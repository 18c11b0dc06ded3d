package main

import (
	"fmt"

	"github.com/aretw0/diagram"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "diagram version %s\n", diagram.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
