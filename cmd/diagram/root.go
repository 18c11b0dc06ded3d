package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "diagram",
	Short: "diagram keeps a model tree in sync with a diagram renderer",
	Long: `diagram owns the authoritative model tree of a diagram, accepts structural
changes from files, HTTP, Redis or MCP clients, and streams setModel/updateModel
notifications (with the optional bounds round trip) to the rendering side.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "diagram.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	rootCmd.PersistentFlags().String("model", "", "Model file to load (overrides model.path)")
}
