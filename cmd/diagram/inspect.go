package main

import (
	"fmt"
	"os"

	"github.com/aretw0/diagram/internal/presentation/tui"
	"github.com/aretw0/diagram/pkg/layout"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [model-file]",
	Short: "Show every element of the model as a table",
	Long: `Loads the model, optionally runs the configured layout engine over it, and
prints one row per element with its type, parent, bounds and capabilities.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, args)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("layout") {
			a.cfg.Layout, _ = cmd.Flags().GetString("layout")
		}
		root, err := a.loadModel(cmd.Context())
		if err != nil {
			return err
		}

		engine, err := layout.ByName(a.cfg.Layout)
		if err != nil {
			return err
		}
		if engine != nil {
			engine(cmd.Context(), root)
		}

		plain, _ := cmd.Flags().GetBool("plain")
		styled := !plain && cmd.OutOrStdout() == os.Stdout && tui.IsTerminal(os.Stdout)
		out, err := tui.NewRenderer(styled)(tui.ModelMarkdown(root))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("layout", "", "Layout engine to apply first: none, grid, row, column (overrides layout)")
	inspectCmd.Flags().Bool("plain", false, "Print raw markdown without styling")
}
