package main

import (
	"fmt"

	"github.com/aretw0/diagram/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [model-file]",
	Short: "Print the model as a Mermaid flowchart",
	Long: `Renders the model tree as a Mermaid flowchart. Containers become subgraphs and
elements with sourceId/targetId become edges.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd, args)
		if err != nil {
			return err
		}
		root, err := a.loadModel(cmd.Context())
		if err != nil {
			return err
		}

		highlight, _ := cmd.Flags().GetStringSlice("highlight")
		focus, _ := cmd.Flags().GetString("focus")
		var overlay *graph.GraphOverlay
		if len(highlight) > 0 || focus != "" {
			overlay = &graph.GraphOverlay{Highlighted: highlight, Focused: focus}
		}

		fmt.Fprintln(cmd.OutOrStdout(), graph.GenerateMermaid(root, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("highlight", nil, "Element ids to highlight")
	graphCmd.Flags().String("focus", "", "Element id to mark as focused")
}
