package main

import (
	"fmt"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/aretw0/canvass/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the question flow as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the catalog, including branches.
With --session the path of a saved session is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		cat, err := cli.LoadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if sessionID != "" {
			store, err := cli.OpenFileStore(cfg)
			if err != nil {
				return err
			}
			state, err := store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %q: %w", sessionID, err)
			}
			overlay = graph.OverlayFor(cat, state)
		}

		fmt.Print(graph.GenerateMermaid(cat, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the path of this saved session")
}
