package main

import (
	"fmt"
	"os"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/aretw0/canvass/internal/presentation/tui"
	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the question catalog",
	Long: `Describes the active catalog as markdown, rendered for the terminal.
With --yaml it prints the catalog source instead, a starting point for your own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		if asYAML {
			src := catalog.DefaultSource()
			if cfg.Catalog != "" {
				var err error
				if src, err = os.ReadFile(cfg.Catalog); err != nil {
					return err
				}
			}
			_, err := os.Stdout.Write(src)
			return err
		}

		cat, err := cli.LoadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		md := cli.CatalogMarkdown(cat)
		if !tui.IsTerminal(os.Stdout) {
			fmt.Print(md)
			return nil
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().Bool("yaml", false, "Print the catalog source")
}
