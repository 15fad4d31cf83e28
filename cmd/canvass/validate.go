package main

import (
	"fmt"

	"github.com/aretw0/canvass/pkg/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.yaml]",
	Short: "Check a question catalog for consistency",
	Long: `Loads a YAML catalog and reports unknown keys, duplicate IDs, select
questions without options, conflicting field types and broken transitions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Catalog
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no catalog given: pass a file or --catalog")
		}

		cat, err := catalog.Load(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Printf("Catalog %q is valid: %d questions, %d fields.\n", cat.Name(), cat.Len(), len(cat.Fields()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
