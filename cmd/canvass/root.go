package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/canvass/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cfg is loaded before any command runs: .env, then CANVASS_* variables,
// then the flags the user actually set.
var cfg config.Config

// configAnnotation marks flags that override the config key of the same name.
const configAnnotation = "canvass/config"

var rootCmd = &cobra.Command{
	Use:   "canvass",
	Short: "Canvass is a guided conversational feedback engine",
	Long: `Canvass walks a respondent through a catalog of questions one at a time,
validates every answer and delivers the finished record to a sink.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFiles, _ := cmd.Flags().GetStringSlice("env-file")

		loaded, err := config.Load(envFiles...)
		if err != nil {
			return err
		}
		if err := loaded.Merge(flagOverrides(cmd.Flags())); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Files to load into the environment (default .env)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML question catalog (default: built-in product feedback)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("sessions-dir", "", "Directory of resumable sessions (default .canvass/sessions)")
	configFlags(rootCmd.PersistentFlags(), "catalog", "log-level", "sessions-dir")
}

// configFlags marks names as config overrides.
func configFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := fs.SetAnnotation(name, configAnnotation, []string{"true"}); err != nil {
			panic(err)
		}
	}
}

// flagOverrides collects the config flags the user set, keyed like the config.
func flagOverrides(fs *pflag.FlagSet) map[string]string {
	values := make(map[string]string)
	fs.Visit(func(f *pflag.Flag) {
		if _, ok := f.Annotations[configAnnotation]; ok {
			values[strings.ReplaceAll(f.Name, "-", "_")] = f.Value.String()
		}
	})
	return values
}
