package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer the questionnaire in the terminal",
	Long: `Runs one feedback session on stdin/stdout.

While answering you can type 'back' to revisit the previous question,
'toggle <option>' on multi-select questions, and 'exit' to leave.
With --session the progress is saved and the next run with the same ID resumes it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")
		quiet, _ := cmd.Flags().GetBool("quiet")
		debug, _ := cmd.Flags().GetBool("debug")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Logs stay off unless asked for, so they do not interleave with the prompts.
		logger := cli.NewLogger(cfg, !debug)

		stack, err := cli.Build(sigCtx, cfg, logger)
		if err != nil {
			return err
		}
		defer stack.Close(context.Background())

		_, err = cli.RunSession(sigCtx, stack, cli.RunOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Quiet:     quiet,
			In:        os.Stdin,
			Out:       os.Stdout,
		})
		if cli.IsInterrupted(err) {
			if !jsonMode && !quiet {
				fmt.Printf("\n>>> Interrupted (%v).", sigCtx.Signal())
				if sessionID != "" {
					fmt.Printf(" Run again with --session %s to resume.", sessionID)
				}
				fmt.Println()
			}
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("variant", "", "Presentation variant: chat, wizard, form or assistant")
	runCmd.Flags().String("sink", "", "Where records go: memory, file, http, redis or mongo")
	runCmd.Flags().String("records-dir", "", "Directory of the file sink (default .canvass/records)")
	runCmd.Flags().String("source", "", "Source tag stamped on records (default: the variant)")
	runCmd.Flags().String("greeting", "", "Message shown before the first question")
	runCmd.Flags().Duration("typing-delay", 0, "Pause before each new question on a terminal")
	configFlags(runCmd.Flags(), "variant", "sink", "records-dir", "source", "greeting", "typing-delay")

	runCmd.Flags().Bool("json", false, "Speak newline-delimited JSON instead of text")
	runCmd.Flags().String("session", "", "Session ID to save and resume")
	runCmd.Flags().BoolP("quiet", "q", false, "Skip the banner and status lines")
	runCmd.Flags().Bool("debug", false, "Write logs to stderr")
}
