package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/aretw0/canvass/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved terminal sessions",
	Long:  `List, inspect, and remove the resumable sessions stored in .canvass/sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cli.OpenFileStore(cfg)
		if err != nil {
			return err
		}
		sessions, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		if len(sessions) == 0 {
			fmt.Println("No saved sessions found.")
			return nil
		}

		fmt.Println("Saved Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		store, err := cli.OpenFileStore(cfg)
		if err != nil {
			return err
		}

		state, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}

		fmt.Println(string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("give at least one session ID, or --all")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cli.OpenFileStore(cfg)
		if err != nil {
			return err
		}

		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = store.List(cmd.Context()); err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
		}
		return removeSessions(cmd, store, args)
	},
}

func removeSessions(cmd *cobra.Command, store ports.SessionStore, ids []string) error {
	var failed []error
	for _, sessionID := range ids {
		if err := store.Delete(cmd.Context(), sessionID); err != nil {
			failed = append(failed, fmt.Errorf("error removing '%s': %w", sessionID, err))
			continue
		}
		fmt.Printf("Removed session '%s'\n", sessionID)
	}
	return errors.Join(failed...)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionRmCmd.Flags().Bool("all", false, "Remove every saved session")
}
