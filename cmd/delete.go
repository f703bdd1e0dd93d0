package cmd

import (
	"fmt"

	"github.com/DGMadMax/MCP-RBAC/internal/config"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a saved conversation",
	Long:  `Remove a conversation from the session store. Accepts a full session ID or a unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, db, err := openStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := resolveSessionID(store, args[0])
		if err != nil {
			return err
		}

		if err := store.Delete(id); err != nil {
			return err
		}

		// Drop the active pointer if it referenced the deleted session;
		// the next chat will start fresh instead of chasing a dangling id
		if active, err := store.ActiveSession(); err == nil && active == id {
			if err := store.ClearActiveSession(); err != nil {
				return err
			}
		}

		fmt.Printf("Deleted session %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
