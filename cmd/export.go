package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DGMadMax/MCP-RBAC/internal"
	"github.com/DGMadMax/MCP-RBAC/internal/config"
	"github.com/DGMadMax/MCP-RBAC/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	sessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export conversations to file",
	Long: `Export saved conversations to various formats (jsonl, md, yaml, json).

You can export all conversations or a specific one by session ID.
Use 'ragchat list' to see available session IDs.`,
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

		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		var sessions []*internal.Session
		if sessionID != "" {
			id, err := resolveSessionID(store, sessionID)
			if err != nil {
				return err
			}
			session, err := store.Load(id)
			if err != nil {
				return err
			}
			if session == nil {
				return fmt.Errorf("session not found: %s", sessionID)
			}
			sessions = append(sessions, session)
		} else {
			summaries, err := store.List()
			if err != nil {
				return err
			}
			for _, entry := range summaries {
				session, err := store.Load(entry.ID)
				if err != nil {
					internal.LogWarn("export: skipping session %s: %v", entry.ID, err)
					continue
				}
				if session != nil {
					sessions = append(sessions, session)
				}
			}
		}

		if len(sessions) == 0 {
			fmt.Println("No conversations to export")
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for _, session := range sessions {
			path := filepath.Join(outputDir, fmt.Sprintf("session-%s.%s", shortID(session.ID), exporter.Extension()))
			if err := writeExport(exporter, session, path); err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
		}
		return nil
	},
}

func writeExport(exporter export.Exporter, session *internal.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := exporter.Export(session, f); err != nil {
		return fmt.Errorf("failed to export session %s: %w", session.ID, err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().StringVarP(&sessionID, "session", "s", "", "Export a single session by ID")
	rootCmd.AddCommand(exportCmd)
}
