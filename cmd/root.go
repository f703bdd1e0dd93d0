package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/DGMadMax/MCP-RBAC/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with the MCP-RBAC assistant from your terminal",
	Long: `A terminal client for the MCP-RBAC assistant backend.

ragchat streams answers live from the backend and keeps every conversation
in a local session store, so chats survive restarts and can be revisited,
exported, or deleted at any time.

Quick Start:
  ragchat chat                  # Start (or resume) a conversation
  ragchat list                  # List saved conversations
  ragchat show <session-id>     # View a saved conversation
  ragchat export --format md    # Export conversations as Markdown

Configuration is read from the environment (or a .env file):
  RAGCHAT_API_URL, RAGCHAT_API_TOKEN, RAGCHAT_DB_PATH, RAGCHAT_TURN_TIMEOUT`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Custom session database location")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openStore opens the session database, honoring the --db flag, then the
// environment, then the per-user default location.
func openStore(envPath string) (*internal.SessionStore, *sql.DB, error) {
	path := dbPath
	if path == "" {
		path = envPath
	}
	if path == "" {
		var err error
		path, err = internal.DefaultDatabasePath()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	return internal.NewSessionStore(db), db, nil
}
