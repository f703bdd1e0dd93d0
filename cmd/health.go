package cmd

import (
	"context"
	"fmt"

	"github.com/DGMadMax/MCP-RBAC/internal"
	"github.com/DGMadMax/MCP-RBAC/internal/config"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the assistant backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		client := internal.NewAPIClient(cfg.APIBaseURL, cfg.APIToken)
		if err := client.Health(context.Background()); err != nil {
			return fmt.Errorf("backend is unreachable at %s: %w", cfg.APIBaseURL, err)
		}

		fmt.Printf("✓ Backend reachable at %s\n", cfg.APIBaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
