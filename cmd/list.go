package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DGMadMax/MCP-RBAC/internal"
	"github.com/DGMadMax/MCP-RBAC/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	Long:  `List all saved conversations, newest first.`,
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

		summaries, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		displaySessions(summaries)
		return nil
	},
}

func displaySessions(summaries []internal.SessionSummary) {
	if len(summaries) == 0 {
		fmt.Println(headerStyle.Render("📋 No conversations yet"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d conversation(s)", len(summaries)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Last activity")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	now := time.Now()
	for _, entry := range summaries {
		id := idStyle.Render(shortID(entry.ID))
		title := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(entry.Title)
		count := countStyle.Render(strconv.Itoa(entry.MessageCount))
		activity := dateStyle.Render(internal.FormatRelativeTime(entry.LastActivity, now))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, title, count, activity)
	}

	_ = w.Flush()
}

// shortID abbreviates a session id for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd)
}
