package cmd

import (
	"fmt"
	"strings"

	"github.com/DGMadMax/MCP-RBAC/internal"
	"github.com/DGMadMax/MCP-RBAC/internal/config"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var showPlain bool

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a saved conversation",
	Long:  `Display the messages of a saved conversation. Accepts a full session ID or a unique prefix.`,
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

		session, err := store.Load(id)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("session not found: %s", args[0])
		}

		displaySession(session)
		return nil
	},
}

func displaySession(session *internal.Session) {
	fmt.Println(sessionHeaderStyle.Render("💬 " + session.Title))
	fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("ID: %s  •  %d message(s)  •  last activity %s",
		session.ID, len(session.Messages), session.LastActivity.Format("2006-01-02 15:04"))))
	fmt.Println()

	renderer := newMarkdownRenderer()

	for _, msg := range session.Messages {
		timestamp := timestampStyle.Render(msg.Timestamp.Format("15:04:05"))
		switch msg.Role {
		case internal.RoleUser:
			fmt.Println(userMessageStyle.Render("You") + " " + timestamp)
			fmt.Println(messageContentStyle.Render(msg.Content))
		default:
			fmt.Println(assistantMessageStyle.Render("Assistant") + " " + timestamp)
			fmt.Println(messageContentStyle.Render(renderMarkdown(renderer, msg.Content)))
			if len(msg.Sources) > 0 {
				fmt.Println(messageContentStyle.Render(sourceStyle.Render(formatSources(msg.Sources))))
			}
		}
	}
}

// newMarkdownRenderer builds a glamour renderer, or nil when disabled or
// unavailable (plain content is printed instead)
func newMarkdownRenderer() *glamour.TermRenderer {
	if showPlain {
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		internal.LogDebug("show: markdown renderer unavailable: %v", err)
		return nil
	}
	return renderer
}

func renderMarkdown(renderer *glamour.TermRenderer, content string) string {
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// resolveSessionID resolves a full session ID or a unique prefix
func resolveSessionID(store *internal.SessionStore, arg string) (string, error) {
	summaries, err := store.List()
	if err != nil {
		return "", err
	}

	var matches []string
	for _, entry := range summaries {
		if entry.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(entry.ID, arg) {
			matches = append(matches, entry.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("session not found: %s", arg)
	default:
		return "", fmt.Errorf("ambiguous session id %q matches %d sessions", arg, len(matches))
	}
}

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Disable markdown rendering")
	rootCmd.AddCommand(showCmd)
}
