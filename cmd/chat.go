package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/DGMadMax/MCP-RBAC/internal"
	"github.com/DGMadMax/MCP-RBAC/internal/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var resumeID string

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the assistant.

Answers stream in live. Inside the prompt:
  /new    start a fresh conversation
  /quit   exit (also Ctrl-D)

Use --resume to continue a saved conversation ('ragchat list' shows IDs).`,
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

		client := internal.NewAPIClient(cfg.APIBaseURL, cfg.APIToken)
		controller, err := internal.NewController(store, client)
		if err != nil {
			return fmt.Errorf("failed to initialize controller: %w", err)
		}

		if resumeID != "" {
			if _, err := controller.LoadChatSession(resumeID); err != nil {
				return err
			}
		}

		session := controller.Current()
		if len(session.Messages) > 0 {
			fmt.Println(statusStyle.Render(fmt.Sprintf("Resuming %q (%d messages)", session.Title, len(session.Messages))))
		}
		fmt.Println(statusStyle.Render("Type a question, /new for a fresh conversation, /quit to exit."))
		fmt.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("you> ") + " ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			input := strings.TrimSpace(scanner.Text())

			switch {
			case input == "":
				continue
			case input == "/quit" || input == "/exit":
				return nil
			case input == "/new":
				controller.NewChatSession()
				fmt.Println(statusStyle.Render("Started a new conversation."))
				continue
			}

			if err := runTurn(controller, cfg, input); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					fmt.Println(errStyle.Render("Turn aborted: " + err.Error()))
					continue
				}
				return err
			}
		}
	},
}

// runTurn submits one query and renders the streamed response
func runTurn(controller *internal.Controller, cfg *config.Config, query string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.TurnTimeout)
	defer cancel()

	fmt.Print(promptStyle.Foreground(lipgloss.Color("135")).Render("assistant>") + " ")

	// The accumulator reports whole-message snapshots; print only the delta
	printed := 0
	onUpdate := func(msg internal.Message) {
		if len(msg.Content) > printed {
			fmt.Print(msg.Content[printed:])
			printed = len(msg.Content)
		}
	}

	reply, err := controller.Submit(ctx, query, onUpdate)

	var warning *internal.StorageWarning
	switch {
	case errors.As(err, &warning):
		// The answer is still on screen; losing the save is a warning,
		// not a failure
		fmt.Println()
		fmt.Println(warnStyle.Render("⚠ " + warning.Error()))
	case err != nil:
		fmt.Println()
		return err
	default:
		fmt.Println()
	}

	if len(reply.Sources) > 0 {
		fmt.Println()
		fmt.Println(sourceStyle.Render(formatSources(reply.Sources)))
	}
	fmt.Println()
	return nil
}

func formatSources(sources []internal.Source) string {
	var b strings.Builder
	b.WriteString("Sources:")
	for _, src := range sources {
		b.WriteString("\n  • " + src.Filename)
		if src.Confidence > 0 {
			b.WriteString(fmt.Sprintf(" (%.0f%%)", src.Confidence*100))
		}
	}
	return b.String()
}

func init() {
	chatCmd.Flags().StringVar(&resumeID, "resume", "", "Resume a saved conversation by session ID")
	rootCmd.AddCommand(chatCmd)
}
