package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/DGMadMax/MCP-RBAC/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", session.Title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Last activity:** %s  \n", session.LastActivity.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	// Messages
	for i, msg := range session.Messages {
		label := strings.ToUpper(msg.Role[:1]) + msg.Role[1:]
		timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")

		_, _ = fmt.Fprintf(w, "**%s:** (%s)\n\n%s\n\n", label, timestamp, msg.Content)

		if len(msg.Sources) > 0 {
			_, _ = fmt.Fprintf(w, "*Sources:*\n\n")
			for _, src := range msg.Sources {
				if src.Confidence > 0 {
					_, _ = fmt.Fprintf(w, "- %s (%.0f%%)\n", src.Filename, src.Confidence*100)
				} else {
					_, _ = fmt.Fprintf(w, "- %s\n", src.Filename)
				}
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		// Horizontal rule after each message (except the last one)
		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
