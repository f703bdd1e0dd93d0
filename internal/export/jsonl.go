package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/DGMadMax/MCP-RBAC/internal"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range session.Messages {
		obj := map[string]interface{}{
			"role":      msg.Role,
			"content":   msg.Content,
			"timestamp": msg.Timestamp.Format(time.RFC3339Nano),
		}
		if len(msg.Sources) > 0 {
			obj["sources"] = msg.Sources
		}
		if msg.Confidence != nil {
			obj["confidence"] = *msg.Confidence
		}

		// Encode to single line
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
