package internal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTitle is used for sessions that have no user message yet
const DefaultTitle = "New conversation"

// maxTitleRunes bounds the derived session title length
const maxTitleRunes = 48

// Source represents a single citation attached to an assistant message
type Source struct {
	Filename   string                 `json:"filename,omitempty" yaml:"filename,omitempty"`
	Confidence float64                `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Message represents one turn in a conversation
type Message struct {
	ID         string    `json:"id" yaml:"id"`
	Role       string    `json:"role" yaml:"role"`
	Content    string    `json:"content" yaml:"content"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Sources    []Source  `json:"sources,omitempty" yaml:"sources,omitempty"`
	Confidence *float64  `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Session represents a persisted conversation thread
type Session struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Messages     []Message `json:"messages" yaml:"messages"`
	LastActivity time.Time `json:"lastActivity" yaml:"last_activity"`
}

// SessionSummary is a derived index entry for history display
type SessionSummary struct {
	ID           string
	Title        string
	LastActivity time.Time
	MessageCount int
}

// NowMillis returns the current instant truncated to millisecond precision.
// Timestamps are persisted as ISO-8601 strings; truncating up front keeps the
// save/load round trip lossless.
func NowMillis() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// NewSession creates a transient session. It is not persisted until it
// holds at least one message.
func NewSession() *Session {
	return &Session{
		ID:           uuid.New().String(),
		Title:        DefaultTitle,
		Messages:     []Message{},
		LastActivity: NowMillis(),
	}
}

// NewUserMessage creates a user message with a fresh ID and timestamp
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: NowMillis(),
	}
}

// NewAssistantMessage creates an empty assistant message ready to accumulate
// streamed content
func NewAssistantMessage() Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Timestamp: NowMillis(),
	}
}

// Append adds a message to the session and bumps LastActivity
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.LastActivity = NowMillis()
}

// DeriveTitle computes a session title from the first user message.
// Returns DefaultTitle when no user message exists.
func DeriveTitle(messages []Message) string {
	for _, msg := range messages {
		if msg.Role == RoleUser {
			return truncateTitle(msg.Content)
		}
	}
	return DefaultTitle
}

// truncateTitle flattens the content to a single line and bounds its length
func truncateTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	if title == "" {
		return DefaultTitle
	}
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return strings.TrimSpace(string(runes[:maxTitleRunes-1])) + "…"
}
