package cmd

import (
	"strings"
	"testing"

	"github.com/DGMadMax/MCP-RBAC/internal"
)

func newTestStoreCmd(t *testing.T) *internal.SessionStore {
	t.Helper()
	db, err := internal.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return internal.NewSessionStore(db)
}

func savedSession(t *testing.T, store *internal.SessionStore, content string) *internal.Session {
	t.Helper()
	session := internal.NewSession()
	session.Append(internal.NewUserMessage(content))
	if err := store.Save(session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return session
}

func TestResolveSessionID(t *testing.T) {
	store := newTestStoreCmd(t)
	session := savedSession(t, store, "hello")

	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}{
		{"full id", session.ID, session.ID, false},
		{"unique prefix", session.ID[:8], session.ID, false},
		{"unknown id", "not-a-session", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSessionID(store, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveSessionID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveSessionID(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestResolveSessionID_AmbiguousPrefix(t *testing.T) {
	store := newTestStoreCmd(t)
	savedSession(t, store, "first")
	savedSession(t, store, "second")

	// The empty-string prefix matches every session
	_, err := resolveSessionID(store, "")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
}

func TestRenderMarkdown_NilRendererPassesThrough(t *testing.T) {
	content := "# Heading\n\nSome **bold** text"
	if got := renderMarkdown(nil, content); got != content {
		t.Errorf("renderMarkdown(nil) = %q, want content unchanged", got)
	}
}

func TestDisplaySession_DoesNotPanic(t *testing.T) {
	confidence := 0.9
	session := internal.NewSession()
	session.Append(internal.NewUserMessage("question"))
	reply := internal.NewAssistantMessage()
	reply.Content = "answer"
	reply.Sources = []internal.Source{{Filename: "doc.pdf", Confidence: 0.9}}
	reply.Confidence = &confidence
	session.Append(reply)

	showPlain = true
	defer func() { showPlain = false }()

	displaySession(session)
}
