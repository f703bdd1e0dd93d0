package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DGMadMax/MCP-RBAC/internal"
)

func testSession() *internal.Session {
	confidence := 0.82
	ts := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	return &internal.Session{
		ID:    "sess-1",
		Title: "Leave policy",
		Messages: []internal.Message{
			{
				ID:        "m1",
				Role:      internal.RoleUser,
				Content:   "What is the leave policy?",
				Timestamp: ts,
			},
			{
				ID:         "m2",
				Role:       internal.RoleAssistant,
				Content:    "You get 25 days per year.",
				Timestamp:  ts.Add(3 * time.Second),
				Sources:    []internal.Source{{Filename: "hr-handbook.pdf", Confidence: 0.82}},
				Confidence: &confidence,
			},
		},
		LastActivity: ts.Add(3 * time.Second),
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format    string
		extension string
		wantErr   bool
	}{
		{"jsonl", "jsonl", false},
		{"md", "md", false},
		{"markdown", "md", false},
		{"yaml", "yaml", false},
		{"json", "json", false},
		{"csv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewExporter(%q) should fail", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if exporter.Extension() != tt.extension {
				t.Errorf("Extension() = %q, want %q", exporter.Extension(), tt.extension)
			}
		})
	}
}

func TestJSONLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(testSession(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first["role"] != "user" || first["content"] != "What is the leave policy?" {
		t.Errorf("first line = %v", first)
	}
	if _, ok := first["sources"]; ok {
		t.Error("user message should not carry sources")
	}

	var second map[string]interface{}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if second["role"] != "assistant" {
		t.Errorf("second role = %v", second["role"])
	}
	if second["confidence"] != 0.82 {
		t.Errorf("confidence = %v", second["confidence"])
	}
	if _, ok := second["sources"]; !ok {
		t.Error("assistant message should carry sources")
	}
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(testSession(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Leave policy",
		"**Session:** sess-1",
		"**Messages:** 2",
		"**User:**",
		"**Assistant:**",
		"You get 25 days per year.",
		"- hr-handbook.pdf (82%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMarkdownExporter_SourceWithoutConfidence(t *testing.T) {
	session := testSession()
	session.Messages[1].Sources = []internal.Source{{Filename: "notes.txt"}}

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), "- notes.txt\n") {
		t.Error("source without confidence should render bare filename")
	}
	if strings.Contains(buf.String(), "(0%)") {
		t.Error("zero confidence should not render a percentage")
	}
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(testSession(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded internal.Session
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.ID != "sess-1" || len(decoded.Messages) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Messages[1].Sources[0].Filename != "hr-handbook.pdf" {
		t.Errorf("sources = %+v", decoded.Messages[1].Sources)
	}
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(testSession(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded internal.Session
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Title != "Leave policy" || len(decoded.Messages) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("JSON export should be indented")
	}
}

func TestExport_EmptySession(t *testing.T) {
	session := &internal.Session{ID: "empty", Title: internal.DefaultTitle, LastActivity: time.Now()}

	for _, format := range []string{"jsonl", "md", "yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			exporter, err := NewExporter(format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", format, err)
			}
			var buf bytes.Buffer
			if err := exporter.Export(session, &buf); err != nil {
				t.Errorf("Export() error = %v", err)
			}
		})
	}
}
