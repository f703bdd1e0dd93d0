package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DGMadMax/MCP-RBAC/testutil"
)

func TestAPIClient_OpenStream(t *testing.T) {
	var gotAuth, gotAccept, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/stream" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Query string `json:"query"`
		}
		testutil.JSONUnmarshal(t, body, &req)
		gotQuery = req.Query

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, testutil.ChunkFrame("hi")+testutil.DoneFrame())
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "secret-token")
	body, err := client.OpenStream(context.Background(), "hello?")
	if err != nil {
		t.Fatalf("OpenStream() error = %v", err)
	}
	defer body.Close()

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "text/event-stream" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotQuery != "hello?" {
		t.Errorf("query = %q", gotQuery)
	}

	events := drain(t, NewEventDecoder(body))
	if len(events) != 2 || events[0].Content != "hi" {
		t.Errorf("events = %+v", events)
	}
}

func TestAPIClient_OpenStreamNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "")
	_, err := client.OpenStream(context.Background(), "q")

	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("error = %v, want *StreamError", err)
	}
	if streamErr.Status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", streamErr.Status)
	}
	if !strings.Contains(streamErr.Error(), "permission denied") {
		t.Errorf("error should carry the response body: %v", streamErr)
	}
}

func TestAPIClient_OpenStreamNoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header should be absent without a token")
		}
		_, _ = io.WriteString(w, testutil.DoneFrame())
	}))
	defer server.Close()

	client := NewAPIClient(server.URL+"/", "") // trailing slash is normalized
	body, err := client.OpenStream(context.Background(), "q")
	if err != nil {
		t.Fatalf("OpenStream() error = %v", err)
	}
	_ = body.Close()
}

func TestAPIClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := NewAPIClient(server.URL, "").Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestAPIClient_HealthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if err := NewAPIClient(server.URL, "").Health(context.Background()); err == nil {
		t.Error("Health() should fail on non-200")
	}
}
