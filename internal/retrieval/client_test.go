package retrieval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/voice-tutor/internal/config"
	"github.com/brightpath/voice-tutor/internal/resilience"
)

func newTestClient(serverURL string) *Client {
	cfg := &config.Config{
		RetrievalURL:               serverURL,
		RetrievalTimeout:           2,
		CircuitBreakerMaxFailures:  5,
		CircuitBreakerResetTimeout: 30,
		RetryMaxAttempts:           2,
		RetryInitialBackoff:        5,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("course") != "MATH-101" {
			t.Errorf("Expected course MATH-101, got %s", r.URL.Query().Get("course"))
		}
		if r.URL.Query().Get("q") != "chain rule" {
			t.Errorf("Expected query 'chain rule', got %s", r.URL.Query().Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"text":"The chain rule states that...","score":0.92,"source":"lecture-4"},
			{"text":"For composite functions...","score":0.81,"source":"textbook-ch3"}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	snippets, err := client.Search(context.Background(), "MATH-101", "chain rule", 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("Expected 2 snippets, got %d", len(snippets))
	}
	if snippets[0].Source != "lecture-4" {
		t.Errorf("Expected source 'lecture-4', got '%s'", snippets[0].Source)
	}
	if snippets[0].Score != 0.92 {
		t.Errorf("Expected score 0.92, got %f", snippets[0].Score)
	}
}

func TestClient_SearchTruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"text":"one","score":0.9},
			{"text":"two","score":0.8},
			{"text":"three","score":0.7}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	snippets, err := client.Search(context.Background(), "MATH-101", "limits", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(snippets) != 2 {
		t.Errorf("Expected results truncated to 2, got %d", len(snippets))
	}
}

func TestClient_SearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.Search(context.Background(), "MATH-101", "limits", 4); err == nil {
		t.Error("Expected error for server failure")
	}
}

func TestClient_SearchBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	if _, err := client.Search(context.Background(), "MATH-101", "limits", 4); err == nil {
		t.Error("Expected error for malformed response")
	}
}

func TestClient_SearchCircuitOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{
		RetrievalURL:               server.URL,
		RetrievalTimeout:           2,
		CircuitBreakerMaxFailures:  2,
		CircuitBreakerResetTimeout: 30,
		RetryMaxAttempts:           1,
		RetryInitialBackoff:        5,
	}
	client := NewClient(cfg, zerolog.Nop())

	for i := 0; i < 3; i++ {
		client.Search(context.Background(), "MATH-101", "limits", 4)
	}

	if client.circuitBreaker.GetState() != resilience.StateOpen {
		t.Error("Expected circuit breaker to open after repeated failures")
	}
}

func TestClient_SearchContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Search(ctx, "MATH-101", "limits", 4); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
