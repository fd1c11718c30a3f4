package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSplitTextSingleChunk(t *testing.T) {
	chunks := splitText("short text", 100)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("expected the text unchanged, got %v", chunks)
	}
}

func TestSplitTextParagraphBoundaries(t *testing.T) {
	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40) + "\n\n" + strings.Repeat("c", 40)
	chunks := splitText(text, 90)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if len(c) > 90 {
			t.Fatalf("chunk %d exceeds budget: %d chars", i, len(c))
		}
	}
	if joined := strings.Join(chunks, "\n\n"); joined != text {
		t.Fatalf("chunks lost content:\n%q\nwant\n%q", joined, text)
	}
}

func TestSplitTextOversizedParagraph(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := splitText(text, 100)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Fatal("hard split lost content")
	}
}

func TestSummarizeBookSingleCall(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(body.Messages) > 0 {
			gotPrompt = body.Messages[0].Content
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  the summary  \n"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL, "gpt-4o-mini", 1000, 12000, zerolog.Nop())
	summary, err := c.SummarizeBook(context.Background(), "Dune", "1-3", "some text")
	if err != nil {
		t.Fatalf("SummarizeBook returned error: %v", err)
	}
	// The first completion, trimmed of surrounding whitespace.
	if summary != "the summary" {
		t.Fatalf("expected trimmed summary, got %q", summary)
	}
	if !strings.Contains(gotPrompt, "Dune") || !strings.Contains(gotPrompt, "1-3") {
		t.Fatalf("prompt missing book metadata: %q", gotPrompt)
	}
}

func TestSummarizeBookChunked(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "partial"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL, "gpt-4o-mini", 1000, 50, zerolog.Nop())
	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40)
	if _, err := c.SummarizeBook(context.Background(), "Dune", "1-3", text); err != nil {
		t.Fatalf("SummarizeBook returned error: %v", err)
	}
	// Two map calls plus one reduce call.
	if calls != 3 {
		t.Fatalf("expected 3 completions, got %d", calls)
	}
}

func TestSummarizeBookAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", srv.URL, "gpt-4o-mini", 1000, 12000, zerolog.Nop())
	_, err := c.SummarizeBook(context.Background(), "Dune", "1-3", "text")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected the API error surfaced, got %v", err)
	}
}
