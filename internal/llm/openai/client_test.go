package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/llm"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(b)
}

func TestFormat_Success(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("  # Title\n\nClean text  "))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL, Temperature: 0.3}, nil)
	out, err := c.Format(context.Background(), llm.FormatRequest{Kind: constants.KindSlides, Index: 2, Text: "Title   messy text"})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != "# Title\n\nClean text" {
		t.Errorf("out = %q", out)
	}

	if got["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", got["model"])
	}
	if got["temperature"] != 0.3 {
		t.Errorf("temperature = %v", got["temperature"])
	}
	if got["max_tokens"] != float64(2000) {
		t.Errorf("max_tokens = %v", got["max_tokens"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	if content, _ := user["content"].(string); !strings.Contains(content, "Title   messy text") {
		t.Errorf("user prompt missing text: %q", content)
	}
}

func TestFormat_BlankTextNotSent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL}, nil)
	_, err := c.Format(context.Background(), llm.FormatRequest{Text: " \n\t "})
	if !errors.Is(err, common.ErrRemoteService) {
		t.Fatalf("err = %v, want remote service error", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("server called %d times", calls)
	}
}

func TestFormat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, "authentication failed"},
		{"quota", http.StatusTooManyRequests, `{"error":{"message":"quota","type":"insufficient_quota"}}`, "rate limited"},
		{"empty content", http.StatusOK, completionBody("   "), "empty completion"},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, "no choices"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL, MaxRetries: 0}, nil)
			_, err := c.Format(context.Background(), llm.FormatRequest{Kind: constants.KindPages, Index: 1, Text: "hello"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, common.ErrRemoteService) {
				t.Errorf("err = %v, want remote service error", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestFormat_TruncatesLongInput(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) == 2 {
			prompt = req.Messages[1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("ok"))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL, MaxInputChars: 5}, nil)
	if _, err := c.Format(context.Background(), llm.FormatRequest{Text: "abcdefghij"}); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(prompt, "Extracted text:\nabcde\n\n") {
		t.Errorf("prompt not truncated:\n%s", prompt)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{}, nil)
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("model = %q", c.Model())
	}
	if c.cfg.MaxTokens != 2000 || c.cfg.MaxInputChars != 12000 {
		t.Errorf("cfg = %+v", c.cfg)
	}
}

func TestFormat_ZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody("ok"))
	}))
	defer server.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL, Temperature: 0}, nil)
	if _, err := c.Format(context.Background(), llm.FormatRequest{Kind: constants.KindPages, Index: 1, Text: "text"}); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if v, ok := got["temperature"]; !ok || v != float64(0) {
		t.Errorf("temperature = %v (present %v), want 0", v, ok)
	}
}
