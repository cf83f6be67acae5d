package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/venlabs/majordomo/llm"
)

func TestChat(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{
					"content":           "cloud says hi",
					"reasoning_details": []map[string]any{{"type": "reasoning.text"}},
				},
			}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", "some/model")
	res, err := c.Chat(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "cloud says hi" {
		t.Fatalf("Chat() text = %q", res.Text)
	}
	if len(res.Reasoning) == 0 {
		t.Fatalf("Chat() reasoning empty")
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != "some/model" {
		t.Fatalf("request model = %q", gotBody.Model)
	}
	if !gotBody.Reasoning.Enabled {
		t.Fatalf("request reasoning not enabled")
	}
	if gotBody.MaxTokens != 1000 {
		t.Fatalf("request max_tokens = %d, want 1000", gotBody.MaxTokens)
	}
}

func TestChatErrorBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "insufficient credits"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", "some/model")
	_, err := c.Chat(context.Background(), llm.Request{})
	if err == nil {
		t.Fatalf("Chat() expected error")
	}
	want := "openrouter http 402: insufficient credits"
	if err.Error() != want {
		t.Fatalf("Chat() error = %q, want %q", err.Error(), want)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "m")
	if _, err := c.Chat(context.Background(), llm.Request{}); err == nil {
		t.Fatalf("Chat() expected error")
	}
}
