// ABOUTME: Tests for the OpenAI client against a fake chat completions server
// ABOUTME: Verifies prompts, retries, and parsing without calling the real API
package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/letterkit/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

// fakeOpenAI serves chat completions, failing the first `failures` requests
func fakeOpenAI(t *testing.T, failures int32, reply string) (*httptest.Server, *atomic.Int32, *[]string) {
	t.Helper()

	var calls atomic.Int32
	var prompts []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) > 0 {
			prompts = append(prompts, req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		if n <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
			return
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, &calls, &prompts
}

func newTestClient(t *testing.T, baseURL string, maxRetries int) *OpenAIClient {
	t.Helper()

	client, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL + "/v1",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() failed: %v", err)
	}
	return client
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("NewOpenAIClient(\"\") should fail")
	}
}

func TestSuggestVariables(t *testing.T) {
	srv, calls, prompts := fakeOpenAI(t, 0, "```json\n[{\"text\": \"Muster GmbH\", \"variable\": \"FIRMA\", \"confidence\": 0.9}, {\"text\": \"Phantasie AG\", \"variable\": \"FIRMA\"}]\n```")
	client := newTestClient(t, srv.URL, 0)

	text := "ich bewerbe mich bei Muster GmbH"
	suggestions, err := client.SuggestVariables(context.Background(), text)
	if err != nil {
		t.Fatalf("SuggestVariables() failed: %v", err)
	}

	if len(suggestions) != 1 {
		t.Fatalf("len(suggestions) = %d, want 1", len(suggestions))
	}
	if suggestions[0].SuggestedVariable != models.VarFirma {
		t.Errorf("SuggestedVariable = %s, want FIRMA", suggestions[0].SuggestedVariable)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if len(*prompts) != 1 || !strings.Contains((*prompts)[0], text) || !strings.Contains((*prompts)[0], "POSITION") {
		t.Errorf("prompt should include the text and the variable list, got %v", *prompts)
	}
}

func TestSuggestVariables_EmptyText(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0", 0)
	if _, err := client.SuggestVariables(context.Background(), ""); err == nil {
		t.Error("SuggestVariables(\"\") should fail")
	}
}

func TestSuggestVariables_RetriesServerErrors(t *testing.T) {
	srv, calls, _ := fakeOpenAI(t, 2, `[{"text": "Entwickler", "variable": "POSITION"}]`)
	client := newTestClient(t, srv.URL, 3)

	suggestions, err := client.SuggestVariables(context.Background(), "als Entwickler")
	if err != nil {
		t.Fatalf("SuggestVariables() failed: %v", err)
	}
	if len(suggestions) != 1 {
		t.Errorf("len(suggestions) = %d, want 1", len(suggestions))
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSuggestVariables_GivesUp(t *testing.T) {
	srv, calls, _ := fakeOpenAI(t, 100, "[]")
	client := newTestClient(t, srv.URL, 1)

	if _, err := client.SuggestVariables(context.Background(), "Text"); err == nil {
		t.Fatal("SuggestVariables() should fail when every attempt fails")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGenerateTemplate(t *testing.T) {
	srv, _, prompts := fakeOpenAI(t, 0, generated)
	client := newTestClient(t, srv.URL, 0)

	content, suggestions, err := client.GenerateTemplate(context.Background(), GenerateRequest{
		Sector:   "IT",
		Projects: "Cloud-Migration",
		Passions: "Teamarbeit",
		Tone:     ToneFormal,
	})
	if err != nil {
		t.Fatalf("GenerateTemplate() failed: %v", err)
	}

	if !strings.Contains(content, "Muster GmbH") {
		t.Errorf("content = %q", content)
	}
	if len(suggestions) != 3 {
		t.Errorf("len(suggestions) = %d, want 3", len(suggestions))
	}

	prompt := (*prompts)[0]
	if !strings.Contains(prompt, "Cloud-Migration") || !strings.Contains(prompt, "Mit freundlichen Grüßen") {
		t.Error("prompt should carry the request fields and the formal tone")
	}
	if !strings.Contains(prompt, SuggestionsStart) {
		t.Error("prompt should describe the suggestion markers")
	}
}

func TestGenerateTemplate_ValidatesRequest(t *testing.T) {
	srv, calls, _ := fakeOpenAI(t, 0, generated)
	client := newTestClient(t, srv.URL, 0)

	if _, _, err := client.GenerateTemplate(context.Background(), GenerateRequest{Sector: "IT"}); err == nil {
		t.Error("GenerateTemplate() should reject incomplete requests")
	}
	if calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", calls.Load())
	}
}

func TestOpenAIClient_ImplementsSuggester(t *testing.T) {
	var _ Suggester = (*OpenAIClient)(nil)
}
