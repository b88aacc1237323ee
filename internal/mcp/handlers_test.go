// ABOUTME: Tests for the MCP tool handlers
// ABOUTME: Calls handlers directly with in-memory storage and a fake suggester
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

type fakeSuggester struct {
	suggestions []models.Suggestion
	err         error
}

func (f *fakeSuggester) SuggestVariables(ctx context.Context, text string) ([]models.Suggestion, error) {
	return f.suggestions, f.err
}

func newTestHandlers(t *testing.T, suggester *fakeSuggester) *Handlers {
	t.Helper()

	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var h *Handlers
	if suggester != nil {
		h = NewHandlers(store, models.DefaultVariables(), suggester)
	} else {
		h = NewHandlers(store, models.DefaultVariables(), nil)
	}
	h.now = func() time.Time { return time.Date(2026, time.February, 6, 0, 0, 0, 0, time.UTC) }
	return h
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (map[string]any, bool) {
	t.Helper()

	var request mcp.CallToolRequest
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned Go error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", result.Content[0])
	}
	if result.IsError {
		return map[string]any{"error": text.Text}, true
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", text.Text, err)
	}
	return out, false
}

func TestParseAndSerialize(t *testing.T) {
	h := newTestHandlers(t, nil)

	parsed, isErr := call(t, h.ParseTemplate, map[string]any{"content": "Hallo {{FIRMA}} und {{GEHEIM}}"})
	if isErr {
		t.Fatalf("parse_template error: %v", parsed["error"])
	}
	segments := parsed["segments"].([]any)
	if len(segments) != 4 {
		t.Fatalf("len(segments) = %d, want 4", len(segments))
	}
	last := segments[3].(map[string]any)
	if last["type"] != "text" || last["content"] != "{{GEHEIM}}" {
		t.Errorf("last segment = %v, want unknown placeholder kept as text", last)
	}
	if vars := parsed["variables"].([]any); len(vars) != 1 || vars[0] != "FIRMA" {
		t.Errorf("variables = %v, want [FIRMA]", vars)
	}

	serialized, isErr := call(t, h.SerializeSegments, map[string]any{"segments": segments})
	if isErr {
		t.Fatalf("serialize_segments error: %v", serialized["error"])
	}
	if serialized["content"] != "Hallo {{FIRMA}} und {{GEHEIM}}" {
		t.Errorf("content = %v", serialized["content"])
	}
}

func TestMissingArgumentsAreToolErrors(t *testing.T) {
	h := newTestHandlers(t, nil)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	}{
		{"parse_template", h.ParseTemplate},
		{"serialize_segments", h.SerializeSegments},
		{"apply_suggestions", h.ApplySuggestions},
		{"suggest_variables", h.SuggestVariables},
		{"save_template", h.SaveTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, isErr := call(t, tt.handler, map[string]any{}); !isErr {
				t.Error("expected a tool error")
			}
		})
	}
}

func TestApplySuggestions(t *testing.T) {
	h := newTestHandlers(t, nil)
	content := "ich bewerbe mich bei Muster GmbH als Entwickler."

	args := map[string]any{
		"content": content,
		"suggestions": []any{
			map[string]any{"text": "Muster GmbH", "suggestedVariable": "FIRMA"},
			map[string]any{"text": "Entwickler", "variable": "POSITION"},
		},
	}

	out, isErr := call(t, h.ApplySuggestions, args)
	if isErr {
		t.Fatalf("apply_suggestions error: %v", out["error"])
	}
	if out["pending"].(float64) != 2 {
		t.Errorf("pending = %v, want 2", out["pending"])
	}
	if out["content"] != content {
		t.Errorf("content = %v, pending suggestions serialize literally", out["content"])
	}

	args["accept_all"] = true
	out, _ = call(t, h.ApplySuggestions, args)
	if out["content"] != "ich bewerbe mich bei {{FIRMA}} als {{POSITION}}." {
		t.Errorf("content = %v", out["content"])
	}
}

func TestSuggestVariables(t *testing.T) {
	t.Run("no client", func(t *testing.T) {
		h := newTestHandlers(t, nil)
		out, isErr := call(t, h.SuggestVariables, map[string]any{"content": "x"})
		if !isErr || !strings.Contains(out["error"].(string), "OPENAI_API_KEY") {
			t.Errorf("result = %v, want OPENAI_API_KEY error", out)
		}
	})

	t.Run("client error", func(t *testing.T) {
		h := newTestHandlers(t, &fakeSuggester{err: errors.New("rate limited")})
		if _, isErr := call(t, h.SuggestVariables, map[string]any{"content": "x"}); !isErr {
			t.Error("expected a tool error")
		}
	})

	t.Run("success", func(t *testing.T) {
		h := newTestHandlers(t, &fakeSuggester{suggestions: []models.Suggestion{{ID: "s1", Text: "x", SuggestedVariable: models.VarFirma}}})
		out, isErr := call(t, h.SuggestVariables, map[string]any{"content": "x"})
		if isErr {
			t.Fatalf("error: %v", out["error"])
		}
		if len(out["suggestions"].([]any)) != 1 {
			t.Errorf("suggestions = %v", out["suggestions"])
		}
	})
}

func TestTemplateLifecycle(t *testing.T) {
	h := newTestHandlers(t, nil)

	if _, isErr := call(t, h.GetTemplate, map[string]any{}); !isErr {
		t.Error("get_template without templates should fail")
	}
	if _, isErr := call(t, h.SaveTemplate, map[string]any{"content": "x"}); !isErr {
		t.Error("save_template without name should fail for new templates")
	}

	saved, isErr := call(t, h.SaveTemplate, map[string]any{"name": "Standard", "content": "{{ANSPRECHPARTNER}},\n\nbei {{FIRMA}}"})
	if isErr {
		t.Fatalf("save_template error: %v", saved["error"])
	}
	tmpl := saved["template"].(map[string]any)
	id := tmpl["id"].(string)
	if tmpl["is_default"] != true {
		t.Error("first template should be default")
	}

	second, _ := call(t, h.SaveTemplate, map[string]any{"name": "Zweit", "content": "{{POSITION}}", "make_default": true})
	if second["template"].(map[string]any)["is_default"] != true {
		t.Error("make_default should mark the template as default")
	}

	updated, isErr := call(t, h.SaveTemplate, map[string]any{"id": id, "content": "neu {{FIRMA}}"})
	if isErr {
		t.Fatalf("update error: %v", updated["error"])
	}
	if updated["template"].(map[string]any)["name"] != "Standard" {
		t.Error("update without name should keep the name")
	}

	listed, _ := call(t, h.ListTemplates, map[string]any{})
	templates := listed["templates"].([]any)
	if len(templates) != 2 {
		t.Fatalf("len(templates) = %d, want 2", len(templates))
	}
	if templates[0].(map[string]any)["name"] != "Zweit" {
		t.Errorf("first listed = %v, want the default", templates[0])
	}

	got, isErr := call(t, h.GetTemplate, map[string]any{"id": id})
	if isErr {
		t.Fatalf("get_template error: %v", got["error"])
	}
	if len(got["segments"].([]any)) != 2 {
		t.Errorf("segments = %v", got["segments"])
	}
}

func TestSaveTemplateRunsHook(t *testing.T) {
	h := newTestHandlers(t, nil)

	var mu sync.Mutex
	var saved []string
	h.OnTemplateSaved(func(tmpl *models.Template) {
		mu.Lock()
		defer mu.Unlock()
		saved = append(saved, tmpl.Name)
	})

	_, _ = call(t, h.SaveTemplate, map[string]any{"name": "Hook", "content": "x"})
	h.Shutdown()

	if len(saved) != 1 || saved[0] != "Hook" {
		t.Errorf("hook saw %v, want [Hook]", saved)
	}
}

func TestRenderTemplate(t *testing.T) {
	h := newTestHandlers(t, nil)
	_ = h.storage.SaveSenderProfile(&models.SenderProfile{FullName: "Max Mustermann", City: "München"})

	out, isErr := call(t, h.RenderTemplate, map[string]any{
		"content":  "{{ORT_DATUM}}\n\n{{ANSPRECHPARTNER}},\nbei {{FIRMA}} als {{POSITION}}.\n{{NAME}}",
		"company":  "Muster GmbH",
		"position": "Entwickler",
	})
	if isErr {
		t.Fatalf("render_template error: %v", out["error"])
	}

	want := "München, 06. Februar 2026\n\nSehr geehrte Damen und Herren,\nbei Muster GmbH als Entwickler.\nMax Mustermann"
	if out["letter"] != want {
		t.Errorf("letter = %q, want %q", out["letter"], want)
	}
}

func TestRenderTemplate_UsesDefault(t *testing.T) {
	h := newTestHandlers(t, nil)

	if _, isErr := call(t, h.RenderTemplate, map[string]any{}); !isErr {
		t.Error("render_template without templates should fail")
	}

	_, _ = h.storage.CreateTemplate("Standard", "Hallo {{FIRMA}}")
	out, _ := call(t, h.RenderTemplate, map[string]any{"company": "ACME"})
	if out["letter"] != "Hallo ACME" {
		t.Errorf("letter = %v, want Hallo ACME", out["letter"])
	}
}

func TestListVariables(t *testing.T) {
	h := newTestHandlers(t, nil)

	out, _ := call(t, h.ListVariables, map[string]any{})
	vars := out["variables"].([]any)
	if len(vars) != 15 {
		t.Fatalf("len(variables) = %d, want 15", len(vars))
	}
	first := vars[0].(map[string]any)
	if first["name"] != "FIRMA" || first["label"] != "Firma" || first["source"] != "job" {
		t.Errorf("first variable = %v", first)
	}
}

func TestRegisterTools(t *testing.T) {
	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	server := mcpserver.NewMCPServer("letterkit-test", "0.0.0", mcpserver.WithToolCapabilities(true))
	if h := RegisterTools(server, store, models.DefaultVariables(), nil); h == nil {
		t.Fatal("RegisterTools() returned nil handlers")
	}
}
