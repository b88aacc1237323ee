// ABOUTME: MCP tool handler implementations for the letterkit server
// ABOUTME: Every failure is reported as a tool-result error, never as a Go error
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/llm"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage   *sqlite.Storage
	parser    *core.TemplateParser
	suggester llm.Suggester // nil when no OpenAI key is configured
	known     models.VariableSet
	now       func() time.Time
	onSaved   func(*models.Template)
	wg        *sync.WaitGroup // tracks pending onSaved hooks
}

// NewHandlers builds handlers over store. suggester may be nil.
func NewHandlers(store *sqlite.Storage, known models.VariableSet, suggester llm.Suggester) *Handlers {
	return &Handlers{
		storage:   store,
		parser:    core.NewTemplateParser(nil, known),
		suggester: suggester,
		known:     known,
		now:       time.Now,
		wg:        &sync.WaitGroup{},
	}
}

// OnTemplateSaved registers a hook run in the background after save_template
func (h *Handlers) OnTemplateSaved(fn func(*models.Template)) {
	h.onSaved = fn
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// decodeArg re-encodes a structured argument into dest
func decodeArg(request mcp.CallToolRequest, key string, dest any) error {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return fmt.Errorf("%s argument is required", key)
	}
	raw, exists := args[key]
	if !exists {
		return fmt.Errorf("%s argument is required", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%s argument is invalid: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%s argument is invalid: %w", key, err)
	}
	return nil
}

// ParseTemplate handles the parse_template tool
func (h *Handlers) ParseTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	segments := h.parser.Parse(content)
	return jsonResult(map[string]any{
		"segments":  segments,
		"variables": variablesIn(segments),
	})
}

// SerializeSegments handles the serialize_segments tool
func (h *Handlers) SerializeSegments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var segments []models.Segment
	if err := decodeArg(request, "segments", &segments); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"content": core.Serialize(segments),
	})
}

// ApplySuggestions handles the apply_suggestions tool
func (h *Handlers) ApplySuggestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}

	var suggestions []models.Suggestion
	if err := decodeArg(request, "suggestions", &suggestions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	segments := h.parser.ApplySuggestions(h.parser.Parse(content), suggestions)
	if request.GetBool("accept_all", false) {
		segments = core.AcceptAllSuggestions(segments)
	}

	return jsonResult(map[string]any{
		"segments": segments,
		"content":  core.Serialize(segments),
		"pending":  len(core.PendingSuggestions(segments)),
	})
}

// SuggestVariables handles the suggest_variables tool
func (h *Handlers) SuggestVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	if h.suggester == nil {
		return mcp.NewToolResultError("suggest_variables requires OPENAI_API_KEY"), nil
	}

	suggestions, err := h.suggester.SuggestVariables(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("suggestion request failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"suggestions": suggestions,
	})
}

// RenderTemplate handles the render_template tool
func (h *Handlers) RenderTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := request.GetString("content", "")
	if content == "" {
		tmpl, err := h.lookupTemplate(request.GetString("template_id", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load template: %v", err)), nil
		}
		content = tmpl.Content
	}

	profile, err := h.storage.GetSenderProfile()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load profile: %v", err)), nil
	}
	if profile == nil {
		profile = &models.SenderProfile{}
	}

	job := models.JobDetails{
		Company:       request.GetString("company", ""),
		Position:      request.GetString("position", ""),
		ContactPerson: request.GetString("contact_person", ""),
		Source:        request.GetString("source", ""),
		Introduction:  request.GetString("introduction", ""),
	}

	values := core.BuildValues(*profile, job, h.now())
	return jsonResult(map[string]any{
		"letter": core.Render(h.parser.Parse(content), values),
	})
}

// ListVariables handles the list_variables tool
func (h *Handlers) ListVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type variableInfo struct {
		Name models.VariableType `json:"name"`
		models.VariableInfo
	}

	vars := make([]variableInfo, 0, h.known.Len())
	for _, v := range h.known.List() {
		vars = append(vars, variableInfo{Name: v, VariableInfo: v.Info()})
	}

	return jsonResult(map[string]any{
		"variables": vars,
	})
}

// ListTemplates handles the list_templates tool
func (h *Handlers) ListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.storage.ListTemplates()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list templates: %v", err)), nil
	}

	summaries := make([]map[string]any, 0, len(templates))
	for i := range templates {
		t := &templates[i]
		summaries = append(summaries, map[string]any{
			"id":         t.ID,
			"name":       t.Name,
			"is_default": t.IsDefault,
			"variables":  t.Variables(h.known),
			"updated_at": t.UpdatedAt.Format(time.RFC3339),
		})
	}

	return jsonResult(map[string]any{
		"templates": summaries,
	})
}

// GetTemplate handles the get_template tool
func (h *Handlers) GetTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tmpl, err := h.lookupTemplate(request.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load template: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"template": tmpl,
		"segments": h.parser.Parse(tmpl.Content),
	})
}

// SaveTemplate handles the save_template tool
func (h *Handlers) SaveTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("content argument is required and must be a string"), nil
	}
	name := request.GetString("name", "")
	id := request.GetString("id", "")

	var tmpl *models.Template
	if id != "" {
		tmpl, err = h.storage.UpdateTemplate(id, name, content)
	} else {
		if name == "" {
			return mcp.NewToolResultError("name argument is required for new templates"), nil
		}
		tmpl, err = h.storage.CreateTemplate(name, content)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save template: %v", err)), nil
	}

	if request.GetBool("make_default", false) && !tmpl.IsDefault {
		if err := h.storage.SetDefaultTemplate(tmpl.ID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to set default: %v", err)), nil
		}
		tmpl.IsDefault = true
	}

	if h.onSaved != nil {
		saved := *tmpl
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.onSaved(&saved)
		}()
	}

	return jsonResult(map[string]any{
		"success":   true,
		"template":  tmpl,
		"variables": tmpl.Variables(h.known),
	})
}

func (h *Handlers) lookupTemplate(id string) (*models.Template, error) {
	if id == "" {
		return h.storage.GetDefaultTemplate()
	}
	return h.storage.GetTemplate(id)
}

// Shutdown waits for pending save hooks to complete
func (h *Handlers) Shutdown() {
	log.Println("Waiting for pending template hooks to complete...")
	h.wg.Wait()
	log.Println("All template hooks completed")
}

func variablesIn(segments []models.Segment) []models.VariableType {
	seen := map[models.VariableType]bool{}
	out := []models.VariableType{}
	for _, seg := range segments {
		if seg.IsVariable() && !seen[seg.VariableType] {
			seen[seg.VariableType] = true
			out = append(out, seg.VariableType)
		}
	}
	return out
}
