// ABOUTME: MCP tool definitions and registration for the letterkit server
// ABOUTME: Declares JSON schemas for the template parsing, suggestion, and storage tools
package mcp

import (
	"github.com/harper/letterkit/internal/llm"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var (
	segmentSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":                map[string]any{"type": "string"},
			"type":              map[string]any{"type": "string", "enum": []string{"text", "variable", "suggestion"}},
			"content":           map[string]any{"type": "string"},
			"variableType":      map[string]any{"type": "string"},
			"suggestedVariable": map[string]any{"type": "string"},
			"reason":            map[string]any{"type": "string"},
		},
		"required": []string{"type"},
	}

	suggestionSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":                map[string]any{"type": "string"},
			"text":              map[string]any{"type": "string", "description": "Exact span of the template text"},
			"suggestedVariable": map[string]any{"type": "string", "description": "Variable name such as FIRMA"},
			"reason":            map[string]any{"type": "string"},
		},
		"required": []string{"text", "suggestedVariable"},
	}

	contentProperty = map[string]any{
		"type":        "string",
		"description": "Template text with {{VARIABLE}} placeholders",
	}
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, known models.VariableSet, suggester llm.Suggester) *Handlers {
	handlers := NewHandlers(store, known, suggester)

	// 1. parse_template - plain text to segments
	server.AddTool(mcp.Tool{
		Name:        "parse_template",
		Description: "Parse template text into text and variable segments. Unknown {{NAMES}} stay literal text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"content": contentProperty,
			},
			Required: []string{"content"},
		},
	}, handlers.ParseTemplate)

	// 2. serialize_segments - segments back to plain text
	server.AddTool(mcp.Tool{
		Name:        "serialize_segments",
		Description: "Serialize segments back to template text. Pending suggestions serialize as their literal text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"segments": map[string]any{
					"type":  "array",
					"items": segmentSchema,
				},
			},
			Required: []string{"segments"},
		},
	}, handlers.SerializeSegments)

	// 3. apply_suggestions - mark proposed spans as suggestions
	server.AddTool(mcp.Tool{
		Name:        "apply_suggestions",
		Description: "Mark suggested spans of a template as pending suggestions, optionally accepting all of them.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"content": contentProperty,
				"suggestions": map[string]any{
					"type":  "array",
					"items": suggestionSchema,
				},
				"accept_all": map[string]any{
					"type":        "boolean",
					"description": "Convert every applied suggestion into a variable",
					"default":     false,
				},
			},
			Required: []string{"content", "suggestions"},
		},
	}, handlers.ApplySuggestions)

	// 4. suggest_variables - ask the model for suggestions
	server.AddTool(mcp.Tool{
		Name:        "suggest_variables",
		Description: "Ask the language model which spans of a letter should become variables. Requires OPENAI_API_KEY.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"content": contentProperty,
			},
			Required: []string{"content"},
		},
	}, handlers.SuggestVariables)

	// 5. render_template - fill variables from profile and job details
	server.AddTool(mcp.Tool{
		Name:        "render_template",
		Description: "Render a template with the stored sender profile and the given job details. Uses the default template when neither content nor template_id is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"content":        contentProperty,
				"template_id":    map[string]any{"type": "string", "description": "Stored template to render"},
				"company":        map[string]any{"type": "string", "description": "Value for FIRMA"},
				"position":       map[string]any{"type": "string", "description": "Value for POSITION"},
				"contact_person": map[string]any{"type": "string", "description": "Value for ANSPRECHPARTNER"},
				"source":         map[string]any{"type": "string", "description": "Value for QUELLE"},
				"introduction":   map[string]any{"type": "string", "description": "Value for EINLEITUNG"},
			},
		},
	}, handlers.RenderTemplate)

	// 6. list_variables - known variable catalogue
	server.AddTool(mcp.Tool{
		Name:        "list_variables",
		Description: "List the known template variables with labels, descriptions, and examples.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, handlers.ListVariables)

	// 7. list_templates - stored templates
	server.AddTool(mcp.Tool{
		Name:        "list_templates",
		Description: "List stored templates, default first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, handlers.ListTemplates)

	// 8. get_template - one stored template with segments
	server.AddTool(mcp.Tool{
		Name:        "get_template",
		Description: "Get a stored template and its parsed segments. Returns the default template when id is omitted.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id": map[string]any{"type": "string", "description": "Template id"},
			},
		},
	}, handlers.GetTemplate)

	// 9. save_template - create or update
	server.AddTool(mcp.Tool{
		Name:        "save_template",
		Description: "Create a template, or update one when id is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id":           map[string]any{"type": "string", "description": "Existing template id to update"},
				"name":         map[string]any{"type": "string", "description": "Template name, required for new templates"},
				"content":      contentProperty,
				"make_default": map[string]any{"type": "boolean", "description": "Make this the default template", "default": false},
			},
			Required: []string{"content"},
		},
	}, handlers.SaveTemplate)

	return handlers
}
