// ABOUTME: HTTP router for the browser editor and other session clients
// ABOUTME: Wires template CRUD, editing sessions, previews, and the change websocket
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/letterkit/internal/llm"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/storage/sqlite"
)

// Deps are the services the HTTP handlers need
type Deps struct {
	Storage   *sqlite.Storage
	Known     models.VariableSet
	Suggester llm.Suggester // nil disables analyze requests
	Now       func() time.Time

	// OnTemplateSaved runs after a template is created or saved from a session
	OnTemplateSaved func(*models.Template)
}

// NewRouter builds the gin engine with every API route registered
func NewRouter(deps Deps) *gin.Engine {
	return NewHandler(deps).Router()
}

// Router registers the handler's routes on a new gin engine
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}

	// WebSocket
	r.GET("/ws/sessions/:id", h.SessionWebSocket)

	api := r.Group("/api")
	{
		api.GET("/variables", h.ListVariables)

		templates := api.Group("/templates")
		{
			templates.GET("", h.ListTemplates)
			templates.POST("", h.CreateTemplate)
			templates.GET("/:id", h.GetTemplate)
			templates.PUT("/:id", h.UpdateTemplate)
			templates.DELETE("/:id", h.DeleteTemplate)
			templates.POST("/:id/default", h.SetDefaultTemplate)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", h.CreateSession)
			sessions.GET("/:id", h.GetSession)
			sessions.DELETE("/:id", h.DeleteSession)
			sessions.PUT("/:id/content", h.SetSessionContent)

			suggestions := sessions.Group("/:id/suggestions")
			{
				suggestions.POST("", h.ApplySuggestions)
				suggestions.POST("/accept-all", h.AcceptAllSuggestions)
				suggestions.POST("/reject-all", h.RejectAllSuggestions)
				suggestions.POST("/:sid/accept", h.AcceptSuggestion)
				suggestions.POST("/:sid/reject", h.RejectSuggestion)
			}

			sessions.POST("/:id/variables", h.InsertVariable)
			sessions.DELETE("/:id/variables/:vid", h.RemoveVariable)
			sessions.GET("/:id/preview", h.Preview)
			sessions.POST("/:id/save", h.SaveSession)
		}
	}

	return r
}
