// ABOUTME: HTTP handlers for templates, variables, and editing sessions
// ABOUTME: Session mutations go through core.Session so websocket observers see them
package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/models"
	"github.com/harper/letterkit/internal/preview"
)

// Handler serves the HTTP API
type Handler struct {
	deps     Deps
	parser   *core.TemplateParser
	sessions *SessionRegistry
	wg       sync.WaitGroup
}

// NewHandler creates a handler over deps
func NewHandler(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handler{
		deps:     deps,
		parser:   core.NewTemplateParser(nil, deps.Known),
		sessions: NewSessionRegistry(deps.Now),
	}
}

// SessionView is the JSON shape of an open session
type SessionView struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id,omitempty"`
	core.Snapshot
}

func viewOf(entry *sessionEntry) SessionView {
	return SessionView{
		ID:         entry.ID,
		TemplateID: entry.TemplateID(),
		Snapshot:   entry.Session.Snapshot(),
	}
}

func (h *Handler) session(c *gin.Context) (*sessionEntry, bool) {
	entry, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		notFound(c, "session "+c.Param("id")+" not found")
	}
	return entry, ok
}

func (h *Handler) templateSaved(t *models.Template) {
	if h.deps.OnTemplateSaved == nil {
		return
	}
	saved := *t
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.deps.OnTemplateSaved(&saved)
	}()
}

// Wait blocks until background save hooks finish
func (h *Handler) Wait() {
	h.wg.Wait()
}

// ListVariables returns the known variables with display metadata
func (h *Handler) ListVariables(c *gin.Context) {
	type variableInfo struct {
		Name models.VariableType `json:"name"`
		models.VariableInfo
	}

	vars := make([]variableInfo, 0, h.deps.Known.Len())
	for _, v := range h.deps.Known.List() {
		vars = append(vars, variableInfo{Name: v, VariableInfo: v.Info()})
	}
	c.JSON(http.StatusOK, gin.H{"variables": vars})
}

// ListTemplates returns every stored template, default first
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.deps.Storage.ListTemplates()
	if err != nil {
		storageError(c, "list templates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateTemplate stores a new template
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Content     string `json:"content"`
		MakeDefault bool   `json:"make_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	tmpl, err := h.deps.Storage.CreateTemplate(req.Name, req.Content)
	if err != nil {
		storageError(c, "create template", err)
		return
	}
	if req.MakeDefault && !tmpl.IsDefault {
		if err := h.deps.Storage.SetDefaultTemplate(tmpl.ID); err != nil {
			storageError(c, "set default template", err)
			return
		}
		tmpl.IsDefault = true
	}

	h.templateSaved(tmpl)
	c.JSON(http.StatusCreated, tmpl)
}

// GetTemplate returns one template with its parsed segments
func (h *Handler) GetTemplate(c *gin.Context) {
	tmpl, err := h.deps.Storage.GetTemplate(c.Param("id"))
	if err != nil {
		storageError(c, "get template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"template":  tmpl,
		"segments":  h.parser.Parse(tmpl.Content),
		"variables": tmpl.Variables(h.deps.Known),
	})
}

// UpdateTemplate replaces a template's name and content
func (h *Handler) UpdateTemplate(c *gin.Context) {
	var req struct {
		Name    string  `json:"name"`
		Content *string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	tmpl, err := h.deps.Storage.UpdateTemplate(c.Param("id"), req.Name, *req.Content)
	if err != nil {
		storageError(c, "update template", err)
		return
	}

	h.templateSaved(tmpl)
	c.JSON(http.StatusOK, tmpl)
}

// DeleteTemplate removes a template
func (h *Handler) DeleteTemplate(c *gin.Context) {
	if err := h.deps.Storage.DeleteTemplate(c.Param("id")); err != nil {
		storageError(c, "delete template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetDefaultTemplate marks a template as the default
func (h *Handler) SetDefaultTemplate(c *gin.Context) {
	if err := h.deps.Storage.SetDefaultTemplate(c.Param("id")); err != nil {
		storageError(c, "set default template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateSession opens an editing session from a stored template or raw content.
// With neither given, the default template is used.
func (h *Handler) CreateSession(c *gin.Context) {
	var req struct {
		TemplateID string  `json:"template_id"`
		Content    *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	var content, templateID string
	switch {
	case req.Content != nil:
		content = core.TruncateTemplate(*req.Content)
		templateID = req.TemplateID
	case req.TemplateID != "":
		tmpl, err := h.deps.Storage.GetTemplate(req.TemplateID)
		if err != nil {
			storageError(c, "load template", err)
			return
		}
		content, templateID = tmpl.Content, tmpl.ID
	default:
		tmpl, err := h.deps.Storage.GetDefaultTemplate()
		if err != nil {
			storageError(c, "load default template", err)
			return
		}
		content, templateID = tmpl.Content, tmpl.ID
	}

	entry := h.sessions.Add(core.NewSession(content, h.deps.Known), templateID)
	c.JSON(http.StatusCreated, viewOf(entry))
}

// GetSession returns the current state of a session
func (h *Handler) GetSession(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(entry))
}

// DeleteSession closes a session and its websocket streams
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.sessions.Remove(c.Param("id")) {
		notFound(c, "session "+c.Param("id")+" not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SetSessionContent replaces the session text with a fresh parse
func (h *Handler) SetSessionContent(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Content *string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	entry.Session.SetContent(core.TruncateTemplate(*req.Content))
	c.JSON(http.StatusOK, viewOf(entry))
}

// ApplySuggestions overlays an explicit suggestion list, or asks the
// suggester to analyze the session text when analyze is set.
func (h *Handler) ApplySuggestions(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Suggestions []models.Suggestion `json:"suggestions"`
		Analyze     bool                `json:"analyze"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}

	suggestions := req.Suggestions
	if req.Analyze {
		if h.deps.Suggester == nil {
			badRequest(c, "analysis requires OPENAI_API_KEY")
			return
		}
		var err error
		suggestions, err = h.deps.Suggester.SuggestVariables(c.Request.Context(), entry.Session.PlainText())
		if err != nil {
			log.Printf("Warning: suggestion request failed: %v", err)
			respondError(c, http.StatusInternalServerError, "suggestion request failed: "+err.Error())
			return
		}
	}

	entry.Session.ApplySuggestions(suggestions)
	c.JSON(http.StatusOK, viewOf(entry))
}

func hasPending(entry *sessionEntry, id string) bool {
	for _, seg := range entry.Session.PendingSuggestions() {
		if seg.ID == id {
			return true
		}
	}
	return false
}

// AcceptSuggestion converts one pending suggestion into a variable
func (h *Handler) AcceptSuggestion(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}
	sid := c.Param("sid")
	if !hasPending(entry, sid) {
		notFound(c, "suggestion "+sid+" not found")
		return
	}

	entry.Session.AcceptSuggestion(sid)
	c.JSON(http.StatusOK, viewOf(entry))
}

// RejectSuggestion turns one pending suggestion back into text
func (h *Handler) RejectSuggestion(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}
	sid := c.Param("sid")
	if !hasPending(entry, sid) {
		notFound(c, "suggestion "+sid+" not found")
		return
	}

	entry.Session.RejectSuggestion(sid)
	c.JSON(http.StatusOK, viewOf(entry))
}

// AcceptAllSuggestions accepts every pending suggestion
func (h *Handler) AcceptAllSuggestions(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}
	entry.Session.AcceptAllSuggestions()
	c.JSON(http.StatusOK, viewOf(entry))
}

// RejectAllSuggestions rejects every pending suggestion
func (h *Handler) RejectAllSuggestions(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}
	entry.Session.RejectAllSuggestions()
	c.JSON(http.StatusOK, viewOf(entry))
}

// InsertVariable turns a character range of a text segment into a variable
func (h *Handler) InsertVariable(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Index    *int                `json:"index" binding:"required"`
		Start    int                 `json:"start"`
		End      int                 `json:"end"`
		Variable models.VariableType `json:"variable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: "+err.Error())
		return
	}
	if !h.deps.Known.Contains(req.Variable) {
		badRequest(c, "unknown variable "+string(req.Variable))
		return
	}

	segments := entry.Session.Segments()
	if *req.Index < 0 || *req.Index >= len(segments) || !segments[*req.Index].IsText() {
		badRequest(c, "index must point at a text segment")
		return
	}

	entry.Session.InsertVariable(*req.Index, req.Start, req.End, req.Variable)
	c.JSON(http.StatusOK, viewOf(entry))
}

// RemoveVariable deletes a variable segment by id
func (h *Handler) RemoveVariable(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}

	vid := c.Param("vid")
	found := false
	for _, seg := range entry.Session.Segments() {
		if seg.ID == vid && seg.IsVariable() {
			found = true
			break
		}
	}
	if !found {
		notFound(c, "variable "+vid+" not found")
		return
	}

	entry.Session.RemoveVariable(vid)
	c.JSON(http.StatusOK, viewOf(entry))
}

// Preview renders the session as a finished letter (format=text) or as
// editor markup (format=html). Job details come from query parameters.
func (h *Handler) Preview(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}

	switch format := c.DefaultQuery("format", "text"); format {
	case "html":
		c.JSON(http.StatusOK, gin.H{
			"format":  "html",
			"content": preview.HTML(entry.Session.Segments()),
		})
	case "text":
		profile, err := h.deps.Storage.GetSenderProfile()
		if err != nil {
			storageError(c, "load profile", err)
			return
		}
		if profile == nil {
			profile = &models.SenderProfile{}
		}

		job := models.JobDetails{
			Company:       c.Query("company"),
			Position:      c.Query("position"),
			ContactPerson: c.Query("contact_person"),
			Source:        c.Query("source"),
			Introduction:  c.Query("introduction"),
		}
		letter := core.Render(entry.Session.Segments(), core.BuildValues(*profile, job, h.deps.Now()))
		c.JSON(http.StatusOK, gin.H{
			"format":  "text",
			"content": letter,
			"html":    preview.Text(letter),
		})
	default:
		badRequest(c, "format must be text or html")
	}
}

// SaveSession writes the session text back to its template, or creates a
// template when the session has none.
func (h *Handler) SaveSession(c *gin.Context) {
	entry, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		MakeDefault bool   `json:"make_default"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request: "+err.Error())
			return
		}
	}

	content := entry.Session.PlainText()

	var (
		tmpl   *models.Template
		err    error
		status = http.StatusOK
	)
	if id := entry.TemplateID(); id != "" {
		tmpl, err = h.deps.Storage.UpdateTemplate(id, req.Name, content)
	} else {
		tmpl, err = h.deps.Storage.CreateTemplate(req.Name, content)
		status = http.StatusCreated
	}
	if err != nil {
		storageError(c, "save template", err)
		return
	}

	if req.MakeDefault && !tmpl.IsDefault {
		if err := h.deps.Storage.SetDefaultTemplate(tmpl.ID); err != nil {
			storageError(c, "set default template", err)
			return
		}
		tmpl.IsDefault = true
	}

	entry.setTemplateID(tmpl.ID)
	h.templateSaved(tmpl)
	c.JSON(status, gin.H{
		"template":        tmpl,
		"has_suggestions": entry.Session.HasSuggestions(),
	})
}
