// ABOUTME: Unified Storage layer that wraps the template and profile stores
// ABOUTME: Assigns ids and timestamps and keeps exactly one default when templates exist
package sqlite

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/models"
)

// Storage manages all persistent letterkit data using SQLite
type Storage struct {
	db        *DB
	templates *TemplateStore
	profile   *ProfileStore
	now       func() time.Time
	mu        sync.RWMutex
}

// NewStorage initializes storage at the XDG default path
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath())
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:        db,
		templates: NewTemplateStore(db),
		profile:   NewProfileStore(db),
		now:       time.Now,
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

func validateTemplate(name, content string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if utf8.RuneCountInString(content) > core.MaxTemplateSize {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidTemplate, core.MaxTemplateSize)
	}
	return nil
}

// CreateTemplate stores a new template. The first template becomes the default.
func (s *Storage) CreateTemplate(name, content string) (*models.Template, error) {
	if err := validateTemplate(name, content); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.templates.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count templates: %w", err)
	}

	now := s.now()
	t := &models.Template{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Content:   content,
		IsDefault: count == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.templates.Save(t); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	return t, nil
}

// UpdateTemplate replaces name and content of an existing template.
// An empty name keeps the current one.
func (s *Storage) UpdateTemplate(id, name, content string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.templates.Get(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) != "" {
		t.Name = strings.TrimSpace(name)
	}
	if err := validateTemplate(t.Name, content); err != nil {
		return nil, err
	}

	t.Content = content
	t.UpdatedAt = s.now()
	if err := s.templates.Save(t); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}
	return t, nil
}

// PutTemplate stores a template as given, keeping its id and timestamps.
// Used by import and sync; a default flag on t moves the default to it.
func (s *Storage) PutTemplate(t *models.Template) error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if err := validateTemplate(t.Name, t.Content); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}

	count, err := s.templates.Count()
	if err != nil {
		return fmt.Errorf("failed to count templates: %w", err)
	}
	makeDefault := t.IsDefault || count == 0

	stored := *t
	stored.IsDefault = false
	if existing, err := s.templates.Get(t.ID); err == nil {
		stored.IsDefault = existing.IsDefault
	}
	if err := s.templates.Save(&stored); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	if makeDefault {
		return s.templates.SetDefault(t.ID)
	}
	return nil
}

// GetTemplate retrieves a template by ID
func (s *Storage) GetTemplate(id string) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates.Get(id)
}

// GetDefaultTemplate retrieves the default template
func (s *Storage) GetDefaultTemplate() (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates.GetDefault()
}

// ListTemplates returns all templates, default first
func (s *Storage) ListTemplates() ([]models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates.List()
}

// SetDefaultTemplate makes id the only default template
func (s *Storage) SetDefaultTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates.SetDefault(id)
}

// DeleteTemplate removes a template
func (s *Storage) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.templates.Delete(id)
}

// GetSenderProfile retrieves the sender profile, or nil when none is saved
func (s *Storage) GetSenderProfile() (*models.SenderProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Get()
}

// SaveSenderProfile saves the sender profile
func (s *Storage) SaveSenderProfile(p *models.SenderProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Save(p)
}
