// ABOUTME: Template storage operations for SQLite
// ABOUTME: CRUD plus default handling that keeps at most one default template
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harper/letterkit/internal/models"
)

// ErrNotFound is returned when a template does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidTemplate is returned when a template fails validation
var ErrInvalidTemplate = errors.New("invalid template")

// TemplateStore handles template persistence
type TemplateStore struct {
	db *DB
}

// NewTemplateStore creates a new TemplateStore
func NewTemplateStore(db *DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, name, content, is_default, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var t models.Template
	if err := row.Scan(&t.ID, &t.Name, &t.Content, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save saves or updates a template (upsert). IsDefault is applied as given;
// use SetDefault to move the default flag.
func (s *TemplateStore) Save(t *models.Template) error {
	_, err := s.db.Exec(`
		INSERT INTO templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			content = excluded.content,
			is_default = excluded.is_default,
			updated_at = excluded.updated_at
	`, t.ID, t.Name, t.Content, t.IsDefault, t.CreatedAt, t.UpdatedAt)
	return err
}

// Get retrieves a template by ID
func (s *TemplateStore) Get(id string) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return t, err
}

// GetDefault retrieves the default template
func (s *TemplateStore) GetDefault() (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRow(`SELECT ` + templateColumns + ` FROM templates WHERE is_default = 1 LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("default template: %w", ErrNotFound)
	}
	return t, err
}

// List returns all templates, default first, then most recently updated
func (s *TemplateStore) List() ([]models.Template, error) {
	rows, err := s.db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY is_default DESC, updated_at DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	templates := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Count returns the number of stored templates
func (s *TemplateStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&n)
	return n, err
}

// SetDefault marks id as the only default template
func (s *TemplateStore) SetDefault(id string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE templates SET is_default = 1 WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		_, err = tx.Exec(`UPDATE templates SET is_default = 0 WHERE id != ?`, id)
		return err
	})
}

// Delete removes a template. When the default is deleted the most recently
// updated remaining template becomes the default.
func (s *TemplateStore) Delete(id string) error {
	return s.db.WithTx(func(tx *sql.Tx) error {
		var wasDefault bool
		err := tx.QueryRow(`SELECT is_default FROM templates WHERE id = ?`, id).Scan(&wasDefault)
		if err == sql.ErrNoRows {
			return fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM templates WHERE id = ?`, id); err != nil {
			return err
		}
		if !wasDefault {
			return nil
		}

		_, err = tx.Exec(`
			UPDATE templates SET is_default = 1
			WHERE id = (SELECT id FROM templates ORDER BY updated_at DESC LIMIT 1)
		`)
		return err
	})
}
