// ABOUTME: Tests for SQLite database connection and schema initialization
// ABOUTME: Verifies database creation, schema, and basic operations
package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenInMemory(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if db.Path() != ":memory:" {
		t.Errorf("Path() = %v, want :memory:", db.Path())
	}
}

func TestSchemaInitialization(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	tables := []string{"sender_profile", "templates"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "subdir", "nested", "letterkit.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestOpenExistingKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "letterkit.db")

	first, err := NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("NewStorageWithPath() error = %v", err)
	}
	if _, err := first.CreateTemplate("Standard", "Hallo {{FIRMA}}"); err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	_ = first.Close()

	second, err := NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = second.Close() }()

	templates, err := second.ListTemplates()
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	if len(templates) != 1 {
		t.Errorf("len(templates) = %d, want 1 after reopen", len(templates))
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-test")

	if got := DefaultDataDir(); got != "/tmp/xdg-test/letterkit" {
		t.Errorf("DefaultDataDir() = %v, want /tmp/xdg-test/letterkit", got)
	}
	if got := filepath.Base(DefaultDBPath()); got != "letterkit.db" {
		t.Errorf("DefaultDBPath() base = %v, want letterkit.db", got)
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("First Close() error = %v", err)
	}

	// a second close may report an error but must not panic
	_ = db.Close()
}

func TestIndexesExist(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, idx := range []string{"idx_templates_default", "idx_templates_updated"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		if err != nil {
			t.Errorf("Index %s does not exist: %v", idx, err)
		}
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	boom := errors.New("boom")
	err = db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO templates (id, name, content) VALUES ('t1', 'x', 'y')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want boom", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&n); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if n != 0 {
		t.Errorf("templates = %d, want 0 after rollback", n)
	}
}
