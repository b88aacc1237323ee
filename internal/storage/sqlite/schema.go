// ABOUTME: SQLite database schema for template storage
// ABOUTME: Creates the templates and sender profile tables with their indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Sender profile singleton table
CREATE TABLE IF NOT EXISTS sender_profile (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    full_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Cover letter templates in plain-text placeholder form
CREATE TABLE IF NOT EXISTS templates (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    content TEXT NOT NULL,
    is_default INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_templates_default ON templates(is_default);
CREATE INDEX IF NOT EXISTS idx_templates_updated ON templates(updated_at);
`
