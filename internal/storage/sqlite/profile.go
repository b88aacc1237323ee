// ABOUTME: Sender profile storage operations for SQLite
// ABOUTME: Implements the singleton profile row with upsert semantics
package sqlite

import (
	"database/sql"
	"time"

	"github.com/harper/letterkit/internal/models"
)

// ProfileStore handles sender profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves the sender profile, returning nil if none was saved
func (s *ProfileStore) Get() (*models.SenderProfile, error) {
	var p models.SenderProfile

	err := s.db.QueryRow(`
		SELECT full_name, email, phone, address, postal_code, city, website, updated_at
		FROM sender_profile
		WHERE id = 1
	`).Scan(&p.FullName, &p.Email, &p.Phone, &p.Address, &p.PostalCode, &p.City, &p.Website, &p.LastUpdated)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save saves or updates the sender profile (upsert)
func (s *ProfileStore) Save(p *models.SenderProfile) error {
	updatedAt := time.Now()
	if !p.LastUpdated.IsZero() {
		updatedAt = p.LastUpdated
	}

	_, err := s.db.Exec(`
		INSERT INTO sender_profile (id, full_name, email, phone, address, postal_code, city, website, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			postal_code = excluded.postal_code,
			city = excluded.city,
			website = excluded.website,
			updated_at = excluded.updated_at
	`, p.FullName, p.Email, p.Phone, p.Address, p.PostalCode, p.City, p.Website, updatedAt)

	return err
}
