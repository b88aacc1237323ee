// ABOUTME: Sender profile and job details that supply variable values
// ABOUTME: Profile fields feed NAME/EMAIL/...; job fields feed FIRMA/POSITION/...
package models

import (
	"strings"
	"time"
)

// SenderProfile holds the applicant's contact details
type SenderProfile struct {
	FullName    string    `json:"full_name" yaml:"full_name"`
	Email       string    `json:"email" yaml:"email"`
	Phone       string    `json:"phone" yaml:"phone"`
	Address     string    `json:"address" yaml:"address"`
	PostalCode  string    `json:"postal_code" yaml:"postal_code"`
	City        string    `json:"city" yaml:"city"`
	Website     string    `json:"website" yaml:"website"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// Merge applies non-empty fields from updates
func (p *SenderProfile) Merge(updates map[string]string) {
	for key, value := range updates {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch key {
		case "full_name", "name":
			p.FullName = value
		case "email":
			p.Email = value
		case "phone":
			p.Phone = value
		case "address":
			p.Address = value
		case "postal_code":
			p.PostalCode = value
		case "city":
			p.City = value
		case "website":
			p.Website = value
		}
	}
	p.LastUpdated = time.Now()
}

// JobDetails holds the per-application values
type JobDetails struct {
	Company       string `json:"company"`
	Position      string `json:"position"`
	ContactPerson string `json:"contact_person"`
	Source        string `json:"source"`
	Introduction  string `json:"introduction"`
}
