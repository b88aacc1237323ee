// ABOUTME: Export and import of templates and the sender profile
// ABOUTME: Supports YAML round-trips and a read-only Markdown export
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/letterkit/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string                `yaml:"version" json:"version"`
	ExportedAt string                `yaml:"exported_at" json:"exported_at"`
	Tool       string                `yaml:"tool" json:"tool"`
	Profile    *models.SenderProfile `yaml:"profile,omitempty" json:"profile,omitempty"`
	Templates  []models.Template     `yaml:"templates" json:"templates"`
}

// ImportResult summarizes what ImportYAML stored
type ImportResult struct {
	Templates int  `json:"templates"`
	Profile   bool `json:"profile"`
}

// Export exports all data from storage
func (s *Storage) Export() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: s.now().Format(time.RFC3339),
		Tool:       "letterkit",
	}

	profile, err := s.GetSenderProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	data.Profile = profile

	templates, err := s.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	data.Templates = templates

	return data, nil
}

func createOutput(outputPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(outputPath string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// ExportToMarkdown exports data to a Markdown file
func (s *Storage) ExportToMarkdown(outputPath string) error {
	data, err := s.Export()
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# Letterkit Export - %s\n\n", s.now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", data.ExportedAt)

	if p := data.Profile; p != nil {
		_, _ = fmt.Fprintln(file, "## Sender Profile")
		_, _ = fmt.Fprintln(file)
		writeField := func(label, value string) {
			if value != "" {
				_, _ = fmt.Fprintf(file, "- **%s:** %s\n", label, value)
			}
		}
		writeField("Name", p.FullName)
		writeField("Email", p.Email)
		writeField("Phone", p.Phone)
		writeField("Address", p.Address)
		writeField("Postal code", p.PostalCode)
		writeField("City", p.City)
		writeField("Website", p.Website)
		_, _ = fmt.Fprintln(file)
	}

	if len(data.Templates) > 0 {
		_, _ = fmt.Fprintln(file, "## Templates")
		_, _ = fmt.Fprintln(file)
		for _, t := range data.Templates {
			title := t.Name
			if t.IsDefault {
				title += " (default)"
			}
			_, _ = fmt.Fprintf(file, "### %s\n\n", title)
			_, _ = fmt.Fprintf(file, "*Updated: %s*\n\n", t.UpdatedAt.Format(time.RFC3339))
			_, _ = fmt.Fprintln(file, "```text")
			_, _ = fmt.Fprintln(file, t.Content)
			_, _ = fmt.Fprintln(file, "```")
			_, _ = fmt.Fprintln(file)
		}
	}

	return nil
}

// ImportYAML loads a file written by ExportToYAML. Templates are upserted by id
// and the profile, when present, replaces the stored one.
func (s *Storage) ImportYAML(inputPath string) (*ImportResult, error) {
	raw, err := os.ReadFile(inputPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}

	result := &ImportResult{}
	for i := range data.Templates {
		if err := s.PutTemplate(&data.Templates[i]); err != nil {
			return result, fmt.Errorf("failed to import template %q: %w", data.Templates[i].Name, err)
		}
		result.Templates++
	}

	if data.Profile != nil {
		if err := s.SaveSenderProfile(data.Profile); err != nil {
			return result, fmt.Errorf("failed to import profile: %w", err)
		}
		result.Profile = true
	}

	return result, nil
}
