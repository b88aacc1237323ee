// ABOUTME: Template is the persisted plain-text form of a cover letter layout
// ABOUTME: Content holds {{VARIABLE}} placeholders; one template may be the default
package models

import (
	"regexp"
	"time"
)

// Template is a named cover-letter template
type Template struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Content   string    `json:"content" yaml:"content"`
	IsDefault bool      `json:"is_default" yaml:"is_default"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Variables returns the distinct known variables used in the content, in order of first use
func (t *Template) Variables(known VariableSet) []VariableType {
	seen := make(map[VariableType]bool)
	var out []VariableType
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.Content, -1) {
		v := VariableType(m[1])
		if !known.Contains(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
