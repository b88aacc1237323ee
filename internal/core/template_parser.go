// ABOUTME: TemplateParser converts {{VARIABLE}} text into typed segments and back
// ABOUTME: Parsing never fails; unknown placeholders stay literal text, oversized input is truncated
package core

import (
	"regexp"
	"strings"

	"github.com/harper/letterkit/internal/models"
)

// MaxTemplateSize is the parse cap in characters; longer input is truncated
const MaxTemplateSize = 500000

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// TemplateParser parses and edits segment lists against a known variable set
type TemplateParser struct {
	ids   IDGenerator
	known models.VariableSet
}

// NewTemplateParser creates a parser. A nil generator gets a fresh SequenceIDs.
func NewTemplateParser(ids IDGenerator, known models.VariableSet) *TemplateParser {
	if ids == nil {
		ids = NewSequenceIDs(nil)
	}
	return &TemplateParser{ids: ids, known: known}
}

// Parse splits plain text into text and variable segments
func (p *TemplateParser) Parse(plain string) []models.Segment {
	return p.scan(TruncateTemplate(plain))
}

// scan parses without applying the size cap
func (p *TemplateParser) scan(plain string) []models.Segment {
	if plain == "" {
		return []models.Segment{}
	}

	var segments []models.Segment
	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(plain, -1) {
		start, end := m[0], m[1]
		if start > last {
			segments = append(segments, models.NewTextSegment(p.ids.NextID(), plain[last:start]))
		}

		variable := models.VariableType(plain[m[2]:m[3]])
		if p.known.Contains(variable) {
			segments = append(segments, models.NewVariableSegment(p.ids.NextID(), variable))
		} else {
			segments = append(segments, models.NewTextSegment(p.ids.NextID(), plain[start:end]))
		}
		last = end
	}

	if last < len(plain) {
		segments = append(segments, models.NewTextSegment(p.ids.NextID(), plain[last:]))
	}
	return segments
}

// Serialize concatenates the rendered form of every segment
func Serialize(segments []models.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Render())
	}
	return b.String()
}

// TruncateTemplate cuts s to MaxTemplateSize characters
func TruncateTemplate(s string) string {
	if len(s) <= MaxTemplateSize {
		return s
	}
	count := 0
	for i := range s {
		if count == MaxTemplateSize {
			return s[:i]
		}
		count++
	}
	return s
}

