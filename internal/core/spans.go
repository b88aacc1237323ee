// ABOUTME: Replaces confirmed text spans in stored template content with placeholders
// ABOUTME: Longest spans go first so "XXX Hamburg" is not split by a shorter "XXX"
package core

import (
	"sort"
	"strings"

	"github.com/harper/letterkit/internal/models"
)

// ReplaceSpans swaps the first occurrence of each span's text for its {{VARIABLE}} token.
// Spans with unknown variables or text not present are skipped. Returns the new
// content and the number of spans replaced.
func ReplaceSpans(content string, spans []models.Suggestion, known models.VariableSet) (string, int) {
	sorted := make([]models.Suggestion, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Text) > len(sorted[j].Text)
	})

	replaced := 0
	for _, span := range sorted {
		if span.Text == "" || !known.Contains(span.SuggestedVariable) {
			continue
		}
		if !strings.Contains(content, span.Text) {
			continue
		}
		content = strings.Replace(content, span.Text, span.SuggestedVariable.Placeholder(), 1)
		replaced++
	}
	return content, replaced
}
