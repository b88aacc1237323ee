// ABOUTME: Overlays AI suggestions onto a segment list and resolves them
// ABOUTME: Accept turns a suggestion into a variable, reject turns it back into text
package core

import (
	"sort"
	"strings"

	"github.com/harper/letterkit/internal/models"
)

// ApplySuggestions marks the text spans named by suggestions as suggestion segments.
//
// Suggestions whose text is empty, absent from the serialized template, or whose
// variable is not known are dropped. The rest are applied left to right by first
// occurrence; a cursor prevents two suggestions from claiming the same span.
// When nothing survives the input is returned unchanged. Otherwise text between
// suggestions is re-parsed, so segments outside the suggestion spans get new ids.
func (p *TemplateParser) ApplySuggestions(segments []models.Segment, suggestions []models.Suggestion) []models.Segment {
	if len(suggestions) == 0 {
		return segments
	}

	plain := Serialize(segments)

	type located struct {
		suggestion models.Suggestion
		first      int
	}
	candidates := make([]located, 0, len(suggestions))
	for _, s := range suggestions {
		if s.Text == "" || !p.known.Contains(s.SuggestedVariable) {
			continue
		}
		idx := strings.Index(plain, s.Text)
		if idx < 0 {
			continue
		}
		candidates = append(candidates, located{suggestion: s, first: idx})
	}
	if len(candidates) == 0 {
		return segments
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].first < candidates[j].first
	})

	var out []models.Segment
	cursor := 0
	for _, c := range candidates {
		rel := strings.Index(plain[cursor:], c.suggestion.Text)
		if rel < 0 {
			continue
		}
		start := cursor + rel
		end := start + len(c.suggestion.Text)

		if start > cursor {
			out = append(out, p.scan(plain[cursor:start])...)
		}

		id := c.suggestion.ID
		if id == "" {
			id = p.ids.NextID()
		}
		out = append(out, models.NewSuggestionSegment(id, c.suggestion.Text, c.suggestion.SuggestedVariable, c.suggestion.Reason))
		cursor = end
	}

	if cursor < len(plain) {
		out = append(out, p.scan(plain[cursor:])...)
	}
	return out
}

// AcceptSuggestion converts the suggestion with the given id into a variable, keeping its id
func AcceptSuggestion(segments []models.Segment, id string) []models.Segment {
	return replaceSuggestion(segments, id, func(seg models.Segment) models.Segment {
		return models.NewVariableSegment(seg.ID, seg.SuggestedVariable)
	})
}

// RejectSuggestion converts the suggestion with the given id back into text, keeping its id
func RejectSuggestion(segments []models.Segment, id string) []models.Segment {
	return replaceSuggestion(segments, id, func(seg models.Segment) models.Segment {
		return models.NewTextSegment(seg.ID, seg.Content)
	})
}

// AcceptAllSuggestions accepts every pending suggestion
func AcceptAllSuggestions(segments []models.Segment) []models.Segment {
	updated := segments
	for _, seg := range segments {
		if seg.IsSuggestion() {
			updated = AcceptSuggestion(updated, seg.ID)
		}
	}
	return updated
}

// RejectAllSuggestions rejects every pending suggestion
func RejectAllSuggestions(segments []models.Segment) []models.Segment {
	updated := segments
	for _, seg := range segments {
		if seg.IsSuggestion() {
			updated = RejectSuggestion(updated, seg.ID)
		}
	}
	return updated
}

// PendingSuggestions returns the suggestion segments in order
func PendingSuggestions(segments []models.Segment) []models.Segment {
	var pending []models.Segment
	for _, seg := range segments {
		if seg.IsSuggestion() {
			pending = append(pending, seg)
		}
	}
	return pending
}

// HasSuggestions reports whether any suggestion is still pending
func HasSuggestions(segments []models.Segment) bool {
	for _, seg := range segments {
		if seg.IsSuggestion() {
			return true
		}
	}
	return false
}

// replaceSuggestion returns segments unchanged when id does not name a suggestion
func replaceSuggestion(segments []models.Segment, id string, convert func(models.Segment) models.Segment) []models.Segment {
	idx := -1
	for i, seg := range segments {
		if seg.ID == id && seg.IsSuggestion() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return segments
	}

	out := make([]models.Segment, len(segments))
	copy(out, segments)
	out[idx] = convert(segments[idx])
	return out
}
