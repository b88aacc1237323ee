// ABOUTME: Manual variable insertion and removal on segment lists
// ABOUTME: Removal always merges adjacent text so repeated edits don't fragment the list
package core

import (
	"github.com/harper/letterkit/internal/models"
)

// InsertVariable replaces the character range [start, end) of a text segment with a variable.
// Offsets count characters and are clamped to the segment. Non-text targets and
// unknown variable types leave the list unchanged.
func (p *TemplateParser) InsertVariable(segments []models.Segment, index, start, end int, variable models.VariableType) []models.Segment {
	if index < 0 || index >= len(segments) {
		return segments
	}
	target := segments[index]
	if !target.IsText() || !p.known.Contains(variable) {
		return segments
	}

	content := []rune(target.Content)
	start = clamp(start, 0, len(content))
	end = clamp(end, start, len(content))

	replacements := make([]models.Segment, 0, 3)
	if start > 0 {
		replacements = append(replacements, models.NewTextSegment(p.ids.NextID(), string(content[:start])))
	}
	replacements = append(replacements, models.NewVariableSegment(p.ids.NextID(), variable))
	if end < len(content) {
		replacements = append(replacements, models.NewTextSegment(p.ids.NextID(), string(content[end:])))
	}

	out := make([]models.Segment, 0, len(segments)+len(replacements)-1)
	out = append(out, segments[:index]...)
	out = append(out, replacements...)
	out = append(out, segments[index+1:]...)
	return out
}

// RemoveVariable deletes the variable with the given id and merges adjacent text.
// Segments of other types are never removed through this path.
func RemoveVariable(segments []models.Segment, id string) []models.Segment {
	kept := make([]models.Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.ID == id && seg.IsVariable() {
			continue
		}
		kept = append(kept, seg)
	}
	return MergeAdjacentText(kept)
}

// MergeAdjacentText coalesces consecutive text segments, keeping the first id
func MergeAdjacentText(segments []models.Segment) []models.Segment {
	merged := make([]models.Segment, 0, len(segments))
	for _, seg := range segments {
		if n := len(merged); n > 0 && merged[n-1].IsText() && seg.IsText() {
			merged[n-1].Content += seg.Content
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
