// ABOUTME: Segment is the atomic unit of a parsed cover-letter template
// ABOUTME: Text, variable placeholder, or a pending suggestion awaiting accept/reject
package models

// SegmentType discriminates the three segment variants
type SegmentType string

const (
	SegmentText       SegmentType = "text"
	SegmentVariable   SegmentType = "variable"
	SegmentSuggestion SegmentType = "suggestion"
)

// Segment is one piece of a parsed template.
// Content is set for text and suggestion segments, VariableType for variables,
// SuggestedVariable and Reason for suggestions.
type Segment struct {
	ID                string       `json:"id"`
	Type              SegmentType  `json:"type"`
	Content           string       `json:"content,omitempty"`
	VariableType      VariableType `json:"variableType,omitempty"`
	SuggestedVariable VariableType `json:"suggestedVariable,omitempty"`
	Reason            string       `json:"reason,omitempty"`
}

// NewTextSegment creates a text segment
func NewTextSegment(id, content string) Segment {
	return Segment{ID: id, Type: SegmentText, Content: content}
}

// NewVariableSegment creates a variable placeholder segment
func NewVariableSegment(id string, variable VariableType) Segment {
	return Segment{ID: id, Type: SegmentVariable, VariableType: variable}
}

// NewSuggestionSegment creates a provisional suggestion segment
func NewSuggestionSegment(id, content string, suggested VariableType, reason string) Segment {
	return Segment{
		ID:                id,
		Type:              SegmentSuggestion,
		Content:           content,
		SuggestedVariable: suggested,
		Reason:            reason,
	}
}

// Render returns the plain-text form of the segment.
// Suggestions render as their literal text since they are undecided.
func (s Segment) Render() string {
	if s.Type == SegmentVariable {
		return s.VariableType.Placeholder()
	}
	return s.Content
}

// IsText reports whether the segment is plain text
func (s Segment) IsText() bool { return s.Type == SegmentText }

// IsVariable reports whether the segment is a variable placeholder
func (s Segment) IsVariable() bool { return s.Type == SegmentVariable }

// IsSuggestion reports whether the segment is a pending suggestion
func (s Segment) IsSuggestion() bool { return s.Type == SegmentSuggestion }
