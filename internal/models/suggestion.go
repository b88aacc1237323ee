// ABOUTME: Suggestion records proposed by the AI suggestion service
// ABOUTME: Maps a literal text span to a candidate variable, pending human review
package models

import "encoding/json"

// Suggestion proposes turning a literal text span into a variable
type Suggestion struct {
	ID                string       `json:"id,omitempty"`
	Text              string       `json:"text"`
	SuggestedVariable VariableType `json:"suggestedVariable"`
	Reason            string       `json:"reason,omitempty"`
	Confidence        float64      `json:"confidence,omitempty"`
}

// UnmarshalJSON accepts the legacy "variable" key as an alias for suggestedVariable
func (s *Suggestion) UnmarshalJSON(data []byte) error {
	type plain Suggestion
	var raw struct {
		plain
		Variable VariableType `json:"variable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Suggestion(raw.plain)
	if s.SuggestedVariable == "" {
		s.SuggestedVariable = raw.Variable
	}
	return nil
}
