// ABOUTME: Tolerant parsers for model output and prompt input sanitization
// ABOUTME: Malformed JSON yields no suggestions; spans missing from the text are dropped
package llm

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/letterkit/internal/models"
)

// Markers around the suggestion JSON in a generated template
const (
	SuggestionsStart = "---SUGGESTIONS_JSON---"
	SuggestionsEnd   = "---END_SUGGESTIONS---"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x{7f}-\x{9f}]`)
	jsonArray    = regexp.MustCompile(`\[[\s\S]*\]`)

	injectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
		regexp.MustCompile(`(?i)disregard\s+(all\s+)?previous`),
		regexp.MustCompile(`(?i)system\s*:`),
		regexp.MustCompile(`(?i)assistant\s*:`),
		regexp.MustCompile(`(?i)human\s*:`),
		regexp.MustCompile(`(?i)<\s*/?\s*script`),
		regexp.MustCompile(`(?i)` + regexp.QuoteMeta(SuggestionsStart)),
		regexp.MustCompile(`(?i)` + regexp.QuoteMeta(SuggestionsEnd)),
	}
)

// ParseSuggestionBlock splits a generated response into template text and suggestions.
// Without a complete marker block the whole response is the template.
func ParseSuggestionBlock(raw string) (string, []models.Suggestion) {
	before, after, found := strings.Cut(raw, SuggestionsStart)
	if !found {
		return strings.TrimSpace(raw), nil
	}

	content := strings.TrimSpace(before)
	block, _, complete := strings.Cut(after, SuggestionsEnd)
	if !complete {
		return content, nil
	}

	return content, decodeSuggestions(strings.TrimSpace(block), content)
}

// ParseSuggestionArray extracts a JSON array of suggestions from a model response
// that may wrap it in prose or code fences. Only spans present in text are kept.
func ParseSuggestionArray(raw, text string) []models.Suggestion {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "[") {
		match := jsonArray.FindString(raw)
		if match == "" {
			log.Printf("Warning: no JSON array in suggestion response")
			return nil
		}
		raw = match
	}
	return decodeSuggestions(raw, text)
}

func decodeSuggestions(raw, text string) []models.Suggestion {
	var parsed []models.Suggestion
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("Warning: failed to parse suggestions JSON: %v", err)
		return nil
	}

	out := make([]models.Suggestion, 0, len(parsed))
	for _, s := range parsed {
		if s.Text == "" || s.SuggestedVariable == "" || !strings.Contains(text, s.Text) {
			continue
		}
		if s.ID == "" {
			s.ID = "sug_" + uuid.New().String()
		}
		s.SuggestedVariable = models.VariableType(strings.ToUpper(string(s.SuggestedVariable)))
		s.Confidence = clampConfidence(s.Confidence)
		out = append(out, s)
	}
	return out
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// SanitizePromptInput removes control characters and prompt-injection markers.
// max limits the length in characters before markers are stripped; zero means no limit.
func SanitizePromptInput(text string, max int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	text = controlChars.ReplaceAllString(text, "")
	if r := []rune(text); max > 0 && len(r) > max {
		text = string(r[:max])
	}

	for _, p := range injectionPatterns {
		text = p.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
