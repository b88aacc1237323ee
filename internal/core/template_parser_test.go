// ABOUTME: Tests for template parsing and serialization
// ABOUTME: Verifies round-trip fidelity, truncation, and unknown placeholder handling

package core

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/harper/letterkit/internal/models"
)

func newTestParser() *TemplateParser {
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	return NewTemplateParser(NewSequenceIDs(clock), models.DefaultVariables())
}

// shape drops ids so segment lists can be compared structurally
func shape(segments []models.Segment) []models.Segment {
	out := make([]models.Segment, len(segments))
	for i, seg := range segments {
		seg.ID = ""
		out[i] = seg
	}
	return out
}

func text(content string) models.Segment {
	return models.Segment{Type: models.SegmentText, Content: content}
}

func variable(v models.VariableType) models.Segment {
	return models.Segment{Type: models.SegmentVariable, VariableType: v}
}

func suggestion(content string, v models.VariableType) models.Segment {
	return models.Segment{Type: models.SegmentSuggestion, Content: content, SuggestedVariable: v}
}

func TestParse_Empty(t *testing.T) {
	p := newTestParser()

	segments := p.Parse("")
	if segments == nil {
		t.Fatal("Parse(\"\") returned nil, want empty slice")
	}
	if len(segments) != 0 {
		t.Errorf("len(Parse(\"\")) = %d, want 0", len(segments))
	}
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"plain text", "Sehr geehrte Damen und Herren,"},
		{"single variable", "{{FIRMA}}"},
		{"mixed", "Hallo {{ANSPRECHPARTNER}},\nich bewerbe mich als {{POSITION}} bei {{FIRMA}}."},
		{"adjacent variables", "{{PLZ_ORT}}{{STADT}}{{DATUM}}"},
		{"unknown placeholder", "Hello {{UNKNOWN}} world"},
		{"unmatched braces", "{{FIRMA} und {POSITION}} und {{"},
		{"empty braces", "{{}} und {{ }}"},
		{"spaced identifier", "{{ FIRMA }}"},
		{"triple braces", "{{{FIRMA}}}"},
		{"lowercase", "{{firma}}"},
		{"umlauts", "Grüße aus München, {{NAME}} – Straße"},
		{"newlines only", "\n\n\n"},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Serialize(p.Parse(tt.input))
			if got != tt.input {
				t.Errorf("Serialize(Parse(%q)) = %q", tt.input, got)
			}
		})
	}
}

func TestParse_KnownVariable(t *testing.T) {
	p := newTestParser()

	segments := p.Parse("{{FIRMA}}")
	if diff := cmp.Diff([]models.Segment{variable(models.VarFirma)}, shape(segments)); diff != "" {
		t.Errorf("Parse({{FIRMA}}) mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UnknownPlaceholderStaysText(t *testing.T) {
	p := newTestParser()

	segments := p.Parse("Hello {{UNKNOWN}} world")
	want := []models.Segment{text("Hello "), text("{{UNKNOWN}}"), text(" world")}
	if diff := cmp.Diff(want, shape(segments)); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TripleBraces(t *testing.T) {
	p := newTestParser()

	segments := p.Parse("{{{FIRMA}}}")
	want := []models.Segment{text("{"), variable(models.VarFirma), text("}")}
	if diff := cmp.Diff(want, shape(segments)); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ExtendedVariableSet(t *testing.T) {
	p := NewTemplateParser(nil, models.DefaultVariables().With("GEHALT"))

	segments := p.Parse("Gehalt: {{GEHALT}}")
	want := []models.Segment{text("Gehalt: "), variable("GEHALT")}
	if diff := cmp.Diff(want, shape(segments)); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_UniqueIDs(t *testing.T) {
	p := newTestParser()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		for _, seg := range p.Parse("a {{FIRMA}} b {{POSITION}} c") {
			if seg.ID == "" {
				t.Fatal("segment has empty id")
			}
			if seen[seg.ID] {
				t.Fatalf("duplicate id %s", seg.ID)
			}
			seen[seg.ID] = true
		}
	}
}

func TestParse_Truncation(t *testing.T) {
	p := newTestParser()

	input := strings.Repeat("a", MaxTemplateSize-3) + "{{FIRMA}}" + "tail"
	got := Serialize(p.Parse(input))
	want := input[:MaxTemplateSize]

	if got != want {
		t.Errorf("len(Serialize(Parse(oversized))) = %d, want %d", len(got), len(want))
	}
	if strings.Contains(got, "{{FIRMA}}") {
		t.Error("truncated placeholder should not survive")
	}
}

func TestParse_TruncationCountsCharacters(t *testing.T) {
	p := newTestParser()

	input := strings.Repeat("ü", MaxTemplateSize+10)
	got := Serialize(p.Parse(input))

	if n := len([]rune(got)); n != MaxTemplateSize {
		t.Errorf("rune count = %d, want %d", n, MaxTemplateSize)
	}
}

func TestParse_AtCapIsLossless(t *testing.T) {
	p := newTestParser()

	input := strings.Repeat("x", MaxTemplateSize-9) + "{{FIRMA}}"
	if got := Serialize(p.Parse(input)); got != input {
		t.Error("input at the cap should round-trip exactly")
	}
}

func TestSequenceIDs(t *testing.T) {
	clock := func() time.Time { return time.UnixMilli(42) }
	ids := NewSequenceIDs(clock)

	if got := ids.NextID(); got != "seg_1_42" {
		t.Errorf("NextID() = %q, want seg_1_42", got)
	}
	if got := ids.NextID(); got != "seg_2_42" {
		t.Errorf("NextID() = %q, want seg_2_42", got)
	}
}
