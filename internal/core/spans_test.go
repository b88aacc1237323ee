// ABOUTME: Tests for replacing confirmed spans with placeholders in stored content
// ABOUTME: Verifies longest-first ordering and skipping of unusable spans

package core

import (
	"testing"

	"github.com/harper/letterkit/internal/models"
)

func TestReplaceSpans(t *testing.T) {
	content := "Bewerbung bei XXX Hamburg. XXX ist toll. Position: Entwickler."
	spans := []models.Suggestion{
		{Text: "XXX", SuggestedVariable: models.VarFirma},
		{Text: "XXX Hamburg", SuggestedVariable: models.VarOrtDatum},
		{Text: "Entwickler", SuggestedVariable: models.VarPosition},
		{Text: "fehlt", SuggestedVariable: models.VarQuelle},
		{Text: "toll", SuggestedVariable: "UNBEKANNT"},
	}

	got, n := ReplaceSpans(content, spans, models.DefaultVariables())

	want := "Bewerbung bei {{ORT_DATUM}}. {{FIRMA}} ist toll. Position: {{POSITION}}."
	if got != want {
		t.Errorf("ReplaceSpans() = %q, want %q", got, want)
	}
	if n != 3 {
		t.Errorf("replaced = %d, want 3", n)
	}
}
