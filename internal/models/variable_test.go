// ABOUTME: Tests for variable types and the known variable set
// ABOUTME: Verifies metadata mapping, set extension, and identifier validation

package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDefaultVariables(t *testing.T) {
	set := DefaultVariables()

	if set.Len() != 15 {
		t.Errorf("Len() = %d, want 15", set.Len())
	}

	for _, v := range []VariableType{VarFirma, VarPosition, VarAnsprechpartner, VarQuelle, VarEinleitung, VarKontaktZeile, VarOrtDatum} {
		if !set.Contains(v) {
			t.Errorf("Contains(%s) = false, want true", v)
		}
	}

	if set.Contains("UNKNOWN") {
		t.Error("Contains(UNKNOWN) = true, want false")
	}
}

func TestVariableSet_With(t *testing.T) {
	base := DefaultVariables()
	extended := base.With("GEHALT", "FIRMA", "not valid")

	if !extended.Contains("GEHALT") {
		t.Error("extended set should contain GEHALT")
	}
	if extended.Contains("not valid") {
		t.Error("identifiers with spaces should be ignored")
	}
	if extended.Len() != base.Len()+1 {
		t.Errorf("Len() = %d, want %d", extended.Len(), base.Len()+1)
	}
	if base.Contains("GEHALT") {
		t.Error("With() must not modify the original set")
	}
}

func TestVariableType_Info(t *testing.T) {
	tests := []struct {
		variable VariableType
		label    string
		color    string
		source   string
	}{
		{VarFirma, "Firma", "ai", SourceJob},
		{VarPosition, "Position", "success", SourceJob},
		{VarAnsprechpartner, "Ansprechpartner", "warning", SourceJob},
		{VarQuelle, "Quelle", "terra", SourceJob},
		{VarEinleitung, "Einleitung", "bamboo", SourceJob},
		{VarEmail, "E-Mail", "neutral", SourceProfile},
		{"GEHALT", "GEHALT", "neutral", SourceCustom},
	}

	for _, tt := range tests {
		t.Run(string(tt.variable), func(t *testing.T) {
			info := tt.variable.Info()
			if info.Label != tt.label {
				t.Errorf("Label = %q, want %q", info.Label, tt.label)
			}
			if info.Color != tt.color {
				t.Errorf("Color = %q, want %q", info.Color, tt.color)
			}
			if info.Source != tt.source {
				t.Errorf("Source = %q, want %q", info.Source, tt.source)
			}
		})
	}
}

func TestVariableType_Placeholder(t *testing.T) {
	if got := VarFirma.Placeholder(); got != "{{FIRMA}}" {
		t.Errorf("Placeholder() = %q, want {{FIRMA}}", got)
	}
}

func TestSegment_Render(t *testing.T) {
	tests := []struct {
		name    string
		segment Segment
		want    string
	}{
		{"text", NewTextSegment("a", "Hallo "), "Hallo "},
		{"variable", NewVariableSegment("b", VarPosition), "{{POSITION}}"},
		{"suggestion", NewSuggestionSegment("c", "Muster GmbH", VarFirma, "Firmenname"), "Muster GmbH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.segment.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuggestion_UnmarshalLegacyVariableKey(t *testing.T) {
	var s Suggestion
	if err := json.Unmarshal([]byte(`{"text":"Muster GmbH","variable":"FIRMA","reason":"Firma"}`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.SuggestedVariable != VarFirma {
		t.Errorf("SuggestedVariable = %q, want FIRMA", s.SuggestedVariable)
	}
	if s.Text != "Muster GmbH" {
		t.Errorf("Text = %q, want Muster GmbH", s.Text)
	}

	var both Suggestion
	if err := json.Unmarshal([]byte(`{"text":"x","suggestedVariable":"POSITION","variable":"FIRMA"}`), &both); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if both.SuggestedVariable != VarPosition {
		t.Errorf("SuggestedVariable = %q, want POSITION (explicit key wins)", both.SuggestedVariable)
	}
}

func TestTemplate_Variables(t *testing.T) {
	tmpl := &Template{Content: "{{ANSPRECHPARTNER}},\n{{FIRMA}} sucht {{POSITION}}. {{FIRMA}} {{UNBEKANNT}}"}

	got := tmpl.Variables(DefaultVariables())
	want := []VariableType{VarAnsprechpartner, VarFirma, VarPosition}

	if len(got) != len(want) {
		t.Fatalf("Variables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Variables()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSenderProfile_Merge(t *testing.T) {
	p := &SenderProfile{FullName: "Max Mustermann", City: "Berlin"}
	p.Merge(map[string]string{
		"city":  "München",
		"email": "max@example.de",
		"phone": "   ",
	})

	if p.City != "München" {
		t.Errorf("City = %q, want München", p.City)
	}
	if p.Email != "max@example.de" {
		t.Errorf("Email = %q, want max@example.de", p.Email)
	}
	if p.Phone != "" {
		t.Errorf("Phone = %q, blank updates should be ignored", p.Phone)
	}
	if time.Since(p.LastUpdated) > time.Minute {
		t.Error("LastUpdated should be refreshed")
	}
}
