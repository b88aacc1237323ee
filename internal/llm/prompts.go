// ABOUTME: Prompt builders for template analysis and template generation
// ABOUTME: Lists the known variables with their descriptions so the model stays in vocabulary
package llm

import (
	"fmt"
	"strings"

	"github.com/harper/letterkit/internal/models"
)

// Allowed tones for generated templates
const (
	ToneFormal  = "formal"
	ToneModern  = "modern"
	ToneKreativ = "kreativ"
)

var toneDescriptions = map[string]string{
	ToneFormal:  `sehr professionell, höflich und klassisch. Verwende Formulierungen wie "Sehr geehrte Damen und Herren" und "Mit freundlichen Grüßen".`,
	ToneModern:  "professionell, aber etwas lockerer. Verwende moderne Formulierungen und bleibe respektvoll.",
	ToneKreativ: "persönlich und authentisch. Zeige Persönlichkeit, bleibe aber professionell.",
}

// Input limits for generation requests
const (
	MaxPromptInput = 2000
	MaxCVInput     = 10000
)

// GenerateRequest describes the applicant for a generated template
type GenerateRequest struct {
	Sector   string `json:"sector"`
	Projects string `json:"projects"`
	Passions string `json:"passions"`
	Hobbies  string `json:"hobbies,omitempty"`
	Tone     string `json:"tone,omitempty"`
	CV       string `json:"cv,omitempty"`
}

// Sanitized returns a copy with every field cleaned for prompt use and the tone normalized
func (r GenerateRequest) Sanitized() GenerateRequest {
	out := GenerateRequest{
		Sector:   SanitizePromptInput(r.Sector, 200),
		Projects: SanitizePromptInput(r.Projects, MaxPromptInput),
		Passions: SanitizePromptInput(r.Passions, MaxPromptInput),
		Hobbies:  SanitizePromptInput(r.Hobbies, 500),
		Tone:     strings.ToLower(strings.TrimSpace(r.Tone)),
		CV:       SanitizePromptInput(r.CV, MaxCVInput),
	}
	if _, ok := toneDescriptions[out.Tone]; !ok {
		out.Tone = ToneModern
	}
	return out
}

// Validate checks the required fields
func (r GenerateRequest) Validate() error {
	if r.Sector == "" || r.Projects == "" || r.Passions == "" {
		return fmt.Errorf("sector, projects and passions are required")
	}
	return nil
}

func variableList(known models.VariableSet) string {
	var b strings.Builder
	for _, v := range known.List() {
		info := v.Info()
		if info.Source != models.SourceJob && info.Source != models.SourceCustom {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s", v, info.Description)
		if info.Example != "" {
			fmt.Fprintf(&b, " (z.B. %q)", info.Example)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func analyzePrompt(text string, known models.VariableSet) string {
	return fmt.Sprintf(`Analysiere diesen Bewerbungs-Template-Text und finde Passagen, die als dynamische Variablen markiert werden sollten.

TEMPLATE TEXT:
%s

VERFÜGBARE VARIABLEN:
%s
AUSGABEFORMAT (NUR JSON, keine Erklärungen):
[
  {"text": "exakter Text aus dem Template", "variable": "FIRMA", "confidence": 0.95, "reason": "Kurze Begründung"}
]

WICHTIG:
- Der "text" muss EXAKT im Template vorkommen
- "confidence" ist ein Wert zwischen 0.0 und 1.0
- Verwende nur die oben genannten Variablen
- Gib NUR das JSON-Array zurück`, text, variableList(known))
}

func generatePrompt(req GenerateRequest, known models.VariableSet) string {
	hobbies := req.Hobbies
	if hobbies == "" {
		hobbies = "Keine angegeben"
	}
	cv := req.CV
	if cv == "" {
		cv = "Nicht vorhanden"
	}

	return fmt.Sprintf(`Erstelle ein Anschreiben-Template für Bewerbungen aus den folgenden Informationen:

**Lebenslauf:**
%s

**Zielsektor:** %s

**Wichtige Projekte/Erfolge:**
%s

**Was dem Bewerber wichtig ist:**
%s

**Hobbys/Interessen:**
%s

**Tonalität:**
Das Anschreiben soll %s

**AUSGABEFORMAT:**
1. Schreibe zuerst das vollständige Anschreiben als normalen Text ohne Platzhalter, mit echten Beispieltexten (200-300 Wörter)
2. Danach folgt eine JSON-Sektion mit Passagen, die dynamisch sein sollten:

%s
[
  {"text": "der exakte Text der ersetzt werden soll", "variable": "FIRMA", "reason": "Kurze Begründung"}
]
%s

**VERFÜGBARE VARIABLEN:**
%s
**REGELN:**
- Schlage 3-6 Passagen vor
- Der "text" muss EXAKT im Anschreiben vorkommen
- Mindestens FIRMA, POSITION und ANSPRECHPARTNER vorschlagen`,
		cv, req.Sector, req.Projects, req.Passions, hobbies, toneDescriptions[req.Tone],
		SuggestionsStart, SuggestionsEnd, variableList(known))
}
