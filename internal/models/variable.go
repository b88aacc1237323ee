// ABOUTME: Variable types usable as {{PLACEHOLDER}} tokens in templates
// ABOUTME: Closed known set with display metadata, extensible only through configuration
package models

import (
	"regexp"
)

// VariableType identifies a placeholder such as FIRMA or POSITION
type VariableType string

// Job variables, filled per application
const (
	VarFirma           VariableType = "FIRMA"
	VarPosition        VariableType = "POSITION"
	VarAnsprechpartner VariableType = "ANSPRECHPARTNER"
	VarQuelle          VariableType = "QUELLE"
	VarEinleitung      VariableType = "EINLEITUNG"
)

// Profile variables, filled from the sender profile
const (
	VarName         VariableType = "NAME"
	VarEmail        VariableType = "EMAIL"
	VarTelefon      VariableType = "TELEFON"
	VarAdresse      VariableType = "ADRESSE"
	VarPLZOrt       VariableType = "PLZ_ORT"
	VarDatum        VariableType = "DATUM"
	VarWebseite     VariableType = "WEBSEITE"
	VarStadt        VariableType = "STADT"
	VarKontaktZeile VariableType = "KONTAKT_ZEILE"
	VarOrtDatum     VariableType = "ORT_DATUM"
)

// Variable sources
const (
	SourceJob     = "job"
	SourceProfile = "profile"
	SourceCustom  = "custom"
)

var identifierPattern = regexp.MustCompile(`^\w+$`)

// VariableInfo is display metadata for a variable type
type VariableInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
	Color       string `json:"color"`
	Source      string `json:"source"`
}

// Placeholder returns the {{TYPE}} token for the variable
func (v VariableType) Placeholder() string {
	return "{{" + string(v) + "}}"
}

// ValidIdentifier reports whether v could appear inside a {{...}} token
func (v VariableType) ValidIdentifier() bool {
	return identifierPattern.MatchString(string(v))
}

// Info maps every variable type to its display metadata.
// Types outside the built-in set get a neutral default.
func (v VariableType) Info() VariableInfo {
	switch v {
	case VarFirma:
		return VariableInfo{"Firma", "Firmenname", "BMW Group", "ai", SourceJob}
	case VarPosition:
		return VariableInfo{"Position", "Stellenbezeichnung", "Senior Software Engineer", "success", SourceJob}
	case VarAnsprechpartner:
		return VariableInfo{"Ansprechpartner", "Anrede mit Namen", "Sehr geehrte Frau Schmidt", "warning", SourceJob}
	case VarQuelle:
		return VariableInfo{"Quelle", "Wo die Stelle gefunden wurde", "LinkedIn", "terra", SourceJob}
	case VarEinleitung:
		return VariableInfo{"Einleitung", "KI-generierte Einleitung", "", "bamboo", SourceJob}
	case VarName:
		return VariableInfo{"Name", "Vollständiger Name aus dem Profil", "Max Mustermann", "neutral", SourceProfile}
	case VarEmail:
		return VariableInfo{"E-Mail", "E-Mail-Adresse aus dem Profil", "max.mustermann@email.de", "neutral", SourceProfile}
	case VarTelefon:
		return VariableInfo{"Telefon", "Telefonnummer aus dem Profil", "+49 170 1234567", "neutral", SourceProfile}
	case VarAdresse:
		return VariableInfo{"Adresse", "Straße und Hausnummer", "Musterstraße 42", "neutral", SourceProfile}
	case VarPLZOrt:
		return VariableInfo{"PLZ und Ort", "Postleitzahl und Stadt", "80331 München", "neutral", SourceProfile}
	case VarDatum:
		return VariableInfo{"Datum", "Aktuelles Datum im deutschen Format", "06. Februar 2026", "neutral", SourceProfile}
	case VarWebseite:
		return VariableInfo{"Webseite", "Website oder Portfolio-URL", "www.maxmustermann.de", "neutral", SourceProfile}
	case VarStadt:
		return VariableInfo{"Stadt", "Stadt aus dem Profil", "München", "neutral", SourceProfile}
	case VarKontaktZeile:
		return VariableInfo{"Kontaktzeile", "Telefon und E-Mail, leere Felder ausgelassen", "+49 170 1234567 | max@email.de", "neutral", SourceProfile}
	case VarOrtDatum:
		return VariableInfo{"Ort und Datum", "Stadt und Datum, ohne Stadt nur das Datum", "München, 06. Februar 2026", "neutral", SourceProfile}
	default:
		return VariableInfo{Label: string(v), Description: "Benutzerdefinierte Variable", Color: "neutral", Source: SourceCustom}
	}
}

// BuiltinVariables lists the built-in variable types in display order
func BuiltinVariables() []VariableType {
	return []VariableType{
		VarFirma, VarPosition, VarAnsprechpartner, VarQuelle, VarEinleitung,
		VarName, VarEmail, VarTelefon, VarAdresse, VarPLZOrt,
		VarDatum, VarWebseite, VarStadt, VarKontaktZeile, VarOrtDatum,
	}
}

// VariableSet is the closed set of variable types the parser recognizes
type VariableSet struct {
	members map[VariableType]struct{}
	order   []VariableType
}

// DefaultVariables returns the built-in variable set
func DefaultVariables() VariableSet {
	return NewVariableSet(BuiltinVariables()...)
}

// NewVariableSet builds a set, ignoring duplicates and invalid identifiers
func NewVariableSet(types ...VariableType) VariableSet {
	set := VariableSet{members: make(map[VariableType]struct{}, len(types))}
	for _, t := range types {
		set.add(t)
	}
	return set
}

func (s *VariableSet) add(t VariableType) {
	if !t.ValidIdentifier() {
		return
	}
	if _, ok := s.members[t]; ok {
		return
	}
	s.members[t] = struct{}{}
	s.order = append(s.order, t)
}

// With returns a copy of the set extended by extra types
func (s VariableSet) With(extra ...VariableType) VariableSet {
	out := NewVariableSet(s.order...)
	for _, t := range extra {
		out.add(t)
	}
	return out
}

// Contains reports whether t is a known variable type
func (s VariableSet) Contains(t VariableType) bool {
	_, ok := s.members[t]
	return ok
}

// List returns the members in insertion order
func (s VariableSet) List() []VariableType {
	out := make([]VariableType, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of known types
func (s VariableSet) Len() int { return len(s.order) }

