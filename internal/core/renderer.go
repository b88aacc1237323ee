// ABOUTME: Renders a segment list into a finished letter by substituting variable values
// ABOUTME: Builds the value table from the sender profile and job details
package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/harper/letterkit/internal/models"
)

// Fallbacks used when the job details leave a field empty
const (
	DefaultPosition      = "Softwareentwickler"
	DefaultContactPerson = "Sehr geehrte Damen und Herren"
	DefaultSource        = "eure Website"
)

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

var blankLineRun = regexp.MustCompile(`\n{3,}`)

// Values maps variable types to their substitution text
type Values map[models.VariableType]string

// GermanDate formats t as "06. Februar 2026"
func GermanDate(t time.Time) string {
	return fmt.Sprintf("%02d. %s %d", t.Day(), germanMonths[t.Month()-1], t.Year())
}

// BuildValues computes every built-in variable from profile and job details
func BuildValues(profile models.SenderProfile, job models.JobDetails, now time.Time) Values {
	date := GermanDate(now)

	var contact []string
	for _, part := range []string{profile.Phone, profile.Email} {
		if part != "" {
			contact = append(contact, part)
		}
	}

	placeDate := date
	if profile.City != "" {
		placeDate = profile.City + ", " + date
	}

	return Values{
		models.VarFirma:           job.Company,
		models.VarPosition:        orDefault(job.Position, DefaultPosition),
		models.VarAnsprechpartner: orDefault(job.ContactPerson, DefaultContactPerson),
		models.VarQuelle:          orDefault(job.Source, DefaultSource),
		models.VarEinleitung:      job.Introduction,
		models.VarName:            profile.FullName,
		models.VarEmail:           profile.Email,
		models.VarTelefon:         profile.Phone,
		models.VarAdresse:         profile.Address,
		models.VarPLZOrt:          strings.TrimSpace(profile.PostalCode + " " + profile.City),
		models.VarWebseite:        profile.Website,
		models.VarDatum:           date,
		models.VarStadt:           profile.City,
		models.VarKontaktZeile:    strings.Join(contact, " | "),
		models.VarOrtDatum:        placeDate,
	}
}

// Render substitutes variables with their values.
// Variables without an entry keep their placeholder; pending suggestions render literally.
// Runs of blank lines left by empty values collapse to one blank line.
func Render(segments []models.Segment, values Values) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.IsVariable() {
			if v, ok := values[seg.VariableType]; ok {
				b.WriteString(v)
				continue
			}
		}
		b.WriteString(seg.Render())
	}

	out := blankLineRun.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
