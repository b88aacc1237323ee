// ABOUTME: HTML preview of parsed segments for the browser editor
// ABOUTME: Variables become coloured chips, suggestions become marks, output is sanitized
package preview

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/harper/letterkit/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitizer allows only the markup HTML and Text emit
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements("span", "mark", "br", "p")

		p.AllowAttrs("class").Matching(regexp.MustCompile(`^chip chip-[a-z]+$`)).OnElements("span")
		p.AllowAttrs("data-variable", "data-id").Matching(regexp.MustCompile(`^[\w-]+$`)).OnElements("span")

		p.AllowAttrs("data-suggestion", "data-id").Matching(regexp.MustCompile(`^[\w-]+$`)).OnElements("mark")
		p.AllowAttrs("title").OnElements("mark")

		policy = p
	})
	return policy
}

// HTML renders segments as sanitized markup: variable chips, suggestion marks,
// and escaped text with line breaks.
func HTML(segments []models.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Type {
		case models.SegmentVariable:
			info := seg.VariableType.Info()
			fmt.Fprintf(&b, `<span class="chip chip-%s" data-variable="%s" data-id="%s">%s</span>`,
				info.Color, html.EscapeString(string(seg.VariableType)), html.EscapeString(seg.ID), html.EscapeString(info.Label))
		case models.SegmentSuggestion:
			fmt.Fprintf(&b, `<mark data-suggestion="%s" data-id="%s" title="%s">%s</mark>`,
				html.EscapeString(string(seg.SuggestedVariable)), html.EscapeString(seg.ID),
				html.EscapeString(seg.Reason), escapeLines(seg.Content))
		default:
			b.WriteString(escapeLines(seg.Content))
		}
	}
	return sanitizer().Sanitize(b.String())
}

// Text renders a finished letter as paragraphs split on blank lines
func Text(letter string) string {
	var b strings.Builder
	for _, para := range strings.Split(strings.TrimSpace(letter), "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(escapeLines(para))
		b.WriteString("</p>")
	}
	return sanitizer().Sanitize(b.String())
}

func escapeLines(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
