// ABOUTME: Lipgloss styles for terminal rendering of templates
// ABOUTME: Maps variable colour names to chip styles and renders segment lists
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harper/letterkit/internal/models"
)

// Colors used throughout the TUI.
var (
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorTerra   = lipgloss.Color("#C0603A")
	ColorBamboo  = lipgloss.Color("#7BA05B")
	ColorCyan    = lipgloss.Color("#56B6C2")
	ColorGray    = lipgloss.Color("#7F848E")
	ColorDimGray = lipgloss.Color("#4B5263")
	ColorBlack   = lipgloss.Color("#1E2127")
)

// Base styles reused by the review screen.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SuggestionStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(ColorYellow)

	SelectedSuggestionStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true).
				Foreground(ColorYellow)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)

var chipColors = map[string]lipgloss.Color{
	"ai":      ColorMagenta,
	"success": ColorGreen,
	"warning": ColorYellow,
	"terra":   ColorTerra,
	"bamboo":  ColorBamboo,
	"neutral": ColorGray,
}

// ChipStyle returns the style for a variable chip of the given colour name
func ChipStyle(color string) lipgloss.Style {
	bg, ok := chipColors[color]
	if !ok {
		bg = ColorGray
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(ColorBlack).
		Bold(true)
}

// RenderSegments renders segments for the terminal. Variables show as chips,
// suggestions as underlined spans; the suggestion with selectedID is highlighted.
func RenderSegments(segments []models.Segment, selectedID string) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Type {
		case models.SegmentVariable:
			b.WriteString(ChipStyle(seg.VariableType.Info().Color).Render("[" + string(seg.VariableType) + "]"))
		case models.SegmentSuggestion:
			label := seg.Content + " → " + string(seg.SuggestedVariable)
			if seg.ID == selectedID {
				b.WriteString(SelectedSuggestionStyle.Render("⟨" + label + "⟩"))
			} else {
				b.WriteString(SuggestionStyle.Render("⟨" + label + "⟩"))
			}
		default:
			b.WriteString(seg.Content)
		}
	}
	return b.String()
}
