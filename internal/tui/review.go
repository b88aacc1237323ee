// ABOUTME: Bubbletea model for stepping through pending suggestions
// ABOUTME: Accept or reject one at a time or all at once, then hand back the segments
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/letterkit/internal/core"
	"github.com/harper/letterkit/internal/models"
)

// ReviewModel is the interactive suggestion review screen
type ReviewModel struct {
	original  []models.Segment
	segments  []models.Segment
	pending   []models.Segment
	selected  int
	accepted  int
	rejected  int
	done      bool
	cancelled bool
	width     int
}

// NewReviewModel starts a review over segments
func NewReviewModel(segments []models.Segment) ReviewModel {
	m := ReviewModel{original: segments, segments: segments}
	m.refresh()
	return m
}

func (m *ReviewModel) refresh() {
	m.pending = core.PendingSuggestions(m.segments)
	if m.selected >= len(m.pending) {
		m.selected = len(m.pending) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Init implements tea.Model
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m ReviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		m.done = true
		return m, tea.Quit

	case "q", "enter":
		m.done = true
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.pending)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "a":
		if id := m.SelectedID(); id != "" {
			m.segments = core.AcceptSuggestion(m.segments, id)
			m.accepted++
		}

	case "r":
		if id := m.SelectedID(); id != "" {
			m.segments = core.RejectSuggestion(m.segments, id)
			m.rejected++
		}

	case "A":
		m.accepted += len(m.pending)
		m.segments = core.AcceptAllSuggestions(m.segments)

	case "R":
		m.rejected += len(m.pending)
		m.segments = core.RejectAllSuggestions(m.segments)

	default:
		return m, nil
	}

	m.refresh()
	if len(m.pending) == 0 {
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// SelectedID returns the id of the highlighted suggestion, or "" when none remain
func (m ReviewModel) SelectedID() string {
	if m.selected < len(m.pending) {
		return m.pending[m.selected].ID
	}
	return ""
}

// Done reports whether the review has finished
func (m ReviewModel) Done() bool { return m.done }

// Cancelled reports whether the review was aborted
func (m ReviewModel) Cancelled() bool { return m.cancelled }

// Result returns the reviewed segments; a cancelled review returns the input unchanged
func (m ReviewModel) Result() []models.Segment {
	if m.cancelled {
		return m.original
	}
	return m.segments
}

// View implements tea.Model
func (m ReviewModel) View() string {
	var sections []string

	title := TitleStyle.Render("LETTERKIT")
	status := DimStyle.Render(fmt.Sprintf("  %d pending · %d accepted · %d rejected", len(m.pending), m.accepted, m.rejected))
	sections = append(sections, title+status)

	width := m.width
	if width <= 0 {
		width = 60
	}
	divider := DividerStyle.Render(strings.Repeat("─", width))

	sections = append(sections, divider, RenderSegments(m.segments, m.SelectedID()), divider)

	if len(m.pending) > 0 {
		sel := m.pending[m.selected]
		detail := fmt.Sprintf("%q → {{%s}}", sel.Content, sel.SuggestedVariable)
		if sel.Reason != "" {
			detail += DimStyle.Render("  " + sel.Reason)
		}
		sections = append(sections, detail)
	}

	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m ReviewModel) renderFooter() string {
	keys := []struct{ key, desc string }{
		{"j/k", " Nav"},
		{"a", " Accept"},
		{"r", " Reject"},
		{"A", " Accept all"},
		{"R", " Reject all"},
		{"enter", " Done"},
		{"esc", " Cancel"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, FooterKeyStyle.Render(k.key)+FooterDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

// Review runs the review screen and returns the reviewed segments
func Review(segments []models.Segment, opts ...tea.ProgramOption) ([]models.Segment, error) {
	if !core.HasSuggestions(segments) {
		return segments, nil
	}

	final, err := tea.NewProgram(NewReviewModel(segments), opts...).Run()
	if err != nil {
		return segments, fmt.Errorf("review failed: %w", err)
	}
	return final.(ReviewModel).Result(), nil
}
