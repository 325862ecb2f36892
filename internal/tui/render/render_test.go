package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/errors"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ts       string
		expected string
	}{
		{"2026-03-01T11:59:30Z", "30s"},
		{"2026-03-01T11:15:00Z", "45m"},
		{"2026-03-01T02:00:00Z", "10h"},
		{"2026-02-26T12:00:00Z", "3d"},
		{"", ""},
		{"yesterday", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			assert.Equal(t, tt.expected, Age(tt.ts, now))
		})
	}
}

func TestRowFillsWidth(t *testing.T) {
	p := domain.Property{
		Reference: "PD-1",
		Title:     strings.Repeat("Sea view penthouse ", 10),
		Price:     2500000,
		UpdatedAt: "2026-03-01T11:00:00Z",
	}
	cols := []string{settings.ColumnReference, settings.ColumnTitle, settings.ColumnPrice}

	row := Row(RowState{Property: p, Columns: cols, Width: 80, Now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	assert.Equal(t, 80, lipgloss.Width(row))
	assert.Contains(t, row, "PD-1")
	assert.Contains(t, row, "2,500,000")
	assert.Contains(t, row, "...")
	assert.True(t, strings.HasSuffix(row, "1h"))
}

func TestRowMarksSelection(t *testing.T) {
	row := Row(RowState{Property: domain.Property{Reference: "PD-1"}, Columns: []string{settings.ColumnReference}, Selected: true})
	assert.Contains(t, row, cursorSymbol)

	row = Row(RowState{Property: domain.Property{Reference: "PD-1"}, Columns: []string{settings.ColumnReference}})
	assert.NotContains(t, row, cursorSymbol)
	assert.Contains(t, row, "-", "empty cells render a dash")
}

func TestHeaderMatchesRowWidth(t *testing.T) {
	cols := []string{settings.ColumnReference, settings.ColumnTitle, settings.ColumnLocation}
	header := Header(cols, 100)
	row := Row(RowState{Property: domain.Property{}, Columns: cols, Width: 100})

	assert.Contains(t, header, "REFERENCE")
	assert.Contains(t, header, "AGE")
	assert.Equal(t, lipgloss.Width(row), lipgloss.Width(header))
}

func TestTitleNeverShrinksBelowMinimum(t *testing.T) {
	cols := fitColumns([]string{settings.ColumnTitle}, 10)
	assert.Equal(t, minTitleWidth, cols[0].Width)
}

func TestFooter(t *testing.T) {
	tests := []struct {
		name     string
		state    FooterState
		contains []string
	}{
		{
			name:     "browse",
			state:    FooterState{Loaded: 10, Total: 25, HasMore: true},
			contains: []string{"/: search", "r: retry", "10 of 25", "scroll for more"},
		},
		{
			name:     "search",
			state:    FooterState{SearchMode: true, SearchQuery: "villa"},
			contains: []string{"ESC: cancel", "Search: villa"},
		},
		{
			name:     "loading",
			state:    FooterState{Loaded: 20, Total: 25, Loading: true, HasMore: true},
			contains: []string{"loading more"},
		},
		{
			name:     "done",
			state:    FooterState{Loaded: 25, Total: 25},
			contains: []string{"end of results"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Footer(tt.state)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestTabsShowPinned(t *testing.T) {
	out := Tabs(settings.TabOffPlan, []settings.NavItem{settings.NavDrafts, settings.NavVault})
	assert.Contains(t, out, "Properties")
	assert.Contains(t, out, "Off-plan")
	assert.Contains(t, out, "drafts · vault")

	assert.NotContains(t, Tabs(settings.TabProperties, nil), "★")
}

func TestStatusLine(t *testing.T) {
	assert.Empty(t, StatusLine(errors.Message{}, 40))
	out := StatusLine(errors.Message{Text: "Cannot reach the server, check your connection", Type: errors.MessageTypeError}, 20)
	assert.Equal(t, 20, lipgloss.Width(out))
}

func TestSteps(t *testing.T) {
	out := Steps([]string{"Category", "Purpose", "NOC", "Details"}, 2)
	assert.Contains(t, out, "✓ Category")
	assert.Contains(t, out, "✓ Purpose")
	assert.Contains(t, out, "3 NOC")
	assert.Contains(t, out, "4 Details")
}
