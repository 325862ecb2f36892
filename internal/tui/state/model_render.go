package state

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/tui/render"
)

var (
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Gray)).Italic(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Gray))
)

// View renders the model.
func (m *Model) View() string {
	var b strings.Builder
	width := m.uiState.width

	b.WriteString(render.Tabs(m.tab, m.store.Pinned()))
	b.WriteString("\n")
	b.WriteString(render.Header(m.columns, width))
	b.WriteString("\n")
	b.WriteString(m.uiState.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.inputLine())
	b.WriteString("\n")
	b.WriteString(render.StatusLine(m.status, width))
	b.WriteString("\n")

	tf := m.current()
	footer := render.Footer(render.FooterState{
		SearchMode:  m.uiState.mode == modeSearch,
		FilterMode:  m.uiState.mode == modeFilter,
		SearchQuery: m.uiState.search.Value(),
		Loading:     m.loading(),
		HasMore:     tf.feed.HasMore(),
		Loaded:      tf.feed.Len(),
		Total:       tf.feed.TotalCount(),
	})
	if m.loading() {
		footer += " " + m.spinner.View()
	}
	b.WriteString(footer)
	return b.String()
}

// inputLine is the search box, the focused filter field or a summary of
// the active query.
func (m *Model) inputLine() string {
	switch m.uiState.mode {
	case modeSearch:
		return m.uiState.search.View()
	case modeFilter:
		i := m.uiState.filterFocus
		return labelStyle.Render(filterLabels[i]+": ") + m.uiState.filters[i].View()
	}
	var parts []string
	if m.query.Search != "" {
		parts = append(parts, "search: "+m.query.Search)
	}
	if !m.filters.IsEmpty() {
		parts = append(parts, "filtered")
	}
	parts = append(parts, "sort: "+m.query.Sort.Field.String()+" "+m.query.Sort.Order.String())
	return labelStyle.Render(strings.Join(parts, "  "))
}

// updateViewportContent redraws the rows of the active tab and keeps the
// cursor on screen.
func (m *Model) updateViewportContent() {
	items := m.items()
	m.uiState.AdjustCursorBounds(len(items))

	if len(items) == 0 {
		text := "No properties found"
		if m.loading() {
			text = "Loading..."
		}
		m.uiState.viewport.SetContent(emptyStyle.Render(text))
		return
	}

	now := time.Now()
	rows := make([]string, len(items))
	for i, p := range items {
		rows[i] = render.Row(render.RowState{
			Property: p,
			Columns:  m.columns,
			Width:    m.uiState.width,
			Selected: i == m.uiState.Cursor(),
			Now:      now,
		})
	}
	m.uiState.viewport.SetContent(strings.Join(rows, "\n"))
	m.uiState.EnsureCursorVisible()
}
