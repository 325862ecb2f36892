// Package render draws the pieces shared by the browse and wizard views.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/errors"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/propdesk/propdesk/internal/settings"
)

const (
	columnGap     = "  "
	ageWidth      = 5
	minTitleWidth = 12
	cursorSymbol  = "›"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Blue))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color(colors.Blue)).Foreground(lipgloss.Color("0"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Gray))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(colors.Cyan))
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Gray))
	pinnedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Yellow))
)

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	SearchMode  bool
	FilterMode  bool
	SearchQuery string
	Loading     bool
	HasMore     bool
	Loaded      int
	Total       int
}

// RowState defines the inputs needed to render a property row.
type RowState struct {
	Property domain.Property
	Columns  []string
	Width    int
	Selected bool
	Now      time.Time
}

// fitColumns resolves columns and widens or shrinks the title column so
// the row fills width.
func fitColumns(names []string, width int) []format.TableColumn[domain.Property] {
	cols := format.PropertyColumns(names)
	if width <= 0 {
		return cols
	}
	used := utf8.RuneCountInString(cursorSymbol) + 1 + ageWidth
	title := -1
	for i, c := range cols {
		used += c.Width + len(columnGap)
		if c.Name == "Title" {
			title = i
		}
	}
	if title >= 0 {
		cols[title].Width = max(minTitleWidth, cols[title].Width+width-used)
	}
	return cols
}

// Header renders the column header.
func Header(columns []string, width int) string {
	cols := fitColumns(columns, width)
	parts := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		parts = append(parts, pad(strings.ToUpper(c.Name), c.Width, c.Alignment))
	}
	parts = append(parts, pad("AGE", ageWidth, "right"))
	return headerStyle.Render("  " + strings.Join(parts, columnGap))
}

// Row renders a single property row.
func Row(state RowState) string {
	cols := fitColumns(state.Columns, state.Width)
	parts := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		value := c.Extractor(state.Property)
		if value == "" {
			value = "-"
		}
		parts = append(parts, pad(truncate(value, c.Width), c.Width, c.Alignment))
	}
	parts = append(parts, pad(Age(state.Property.UpdatedAt, state.Now), ageWidth, "right"))

	prefix := "  "
	if state.Selected {
		prefix = cursorSymbol + " "
	}
	line := prefix + strings.Join(parts, columnGap)
	if state.Selected {
		return selectedStyle.Render(line)
	}
	return line
}

// Tabs renders the listing tabs followed by the pinned shortcuts.
func Tabs(active settings.Tab, pinned []settings.NavItem) string {
	tabs := []settings.Tab{settings.TabProperties, settings.TabOffPlan}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := tabLabel(t)
		if t == active {
			parts = append(parts, activeTab.Render(label))
		} else {
			parts = append(parts, inactiveTab.Render(label))
		}
	}
	out := strings.Join(parts, "   ")
	if len(pinned) > 0 {
		names := make([]string, len(pinned))
		for i, p := range pinned {
			names[i] = string(p)
		}
		out += "   " + pinnedStyle.Render("★ "+strings.Join(names, " · "))
	}
	return out
}

func tabLabel(t settings.Tab) string {
	if t == settings.TabOffPlan {
		return "Off-plan"
	}
	return "Properties"
}

// Footer renders the footer with help text.
func Footer(state FooterState) string {
	var help []string
	switch {
	case state.SearchMode:
		help = append(help, "ESC: cancel", "Enter: apply", fmt.Sprintf("Search: %s", state.SearchQuery))
	case state.FilterMode:
		help = append(help, "ESC: cancel", "Tab: next field", "Enter: apply")
	default:
		help = append(help, "j/k: move", "/: search", "f: filter", "s: sort", "o: order", "t: tab", "r: retry", "q: quit")
	}
	return helpStyle.Render(strings.Join(help, "  |  ")) + "\n" + helpStyle.Render(Progress(state))
}

// Progress renders "loaded/total" with the loading state.
func Progress(state FooterState) string {
	s := fmt.Sprintf("%d of %d", state.Loaded, state.Total)
	switch {
	case state.Loading:
		s += "  loading more..."
	case state.HasMore:
		s += "  scroll for more"
	case state.Loaded > 0:
		s += "  end of results"
	}
	return s
}

var statusStyles = map[errors.MessageType]lipgloss.Style{
	errors.MessageTypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Red)),
	errors.MessageTypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Yellow)),
	errors.MessageTypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Blue)),
	errors.MessageTypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Green)),
}

// StatusLine renders a handler message.
func StatusLine(msg errors.Message, width int) string {
	if msg.Text == "" {
		return ""
	}
	return statusStyles[msg.Type].Render(truncate(msg.Text, width))
}

// Steps renders the wizard progress, marking done and current steps.
func Steps(labels []string, current int) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		switch {
		case i < current:
			parts[i] = helpStyle.Render("✓ " + label)
		case i == current:
			parts[i] = activeTab.Render(fmt.Sprintf("%d %s", i+1, label))
		default:
			parts[i] = inactiveTab.Render(fmt.Sprintf("%d %s", i+1, label))
		}
	}
	return strings.Join(parts, "  ›  ")
}

// Age renders how long ago an RFC3339 timestamp was.
func Age(timestamp string, now time.Time) string {
	if timestamp == "" {
		return ""
	}

	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ""
	}

	if now.IsZero() {
		now = time.Now()
	}

	duration := now.Sub(t)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	}
	return fmt.Sprintf("%dd", int(duration.Hours()/24))
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width < 4 {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-3]) + "..."
}

func pad(s string, width int, alignment string) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	fill := strings.Repeat(" ", width-w)
	if alignment == "right" {
		return fill + s
	}
	return s + fill
}
