package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/settings"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// HeaderStyle renders the header and separator rows.
	HeaderStyle lipgloss.Style
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders: true,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Blue)),
	}
}

// TableColumn represents a column in a table.
type TableColumn[T any] struct {
	// Name is the column name displayed in the header.
	Name string

	// Width is the column width in characters.
	Width int

	// Alignment is "left" (default) or "right".
	Alignment string

	// Extractor extracts the cell value from a record.
	Extractor func(T) string
}

var propertyColumns = map[string]TableColumn[domain.Property]{
	settings.ColumnReference: {Name: "Reference", Width: 12, Extractor: func(p domain.Property) string { return p.Reference }},
	settings.ColumnTitle:     {Name: "Title", Width: 32, Extractor: func(p domain.Property) string { return p.Title }},
	settings.ColumnCategory:  {Name: "Category", Width: 11, Extractor: func(p domain.Property) string { return p.Category.String() }},
	settings.ColumnPurpose:   {Name: "Purpose", Width: 7, Extractor: func(p domain.Property) string { return p.Purpose.String() }},
	settings.ColumnType:      {Name: "Type", Width: 12, Extractor: func(p domain.Property) string { return p.PropertyType }},
	settings.ColumnLocation:  {Name: "Location", Width: 20, Extractor: func(p domain.Property) string { return p.Location }},
	settings.ColumnPrice:     {Name: "Price", Width: 13, Alignment: "right", Extractor: func(p domain.Property) string { return Price(p.Price) }},
	settings.ColumnArea:      {Name: "Area", Width: 12, Alignment: "right", Extractor: func(p domain.Property) string { return Area(p.Area) }},
	settings.ColumnStatus:    {Name: "Status", Width: 9, Extractor: func(p domain.Property) string { return p.Status }},
	settings.ColumnUpdated:   {Name: "Updated", Width: 20, Extractor: func(p domain.Property) string { return p.UpdatedAt }},
}

// PropertyColumns resolves column names, skipping unknown ones. An empty
// list yields the default columns.
func PropertyColumns(names []string) []TableColumn[domain.Property] {
	if len(names) == 0 {
		names = settings.DefaultColumns
	}
	cols := make([]TableColumn[domain.Property], 0, len(names))
	for _, name := range names {
		if col, ok := propertyColumns[name]; ok {
			cols = append(cols, col)
		}
	}
	return cols
}

var (
	draftColumns = []TableColumn[domain.Draft]{
		{Name: "ID", Width: 36, Extractor: func(d domain.Draft) string { return d.ID }},
		{Name: "Updated", Width: 25, Extractor: func(d domain.Draft) string { return d.UpdatedAt }},
		{Name: "Title", Width: 40, Extractor: func(d domain.Draft) string { return d.Title() }},
		{Name: "Category", Width: 11, Extractor: func(d domain.Draft) string { return draftField(d, "category") }},
	}
	passwordColumns = []TableColumn[domain.PasswordEntry]{
		{Name: "ID", Width: 36, Extractor: func(e domain.PasswordEntry) string { return e.ID }},
		{Name: "Title", Width: 24, Extractor: func(e domain.PasswordEntry) string { return e.Title }},
		{Name: "Username", Width: 20, Extractor: func(e domain.PasswordEntry) string { return e.Username }},
		{Name: "Password", Width: 20, Extractor: func(e domain.PasswordEntry) string { return e.Password }},
		{Name: "URL", Width: 30, Extractor: func(e domain.PasswordEntry) string { return e.URL }},
	}
	watermarkColumns = []TableColumn[domain.Watermark]{
		{Name: "ID", Width: 36, Extractor: func(w domain.Watermark) string { return w.ID }},
		{Name: "Name", Width: 24, Extractor: func(w domain.Watermark) string { return w.Name }},
		{Name: "Position", Width: 14, Extractor: func(w domain.Watermark) string { return w.Position }},
		{Name: "Opacity", Width: 7, Alignment: "right", Extractor: func(w domain.Watermark) string {
			if w.Opacity == 0 {
				return "-"
			}
			return fmt.Sprintf("%.2f", w.Opacity)
		}},
	}
)

func draftField(d domain.Draft, key string) string {
	s, _ := d.Data[key].(string)
	return s
}

// TableFormatter prints aligned columns with a header.
type TableFormatter struct {
	config  *TableConfig
	columns []string
}

// NewTableFormatter creates a table formatter. columns selects and
// orders the property columns.
func NewTableFormatter(columns []string) *TableFormatter {
	return &TableFormatter{config: DefaultTableConfig(), columns: columns}
}

func (f *TableFormatter) FormatProperties(props []domain.Property, writer io.Writer) error {
	return writeTable(f.config, PropertyColumns(f.columns), props, writer)
}

func (f *TableFormatter) FormatDrafts(drafts []domain.Draft, writer io.Writer) error {
	return writeTable(f.config, draftColumns, drafts, writer)
}

func (f *TableFormatter) FormatPasswords(entries []domain.PasswordEntry, writer io.Writer) error {
	return writeTable(f.config, passwordColumns, entries, writer)
}

func (f *TableFormatter) FormatWatermarks(items []domain.Watermark, writer io.Writer) error {
	return writeTable(f.config, watermarkColumns, items, writer)
}

func writeTable[T any](config *TableConfig, columns []TableColumn[T], rows []T, writer io.Writer) error {
	if len(rows) == 0 || len(columns) == 0 {
		return nil
	}

	if config.ShowHeaders {
		headers := make([]string, len(columns))
		separators := make([]string, len(columns))
		for i, col := range columns {
			headers[i] = formatString(col.Name, col.Width, "left")
			separators[i] = strings.Repeat("-", col.Width)
		}
		if _, err := fmt.Fprintln(writer, config.HeaderStyle.Render(strings.Join(headers, "  "))); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(writer, config.HeaderStyle.Render(strings.Join(separators, "  "))); err != nil {
			return err
		}
	}

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			value := orDash(col.Extractor(row))
			cells[i] = formatString(truncate(value, col.Width), col.Width, col.Alignment)
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}

// formatString pads s to width using display width.
func formatString(s string, width int, alignment string) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	pad := strings.Repeat(" ", width-w)
	if alignment == "right" {
		return pad + s
	}
	return s + pad
}
