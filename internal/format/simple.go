package format

import (
	"fmt"
	"io"

	"github.com/propdesk/propdesk/internal/domain"
)

// SimpleFormatter prints one line per record.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatProperties writes reference, title, location and price.
func (f *SimpleFormatter) FormatProperties(props []domain.Property, writer io.Writer) error {
	for _, p := range props {
		_, err := fmt.Fprintf(writer, "%-12s  %-40s  %-20s  %s\n",
			orDash(p.Reference), truncate(orDash(p.Title), 40), truncate(orDash(p.Location), 20), Price(p.Price))
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatDrafts writes id, last update and title.
func (f *SimpleFormatter) FormatDrafts(drafts []domain.Draft, writer io.Writer) error {
	for _, d := range drafts {
		title := d.Title()
		if title == "" {
			title = "(untitled)"
		}
		if _, err := fmt.Fprintf(writer, "%-36s  %-25s  %s\n", d.ID, orDash(d.UpdatedAt), truncate(title, 50)); err != nil {
			return err
		}
	}
	return nil
}

// FormatPasswords writes the entries as given; callers redact.
func (f *SimpleFormatter) FormatPasswords(entries []domain.PasswordEntry, writer io.Writer) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(writer, "%-36s  %-24s  %-20s  %s\n", e.ID, truncate(e.Title, 24), orDash(e.Username), orDash(e.Password)); err != nil {
			return err
		}
	}
	return nil
}

// FormatWatermarks writes id, name and position.
func (f *SimpleFormatter) FormatWatermarks(items []domain.Watermark, writer io.Writer) error {
	for _, w := range items {
		if _, err := fmt.Fprintf(writer, "%-36s  %-24s  %s\n", w.ID, truncate(w.Name, 24), orDash(w.Position)); err != nil {
			return err
		}
	}
	return nil
}
