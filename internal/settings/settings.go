// Package settings persists browse preferences and pinned navigation
// items as TOML.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/propdesk/propdesk/internal/domain"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644

	FileExtTOML = ".toml"
)

// Column names for the listing table.
const (
	ColumnReference = "reference"
	ColumnTitle     = "propertyTitle"
	ColumnCategory  = "category"
	ColumnPurpose   = "purpose"
	ColumnType      = "propertyType"
	ColumnLocation  = "location"
	ColumnPrice     = "price"
	ColumnArea      = "area"
	ColumnStatus    = "status"
	ColumnUpdated   = "updatedAt"
)

// DefaultColumns is the column order used when none is configured.
var DefaultColumns = []string{
	ColumnReference,
	ColumnTitle,
	ColumnCategory,
	ColumnPurpose,
	ColumnLocation,
	ColumnPrice,
	ColumnStatus,
}

// Filter holds the persisted filter inputs as typed by the user. They go
// through domain.FilterOptions before use.
type Filter struct {
	Category string `toml:"category"`
	Purpose  string `toml:"purpose"`
	Location string `toml:"location"`
	Status   string `toml:"status"`
	MinPrice string `toml:"minPrice"`
	MaxPrice string `toml:"maxPrice"`
	MinArea  string `toml:"minArea"`
	MaxArea  string `toml:"maxArea"`
}

// Options converts the persisted filter to domain filter options.
func (f Filter) Options() domain.FilterOptions {
	return domain.FilterOptions{
		Category: f.Category,
		Purpose:  f.Purpose,
		Location: f.Location,
		Status:   f.Status,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		MinArea:  f.MinArea,
		MaxArea:  f.MaxArea,
	}
}

// IsEmpty reports whether no filter field is set.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Settings holds the user preferences persisted to disk.
//
// Example file:
//
//	columns = ["reference", "propertyTitle", "price"]
//	sortBy = "price"
//	sortOrder = "asc"
//	activeTab = "off-plan"
//	pinned = ["drafts", "vault"]
//
//	[filters]
//	category = "RESIDENTIAL"
//	minPrice = "100000"
//
// Settings are stored at ~/.config/propdesk/settings.toml
type Settings struct {
	// Columns is the listing table column order. Empty means DefaultColumns.
	Columns []string `toml:"columns"`

	SortBy    string `toml:"sortBy"`
	SortOrder string `toml:"sortOrder"`

	Filters Filter `toml:"filters"`

	ActiveTab Tab `toml:"activeTab"`

	// Pinned navigation items, in the order they were pinned.
	Pinned []NavItem `toml:"pinned"`
}

// DefaultSettings returns settings with all default values.
func DefaultSettings() *Settings {
	sort := domain.DefaultSort()
	return &Settings{
		Columns:   append([]string(nil), DefaultColumns...),
		SortBy:    sort.Field.String(),
		SortOrder: sort.Order.String(),
		ActiveTab: DefaultTab(),
		Pinned:    []NavItem{},
	}
}

// Sort returns the persisted sort, falling back to the default for
// values that no longer parse.
func (s *Settings) Sort() domain.SortOptions {
	opts, err := domain.ParseSortOptions(s.SortBy, s.SortOrder)
	if err != nil {
		return domain.DefaultSort()
	}
	return opts
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	out := *s
	out.Columns = append([]string(nil), s.Columns...)
	out.Pinned = append([]NavItem{}, s.Pinned...)
	return &out
}

// LoadFile reads settings from path. A missing file yields defaults.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	settings.ActiveTab = NormalizeTab(string(settings.ActiveTab))
	if settings.Pinned == nil {
		settings.Pinned = []NavItem{}
	}

	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// SaveFile validates settings and writes them to path.
func SaveFile(path string, settings *Settings) error {
	if err := Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
