package settings

import (
	"fmt"

	"github.com/propdesk/propdesk/internal/domain"
)

// MaxPinned caps the number of pinned navigation items.
const MaxPinned = 5

// Validate checks that settings values are valid.
// Preconditions: settings must be non-nil.
func Validate(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	if err := validateColumns(settings.Columns); err != nil {
		return err
	}
	if err := validateSort(settings.SortBy, settings.SortOrder); err != nil {
		return err
	}
	if settings.ActiveTab != "" && !settings.ActiveTab.IsValid() {
		return fmt.Errorf("invalid activeTab value: %s", settings.ActiveTab)
	}
	if err := validatePinned(settings.Pinned); err != nil {
		return err
	}
	if _, err := settings.Filters.Options().ToFilter(); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}

	return nil
}

func validateColumns(columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	validColumns := map[string]bool{
		ColumnReference: true, ColumnTitle: true, ColumnCategory: true,
		ColumnPurpose: true, ColumnType: true, ColumnLocation: true,
		ColumnPrice: true, ColumnArea: true, ColumnStatus: true,
		ColumnUpdated: true,
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if !validColumns[col] {
			return fmt.Errorf("invalid column name: %s", col)
		}
		if seen[col] {
			return fmt.Errorf("duplicate column name: %s", col)
		}
		seen[col] = true
	}
	return nil
}

func validateSort(sortBy, order string) error {
	if sortBy != "" && !domain.SortByField(sortBy).IsValid() {
		return fmt.Errorf("invalid sortBy value: %s", sortBy)
	}
	if order != "" && !domain.SortOrder(order).IsValid() {
		return fmt.Errorf("invalid sortOrder value: %s", order)
	}
	return nil
}

func validatePinned(items []NavItem) error {
	if len(items) > MaxPinned {
		return fmt.Errorf("too many pinned items: %d (max %d)", len(items), MaxPinned)
	}
	seen := make(map[NavItem]bool, len(items))
	for _, item := range items {
		if !item.IsValid() {
			return fmt.Errorf("invalid pinned item: %s", item)
		}
		if seen[item] {
			return fmt.Errorf("duplicate pinned item: %s", item)
		}
		seen[item] = true
	}
	return nil
}
