package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortByField specifies which field listings are sorted by.
type SortByField string

const (
	SortByCreatedAt SortByField = "createdAt"
	SortByUpdatedAt SortByField = "updatedAt"
	SortByPrice     SortByField = "price"
	SortByArea      SortByField = "area"
	SortByTitle     SortByField = "propertyTitle"
	SortByReference SortByField = "reference"
)

// IsValid checks if the sort by field is valid.
func (s SortByField) IsValid() bool {
	switch s {
	case SortByCreatedAt, SortByUpdatedAt, SortByPrice, SortByArea, SortByTitle, SortByReference:
		return true
	default:
		return false
	}
}

// String returns the string representation of the sort by field.
func (s SortByField) String() string {
	return string(s)
}

// SortOrder specifies the sort direction.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// IsValid checks if the sort order is valid.
func (s SortOrder) IsValid() bool {
	return s == SortOrderAsc || s == SortOrderDesc
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// Toggle returns the opposite order.
func (s SortOrder) Toggle() SortOrder {
	if s == SortOrderAsc {
		return SortOrderDesc
	}
	return SortOrderAsc
}

// SortOptions is the sort key/direction pair of a listing query.
type SortOptions struct {
	Field SortByField
	Order SortOrder
}

// DefaultSort is newest first.
func DefaultSort() SortOptions {
	return SortOptions{Field: SortByCreatedAt, Order: SortOrderDesc}
}

// ParseSortOptions validates raw field/order strings. Empty values take
// the defaults.
func ParseSortOptions(field, order string) (SortOptions, error) {
	opts := DefaultSort()
	if field != "" {
		opts.Field = SortByField(field)
		if !opts.Field.IsValid() {
			return SortOptions{}, fmt.Errorf("invalid sort field: %s", field)
		}
	}
	if order != "" {
		opts.Order = SortOrder(strings.ToLower(order))
		if !opts.Order.IsValid() {
			return SortOptions{}, fmt.Errorf("invalid sort order: %s", order)
		}
	}
	return opts, nil
}

// normalizeSortOptions replaces invalid values with the defaults.
func normalizeSortOptions(opts SortOptions) SortOptions {
	def := DefaultSort()
	if !opts.Field.IsValid() {
		opts.Field = def.Field
	}
	if !opts.Order.IsValid() {
		opts.Order = def.Order
	}
	return opts
}

// SortProperties returns a sorted copy of props. Ties keep input order.
func SortProperties(props []Property, opts SortOptions) []Property {
	if len(props) == 0 {
		return props
	}
	opts = normalizeSortOptions(opts)

	sorted := make([]Property, len(props))
	copy(sorted, props)

	sort.SliceStable(sorted, func(i, j int) bool {
		c := compareByField(sorted[i], sorted[j], opts.Field)
		if opts.Order == SortOrderDesc {
			return c > 0
		}
		return c < 0
	})
	return sorted
}

func compareByField(a, b Property, field SortByField) int {
	switch field {
	case SortByPrice:
		return compareFloat(a.Price, b.Price)
	case SortByArea:
		return compareFloat(a.Area, b.Area)
	case SortByTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortByReference:
		return strings.Compare(a.Reference, b.Reference)
	case SortByUpdatedAt:
		return strings.Compare(a.UpdatedAt, b.UpdatedAt)
	default:
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
