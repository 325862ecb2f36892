package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Filter holds filter criteria for listings. Zero values mean "no
// filter"; range bounds are pointers so zero can be an explicit bound.
type Filter struct {
	Category      Category
	Purpose       Purpose
	Location      string
	Reference     string
	PermitNumber  string
	Status        string
	AgentIDs      []string
	PropertyTypes []string
	MinPrice      *float64
	MaxPrice      *float64
	MinArea       *float64
	MaxArea       *float64
}

// FilterOptions holds filter parameters as they arrive from flags or
// settings files, before parsing.
type FilterOptions struct {
	Category      string
	Purpose       string
	Location      string
	Reference     string
	PermitNumber  string
	Status        string
	AgentIDs      []string
	PropertyTypes []string
	MinPrice      string
	MaxPrice      string
	MinArea       string
	MaxArea       string
}

// ToFilter converts FilterOptions to a validated Filter.
func (fo FilterOptions) ToFilter() (Filter, error) {
	var f Filter
	var err error

	if fo.Category != "" {
		if f.Category, err = ParseCategory(fo.Category); err != nil {
			return Filter{}, err
		}
	}
	if fo.Purpose != "" {
		if f.Purpose, err = ParsePurpose(fo.Purpose); err != nil {
			return Filter{}, err
		}
	}
	f.Location = strings.TrimSpace(fo.Location)
	f.Reference = strings.TrimSpace(fo.Reference)
	f.PermitNumber = strings.TrimSpace(fo.PermitNumber)
	f.Status = strings.ToUpper(strings.TrimSpace(fo.Status))
	f.AgentIDs = fo.AgentIDs
	f.PropertyTypes = fo.PropertyTypes

	bounds := []struct {
		name string
		raw  string
		dst  **float64
	}{
		{"min price", fo.MinPrice, &f.MinPrice},
		{"max price", fo.MaxPrice, &f.MaxPrice},
		{"min area", fo.MinArea, &f.MinArea},
		{"max area", fo.MaxArea, &f.MaxArea},
	}
	for _, b := range bounds {
		if strings.TrimSpace(b.raw) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(b.raw), 64)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid %s: %s", b.name, b.raw)
		}
		*b.dst = &v
	}

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Validate rejects unknown enum values, negative bounds and inverted ranges.
func (f Filter) Validate() error {
	if f.Category != "" && !f.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", f.Category)
	}
	if f.Purpose != "" && !f.Purpose.IsValid() {
		return fmt.Errorf("invalid purpose: %s", f.Purpose)
	}
	if f.Status != "" && !validStatuses[f.Status] {
		return fmt.Errorf("invalid status: %s", f.Status)
	}
	if err := validateRange("price", f.MinPrice, f.MaxPrice); err != nil {
		return err
	}
	return validateRange("area", f.MinArea, f.MaxArea)
}

func validateRange(name string, lo, hi *float64) error {
	if lo != nil && *lo < 0 {
		return fmt.Errorf("invalid min %s: must not be negative", name)
	}
	if hi != nil && *hi < 0 {
		return fmt.Errorf("invalid max %s: must not be negative", name)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("invalid %s range: min %g is greater than max %g", name, *lo, *hi)
	}
	return nil
}

// Normalize trims, drops blanks from and sorts the slice filters so
// that equivalent filters compare and fingerprint equal.
func (f Filter) Normalize() Filter {
	f.AgentIDs = normalizeList(f.AgentIDs)
	f.PropertyTypes = normalizeList(f.PropertyTypes)
	return f
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// IsEmpty returns true if the filter has no criteria set.
func (f Filter) IsEmpty() bool {
	return f.Category == "" &&
		f.Purpose == "" &&
		f.Location == "" &&
		f.Reference == "" &&
		f.PermitNumber == "" &&
		f.Status == "" &&
		len(normalizeList(f.AgentIDs)) == 0 &&
		len(normalizeList(f.PropertyTypes)) == 0 &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.MinArea == nil && f.MaxArea == nil
}

// Matches reports whether p satisfies every criterion in f.
func (f Filter) Matches(p Property) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Purpose != "" && p.Purpose != f.Purpose {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.Reference != "" && !strings.EqualFold(p.Reference, f.Reference) {
		return false
	}
	if f.PermitNumber != "" && p.PermitNumber != f.PermitNumber {
		return false
	}
	if f.Status != "" && !strings.EqualFold(p.Status, f.Status) {
		return false
	}
	if len(f.AgentIDs) > 0 && !contains(f.AgentIDs, p.AgentID) {
		return false
	}
	if len(f.PropertyTypes) > 0 && !contains(f.PropertyTypes, p.PropertyType) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinArea != nil && p.Area < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && p.Area > *f.MaxArea {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// FilterProperties returns the properties matching filter, in order.
func FilterProperties(props []Property, filter Filter) []Property {
	if filter.IsEmpty() {
		return props
	}
	result := make([]Property, 0, len(props))
	for _, p := range props {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// Float returns a pointer to v. Handy for building range filters.
func Float(v float64) *float64 {
	return &v
}
