package settings

import "strings"

// Tab identifies the listing shown by the browse view.
type Tab string

const (
	// TabProperties shows the main property listing.
	TabProperties Tab = "properties"

	// TabOffPlan shows off-plan projects.
	TabOffPlan Tab = "off-plan"
)

// IsValid returns whether the tab is one of the supported values.
func (t Tab) IsValid() bool {
	switch t {
	case TabProperties, TabOffPlan:
		return true
	default:
		return false
	}
}

// Toggle switches between the two listings.
func (t Tab) Toggle() Tab {
	if t == TabOffPlan {
		return TabProperties
	}
	return TabOffPlan
}

// DefaultTab returns the default tab used when value is missing or invalid.
func DefaultTab() Tab {
	return TabProperties
}

// NormalizeTab converts arbitrary persisted input to a valid tab value.
// Missing or invalid values always resolve to the default tab.
func NormalizeTab(raw string) Tab {
	tab := Tab(strings.ToLower(strings.TrimSpace(raw)))
	if tab.IsValid() {
		return tab
	}

	return DefaultTab()
}

// NavItem is a navigation destination that can be pinned.
type NavItem string

const (
	NavProperties NavItem = "properties"
	NavOffPlan    NavItem = "off-plan"
	NavDrafts     NavItem = "drafts"
	NavCreate     NavItem = "create"
	NavVault      NavItem = "vault"
	NavWatermarks NavItem = "watermarks"
	NavSettings   NavItem = "settings"
)

// NavItems lists every destination in menu order.
var NavItems = []NavItem{
	NavProperties,
	NavOffPlan,
	NavDrafts,
	NavCreate,
	NavVault,
	NavWatermarks,
	NavSettings,
}

// IsValid reports whether n is a known destination.
func (n NavItem) IsValid() bool {
	for _, item := range NavItems {
		if n == item {
			return true
		}
	}
	return false
}

// ParseNavItem parses a destination name case-insensitively.
func ParseNavItem(raw string) (NavItem, bool) {
	item := NavItem(strings.ToLower(strings.TrimSpace(raw)))
	return item, item.IsValid()
}
