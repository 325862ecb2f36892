package state

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// inputMode is what keystrokes are routed to.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeFilter
)

// filter form fields, in tab order.
const (
	filterCategory = iota
	filterPurpose
	filterLocation
	filterMinPrice
	filterMaxPrice
	filterFieldCount
)

var filterLabels = [filterFieldCount]string{
	"Category (RESIDENTIAL, COMMERCIAL, LAND)",
	"Purpose (SALE, RENT)",
	"Location",
	"Min price",
	"Max price",
}

// UIState manages the view-only state of the browse model: viewport,
// cursor and the search and filter inputs.
type UIState struct {
	viewport viewport.Model
	width    int
	height   int

	cursor int

	mode        inputMode
	search      textinput.Model
	filters     [filterFieldCount]textinput.Model
	filterFocus int
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	u := &UIState{
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight-chromeLines),
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
	}
	u.search = textinput.New()
	u.search.Prompt = "/ "
	u.search.Placeholder = "title, reference, location or permit"
	u.search.CharLimit = 120
	for i := range u.filters {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = filterLabels[i]
		in.CharLimit = 64
		u.filters[i] = in
	}
	return u
}

// SetSize updates the dimensions and resizes the viewport.
func (u *UIState) SetSize(width, height int) {
	if width <= 0 {
		width = defaultViewportWidth
	}
	if height <= 0 {
		height = defaultViewportHeight
	}
	u.width = width
	u.height = height
	u.viewport.Width = width
	u.viewport.Height = max(1, height-chromeLines)
	u.search.Width = width - 4
}

// Cursor returns the current cursor position.
func (u *UIState) Cursor() int {
	return u.cursor
}

// MoveCursor moves the cursor by delta within [0, listLen).
func (u *UIState) MoveCursor(delta, listLen int) {
	u.cursor += delta
	u.AdjustCursorBounds(listLen)
}

// AdjustCursorBounds ensures the cursor is within valid bounds.
func (u *UIState) AdjustCursorBounds(listLen int) {
	if listLen == 0 {
		u.cursor = 0
		return
	}
	if u.cursor >= listLen {
		u.cursor = listLen - 1
	}
	if u.cursor < 0 {
		u.cursor = 0
	}
}

// ResetCursor moves the cursor and the viewport back to the top.
func (u *UIState) ResetCursor() {
	u.cursor = 0
	u.viewport.SetYOffset(0)
}

// EnsureCursorVisible scrolls the viewport so the cursor row is shown.
func (u *UIState) EnsureCursorVisible() {
	offset := u.viewport.YOffset
	height := u.viewport.Height
	switch {
	case u.cursor < offset:
		u.viewport.SetYOffset(u.cursor)
	case u.cursor >= offset+height:
		u.viewport.SetYOffset(u.cursor - height + 1)
	}
}

// RowsBelow returns how many loaded rows lie past the bottom of the
// viewport. It is the sentinel distance: zero or less means the end of
// the list is on screen.
func (u *UIState) RowsBelow(listLen int) int {
	lastVisible := u.viewport.YOffset + u.viewport.Height - 1
	lastVisible = max(lastVisible, u.cursor)
	return listLen - 1 - lastVisible
}

// openSearch focuses the search input prefilled with current.
func (u *UIState) openSearch(current string) {
	u.mode = modeSearch
	u.search.SetValue(current)
	u.search.CursorEnd()
	u.search.Focus()
}

// openFilters fills the filter form and focuses its first field.
func (u *UIState) openFilters(values [filterFieldCount]string) {
	u.mode = modeFilter
	for i := range u.filters {
		u.filters[i].SetValue(values[i])
		u.filters[i].Blur()
	}
	u.filterFocus = 0
	u.filters[0].Focus()
}

// focusNextFilter moves focus by delta, wrapping around.
func (u *UIState) focusNextFilter(delta int) {
	u.filters[u.filterFocus].Blur()
	u.filterFocus = (u.filterFocus + delta + filterFieldCount) % filterFieldCount
	u.filters[u.filterFocus].Focus()
}

func (u *UIState) filterValues() [filterFieldCount]string {
	var out [filterFieldCount]string
	for i := range u.filters {
		out[i] = u.filters[i].Value()
	}
	return out
}

// closeInputs returns to browse mode.
func (u *UIState) closeInputs() {
	u.mode = modeBrowse
	u.search.Blur()
	for i := range u.filters {
		u.filters[i].Blur()
	}
}
