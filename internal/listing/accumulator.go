// Package listing implements infinite-scroll pagination over a paged
// listing endpoint: the page accumulator, the query-keyed feed with its
// stale-response guard, and the load-more sentinel.
package listing

import "github.com/propdesk/propdesk/internal/domain"

// Accumulator merges fetched pages into one de-duplicated list.
// An id keeps the position of its first appearance and the data of its
// last appearance.
type Accumulator struct {
	items []domain.Property
	index map[string]int

	pages      int
	lastPage   int
	totalPages int
	total      int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{index: make(map[string]int)}
}

// AppendPage adds page's items, replacing earlier copies of the same id
// in place.
func (a *Accumulator) AppendPage(page domain.Page) {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	for _, item := range page.Items {
		if i, ok := a.index[item.ID]; ok {
			a.items[i] = item
			continue
		}
		a.index[item.ID] = len(a.items)
		a.items = append(a.items, item)
	}

	// total comes from the first page only
	if a.pages == 0 {
		a.total = page.Meta.Total
	}
	a.pages++

	// a server that omits or repeats meta.page must not stall paging
	next := page.Meta.Page
	if next <= a.lastPage {
		next = a.lastPage + 1
	}
	a.lastPage = next
	a.totalPages = page.Meta.TotalPages
}

// Items returns a copy of the accumulated list.
func (a *Accumulator) Items() []domain.Property {
	out := make([]domain.Property, len(a.items))
	copy(out, a.items)
	return out
}

// Len returns the number of unique items.
func (a *Accumulator) Len() int {
	return len(a.items)
}

// HasMore reports whether another page exists according to the most
// recent page. It is true before the first page.
func (a *Accumulator) HasMore() bool {
	if a.pages == 0 {
		return true
	}
	return a.lastPage < a.totalPages
}

// TotalCount returns the total reported by the first page.
func (a *Accumulator) TotalCount() int {
	return a.total
}

// Pages returns how many pages have been appended.
func (a *Accumulator) Pages() int {
	return a.pages
}

// NextPage returns the page number to fetch next.
func (a *Accumulator) NextPage() int {
	return a.lastPage + 1
}

// Reset discards everything.
func (a *Accumulator) Reset() {
	a.items = nil
	a.index = make(map[string]int)
	a.pages = 0
	a.lastPage = 0
	a.totalPages = 0
	a.total = 0
}
