package state

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/settings"
)

// sortCycle is the order the s key steps through.
var sortCycle = []domain.SortByField{
	domain.SortByCreatedAt,
	domain.SortByPrice,
	domain.SortByArea,
	domain.SortByTitle,
	domain.SortByReference,
	domain.SortByUpdatedAt,
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.uiState.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFilter:
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.Close()
		return m, tea.Quit
	case "j", "down":
		return m, m.moveCursor(1)
	case "k", "up":
		return m, m.moveCursor(-1)
	case "pgdown", "ctrl+d":
		return m, m.moveCursor(max(1, m.uiState.viewport.Height))
	case "pgup", "ctrl+u":
		return m, m.moveCursor(-max(1, m.uiState.viewport.Height))
	case "g", "home":
		return m, m.moveCursor(-m.uiState.Cursor())
	case "G", "end":
		return m, m.moveCursor(len(m.items()))
	case "/":
		m.uiState.openSearch(m.query.Search)
		return m, nil
	case "f":
		m.uiState.openFilters(filterFormValues(m.filters))
		return m, nil
	case "x":
		m.filters = settings.Filter{}
		q := m.query
		q.Search = ""
		q.Filter = domain.Filter{}
		return m, m.applyQuery(q)
	case "s":
		return m, m.applyQuery(m.query.WithSort(domain.SortOptions{
			Field: nextSortField(m.query.Sort.Field),
			Order: m.query.Sort.Order,
		}))
	case "o":
		return m, m.applyQuery(m.query.WithSort(domain.SortOptions{
			Field: m.query.Sort.Field,
			Order: m.query.Sort.Order.Toggle(),
		}))
	case "t":
		return m, m.switchTab(m.tab.Toggle())
	case "P":
		m.togglePin()
		return m, nil
	case "r":
		return m, m.retry()
	case "enter":
		items := m.items()
		if len(items) == 0 {
			return m, nil
		}
		chosen := items[m.uiState.Cursor()]
		m.chosen = &chosen
		m.Close()
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		m.uiState.closeInputs()
		return m, nil
	case tea.KeyEnter:
		text := m.uiState.search.Value()
		m.uiState.closeInputs()
		return m, m.applyQuery(m.query.WithSearch(text))
	}
	var cmd tea.Cmd
	m.uiState.search, cmd = m.uiState.search.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.Close()
		return m, tea.Quit
	case tea.KeyEsc:
		m.uiState.closeInputs()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.uiState.focusNextFilter(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.uiState.focusNextFilter(-1)
		return m, nil
	case tea.KeyEnter:
		f := filterFromForm(m.uiState.filterValues())
		filter, err := f.Options().ToFilter()
		if err != nil {
			m.errorHandler.Warning("Invalid filter: " + err.Error())
			return m, clearStatusAfter(errorClearDuration)
		}
		m.filters = f
		m.uiState.closeInputs()
		return m, m.applyQuery(m.query.WithFilter(filter))
	}
	var cmd tea.Cmd
	i := m.uiState.filterFocus
	m.uiState.filters[i], cmd = m.uiState.filters[i].Update(msg)
	return m, cmd
}

// moveCursor moves by delta, scrolls and lets the sentinel fire.
func (m *Model) moveCursor(delta int) tea.Cmd {
	n := len(m.items())
	m.uiState.MoveCursor(delta, n)
	m.updateViewportContent()
	return m.maybeLoadMore()
}

// switchTab shows another listing. Each tab keeps its own pages; the
// current query is applied to the new tab.
func (m *Model) switchTab(tab settings.Tab) tea.Cmd {
	if _, ok := m.sources[tab]; !ok || tab == m.tab {
		return nil
	}
	m.tab = tab
	m.uiState.ResetCursor()
	m.current()
	m.updateViewportContent()
	m.persist()
	return m.maybeLoadMore()
}

func (m *Model) togglePin() {
	item := settings.NavProperties
	if m.tab == settings.TabOffPlan {
		item = settings.NavOffPlan
	}
	var err error
	if m.store.IsPinned(item) {
		err = m.store.Unpin(item)
	} else {
		err = m.store.Pin(item)
	}
	if err != nil {
		m.errorHandler.Warning(err.Error())
	}
}

func nextSortField(current domain.SortByField) domain.SortByField {
	for i, f := range sortCycle {
		if f == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func filterFormValues(f settings.Filter) [filterFieldCount]string {
	var v [filterFieldCount]string
	v[filterCategory] = f.Category
	v[filterPurpose] = f.Purpose
	v[filterLocation] = f.Location
	v[filterMinPrice] = f.MinPrice
	v[filterMaxPrice] = f.MaxPrice
	return v
}

func filterFromForm(v [filterFieldCount]string) settings.Filter {
	return settings.Filter{
		Category: strings.ToUpper(strings.TrimSpace(v[filterCategory])),
		Purpose:  strings.ToUpper(strings.TrimSpace(v[filterPurpose])),
		Location: strings.TrimSpace(v[filterLocation]),
		MinPrice: strings.TrimSpace(v[filterMinPrice]),
		MaxPrice: strings.TrimSpace(v[filterMaxPrice]),
	}
}
