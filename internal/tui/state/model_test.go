package state

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/listing"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pageOf(page, totalPages, total int, ids ...string) domain.Page {
	items := make([]domain.Property, len(ids))
	for i, id := range ids {
		items[i] = domain.Property{ID: id, Reference: "PD-" + id, Title: "Villa " + id}
	}
	return domain.Page{Items: items, Meta: domain.PageMeta{Page: page, TotalPages: totalPages, Total: total}}
}

func itemIDs(items []domain.Property) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func searchIs(text string) any {
	return mock.MatchedBy(func(q domain.Query) bool { return q.Search == text })
}

// newTestModel builds a model with a one-row viewport over two-item pages.
func newTestModel(t *testing.T, sources map[settings.Tab]listing.PageSource, store *settings.Store) *Model {
	t.Helper()
	m := NewModel(Options{Sources: sources, Store: store, PageSize: 2})
	m.uiState.SetSize(80, chromeLines+1)
	t.Cleanup(m.Close)
	return m
}

// deliver runs cmd and feeds its message back into the model.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	return next
}

func TestModelLoadsFirstPage(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 3, 6, "a", "b"), nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)

	next := deliver(t, m, m.maybeLoadMore())

	assert.Nil(t, next, "one visible row leaves a row below, no second fetch")
	assert.Equal(t, []string{"a", "b"}, itemIDs(m.items()))
	assert.Contains(t, m.View(), "2 of 6")
	src.AssertExpectations(t)
}

func TestModelScrollingLoadsNextPageOnce(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 2, 4, "a", "b"), nil).Once()
	src.On("FetchPage", mock.Anything, mock.Anything, 2).Return(pageOf(2, 2, 4, "c", "b"), nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)
	deliver(t, m, m.maybeLoadMore())

	_, cmd := m.Update(key("j"))
	require.NotNil(t, cmd, "cursor at the last row fires the sentinel")
	assert.Nil(t, m.maybeLoadMore(), "no second request while one is in flight")
	assert.True(t, m.loading())

	deliver(t, m, cmd)
	assert.Equal(t, []string{"a", "b", "c"}, itemIDs(m.items()))
	assert.False(t, m.loading())
	assert.Nil(t, m.maybeLoadMore(), "last page reached")
	src.AssertExpectations(t)
}

func TestModelSearchResetsListAndCursor(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, searchIs(""), 1).Return(pageOf(1, 2, 4, "a", "b"), nil)
	src.On("FetchPage", mock.Anything, searchIs("marina"), 1).Return(pageOf(1, 1, 1, "m"), nil).Once()
	store := settings.NewMemoryStore(nil)
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, store)
	deliver(t, m, m.maybeLoadMore())
	m.uiState.MoveCursor(1, 2)

	m.Update(key("/"))
	assert.Equal(t, modeSearch, m.uiState.mode)
	m.uiState.search.SetValue("  marina ")
	_, cmd := m.Update(key("enter"))

	assert.Equal(t, modeBrowse, m.uiState.mode)
	assert.Equal(t, "marina", m.query.Search)
	assert.Equal(t, 0, m.uiState.Cursor())
	assert.Empty(t, m.items())

	deliver(t, m, cmd)
	assert.Equal(t, []string{"m"}, itemIDs(m.items()))
	src.AssertExpectations(t)
}

func TestModelSameSearchKeepsLoadedPages(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 2, 4, "a", "b"), nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)
	deliver(t, m, m.maybeLoadMore())

	cmd := m.applyQuery(m.query.WithSearch("   "))

	assert.Nil(t, cmd)
	assert.Equal(t, []string{"a", "b"}, itemIDs(m.items()))
}

func TestModelDropsStalePage(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, searchIs("marina"), 1).Return(pageOf(1, 1, 1, "m"), nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)

	old := m.maybeLoadMore()
	require.NotNil(t, old)
	oldTicket := m.current().feed.Ticket()

	cmd := m.applyQuery(m.query.WithSearch("marina"))
	deliver(t, m, cmd)

	m.Update(PageLoadedMsg{Tab: settings.TabProperties, Ticket: oldTicket, Page: pageOf(1, 3, 6, "a", "b")})
	assert.Equal(t, []string{"m"}, itemIDs(m.items()))

	// the superseded request never reaches the source
	deliver(t, m, old)
	assert.Equal(t, []string{"m"}, itemIDs(m.items()))
	assert.Empty(t, m.status.Text)
	src.AssertExpectations(t)
}

func TestModelIgnoresPagesAfterClose(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 1, 2, "a", "b"), nil).Maybe()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)

	cmd := m.maybeLoadMore()
	require.NotNil(t, cmd)
	ticket := m.current().feed.Ticket()
	m.Close()

	_, next := m.Update(PageLoadedMsg{Tab: settings.TabProperties, Ticket: ticket, Page: pageOf(1, 1, 2, "a", "b")})
	assert.Nil(t, next)
	assert.Empty(t, m.items())
	assert.Zero(t, m.current().feed.Pages())
	assert.Empty(t, m.status.Text)
}

func TestModelFailureShowsStatusAndRetry(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(domain.Page{}, errors.New("boom")).Once()
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 1, 2, "a", "b"), nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)

	next := deliver(t, m, m.maybeLoadMore())

	assert.NotNil(t, next, "status clear is scheduled")
	assert.Contains(t, m.status.Text, "boom")
	assert.Contains(t, m.status.Text, "r: retry")
	assert.Nil(t, m.maybeLoadMore(), "no automatic refetch after a failure")

	_, cmd := m.Update(key("r"))
	assert.Empty(t, m.status.Text)
	deliver(t, m, cmd)
	assert.Equal(t, []string{"a", "b"}, itemIDs(m.items()))
	src.AssertExpectations(t)
}

func TestModelToggleTabPersists(t *testing.T) {
	props := new(api.MockListing)
	props.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 1, 1, "p"), nil).Once()
	offPlan := new(api.MockListing)
	offPlan.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 1, 1, "o"), nil).Once()
	store := settings.NewMemoryStore(nil)
	m := newTestModel(t, map[settings.Tab]listing.PageSource{
		settings.TabProperties: props,
		settings.TabOffPlan:    offPlan,
	}, store)
	deliver(t, m, m.maybeLoadMore())

	_, cmd := m.Update(key("t"))
	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(PageLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, settings.TabOffPlan, loaded.Tab)
	m.Update(msg)

	assert.Equal(t, settings.TabOffPlan, store.Browse().Tab)
	assert.Equal(t, []string{"o"}, itemIDs(m.items()))

	// switching back shows the pages already loaded for that tab
	_, cmd = m.Update(key("t"))
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"p"}, itemIDs(m.items()))
}

func TestModelToggleTabWithoutSourceIsNoop(t *testing.T) {
	src := new(api.MockListing)
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)

	_, cmd := m.Update(key("t"))

	assert.Nil(t, cmd)
	assert.Equal(t, settings.TabProperties, m.tab)
}

func TestModelSortKeysPersist(t *testing.T) {
	src := new(api.MockListing)
	store := settings.NewMemoryStore(nil)
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, store)

	m.Update(key("s"))
	assert.Equal(t, domain.SortByPrice, store.Browse().Sort.Field)

	m.Update(key("o"))
	assert.Equal(t, domain.SortOrderAsc, store.Browse().Sort.Order)
}

func TestNextSortFieldWraps(t *testing.T) {
	assert.Equal(t, domain.SortByCreatedAt, nextSortField(domain.SortByUpdatedAt))
	assert.Equal(t, domain.SortByCreatedAt, nextSortField("bogus"))
}

func TestModelFilterForm(t *testing.T) {
	src := new(api.MockListing)
	store := settings.NewMemoryStore(nil)
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, store)

	m.Update(key("f"))
	require.Equal(t, modeFilter, m.uiState.mode)
	m.uiState.filters[filterCategory].SetValue("residential")
	m.uiState.filters[filterMinPrice].SetValue("abc")

	m.Update(key("enter"))
	assert.Equal(t, modeFilter, m.uiState.mode, "invalid input keeps the form open")
	assert.Contains(t, m.status.Text, "min price")

	m.uiState.filters[filterMinPrice].SetValue("500000")
	m.Update(key("enter"))

	assert.Equal(t, modeBrowse, m.uiState.mode)
	assert.Equal(t, domain.CategoryResidential, m.query.Filter.Category)
	require.NotNil(t, m.query.Filter.MinPrice)
	assert.Equal(t, 500000.0, *m.query.Filter.MinPrice)
	assert.Equal(t, "RESIDENTIAL", store.Browse().Filters.Category)
}

func TestModelPinCurrentTab(t *testing.T) {
	store := settings.NewMemoryStore(nil)
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: new(api.MockListing)}, store)

	m.Update(key("P"))
	assert.True(t, store.IsPinned(settings.NavProperties))

	m.Update(key("P"))
	assert.False(t, store.IsPinned(settings.NavProperties))
}

func TestModelEnterChoosesProperty(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(pageOf(1, 1, 2, "a", "b"), nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)
	deliver(t, m, m.maybeLoadMore())

	m.Update(key("j"))
	_, cmd := m.Update(key("enter"))

	require.NotNil(t, cmd)
	chosen, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "b", chosen.ID)
}

func TestModelViewEmpty(t *testing.T) {
	src := new(api.MockListing)
	src.On("FetchPage", mock.Anything, mock.Anything, 1).Return(domain.Page{Meta: domain.PageMeta{Page: 1, TotalPages: 1}}, nil).Once()
	m := newTestModel(t, map[settings.Tab]listing.PageSource{settings.TabProperties: src}, nil)
	deliver(t, m, m.maybeLoadMore())

	view := m.View()
	assert.Contains(t, view, "No properties found")
	assert.Contains(t, view, "Properties")
}
