package state

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/errors"
	"github.com/propdesk/propdesk/internal/listing"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/settings"
)

const (
	// chromeLines is everything around the viewport: tabs, header,
	// input line, status line and two footer lines.
	chromeLines           = 6
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	errorClearDuration    = 5 * time.Second
)

// Options configures a browse model.
type Options struct {
	// Sources maps each tab to its listing endpoint.
	Sources  map[settings.Tab]listing.PageSource
	Store    *settings.Store
	Lead     int
	PageSize int
	Logger   logging.Logger
}

// tabFeed is the listing state of one tab.
type tabFeed struct {
	feed     *listing.Feed
	sentinel *listing.Sentinel
	lastErr  error
}

// Model is the browse view.
type Model struct {
	uiState      *UIState
	errorHandler *errors.TUIHandler
	status       errors.Message
	spinner      spinner.Model

	store    *settings.Store
	sources  map[settings.Tab]listing.PageSource
	feeds    map[settings.Tab]*tabFeed
	tab      settings.Tab
	query    domain.Query
	filters  settings.Filter
	columns  []string
	lead     int
	pageSize int
	logger   logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	chosen *domain.Property
}

// NewModel creates the browse model. The initial tab, sort and filters
// come from the settings store.
func NewModel(opts Options) *Model {
	store := opts.Store
	if store == nil {
		store = settings.NewMemoryStore(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	browse := store.Browse()
	filter, err := browse.Filters.Options().ToFilter()
	if err != nil {
		filter = domain.Filter{}
		browse.Filters = settings.Filter{}
	}
	q := domain.NewQuery("", filter, browse.Sort)
	q.PageSize = pageSize

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		uiState:  NewUIState(),
		spinner:  sp,
		store:    store,
		sources:  opts.Sources,
		feeds:    make(map[settings.Tab]*tabFeed),
		tab:      browse.Tab,
		query:    q.Normalize(),
		filters:  browse.Filters,
		columns:  store.Get().Columns,
		lead:     opts.Lead,
		pageSize: pageSize,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	if _, ok := m.sources[m.tab]; !ok {
		m.tab = settings.DefaultTab()
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.status = msg
	})
	return m
}

// Init starts loading the first page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.maybeLoadMore(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.uiState.SetSize(msg.Width, msg.Height)
		m.updateViewportContent()
		return m, m.maybeLoadMore()
	case PageLoadedMsg:
		return m, m.handlePageLoaded(msg)
	case PageFailedMsg:
		return m, m.handlePageFailed(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case clearStatusMsg:
		if m.status.Expired(msg.at, errorClearDuration-time.Millisecond) {
			m.status = errors.Message{}
		}
		return m, nil
	}
	return m, nil
}

// Chosen returns the property picked with Enter, if any.
func (m *Model) Chosen() (domain.Property, bool) {
	if m.chosen == nil {
		return domain.Property{}, false
	}
	return *m.chosen, true
}

// Close cancels in-flight requests. Late results are discarded.
func (m *Model) Close() {
	m.cancel()
	for _, tf := range m.feeds {
		tf.feed.Close()
	}
}

// current returns the active tab's feed, creating it on first use.
func (m *Model) current() *tabFeed {
	tf, ok := m.feeds[m.tab]
	if !ok {
		feed := listing.NewFeed(m.sources[m.tab], m.query,
			listing.WithLogger(m.logger.With("tab", string(m.tab))))
		tf = &tabFeed{feed: feed, sentinel: listing.NewSentinel(feed, m.lead)}
		m.feeds[m.tab] = tf
		return tf
	}
	if tf.feed.SetQuery(m.query) {
		tf.lastErr = nil
	}
	return tf
}

// items returns the accumulated list of the active tab.
func (m *Model) items() []domain.Property {
	return m.current().feed.Items()
}

// maybeLoadMore fires the sentinel when the end of the list is close.
// After a failure it waits for an explicit retry.
func (m *Model) maybeLoadMore() tea.Cmd {
	if m.sources[m.tab] == nil {
		return nil
	}
	tf := m.current()
	if tf.lastErr != nil {
		return nil
	}
	distance := m.uiState.RowsBelow(tf.feed.Len())
	t, ok := tf.sentinel.Trigger(distance)
	if !ok {
		return nil
	}
	return m.fetch(m.tab, tf.feed, t)
}

func (m *Model) fetch(tab settings.Tab, feed *listing.Feed, t listing.Ticket) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		page, err := feed.Fetch(ctx, t)
		if err != nil {
			return PageFailedMsg{Tab: tab, Ticket: t, Err: err}
		}
		return PageLoadedMsg{Tab: tab, Ticket: t, Page: page}
	}
}

func (m *Model) handlePageLoaded(msg PageLoadedMsg) tea.Cmd {
	tf, ok := m.feeds[msg.Tab]
	if !ok {
		return nil
	}
	tf.sentinel.Settle(msg.Ticket)
	if err := tf.feed.Resolve(msg.Ticket, msg.Page, nil); err != nil {
		if stderrors.Is(err, listing.ErrStaleResponse) {
			m.logger.Debug("dropped stale page", "page", msg.Ticket.Page)
		}
		return nil
	}
	tf.lastErr = nil
	if msg.Tab != m.tab {
		return nil
	}
	m.updateViewportContent()
	return m.maybeLoadMore()
}

func (m *Model) handlePageFailed(msg PageFailedMsg) tea.Cmd {
	tf, ok := m.feeds[msg.Tab]
	if !ok {
		return nil
	}
	tf.sentinel.Settle(msg.Ticket)
	err := tf.feed.Resolve(msg.Ticket, domain.Page{}, msg.Err)
	if err == nil || stderrors.Is(err, listing.ErrStaleResponse) || stderrors.Is(err, context.Canceled) {
		return nil
	}
	tf.lastErr = err
	m.logger.Warn("page fetch failed", "page", msg.Ticket.Page, "error", err.Error())
	if msg.Tab != m.tab {
		return nil
	}
	text, _ := errors.Describe(err)
	m.errorHandler.Error(text + " (r: retry)")
	return clearStatusAfter(errorClearDuration)
}

// retry clears the last failure and fetches again.
func (m *Model) retry() tea.Cmd {
	tf := m.current()
	if tf.lastErr == nil {
		return nil
	}
	tf.lastErr = nil
	m.status = errors.Message{}
	return m.maybeLoadMore()
}

// applyQuery switches to q. A different key resets the list and the
// cursor; the same key keeps what is loaded.
func (m *Model) applyQuery(q domain.Query) tea.Cmd {
	q = q.Normalize()
	q.PageSize = m.pageSize
	if q.Key() == m.query.Key() {
		m.query = q
		return nil
	}
	m.query = q
	m.current()
	m.uiState.ResetCursor()
	m.updateViewportContent()
	m.persist()
	return m.maybeLoadMore()
}

// persist saves the browse state. Failures only show in the status line.
func (m *Model) persist() {
	err := m.store.SaveBrowse(settings.BrowseState{
		Sort:    m.query.Sort,
		Filters: m.filters,
		Tab:     m.tab,
	})
	if err != nil {
		m.errorHandler.Warning("Could not save settings: " + err.Error())
	}
}

func (m *Model) loading() bool {
	tf, ok := m.feeds[m.tab]
	return ok && tf.sentinel.State() == listing.Fetching
}
