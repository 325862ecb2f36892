package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/logging"
)

// ErrStaleResponse is returned when a fetch resolves after its query was
// replaced, or out of page order. Callers drop it silently.
var ErrStaleResponse = errors.New("stale response")

// ErrNoMorePages is returned by LoadMore once the last page is in.
var ErrNoMorePages = errors.New("no more pages")

// PageSource fetches one page of a listing query.
type PageSource interface {
	FetchPage(ctx context.Context, q domain.Query, page int) (domain.Page, error)
}

// Ticket identifies one page request. It is only valid for the feed
// generation it was issued under.
type Ticket struct {
	Generation uint64
	Key        domain.QueryKey
	Page       int
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithLogger sets the feed's logger.
func WithLogger(l logging.Logger) FeedOption {
	return func(f *Feed) {
		f.logger = l
	}
}

// Feed owns the accumulated pages of the active query. Replacing the
// query with one of a different key discards the pages, bumps the
// generation and cancels the in-flight request.
type Feed struct {
	mu     sync.Mutex
	source PageSource
	query  domain.Query
	key    domain.QueryKey
	gen    uint64
	acc    *Accumulator
	logger logging.Logger

	genCtx    context.Context
	genCancel context.CancelFunc
	closed    bool
}

// NewFeed creates a feed for q.
func NewFeed(source PageSource, q domain.Query, opts ...FeedOption) *Feed {
	q = q.Normalize()
	f := &Feed{
		source: source,
		query:  q,
		key:    q.Key(),
		gen:    1,
		acc:    NewAccumulator(),
		logger: logging.Noop(),
	}
	f.genCtx, f.genCancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetQuery replaces the active query. It reports whether the key
// changed; an unchanged key keeps the accumulated pages.
func (f *Feed) SetQuery(q domain.Query) bool {
	q = q.Normalize()
	key := q.Key()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = q
	if key == f.key {
		return false
	}
	f.key = key
	f.gen++
	f.acc.Reset()
	f.genCancel()
	f.genCtx, f.genCancel = context.WithCancel(context.Background())
	f.logger.Debug("query changed", "generation", f.gen, "key", string(key))
	return true
}

// Query returns the active query.
func (f *Feed) Query() domain.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Key returns the active query key.
func (f *Feed) Key() domain.QueryKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// Generation increments on every key change.
func (f *Feed) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// Ticket returns the request for the next page of the active query.
func (f *Feed) Ticket() Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticketLocked()
}

func (f *Feed) ticketLocked() Ticket {
	return Ticket{Generation: f.gen, Key: f.key, Page: f.acc.NextPage()}
}

// IsCurrent reports whether t was issued under the active generation.
func (f *Feed) IsCurrent(t Ticket) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return t.Generation == f.gen
}

// Fetch runs the request for t. The request is canceled when ctx ends or
// when the query changes underneath it.
func (f *Feed) Fetch(ctx context.Context, t Ticket) (domain.Page, error) {
	f.mu.Lock()
	if t.Generation != f.gen {
		f.mu.Unlock()
		return domain.Page{}, ErrStaleResponse
	}
	q := f.query
	genCtx := f.genCtx
	f.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(genCtx, cancel)
	defer stop()

	return f.source.FetchPage(ctx, q, t.Page)
}

// Resolve applies the outcome of t. Outcomes of superseded or
// out-of-order tickets, or any ticket after Close, return
// ErrStaleResponse and change nothing; fetch errors are returned
// unchanged.
func (f *Feed) Resolve(t Ticket, page domain.Page, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || t.Generation != f.gen || t.Page != f.acc.NextPage() {
		f.logger.Debug("discarding stale page", "ticket_generation", t.Generation,
			"generation", f.gen, "page", t.Page)
		return ErrStaleResponse
	}
	if err != nil {
		return err
	}
	f.acc.AppendPage(page)
	return nil
}

// LoadMore fetches and applies the next page.
func (f *Feed) LoadMore(ctx context.Context) error {
	if !f.HasMore() {
		return ErrNoMorePages
	}
	t := f.Ticket()
	page, err := f.Fetch(ctx, t)
	return f.Resolve(t, page, err)
}

// Collect drains every remaining page and returns the accumulated items.
func (f *Feed) Collect(ctx context.Context) ([]domain.Property, error) {
	for f.HasMore() {
		if err := f.LoadMore(ctx); err != nil {
			return f.Items(), fmt.Errorf("collect page %d: %w", f.Ticket().Page, err)
		}
	}
	return f.Items(), nil
}

// Items returns a copy of the accumulated list.
func (f *Feed) Items() []domain.Property {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acc.Items()
}

// Len returns the number of accumulated items.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acc.Len()
}

// HasMore reports whether another page can be fetched.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acc.HasMore()
}

// TotalCount returns the total reported by the first page.
func (f *Feed) TotalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acc.TotalCount()
}

// Pages returns how many pages have been applied.
func (f *Feed) Pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acc.Pages()
}

// Close cancels any in-flight request. Results that arrive afterwards
// are dropped.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.genCancel()
}
