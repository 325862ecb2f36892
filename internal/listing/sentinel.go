package listing

import "sync"

// DefaultLead is how many rows before the end of the list the sentinel
// starts loading the next page.
const DefaultLead = 3

// State is the sentinel state.
type State int

const (
	Idle State = iota
	Fetching
)

func (s State) String() string {
	if s == Fetching {
		return "FETCHING"
	}
	return "IDLE"
}

// Sentinel decides when the next page should load. It keeps at most one
// request in flight per query.
type Sentinel struct {
	mu      sync.Mutex
	feed    *Feed
	lead    int
	pending *Ticket
}

// NewSentinel creates a sentinel over feed. A lead below zero is treated
// as zero.
func NewSentinel(feed *Feed, lead int) *Sentinel {
	if lead < 0 {
		lead = 0
	}
	return &Sentinel{feed: feed, lead: lead}
}

// Lead returns the proximity distance in rows.
func (s *Sentinel) Lead() int {
	return s.lead
}

// State returns Fetching while a ticket of the active query is pending.
func (s *Sentinel) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Sentinel) stateLocked() State {
	if s.pending == nil {
		return Idle
	}
	if !s.feed.IsCurrent(*s.pending) {
		// query changed; the old request no longer counts
		s.pending = nil
		return Idle
	}
	return Fetching
}

// Trigger is called with the number of rows between the viewport bottom
// and the end of the list. It returns a ticket to fetch when the marker
// is within the lead distance, more pages exist and nothing is in flight.
func (s *Sentinel) Trigger(distance int) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if distance > s.lead {
		return Ticket{}, false
	}
	if s.stateLocked() == Fetching {
		return Ticket{}, false
	}
	if !s.feed.HasMore() {
		return Ticket{}, false
	}
	t := s.feed.Ticket()
	s.pending = &t
	return t, true
}

// Settle returns the sentinel to Idle once t resolves, successfully or
// not. Tickets other than the pending one are ignored.
func (s *Sentinel) Settle(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil && *s.pending == t {
		s.pending = nil
	}
}

// Reset forgets the pending ticket.
func (s *Sentinel) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}
