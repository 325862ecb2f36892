// Package state implements the browse view: an infinitely scrolling
// property listing with search, filters, sorting and tabs.
package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/listing"
	"github.com/propdesk/propdesk/internal/settings"
)

// PageLoadedMsg carries a fetched page back to the model. Tab and Ticket
// identify which feed and query generation requested it.
type PageLoadedMsg struct {
	Tab    settings.Tab
	Ticket listing.Ticket
	Page   domain.Page
}

// PageFailedMsg carries a failed fetch back to the model.
type PageFailedMsg struct {
	Tab    settings.Tab
	Ticket listing.Ticket
	Err    error
}

// clearStatusMsg clears the status line once it has been shown long enough.
type clearStatusMsg struct {
	at time.Time
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearStatusMsg{at: t}
	})
}
