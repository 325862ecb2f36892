// Package create implements the property creation view over the
// wizard state machine.
package create

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/internal/domain"
)

type nocReadyMsg struct {
	record domain.NOCRecord
	doc    fetchedDocument
}

type nocFailedMsg struct{ err error }

type submittedMsg struct{ property domain.Property }

type submitFailedMsg struct{ err error }

type draftSavedMsg struct{ draft domain.Draft }

type draftFailedMsg struct{ err error }

type clearStatusMsg struct{ at time.Time }

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearStatusMsg{at: t}
	})
}

// fetchedDocument replays a download done off the update loop, so the
// wizard can attach it without blocking.
type fetchedDocument struct {
	data        []byte
	contentType string
	err         error
}

func (d fetchedDocument) FetchDocument(context.Context, string) ([]byte, string, error) {
	return d.data, d.contentType, d.err
}
