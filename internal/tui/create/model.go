package create

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/errors"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/wizard"
)

const errorClearDuration = 5 * time.Second

// NOC generator inputs.
const (
	nocOwner = iota
	nocPermit
	nocFieldCount
)

// Backend is the API surface the view needs.
type Backend interface {
	wizard.Submitter
	wizard.DocumentFetcher
	CreateNOC(ctx context.Context, req domain.NOCRequest) (domain.NOCRecord, error)
}

// DraftSaver persists work in progress.
type DraftSaver interface {
	Save(ctx context.Context, id string, data map[string]any) (domain.Draft, error)
}

// Options configures the creation view.
type Options struct {
	// Wizard is the state machine to drive. Nil starts a new property.
	Wizard  *wizard.Wizard
	Backend Backend
	// Drafts is optional; without it saving drafts is disabled.
	Drafts   DraftSaver
	ReadFile func(string) ([]byte, error)
	Logger   logging.Logger
}

// Model is the creation view.
type Model struct {
	w        *wizard.Wizard
	backend  Backend
	drafts   DraftSaver
	readFile func(string) ([]byte, error)
	logger   logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	choice    int
	path      textinput.Model
	noc       [nocFieldCount]textinput.Model
	nocFocus  int
	form      []textinput.Model
	formFocus int

	busy         string
	spinner      spinner.Model
	errorHandler *errors.TUIHandler
	status       errors.Message
	width        int

	result *domain.Property
	left   bool
}

// NewModel creates the creation view.
func NewModel(opts Options) *Model {
	w := opts.Wizard
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	if w == nil {
		w = wizard.New(wizard.WithLogger(logger))
	}
	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		w:        w,
		backend:  opts.Backend,
		drafts:   opts.Drafts,
		readFile: readFile,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  sp,
		width:    80,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.status = msg
	})

	m.path = textinput.New()
	m.path.Prompt = "File: "
	m.path.Placeholder = "path to the signed NOC (pdf, jpg, png)"

	nocLabels := [nocFieldCount]string{"Owner name: ", "Permit number: "}
	for i := range m.noc {
		in := textinput.New()
		in.Prompt = nocLabels[i]
		in.CharLimit = 120
		m.noc[i] = in
	}

	initial := w.InitialData()
	m.form = make([]textinput.Model, len(wizard.Fields))
	for i, f := range wizard.Fields {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-14s ", f.Label+":")
		in.CharLimit = 200
		in.SetValue(f.Display(initial[f.Key]))
		m.form[i] = in
	}

	m.syncFocus()
	return m
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case nocReadyMsg:
		return m, m.handleNocReady(msg)
	case nocFailedMsg:
		m.busy = ""
		return m, m.fail(msg.err)
	case submittedMsg:
		m.busy = ""
		prop := msg.property
		m.result = &prop
		m.errorHandler.Success("Property saved")
		m.cancel()
		return m, tea.Quit
	case submitFailedMsg:
		m.busy = ""
		return m, m.fail(msg.err)
	case draftSavedMsg:
		m.busy = ""
		m.w.SetDraftID(msg.draft.ID)
		m.errorHandler.Success("Draft saved: " + msg.draft.ID)
		return m, clearStatusAfter(errorClearDuration)
	case draftFailedMsg:
		m.busy = ""
		return m, m.fail(msg.err)
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

// Result returns the submitted property, if any.
func (m *Model) Result() (domain.Property, bool) {
	if m.result == nil {
		return domain.Property{}, false
	}
	return *m.result, true
}

// Left reports whether the user backed out of the first step.
func (m *Model) Left() bool {
	return m.left
}

// Wizard returns the underlying state machine.
func (m *Model) Wizard() *wizard.Wizard {
	return m.w
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancel()
		return m, tea.Quit
	}
	if m.busy != "" {
		return m, nil
	}
	if msg.Type == tea.KeyEsc {
		return m, m.back()
	}

	if _, ok := m.w.Stage().(wizard.NocSubflow); ok {
		return m, m.handleNocKey(msg)
	}
	step, _ := m.w.Step()
	switch step {
	case wizard.StepCategory:
		return m, m.handleChoiceKey(msg, len(domain.Categories), func(i int) error {
			return m.w.SelectCategory(domain.Categories[i])
		})
	case wizard.StepPurpose:
		return m, m.handleChoiceKey(msg, len(domain.Purposes), func(i int) error {
			return m.w.SelectPurpose(domain.Purposes[i])
		})
	case wizard.StepNocUpload:
		return m, m.handleUploadKey(msg)
	default:
		return m, m.handleFormKey(msg)
	}
}

func (m *Model) back() tea.Cmd {
	if m.w.Back() {
		m.left = true
		m.cancel()
		return tea.Quit
	}
	m.syncFocus()
	return nil
}

func (m *Model) handleChoiceKey(msg tea.KeyMsg, n int, pick func(int) error) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.choice = (m.choice - 1 + n) % n
	case "down", "j":
		m.choice = (m.choice + 1) % n
	case "enter", "right", "l":
		if err := pick(m.choice); err != nil {
			return m.fail(err)
		}
		return m.advance()
	}
	return nil
}

func (m *Model) handleUploadKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlN:
		if err := m.w.BeginNocSubflow(); err != nil {
			return m.fail(err)
		}
		m.syncFocus()
		return nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			return m.advance()
		}
		if err := m.attachFile(path); err != nil {
			return m.fail(err)
		}
		return m.advance()
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return cmd
}

func (m *Model) attachFile(path string) error {
	data, err := m.readFile(path)
	if err != nil {
		return fmt.Errorf("read noc document: %w", err)
	}
	return m.w.AttachNOC(wizard.FileAttachment(path, data))
}

func (m *Model) handleNocKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.nocFocus = (m.nocFocus + 1) % nocFieldCount
		m.syncFocus()
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.nocFocus = (m.nocFocus - 1 + nocFieldCount) % nocFieldCount
		m.syncFocus()
		return nil
	case tea.KeyEnter:
		if m.nocFocus < nocFieldCount-1 {
			m.nocFocus++
			m.syncFocus()
			return nil
		}
		return m.generateNOC()
	}
	var cmd tea.Cmd
	m.noc[m.nocFocus], cmd = m.noc[m.nocFocus].Update(msg)
	return cmd
}

func (m *Model) generateNOC() tea.Cmd {
	req := domain.NOCRequest{
		OwnerName:    strings.TrimSpace(m.noc[nocOwner].Value()),
		PermitNumber: strings.TrimSpace(m.noc[nocPermit].Value()),
		Reference:    m.formValue("reference"),
	}
	if err := req.Validate(); err != nil {
		return m.fail(err)
	}
	m.busy = "Generating NOC"
	ctx, backend := m.ctx, m.backend
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		record, err := backend.CreateNOC(ctx, req)
		if err != nil {
			return nocFailedMsg{err: err}
		}
		data, contentType, err := backend.FetchDocument(ctx, record.DocumentURL)
		return nocReadyMsg{record: record, doc: fetchedDocument{data: data, contentType: contentType, err: err}}
	})
}

func (m *Model) handleNocReady(msg nocReadyMsg) tea.Cmd {
	m.busy = ""
	if err := m.w.CompleteNocSubflow(m.ctx, msg.doc, msg.record); err != nil {
		return m.fail(err)
	}
	if permit := strings.TrimSpace(msg.record.PermitNumber); permit != "" && m.formValue("permitNumber") == "" {
		m.setFormValue("permitNumber", permit)
	}
	m.syncFocus()
	if msg.doc.err != nil {
		m.errorHandler.Warning("NOC created but its document could not be downloaded, a placeholder was attached")
	} else {
		m.errorHandler.Success("NOC " + msg.record.ID + " attached")
	}
	return clearStatusAfter(errorClearDuration)
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.formFocus = (m.formFocus + 1) % len(m.form)
		m.syncFocus()
		return nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.formFocus = (m.formFocus - 1 + len(m.form)) % len(m.form)
		m.syncFocus()
		return nil
	case tea.KeyCtrlS:
		return m.saveDraft()
	case tea.KeyEnter:
		if m.formFocus < len(m.form)-1 {
			m.formFocus++
			m.syncFocus()
			return nil
		}
		return m.submit()
	}
	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return cmd
}

// formInput parses the form inputs.
func (m *Model) formInput() (map[string]any, error) {
	raw := make(map[string]string, len(m.form))
	for i, f := range wizard.Fields {
		raw[f.Key] = m.form[i].Value()
	}
	return wizard.BuildForm(raw)
}

func (m *Model) submit() tea.Cmd {
	form, err := m.formInput()
	if err != nil {
		return m.fail(err)
	}
	if missing := wizard.Missing(m.w.Payload(form)); len(missing) > 0 {
		m.errorHandler.Warning("Missing: " + strings.Join(missing, ", "))
		return clearStatusAfter(errorClearDuration)
	}
	m.busy = "Saving property"
	ctx, w, backend := m.ctx, m.w, m.backend
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		prop, err := w.Submit(ctx, backend, form)
		if err != nil {
			return submitFailedMsg{err: err}
		}
		return submittedMsg{property: prop}
	})
}

func (m *Model) saveDraft() tea.Cmd {
	if m.drafts == nil {
		m.errorHandler.Warning("Drafts are disabled")
		return clearStatusAfter(errorClearDuration)
	}
	if m.w.Mode() == wizard.ModeEditExisting {
		m.errorHandler.Warning("Existing properties are saved with Enter, not as drafts")
		return clearStatusAfter(errorClearDuration)
	}
	form, err := m.formInput()
	if err != nil {
		return m.fail(err)
	}
	data := m.w.Payload(form)
	m.busy = "Saving draft"
	ctx, drafts, id := m.ctx, m.drafts, m.w.DraftID()
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		d, err := drafts.Save(ctx, id, data)
		if err != nil {
			return draftFailedMsg{err: err}
		}
		return draftSavedMsg{draft: d}
	})
}

// advance moves to the next step. An unmet precondition is not an error
// to report: the help line already says what is missing.
func (m *Model) advance() tea.Cmd {
	if err := m.w.Advance(); err != nil {
		m.logger.Debug("advance blocked", "stage", m.w.Stage().String(), "error", err.Error())
		return nil
	}
	m.syncFocus()
	return nil
}

func (m *Model) fail(err error) tea.Cmd {
	text, severity := errors.Describe(err)
	switch severity {
	case errors.SeverityIgnore:
		return nil
	case errors.SeverityWarning:
		m.errorHandler.Warning(text)
	default:
		m.logger.Warn("wizard action failed", "stage", m.w.Stage().String(), "error", err.Error())
		m.errorHandler.Error(text)
	}
	return clearStatusAfter(errorClearDuration)
}

// syncFocus focuses the input of the current stage and points the choice
// cursor at the current selection.
func (m *Model) syncFocus() {
	m.path.Blur()
	for i := range m.noc {
		m.noc[i].Blur()
	}
	for i := range m.form {
		m.form[i].Blur()
	}

	if _, ok := m.w.Stage().(wizard.NocSubflow); ok {
		m.noc[m.nocFocus].Focus()
		return
	}
	step, _ := m.w.Step()
	switch step {
	case wizard.StepCategory:
		m.choice = max(0, slices.Index(domain.Categories, m.w.Category()))
	case wizard.StepPurpose:
		m.choice = max(0, slices.Index(domain.Purposes, m.w.Purpose()))
	case wizard.StepNocUpload:
		m.path.Focus()
	case wizard.StepFormDetails:
		m.form[m.formFocus].Focus()
	}
}

func (m *Model) formValue(key string) string {
	for i, f := range wizard.Fields {
		if f.Key == key {
			return strings.TrimSpace(m.form[i].Value())
		}
	}
	return ""
}

func (m *Model) setFormValue(key, value string) {
	for i, f := range wizard.Fields {
		if f.Key == key {
			m.form[i].SetValue(value)
			return
		}
	}
}
