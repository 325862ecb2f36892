package wizard

import (
	"context"
	"fmt"
	"maps"
	"mime"
	"path/filepath"
	"strings"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/logging"
)

// Attachment is a NOC document held by the wizard. URL is set once the
// document exists server-side; Placeholder marks a stand-in used when a
// generated document could not be downloaded.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
	URL         string
	Placeholder bool
}

// Empty reports whether the attachment carries neither bytes nor a URL.
func (a Attachment) Empty() bool {
	return len(a.Data) == 0 && a.URL == ""
}

// FileAttachment wraps the bytes of a local file. The content type is
// guessed from the extension.
func FileAttachment(path string, data []byte) Attachment {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return Attachment{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}
}

// DocumentFetcher downloads a generated document.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLeave sets the action run when Back is called on the first step.
func WithLeave(leave func()) Option {
	return func(w *Wizard) {
		w.leave = leave
	}
}

// WithLogger sets the wizard's logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Wizard) {
		w.logger = l
	}
}

// Wizard is the creation state machine. It is owned by one view and is
// not safe for concurrent use.
type Wizard struct {
	stage     Stage
	category  domain.Category
	purpose   domain.Purpose
	noc       *Attachment
	nocRecord *domain.NOCRecord
	initial   map[string]any

	mode       Mode
	draftID    string
	propertyID string
	submitted  bool

	leave  func()
	logger logging.Logger
}

func newWizard(stage Stage, opts []Option) *Wizard {
	w := &Wizard{
		stage:   stage,
		initial: map[string]any{},
		leave:   func() {},
		logger:  logging.Noop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// New starts a fresh wizard on the category step.
func New(opts ...Option) *Wizard {
	return newWizard(Linear{Step: StepCategory}, opts)
}

// ResumeDraft opens a saved draft directly on the form step.
func ResumeDraft(d domain.Draft, opts ...Option) *Wizard {
	w := fromRecord(d.Data, opts)
	w.mode = ModeResumeDraft
	w.draftID = d.ID
	return w
}

// EditExisting opens an existing property directly on the form step.
func EditExisting(id string, record map[string]any, opts ...Option) *Wizard {
	w := fromRecord(record, opts)
	w.mode = ModeEditExisting
	w.propertyID = id
	return w
}

// fromRecord builds a form-step wizard. Category and purpose come from
// the record, defaulting to residential and sale.
func fromRecord(record map[string]any, opts []Option) *Wizard {
	w := newWizard(Linear{Step: StepFormDetails}, opts)
	if record != nil {
		w.initial = maps.Clone(record)
	}
	w.category = domain.CategoryResidential
	if s, ok := record["category"].(string); ok {
		if c, err := domain.ParseCategory(s); err == nil {
			w.category = c
		}
	}
	w.purpose = domain.PurposeSale
	if s, ok := record["purpose"].(string); ok {
		if p, err := domain.ParsePurpose(s); err == nil {
			w.purpose = p
		}
	}
	return w
}

// Stage returns the current stage.
func (w *Wizard) Stage() Stage { return w.stage }

// Step returns the current linear step. It reports false while the NOC
// sub-flow is open.
func (w *Wizard) Step() (Step, bool) {
	l, ok := w.stage.(Linear)
	return l.Step, ok
}

// Category returns the selected category.
func (w *Wizard) Category() domain.Category {
	return w.category
}

// Purpose returns the selected purpose.
func (w *Wizard) Purpose() domain.Purpose {
	return w.purpose
}

// Mode returns how the wizard was entered.
func (w *Wizard) Mode() Mode {
	return w.mode
}

// DraftID is set for resumed drafts.
func (w *Wizard) DraftID() string {
	return w.draftID
}

// SetDraftID records the id the wizard's data was saved under as a draft.
func (w *Wizard) SetDraftID(id string) {
	w.draftID = id
}

// PropertyID is set when editing an existing property.
func (w *Wizard) PropertyID() string {
	return w.propertyID
}

// Submitted reports whether Submit succeeded.
func (w *Wizard) Submitted() bool {
	return w.submitted
}

// InitialData returns a copy of the record the wizard was opened with.
func (w *Wizard) InitialData() map[string]any {
	return maps.Clone(w.initial)
}

// NOC returns the attached document, or nil.
func (w *Wizard) NOC() *Attachment {
	return w.noc
}

// NOCRecord returns the record produced by the inline sub-flow, or nil.
func (w *Wizard) NOCRecord() *domain.NOCRecord {
	return w.nocRecord
}

func (w *Wizard) isAt(step Step) bool {
	s, ok := w.Step()
	return ok && s == step
}

func (w *Wizard) inSubflow() bool {
	_, ok := w.stage.(NocSubflow)
	return ok
}

func (w *Wizard) setStep(step Step) {
	w.stage = Linear{Step: step}
}

func (w *Wizard) transition(from, to Stage) {
	w.logger.Debug("wizard transition", "from", from.String(), "to", to.String())
}

// SelectCategory records the category choice.
func (w *Wizard) SelectCategory(c domain.Category) error {
	if !c.IsValid() {
		return &ValidationError{Step: StepCategory, Reason: fmt.Sprintf("unknown category %q", c)}
	}
	w.category = c
	return nil
}

// SelectPurpose records the purpose choice.
func (w *Wizard) SelectPurpose(p domain.Purpose) error {
	if !p.IsValid() {
		return &ValidationError{Step: StepPurpose, Reason: fmt.Sprintf("unknown purpose %q", p)}
	}
	w.purpose = p
	return nil
}

// AttachNOC records an uploaded NOC document.
func (w *Wizard) AttachNOC(a Attachment) error {
	if a.Empty() {
		return &ValidationError{Step: StepNocUpload, Reason: "document is empty"}
	}
	w.noc = &a
	return nil
}

// ClearNOC removes the attached document.
func (w *Wizard) ClearNOC() {
	w.noc = nil
	w.nocRecord = nil
}

// CanAdvance reports whether Advance would move forward.
func (w *Wizard) CanAdvance() bool {
	return w.precondition() == nil
}

func (w *Wizard) precondition() error {
	step, ok := w.Step()
	if !ok {
		return fmt.Errorf("%w: noc sub-flow is open", ErrInvalidTransition)
	}
	switch step {
	case StepCategory:
		if w.category == "" {
			return &ValidationError{Step: step, Reason: "select a category"}
		}
	case StepPurpose:
		if w.purpose == "" {
			return &ValidationError{Step: step, Reason: "select a purpose"}
		}
	case StepNocUpload:
		if w.noc == nil {
			return &ValidationError{Step: step, Reason: "attach a NOC document"}
		}
	case StepFormDetails:
		return fmt.Errorf("%w: already on the last step", ErrInvalidTransition)
	}
	return nil
}

// Advance moves to the next step. With an unmet precondition it returns
// a ValidationError and leaves the state unchanged.
func (w *Wizard) Advance() error {
	if err := w.precondition(); err != nil {
		return err
	}
	step, _ := w.Step()
	from := w.stage
	w.setStep(step + 1)
	w.transition(from, w.stage)
	return nil
}

// Back moves to the previous step keeping every selection. On the first
// step it runs the leave action and reports true. Inside the NOC
// sub-flow it closes the sub-flow.
func (w *Wizard) Back() bool {
	if w.inSubflow() {
		_ = w.CancelNocSubflow()
		return false
	}
	step, _ := w.Step()
	if step == StepCategory {
		w.logger.Debug("wizard left")
		w.leave()
		return true
	}
	from := w.stage
	w.setStep(step - 1)
	w.transition(from, w.stage)
	return false
}

// BeginNocSubflow opens the inline NOC generator. Only valid on the NOC
// step.
func (w *Wizard) BeginNocSubflow() error {
	if !w.isAt(StepNocUpload) {
		return fmt.Errorf("%w: noc sub-flow opens from the noc step, not %s", ErrInvalidTransition, w.stage)
	}
	from := w.stage
	w.stage = NocSubflow{}
	w.transition(from, w.stage)
	return nil
}

// CancelNocSubflow closes the generator and returns to the NOC step.
func (w *Wizard) CancelNocSubflow() error {
	if !w.inSubflow() {
		return fmt.Errorf("%w: noc sub-flow is not open", ErrInvalidTransition)
	}
	w.setStep(StepNocUpload)
	w.transition(NocSubflow{}, w.stage)
	return nil
}

// CompleteNocSubflow attaches the generated document and jumps to the
// form. A failed download substitutes a placeholder attachment so the
// flow is never blocked.
func (w *Wizard) CompleteNocSubflow(ctx context.Context, fetcher DocumentFetcher, record domain.NOCRecord) error {
	if !w.inSubflow() {
		return fmt.Errorf("%w: noc sub-flow is not open", ErrInvalidTransition)
	}

	name := fmt.Sprintf("noc-%s.pdf", record.ID)
	data, contentType, err := fetcher.FetchDocument(ctx, record.DocumentURL)
	if err != nil {
		w.logger.Warn("noc document download failed, using placeholder", "noc_id", record.ID, "error", err.Error())
		w.noc = placeholder(name, record)
	} else {
		w.noc = &Attachment{Name: name, ContentType: contentType, Data: data, URL: record.DocumentURL}
	}

	rec := record
	w.nocRecord = &rec
	w.setStep(StepFormDetails)
	w.transition(NocSubflow{}, w.stage)
	return nil
}

func placeholder(name string, record domain.NOCRecord) *Attachment {
	return &Attachment{
		Name:        name,
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4\n% NOC " + record.ID + " placeholder\n%%EOF\n"),
		URL:         record.DocumentURL,
		Placeholder: true,
	}
}
