package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/drafts"
	"github.com/propdesk/propdesk/internal/hooks"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/tui/create"
	"github.com/propdesk/propdesk/internal/wizard"
	"github.com/spf13/cobra"
)

type createClient interface {
	API() (*api.Client, error)
	Drafts() (*drafts.Service, error)
}

const createCommandLong = `Create a property with the four step wizard.

USAGE:
    propdesk create [OPTIONS]

Without options the interactive wizard opens: category, purpose, NOC
document, then the details form. Options run the same steps without a
terminal.

OPTIONS:
    --category <c>         RESIDENTIAL, COMMERCIAL, LAND
    --purpose <p>          SALE, RENT
    --noc <file>           Attach a signed NOC document (pdf, jpg, png)
    --generate-noc         Generate a NOC instead of attaching one
    --owner <name>         Owner name for --generate-noc
    --permit <number>      Permit number for --generate-noc
    --set <key=value>      Form field, repeatable (propertyTitle, location, price, ...)
    --draft                Save as a draft instead of creating the property
    -h, --help             Show this help

EXAMPLES:
    propdesk create --category residential --purpose sale --noc noc.pdf \
        --set propertyTitle="Marina View" --set location="Dubai Marina" --set price=1,250,000`

type createOptions struct {
	category    string
	purpose     string
	nocFile     string
	generateNOC bool
	owner       string
	permit      string
	set         []string
	draft       bool
}

func (o createOptions) headless() bool {
	return o.category != "" || o.purpose != "" || o.nocFile != "" || o.generateNOC || len(o.set) > 0 || o.draft
}

// readFile reads NOC documents. Replaced in tests.
var readFile = os.ReadFile

// NewCreateCmd creates the create command with explicit dependencies.
func NewCreateCmd(client createClient) *cobra.Command {
	if client == nil {
		panic("NewCreateCmd: client dependency cannot be nil")
	}

	var opts createOptions
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a property",
		Long:  createCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, client, opts)
		},
	}

	createCmd.Flags().StringVar(&opts.category, "category", "", "Category: RESIDENTIAL, COMMERCIAL, LAND")
	createCmd.Flags().StringVar(&opts.purpose, "purpose", "", "Purpose: SALE, RENT")
	createCmd.Flags().StringVar(&opts.nocFile, "noc", "", "Signed NOC document to attach")
	createCmd.Flags().BoolVar(&opts.generateNOC, "generate-noc", false, "Generate a NOC instead of attaching one")
	createCmd.Flags().StringVar(&opts.owner, "owner", "", "Owner name for --generate-noc")
	createCmd.Flags().StringVar(&opts.permit, "permit", "", "Permit number for --generate-noc")
	createCmd.Flags().StringArrayVar(&opts.set, "set", nil, "Form field as key=value (repeatable)")
	createCmd.Flags().BoolVar(&opts.draft, "draft", false, "Save as a draft instead of creating")
	createCmd.MarkFlagsMutuallyExclusive("noc", "generate-noc")

	return createCmd
}

func runCreate(cmd *cobra.Command, client createClient, opts createOptions) error {
	be, err := wizardBackend(client)
	if err != nil {
		return err
	}
	logger := logging.With("component", "wizard")

	if !opts.headless() {
		return runWizardView(cmd, wizard.New(wizard.WithLogger(logger)), be)
	}

	raw, err := wizard.ParseAssignments(opts.set)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	w := wizard.New(wizard.WithLogger(logger))

	category, err := domain.ParseCategory(opts.category)
	if err != nil {
		return err
	}
	if err := w.SelectCategory(category); err != nil {
		return err
	}
	if err := w.Advance(); err != nil {
		return err
	}
	purpose, err := domain.ParsePurpose(opts.purpose)
	if err != nil {
		return err
	}
	if err := w.SelectPurpose(purpose); err != nil {
		return err
	}
	if err := w.Advance(); err != nil {
		return err
	}

	if opts.generateNOC {
		if err := generateNOC(ctx, w, be, opts, raw); err != nil {
			return err
		}
	} else {
		if opts.nocFile != "" {
			data, err := readFile(opts.nocFile)
			if err != nil {
				return fmt.Errorf("read noc document: %w", err)
			}
			if err := w.AttachNOC(wizard.FileAttachment(opts.nocFile, data)); err != nil {
				return err
			}
		}
		if err := w.Advance(); err != nil {
			return err
		}
	}

	return finishWizard(ctx, cmd.OutOrStdout(), w, be, raw, opts.draft)
}

// generateNOC runs the NOC sub-flow without a terminal.
func generateNOC(ctx context.Context, w *wizard.Wizard, be backend, opts createOptions, raw map[string]string) error {
	req := domain.NOCRequest{
		OwnerName:    strings.TrimSpace(opts.owner),
		PermitNumber: strings.TrimSpace(opts.permit),
		Reference:    raw["reference"],
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := w.BeginNocSubflow(); err != nil {
		return err
	}
	record, err := be.CreateNOC(ctx, req)
	if err != nil {
		return fmt.Errorf("generate noc: %w", err)
	}
	if err := w.CompleteNocSubflow(ctx, be, record); err != nil {
		return err
	}
	if w.NOC() != nil && w.NOC().Placeholder {
		colors.Warning("NOC", record.ID, "created but its document could not be downloaded, a placeholder was attached")
	}
	if _, ok := raw["permitNumber"]; !ok && record.PermitNumber != "" {
		raw["permitNumber"] = record.PermitNumber
	}
	return nil
}

// finishWizard saves the form as a draft or submits it. The wizard must
// be on the form step.
func finishWizard(ctx context.Context, out io.Writer, w *wizard.Wizard, be backend, raw map[string]string, saveDraft bool) error {
	form, err := wizard.BuildForm(raw)
	if err != nil {
		return err
	}

	if saveDraft {
		if w.Mode() == wizard.ModeEditExisting {
			return fmt.Errorf("existing properties cannot be saved as drafts")
		}
		d, err := be.Save(ctx, w.DraftID(), w.Payload(form))
		if err != nil {
			return err
		}
		w.SetDraftID(d.ID)
		fmt.Fprintln(out, d.ID)
		return nil
	}

	if missing := wizard.Missing(w.Payload(form)); len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	prop, err := w.Submit(ctx, be, form)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, prop.ID)
	return nil
}

// runWizardView drives w in the interactive view.
func runWizardView(cmd *cobra.Command, w *wizard.Wizard, be backend) error {
	if !isTerminal() {
		return fmt.Errorf("the wizard needs an interactive terminal, pass options to run it without one (see --help)")
	}
	hooks.Default().Silence()
	model := create.NewModel(create.Options{
		Wizard:   w,
		Backend:  be,
		Drafts:   be,
		ReadFile: readFile,
		Logger:   logging.With("component", "wizard"),
	})
	if _, err := teaProgram(model); err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	out := cmd.OutOrStdout()
	if prop, ok := model.Result(); ok {
		fmt.Fprintln(out, prop.ID)
		return nil
	}
	if id := w.DraftID(); id != "" && w.Mode() == wizard.ModeCreate {
		colors.Info("Draft kept as", id, "(resume with 'propdesk draft resume "+id+"')")
	}
	return nil
}

func wizardBackend(client createClient) (backend, error) {
	c, err := client.API()
	if err != nil {
		return backend{}, err
	}
	ds, err := client.Drafts()
	if err != nil {
		return backend{}, err
	}
	return backend{Client: c, drafts: ds}, nil
}

const editCommandLong = `Edit an existing property.

USAGE:
    propdesk edit <id> [OPTIONS]

The details form opens prefilled with the property. With --set the
changes are sent without opening the form.

OPTIONS:
    --set <key=value>      Field to change, repeatable
    -h, --help             Show this help`

// NewEditCmd creates the edit command with explicit dependencies.
func NewEditCmd(client createClient) *cobra.Command {
	if client == nil {
		panic("NewEditCmd: client dependency cannot be nil")
	}

	var set []string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing property",
		Long:  editCommandLong,
		Args:  requireOneArg("edit"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, client, args[0], set)
		},
	}
	editCmd.Flags().StringArrayVar(&set, "set", nil, "Field to change as key=value (repeatable)")
	return editCmd
}

func runEdit(cmd *cobra.Command, client createClient, id string, set []string) error {
	be, err := wizardBackend(client)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	record, err := be.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	w := wizard.EditExisting(id, record, wizard.WithLogger(logging.With("component", "wizard")))

	if len(set) == 0 {
		return runWizardView(cmd, w, be)
	}
	raw, err := wizard.ParseAssignments(set)
	if err != nil {
		return err
	}
	return finishWizard(ctx, cmd.OutOrStdout(), w, be, raw, false)
}

func init() {
	cmd.RootCmd.AddCommand(NewCreateCmd(svc))
	cmd.RootCmd.AddCommand(NewEditCmd(svc))
}
