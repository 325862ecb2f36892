package main

import (
	"fmt"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/drafts"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/propdesk/propdesk/internal/wizard"
	"github.com/spf13/cobra"
)

type draftClient interface {
	createClient
	Settings() (*settings.Store, error)
}

const (
	draftCommandLong = `Manage saved property drafts.

USAGE:
    propdesk draft <subcommand>

SUBCOMMANDS:
    list      List drafts
    resume    Reopen a draft in the wizard
    rm        Delete a draft

Drafts are mirrored locally, so they can be listed and resumed while the
API is unreachable.`
	draftListCommandLong = `List saved drafts.

USAGE:
    propdesk draft list [--format=<format>]`
	draftResumeCommandLong = `Reopen a draft on the details form.

USAGE:
    propdesk draft resume <id> [OPTIONS]

OPTIONS:
    --set <key=value>      Field to change, repeatable
    --submit               Create the property instead of saving the draft
    -h, --help             Show this help

Without options the interactive form opens. A submitted draft is deleted.`
	draftRmCommandLong = `Delete a draft.

USAGE:
    propdesk draft rm <id>`
)

// NewDraftCmd creates the draft command with explicit dependencies.
func NewDraftCmd(client draftClient) *cobra.Command {
	if client == nil {
		panic("NewDraftCmd: client dependency cannot be nil")
	}

	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage property drafts",
		Long:  draftCommandLong,
	}
	draftCmd.AddCommand(newDraftListCmd(client))
	draftCmd.AddCommand(newDraftResumeCmd(client))
	draftCmd.AddCommand(newDraftRmCmd(client))
	return draftCmd
}

func newDraftListCmd(client draftClient) *cobra.Command {
	var formatFlag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts",
		Long:  draftListCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtType, err := resolveFormat(formatFlag)
			if err != nil {
				return err
			}
			ds, err := client.Drafts()
			if err != nil {
				return err
			}
			list, source, err := ds.List(commandContext(cmd))
			if err != nil {
				return err
			}
			if source == drafts.SourceCache {
				colors.Warning("API unreachable, showing cached drafts")
			}
			if len(list) == 0 && fmtType != format.FormatterTypeJSON && fmtType != format.FormatterTypeYAML {
				colors.Info("No drafts")
				return nil
			}
			var columns []string
			if store, err := client.Settings(); err == nil {
				columns = store.Get().Columns
			}
			return format.NewFormatter(fmtType, columns).FormatDrafts(list, cmd.OutOrStdout())
		},
	}
	addFormatFlag(listCmd, &formatFlag)
	return listCmd
}

func newDraftResumeCmd(client draftClient) *cobra.Command {
	var (
		set    []string
		submit bool
	)
	resumeCmd := &cobra.Command{
		Use:   "resume <id>",
		Short: "Reopen a draft in the wizard",
		Long:  draftResumeCommandLong,
		Args:  requireOneArg("draft resume"),
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := wizardBackend(client)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			d, source, err := be.drafts.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if source == drafts.SourceCache {
				colors.Warning("API unreachable, resuming the cached copy of", d.ID)
			}
			w := wizard.ResumeDraft(d, wizard.WithLogger(logging.With("component", "wizard")))

			if len(set) == 0 && !submit {
				return runWizardView(cmd, w, be)
			}
			raw, err := wizard.ParseAssignments(set)
			if err != nil {
				return err
			}
			return finishWizard(ctx, cmd.OutOrStdout(), w, be, raw, !submit)
		},
	}
	resumeCmd.Flags().StringArrayVar(&set, "set", nil, "Field to change as key=value (repeatable)")
	resumeCmd.Flags().BoolVar(&submit, "submit", false, "Create the property from the draft")
	return resumeCmd
}

func newDraftRmCmd(client draftClient) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a draft",
		Long:  draftRmCommandLong,
		Args:  requireOneArg("draft rm"),
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := wizardBackend(client)
			if err != nil {
				return err
			}
			if err := be.DeleteDraft(commandContext(cmd), args[0]); err != nil {
				return fmt.Errorf("failed to delete draft: %w", err)
			}
			colors.Success("Draft deleted:", args[0])
			return nil
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewDraftCmd(svc))
}
