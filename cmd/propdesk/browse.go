package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/propdesk/propdesk/internal/listing"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/propdesk/propdesk/internal/tui/state"
	"github.com/spf13/cobra"
)

const browseCommandLong = `Browse properties in an infinitely scrolling list.

USAGE:
    propdesk browse [OPTIONS]

OPTIONS:
    --off-plan    Start on the off-plan tab
    -h, --help    Show this help

KEYS:
    j/k           Move; the next page loads as the end comes into view
    /             Search
    f             Filter form (Tab moves between fields)
    x             Clear search and filters
    s / o         Cycle sort field / toggle order
    t             Switch between properties and off-plan
    P             Pin or unpin the current tab
    r             Retry after a failed load
    Enter         Print the selected property and exit
    q             Quit

Sort, filters and the active tab are saved between runs.`

// teaProgram runs a bubbletea model. Replaced in tests.
var teaProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// NewBrowseCmd creates the browse command with explicit dependencies.
func NewBrowseCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewBrowseCmd: client dependency cannot be nil")
	}

	var offPlan bool
	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse properties interactively",
		Long:  browseCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, client, offPlan)
		},
	}
	browseCmd.Flags().BoolVar(&offPlan, "off-plan", false, "Start on the off-plan tab")
	return browseCmd
}

func runBrowse(cmd *cobra.Command, client listClient, offPlan bool) error {
	if !isTerminal() {
		return fmt.Errorf("browse needs an interactive terminal, use 'propdesk list' instead")
	}
	c, err := client.API()
	if err != nil {
		return err
	}
	store, err := client.Settings()
	if err != nil {
		return err
	}
	if offPlan {
		b := store.Browse()
		b.Tab = settings.TabOffPlan
		if err := store.SaveBrowse(b); err != nil {
			return err
		}
	}

	model := state.NewModel(state.Options{
		Sources: map[settings.Tab]listing.PageSource{
			settings.TabProperties: c.Properties(),
			settings.TabOffPlan:    c.OffPlan(),
		},
		Store:    store,
		Lead:     config.GetInt("sentinel_lead", listing.DefaultLead),
		PageSize: config.GetInt("page_size", domain.DefaultPageSize),
		Logger:   logging.With("component", "browse"),
	})
	defer model.Close()

	if _, err := teaProgram(model); err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	if chosen, ok := model.Chosen(); ok {
		return format.NewYAMLFormatter().FormatProperties([]domain.Property{chosen}, cmd.OutOrStdout())
	}
	return nil
}

func init() {
	cmd.RootCmd.AddCommand(NewBrowseCmd(svc))
}
