package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/spf13/cobra"
)

type settingsClient interface {
	Settings() (*settings.Store, error)
}

const (
	settingsCommandLong = `Manage saved preferences.

USAGE:
    propdesk settings <subcommand>

SUBCOMMANDS:
    show     Display current settings
    reset    Reset settings to defaults
    pin      Pin a navigation item
    unpin    Unpin a navigation item

EXAMPLES:
    # Reset settings without confirmation
    propdesk settings reset --force

    # Show current settings as JSON
    propdesk settings show --format=json`
	resetCommandLong = `Reset settings to defaults.

USAGE:
    propdesk settings reset [OPTIONS]

OPTIONS:
    --force    Reset without confirmation
    -h, --help Show this help`
	pinCommandLong = `Pin a navigation item.

USAGE:
    propdesk settings pin <item>

ITEMS:
    properties, off-plan, drafts, create, vault, watermarks, settings`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage saved preferences",
		Long:  settingsCommandLong,
	}

	settingsCmd.AddCommand(newShowCmd(client))
	settingsCmd.AddCommand(newResetCmd(client))
	settingsCmd.AddCommand(newPinCmd(client, true))
	settingsCmd.AddCommand(newPinCmd(client, false))
	return settingsCmd
}

// newShowCmd creates the show subcommand.
func newShowCmd(client settingsClient) *cobra.Command {
	var formatFlag string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowCmd(cmd.OutOrStdout(), client, formatFlag)
		},
	}
	showCmd.Flags().StringVar(&formatFlag, "format", "toml", "Output format: toml, json")
	return showCmd
}

// newResetCmd creates the reset subcommand.
func newResetCmd(client settingsClient) *cobra.Command {
	var resetForce bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Long:  resetCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResetCmd(cmd, client, resetForce)
		},
	}
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Reset without confirmation")
	return resetCmd
}

func newPinCmd(client settingsClient, pin bool) *cobra.Command {
	use, short := "pin <item>", "Pin a navigation item"
	if !pin {
		use, short = "unpin <item>", "Unpin a navigation item"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  pinCommandLong,
		Args:  requireOneArg(strings.Fields(use)[0]),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, ok := settings.ParseNavItem(args[0])
			if !ok {
				return fmt.Errorf("unknown item: %s", args[0])
			}
			store, err := client.Settings()
			if err != nil {
				return err
			}
			if pin {
				if err := store.Pin(item); err != nil {
					return err
				}
				colors.Success("Pinned", string(item))
				return nil
			}
			if err := store.Unpin(item); err != nil {
				return err
			}
			colors.Success("Unpinned", string(item))
			return nil
		},
	}
}

// runResetCmd executes the reset subcommand.
func runResetCmd(cmd *cobra.Command, client settingsClient, force bool) error {
	// Skip confirmation if --force flag is set or running in CI
	if !force && os.Getenv("CI") == "" {
		if !confirmReset(cmd.InOrStdin(), cmd.ErrOrStderr()) {
			colors.Info("Operation cancelled")
			return nil
		}
	}

	store, err := client.Settings()
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	colors.Success("Settings reset to defaults")
	return nil
}

// runShowCmd executes the show subcommand.
func runShowCmd(w io.Writer, client settingsClient, formatFlag string) error {
	store, err := client.Settings()
	if err != nil {
		return err
	}
	current := store.Get()

	var data []byte
	switch strings.ToLower(formatFlag) {
	case "json":
		data, err = json.MarshalIndent(current, "", "  ")
		data = append(data, '\n')
	case "toml", "":
		data, err = toml.Marshal(current)
	default:
		return fmt.Errorf("invalid format: %s (expected toml or json)", formatFlag)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if path := store.Path(); path != "" {
		fmt.Fprintf(w, "# %s\n", path)
	}
	_, err = w.Write(data)
	return err
}

// confirmReset asks the user for confirmation before resetting settings.
func confirmReset(in io.Reader, out io.Writer) bool {
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "Are you sure you want to reset all settings to defaults? (y/N): ")
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	cmd.RootCmd.AddCommand(NewSettingsCmd(svc))
}
