package main

import (
	"fmt"
	"strings"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/spf13/cobra"
)

type apiClient interface {
	API() (*api.Client, error)
}

const (
	vaultCommandLong = `Manage shared portal credentials.

USAGE:
    propdesk vault <subcommand>

SUBCOMMANDS:
    list    List entries (passwords are masked unless --reveal)
    add     Add an entry
    rm      Delete an entry`
	vaultAddCommandLong = `Add a credential to the vault.

USAGE:
    propdesk vault add --title <title> [OPTIONS]

OPTIONS:
    --title <title>        Entry title (required)
    --username <name>      Login name
    --password <secret>    Password
    --url <url>            Portal address
    --notes <text>         Free text
    -h, --help             Show this help`
)

// NewVaultCmd creates the vault command with explicit dependencies.
func NewVaultCmd(client apiClient) *cobra.Command {
	if client == nil {
		panic("NewVaultCmd: client dependency cannot be nil")
	}

	vaultCmd := &cobra.Command{
		Use:   "vault",
		Short: "Manage shared portal credentials",
		Long:  vaultCommandLong,
	}
	vaultCmd.AddCommand(newVaultListCmd(client))
	vaultCmd.AddCommand(newVaultAddCmd(client))
	vaultCmd.AddCommand(newVaultRmCmd(client))
	return vaultCmd
}

func newVaultListCmd(client apiClient) *cobra.Command {
	var (
		formatFlag string
		reveal     bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List vault entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtType, err := resolveFormat(formatFlag)
			if err != nil {
				return err
			}
			c, err := client.API()
			if err != nil {
				return err
			}
			entries, err := c.Passwords().List(commandContext(cmd))
			if err != nil {
				return err
			}
			if !reveal {
				for i := range entries {
					entries[i] = entries[i].Redacted()
				}
			}
			return format.NewFormatter(fmtType, nil).FormatPasswords(entries, cmd.OutOrStdout())
		},
	}
	addFormatFlag(listCmd, &formatFlag)
	listCmd.Flags().BoolVar(&reveal, "reveal", false, "Show passwords in clear text")
	return listCmd
}

func newVaultAddCmd(client apiClient) *cobra.Command {
	var entry domain.PasswordEntry
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vault entry",
		Long:  vaultAddCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry.Title = strings.TrimSpace(entry.Title)
			if entry.Title == "" {
				return fmt.Errorf("vault add: --title is required")
			}
			c, err := client.API()
			if err != nil {
				return err
			}
			created, err := c.Passwords().Create(commandContext(cmd), entry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&entry.Title, "title", "", "Entry title")
	addCmd.Flags().StringVar(&entry.Username, "username", "", "Login name")
	addCmd.Flags().StringVar(&entry.Password, "password", "", "Password")
	addCmd.Flags().StringVar(&entry.URL, "url", "", "Portal address")
	addCmd.Flags().StringVar(&entry.Notes, "notes", "", "Free text")
	return addCmd
}

func newVaultRmCmd(client apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a vault entry",
		Args:  requireOneArg("vault rm"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.API()
			if err != nil {
				return err
			}
			if err := c.Passwords().Delete(commandContext(cmd), args[0]); err != nil {
				return err
			}
			colors.Success("Vault entry deleted:", args[0])
			return nil
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewVaultCmd(svc))
}
