package main

import (
	"fmt"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "propdesk version %s\n", version.String())
			return err
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewVersionCmd())
}
