package main

import (
	"fmt"
	"strings"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/format"
	"github.com/spf13/cobra"
)

const watermarkCommandLong = `Manage photo watermarks.

USAGE:
    propdesk watermark <subcommand>

SUBCOMMANDS:
    list    List watermarks
    add     Add a watermark (--name, --image-url, --position, --opacity)
    rm      Delete a watermark`

// NewWatermarkCmd creates the watermark command with explicit dependencies.
func NewWatermarkCmd(client apiClient) *cobra.Command {
	if client == nil {
		panic("NewWatermarkCmd: client dependency cannot be nil")
	}

	watermarkCmd := &cobra.Command{
		Use:   "watermark",
		Short: "Manage photo watermarks",
		Long:  watermarkCommandLong,
	}

	var formatFlag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List watermarks",
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
			items, err := c.Watermarks().List(commandContext(cmd))
			if err != nil {
				return err
			}
			return format.NewFormatter(fmtType, nil).FormatWatermarks(items, cmd.OutOrStdout())
		},
	}
	addFormatFlag(listCmd, &formatFlag)

	var wm domain.Watermark
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a watermark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wm.Name = strings.TrimSpace(wm.Name)
			if wm.Name == "" {
				return fmt.Errorf("watermark add: --name is required")
			}
			if wm.Opacity < 0 || wm.Opacity > 1 {
				return fmt.Errorf("watermark add: opacity must be between 0 and 1, got %g", wm.Opacity)
			}
			c, err := client.API()
			if err != nil {
				return err
			}
			created, err := c.Watermarks().Create(commandContext(cmd), wm)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&wm.Name, "name", "", "Watermark name")
	addCmd.Flags().StringVar(&wm.ImageURL, "image-url", "", "Overlay image address")
	addCmd.Flags().StringVar(&wm.Position, "position", "bottom-right", "Placement on the photo")
	addCmd.Flags().Float64Var(&wm.Opacity, "opacity", 0.5, "Opacity between 0 and 1")

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a watermark",
		Args:  requireOneArg("watermark rm"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.API()
			if err != nil {
				return err
			}
			if err := c.Watermarks().Delete(commandContext(cmd), args[0]); err != nil {
				return err
			}
			colors.Success("Watermark deleted:", args[0])
			return nil
		},
	}

	watermarkCmd.AddCommand(listCmd, addCmd, rmCmd)
	return watermarkCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewWatermarkCmd(svc))
}
