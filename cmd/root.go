// Package cmd holds the root command shared by every propdesk subcommand.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/propdesk/propdesk/internal/colors"
	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/errors"
	"github.com/propdesk/propdesk/internal/hooks"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/version"
	"github.com/spf13/cobra"
)

var (
	apiURL string
	debug  bool
	quiet  bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "propdesk",
	Short:         "Browse and create property listings from the terminal.",
	Long:          `Browse and create property listings from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return Setup()
	},
}

var setupOnce sync.Once

// Setup loads the configuration, applies the global flags and starts the
// file logger. Safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		config.Load()
		if apiURL != "" {
			config.Set("api_base_url", apiURL)
		}
		colors.SetDebug(debug || config.GetBool("debug", false))
		colors.SetQuiet(quiet || config.GetBool("quiet", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Warning("logging disabled:", err.Error())
		}
	})
	return nil
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer func() {
		_ = logging.ShutdownGlobal()
	}()
	defer hooks.Shutdown()

	c, err := RootCmd.ExecuteContextC(ctx)
	if err != nil {
		h := errors.NewDefaultCLIHandler()
		if c != nil {
			h = h.WithCommand(c.CommandPath())
		}
		errors.Report(h, err)
	}
	return err
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides api_base_url)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug output")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			_, _ = cmd.OutOrStdout().Write([]byte(cmd.Long + "\n"))
			return
		}
		PrintHelp(cmd)
	})
}
