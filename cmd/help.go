package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/propdesk/propdesk/internal/colors"
	"github.com/spf13/cobra"
)

// commandOrder is the order commands are listed in the help text.
var commandOrder = []string{
	"list",
	"browse",
	"create",
	"edit",
	"draft",
	"vault",
	"watermark",
	"settings",
	"mock-api",
	"help",
	"version",
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Blue))
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Cyan))
)

// outputWriter overrides the help destination in tests.
var outputWriter io.Writer

// PrintHelp prints the help text of the root command.
func PrintHelp(cmd *cobra.Command) {
	w := outputWriter
	if w == nil {
		w = cmd.OutOrStdout()
	}

	var lines []string
	for _, name := range commandOrder {
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				lines = append(lines, fmt.Sprintf("    %s %s", commandStyle.Render(fmt.Sprintf("%-16s", c.Use)), c.Short))
				break
			}
		}
	}

	versionStr := cmd.Version
	if versionStr == "" {
		versionStr = "0.0.0"
	}

	fmt.Fprintf(w, `%s

%s

%s
    propdesk [COMMAND] [OPTIONS]

%s
%s

%s
    --api-url <url>  API base URL (overrides api_base_url)
    --debug          Print debug output
    -q, --quiet      Suppress informational output
    -h, --help       Show help message
`,
		headerStyle.Render("propdesk v"+versionStr),
		cmd.Short,
		headerStyle.Render("USAGE:"),
		headerStyle.Render("COMMANDS:"),
		strings.Join(lines, "\n"),
		headerStyle.Render("OPTIONS:"),
	)
}

// helpCmd represents the help command
var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show this help message",
	Long:  `Show this help message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			PrintHelp(cmd.Root())
			return nil
		}
		target, _, err := cmd.Root().Find(args)
		if err != nil || target == nil || target == cmd.Root() {
			PrintHelp(cmd.Root())
			return nil
		}
		return target.Help()
	},
}

func init() {
	RootCmd.SetHelpCommand(helpCmd)
}
