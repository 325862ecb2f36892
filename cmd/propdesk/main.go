package main

import (
	"os"

	"github.com/propdesk/propdesk/cmd"
	"github.com/propdesk/propdesk/internal/colors"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

func run(args []string, execute func() error) int {
	if interactive(args) {
		colors.DisableStructuredLogging()
	}
	colors.StructuredInfo("startup", "main", "started", nil, "", map[string]interface{}{"args": len(args)})
	defer func() {
		_ = svc.Close()
	}()
	if err := execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	return 0
}

// interactive reports whether args open a full-screen view. Flags on
// create and edit run them without one.
func interactive(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "browse":
		return true
	case "create":
		return len(args) == 1
	case "edit":
		return len(args) == 2
	}
	return false
}
