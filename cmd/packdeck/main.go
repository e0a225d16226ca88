package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

func main() {
	// Handle help flag first
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	args := os.Args[1:]
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		exitOn("tui", runTUI(args))
		return
	}

	rest := args[1:]
	switch args[0] {
	case "tui":
		exitOn("tui", runTUI(rest))
	case "build":
		exitOn("build", runBuild(rest))
	case "run":
		exitOn("run", runHeadless(rest))
	case "doctor":
		exitOn("doctor", runDoctor(rest))
	case "profile":
		exitOn("profile", runProfile(rest))
	case "theme":
		exitOn("theme", runTheme(rest))
	case "history":
		exitOn("history", runHistory(rest))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'packdeck --help' for usage information.\n", args[0])
		os.Exit(1)
	}
}

// exitOn reports err and exits with status 1. A failed packaging run has
// already been reported by its own log output.
func exitOn(name string, err error) {
	if err == nil {
		return
	}
	if !errors.Is(err, errRunFailed) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
	}
	os.Exit(1)
}

func showUsage() {
	fmt.Println(`packdeck - terminal workbench for Nuitka packaging commands

USAGE:
    packdeck [COMMAND] [FLAGS]

COMMANDS:
    tui         Launch the interactive workbench (default)
    build       Print the packaging command for a profile
    run         Run the packaging command for a profile without the TUI
    doctor      Check the interpreter, Nuitka and local setup
    profile     Profile tools
                Subcommands: init [PATH]
    theme       Show or change the saved theme
                Arguments: dark, light, toggle
    history     List recent packaging runs

FLAGS:
    -h, --help         Show this help message
    --config PATH      Specify config file path (default: ./packdeck.yaml)
    --profile PATH     Profile with the packaging options
    --python PATH      Interpreter to check (doctor)
    --limit N          Number of runs to list (history, default: 20)

CONFIGURATION:
    Config file: ./packdeck.yaml
    Environment: PACKDECK_* variables override config

EXAMPLES:
    packdeck                                  # Open the workbench
    packdeck profile init                     # Write packdeck-profile.yaml
    packdeck --profile app.yaml               # Open the workbench with a profile
    packdeck build --profile app.yaml         # Print the command
    packdeck run --profile app.yaml           # Package without the TUI
    packdeck doctor --python .venv/bin/python # Check the setup
    packdeck theme toggle                     # Switch dark/light`)
}
