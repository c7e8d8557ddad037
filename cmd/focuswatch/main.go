package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

const appName = "focuswatch"

var errUsage = errors.New("usage error")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(out)
		return errUsage
	}

	command, rest := args[0], args[1:]

	switch command {
	case "watch":
		return watchCommand(rest, out, false)
	case "serve":
		return watchCommand(rest, out, true)
	case "current":
		return currentCommand(rest, out)
	case "capabilities":
		return capabilitiesCommand(rest, out)
	case "stop":
		return stopCommand(rest, out)
	case "status":
		return statusCommand(rest, out)
	case "report":
		return reportCommand(rest, out)
	case "clear":
		return clearCommand(rest, out, os.Stdin)
	case "version":
		fmt.Fprintf(out, "%s version %s\n", appName, version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
		return nil
	case "help", "--help", "-h":
		printUsage(out)
		return nil
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", command)
		printUsage(out)
		return errUsage
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, `focuswatch - Focused application, window and browser tab watcher

Usage:
  focuswatch <command> [options]

Commands:
  watch [--chime] [--detach]       Record focus changes until interrupted
  serve [--port N] [--detach]      Record focus changes and serve the web API
  current [--json]                 Print the focus context right now
  capabilities                     Print what this platform can detect
  stop                             Stop a detached watcher
  status                           Show watcher status and current focus
  report [period] [--json]         Time per application (period: day, week, month)
  clear [--yes]                    Delete all recorded focus changes
  version                          Show version information
  help                             Show this help message

Every command accepts --config <file> (.toml, .yaml or .yml).

Environment Variables:
  FOCUSWATCH_CONFIG           Config file path
  FOCUSWATCH_DB_PATH          Database file path
  FOCUSWATCH_POLL_INTERVAL    Poll interval (Go duration, or milliseconds)
  FOCUSWATCH_DEBOUNCE_WINDOW  Debounce window (Go duration, or milliseconds)
  FOCUSWATCH_CHIME            Play tones when watching starts and stops
  FOCUSWATCH_PID_FILE         PID file path
  FOCUSWATCH_REPORT_MAX_GAP   Longest gap counted as focus time
  FOCUSWATCH_TIMEZONE         Report time zone
  FOCUSWATCH_WEB_HOST         Web API host
  FOCUSWATCH_WEB_PORT         Web API port
  FOCUSWATCH_LOG_LEVEL        Log level (debug, info, warn, error)
  FOCUSWATCH_LOG_FILE         Log file path

Version: %s
`, version)
}
