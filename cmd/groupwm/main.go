package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "groups":
		os.Exit(runGroups(os.Args[2:]))
	case "cycle":
		os.Exit(runCycle(os.Args[2:]))
	case "only":
		os.Exit(runGroupCommand("only", "Show only group N and hide all others.", os.Args[2:], (*ipc.Client).Only))
	case "toggle":
		os.Exit(runGroupCommand("toggle", "Toggle the visibility of group N.", os.Args[2:], (*ipc.Client).HideToggle))
	case "hide-all":
		os.Exit(runSimple("hide-all", "Hide every group, or show them all again.", os.Args[2:], (*ipc.Client).HideAll))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "menu":
		os.Exit(runSimple("menu", "Open the group menu on the daemon's display.", os.Args[2:], (*ipc.Client).Menu))
	case "names":
		os.Exit(runSimple("names", "Reread group names from _NET_DESKTOP_NAMES.", os.Args[2:], (*ipc.Client).UpdateNames))
	case "reload":
		os.Exit(runSimple("reload", "Reload the daemon configuration.", os.Args[2:], (*ipc.Client).Reload))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: groupwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the group daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  groups              List groups and their windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  cycle               Switch to the next non-empty group")
	fmt.Fprintln(w, "  only N              Show only group N")
	fmt.Fprintln(w, "  toggle N            Toggle group N")
	fmt.Fprintln(w, "  hide-all            Toggle hiding every group")
	fmt.Fprintln(w, "  move N              Move a window into group N")
	fmt.Fprintln(w, "  menu                Open the group menu")
	fmt.Fprintln(w, "  names               Reload group names")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive group overview")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'groupwm <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set whose usage prints synopsis and summary.
func newFlagSet(name, synopsis, summary string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: groupwm %s\n", synopsis)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags returns -1 when parsing succeeded, otherwise the exit code.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	return -1
}

func runSimple(name, summary string, args []string, fn func(*ipc.Client) error) int {
	fs := newFlagSet(name, name, summary)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	if err := fn(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseGroupArg(fs *flag.FlagSet, name string) (int, bool) {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one group number\n", name)
		fs.Usage()
		return 0, false
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 1 || n > group.NumGroups {
		fmt.Fprintf(os.Stderr, "invalid group %q: expected 1-%d\n", fs.Arg(0), group.NumGroups)
		return 0, false
	}
	return n, true
}

func runGroupCommand(name, summary string, args []string, fn func(*ipc.Client, int) error) int {
	fs := newFlagSet(name, name+" N", summary)
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	n, ok := parseGroupArg(fs, name)
	if !ok {
		return 2
	}

	if err := fn(ipc.NewClient(), n); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCycle(args []string) int {
	fs := newFlagSet("cycle", "cycle [--reverse]", "Switch to the next group that has windows.")
	reverse := fs.Bool("reverse", false, "Cycle to the previous group instead")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "cycle takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Cycle(*reverse); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMove(args []string) int {
	fs := newFlagSet("move", "move [--window ID] N", "Move a window (default: the focused one) into group N.")
	window := fs.String("window", "", "Window id, decimal or 0x-prefixed hex")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	n, ok := parseGroupArg(fs, "move")
	if !ok {
		return 2
	}

	var win uint64
	if *window != "" {
		var err error
		win, err = strconv.ParseUint(*window, 0, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid window id %q\n", *window)
			return 2
		}
	}

	if err := ipc.NewClient().MoveWindow(uint32(win), n); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status", "Show daemon status via IPC.")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("active_group:    %d (%s)\n", status.ActiveGroup, status.ActiveName)
	fmt.Printf("all_hidden:      %v\n", status.AllHidden)
	fmt.Printf("grouped_windows: %d\n", status.GroupedWindows)
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runGroups(args []string) int {
	fs := newFlagSet("groups", "groups [--json]", "List every group with its windows.")
	asJSON := fs.Bool("json", false, "Print raw JSON")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	data, err := ipc.NewClient().ListGroups()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(data)
	}
	printGroups(os.Stdout, data)
	return 0
}
