package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/groupwm/internal/ipc"
	"github.com/1broseidon/groupwm/internal/tui"
)

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: groupwm tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive overview of the daemon's groups.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓      Navigate groups")
		fmt.Fprintln(os.Stderr, "  Enter, Space  Toggle selected group")
		fmt.Fprintln(os.Stderr, "  o             Show only the selected group")
		fmt.Fprintln(os.Stderr, "  n/p           Cycle forward/backward")
		fmt.Fprintln(os.Stderr, "  a             Toggle hide-all")
		fmt.Fprintln(os.Stderr, "  r             Refresh")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C     Quit")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
