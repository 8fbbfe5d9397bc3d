// Package tui is an interactive overview of the daemon's groups.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/groupwm/internal/ipc"
)

// Daemon is the subset of the IPC client the overview drives.
type Daemon interface {
	ListGroups() (*ipc.GroupsData, error)
	Cycle(reverse bool) error
	Only(group int) error
	HideToggle(group int) error
	HideAll() error
}

// Run starts the overview and blocks until the user quits.
func Run(d Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
