package palette

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// terminalBackend shows the palette as a huh select form on the
// controlling terminal.
type terminalBackend struct {
	run func(*huh.Select[int]) error
}

// NewTerminalBackend returns a backend that prompts on the terminal.
func NewTerminalBackend() Backend {
	return &terminalBackend{run: func(s *huh.Select[int]) error { return s.Run() }}
}

func (b *terminalBackend) Capabilities() Capabilities {
	return Capabilities{IndexOutput: true}
}

func (b *terminalBackend) Show(prompt string, items []Item) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	choice := -1
	options := make([]huh.Option[int], len(items))
	for i, item := range items {
		options[i] = huh.NewOption(sanitizeLabel(item.Label), i).Selected(item.IsActive)
	}
	sel := huh.NewSelect[int]().
		Title(prompt).
		Options(options...).
		Value(&choice)

	if err := b.run(sel); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return SelectResult{}, ErrCancelled
		}
		return SelectResult{}, fmt.Errorf("terminal palette: %w", err)
	}
	if choice < 0 || choice >= len(items) {
		return SelectResult{}, ErrCancelled
	}
	return SelectResult{Index: choice, Item: items[choice]}, nil
}
