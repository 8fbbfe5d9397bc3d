// Package palette shows a one-shot selection menu through an external
// launcher (rofi, fuzzel, wofi, dmenu) or a terminal form.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label    string
	IsActive bool // Highlighted as current/active
	IsUrgent bool // Highlighted as urgent
}

// SelectResult identifies the chosen item.
type SelectResult struct {
	Index int
	Item  Item
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Markup      bool // Supports pango markup in labels
	IndexOutput bool // Can output selection index (not just text)
	RowStates   bool // Supports active/urgent row highlighting
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item) (SelectResult, error)
	Capabilities() Capabilities
}

// Names lists the accepted backend names.
var Names = []string{"auto", "rofi", "fuzzel", "wofi", "dmenu", "terminal"}

var lookPath = exec.LookPath

// AutoDetect selects the first available backend in priority order.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect()
	case "rofi":
		return requireCommand("rofi", NewRofiBackend)
	case "fuzzel":
		return requireCommand("fuzzel", NewFuzzelBackend)
	case "wofi":
		return requireCommand("wofi", NewWofiBackend)
	case "dmenu":
		return requireCommand("dmenu", NewDmenuBackend)
	case "terminal":
		return NewTerminalBackend(), nil
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: %s)", name, strings.Join(Names, ", "))
	}
}

func requireCommand(command string, newBackend func() Backend) (Backend, error) {
	if _, err := lookPath(command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", command)
	}
	return newBackend(), nil
}

// DetectBackend returns the first available launcher found in PATH, in
// priority order: rofi, fuzzel, wofi, dmenu.
func DetectBackend() (string, error) {
	for _, name := range []string{"rofi", "fuzzel", "wofi", "dmenu"} {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}

// Picker adapts a Backend to the group menu. Cancelling is not an error.
type Picker struct {
	Backend Backend
}

// Pick shows labels and returns the chosen index.
func (p Picker) Pick(prompt string, labels []string) (int, bool, error) {
	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{Label: label}
	}

	res, err := p.Backend.Show(prompt, items)
	if errors.Is(err, ErrCancelled) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return res.Index, true, nil
}
