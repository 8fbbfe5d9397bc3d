package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// dmenuLikeBackend drives any launcher that reads rows on stdin and prints
// the selection on stdout.
type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities

	run func(command string, args []string, stdin string) (string, error)
}

func NewRofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "rofi",
		kind:    kindRofi,
		caps:    Capabilities{Markup: true, IndexOutput: true, RowStates: true},
		run:     runCommand,
	}
}

func NewDmenuBackend() Backend {
	return &dmenuLikeBackend{command: "dmenu", kind: kindDmenu, run: runCommand}
}

func NewWofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
		caps:    Capabilities{Markup: true},
		run:     runCommand,
	}
}

func NewFuzzelBackend() Backend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps:    Capabilities{IndexOutput: true},
		run:     runCommand,
	}
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	displayItems := make([]Item, len(items))
	copy(displayItems, items)

	input, active, urgent := b.formatInput(displayItems)
	selection, err := b.run(b.command, b.buildArgs(prompt, active, urgent), input)
	if err != nil {
		return SelectResult{}, err
	}
	if selection == "" {
		return SelectResult{}, ErrCancelled
	}

	idx, err := b.parseSelection(selection, displayItems)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Index: idx, Item: items[idx]}, nil
}

func runCommand(command string, args []string, stdin string) (string, error) {
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		// Check for cancel (exit code 1 or 130 for Ctrl+C)
		if selection == "" && isCancelExit(err) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s", command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", command, err)
	}
	return selection, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt string, active, urgent []int) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		// Output only the index for robust selection parsing (labels may contain ':' or markup).
		args = append(args, "-format", "i", "-no-custom", "-markup-rows")
		if len(active) > 0 {
			args = append(args, "-a", formatIndices(active), "-selected-row", strconv.Itoa(active[0]))
		}
		if len(urgent) > 0 {
			args = append(args, "-u", formatIndices(urgent))
		}

	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindWofi:
		args = []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

// formatInput renders one row per item and collects the active and urgent
// row indices.
func (b *dmenuLikeBackend) formatInput(items []Item) (string, []int, []int) {
	// Backends that match by visible text (dmenu/wofi) need label disambiguation.
	if !b.caps.IndexOutput {
		seen := make(map[string]int)
		for i := range items {
			key := sanitizeLabel(items[i].Label)
			if count := seen[key]; count > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
			}
			seen[key]++
		}
	}

	var active, urgent []int
	lines := make([]string, 0, len(items))
	for i, item := range items {
		display := sanitizeLabel(item.Label)
		if b.caps.Markup {
			display = html.EscapeString(display)
		}
		lines = append(lines, display)

		if b.caps.RowStates {
			if item.IsActive {
				active = append(active, i)
			}
			if item.IsUrgent {
				urgent = append(urgent, i)
			}
		}
	}
	return strings.Join(lines, "\n"), active, urgent
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (int, error) {
	if b.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return 0, fmt.Errorf("palette: index %d out of range", idx)
			}
			return idx, nil
		}
	}

	for i, item := range items {
		label := sanitizeLabel(item.Label)
		if b.caps.Markup {
			// wofi echoes the escaped row back.
			if html.EscapeString(label) == selection {
				return i, nil
			}
		}
		if label == selection {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Rofi/dmenu/wofi typically use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
