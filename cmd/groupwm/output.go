package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/groupwm/internal/ipc"
)

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// printGroups writes one line per group, e.g. "* 2  two     [hidden]  0x1a00003".
func printGroups(w io.Writer, data *ipc.GroupsData) {
	for _, g := range data.Groups {
		marker := " "
		if g.Active {
			marker = "*"
		}
		state := ""
		if g.Hidden {
			state = "[hidden]"
		}
		wins := make([]string, 0, len(g.Windows))
		for _, win := range g.Windows {
			wins = append(wins, fmt.Sprintf("%#x", win))
		}
		line := fmt.Sprintf("%s %-2d %-8s %-8s %s", marker, g.Shortcut, g.Name, state, strings.Join(wins, " "))
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	if data.AllHidden {
		fmt.Fprintln(w, "(all groups hidden)")
	}
}
