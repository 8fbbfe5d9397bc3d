package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/groupwm/internal/ipc"
)

type fakeDaemon struct {
	data  ipc.GroupsData
	calls []string
	err   error
}

func (f *fakeDaemon) ListGroups() (*ipc.GroupsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := f.data
	return &d, nil
}

func (f *fakeDaemon) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeDaemon) Cycle(reverse bool) error         { return f.record("cycle %v", reverse) }
func (f *fakeDaemon) Only(n int) error                 { return f.record("only %d", n) }
func (f *fakeDaemon) HideToggle(n int) error           { return f.record("toggle %d", n) }
func (f *fakeDaemon) HideAll() error                   { return f.record("hide all") }
func (f *fakeDaemon) MoveWindow(w uint32, n int) error { return f.record("move %d %d", w, n) }

func connect(t *testing.T, d Daemon) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	s := NewServer(d, nil)

	ct, st := mcpsdk.NewInMemoryTransports()
	ss, err := s.mcpServer.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func decode[T any](t *testing.T, res *mcpsdk.CallToolResult) T {
	t.Helper()
	var out T
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func resultText(res *mcpsdk.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func sampleGroups() ipc.GroupsData {
	return ipc.GroupsData{
		ActiveGroup: 2,
		Groups: []ipc.GroupData{
			{Shortcut: 1, Name: "one", Hidden: true, Windows: []uint32{10}},
			{Shortcut: 2, Name: "two", Active: true, Windows: []uint32{20, 21}},
			{Shortcut: 3, Name: "three"},
		},
	}
}

func TestTools_Registered(t *testing.T) {
	cs := connect(t, &fakeDaemon{})

	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	got := make(map[string]bool)
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"list_groups", "cycle_group", "show_only_group", "toggle_group", "hide_all_groups", "move_window"} {
		if !got[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestListGroups(t *testing.T) {
	cs := connect(t, &fakeDaemon{data: sampleGroups()})

	res := call(t, cs, "list_groups", nil)
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}

	want := ListGroupsOutput{
		ActiveGroup: 2,
		Groups: []GroupInfo{
			{Group: 1, Name: "one", Hidden: true, Windows: []uint32{10}},
			{Group: 2, Name: "two", Active: true, Windows: []uint32{20, 21}},
			{Group: 3, Name: "three", Windows: []uint32{}},
		},
	}
	if diff := cmp.Diff(want, decode[ListGroupsOutput](t, res)); diff != "" {
		t.Fatalf("list_groups mismatch (-want +got):\n%s", diff)
	}
}

func TestListGroups_NonEmpty(t *testing.T) {
	cs := connect(t, &fakeDaemon{data: sampleGroups()})

	res := call(t, cs, "list_groups", map[string]any{"non_empty": true})

	out := decode[ListGroupsOutput](t, res)
	if len(out.Groups) != 2 {
		t.Fatalf("expected 2 non-empty groups, got %d", len(out.Groups))
	}
}

func TestCommands(t *testing.T) {
	d := &fakeDaemon{data: sampleGroups()}
	cs := connect(t, d)

	call(t, cs, "cycle_group", map[string]any{"reverse": true})
	call(t, cs, "show_only_group", map[string]any{"group": 4})
	call(t, cs, "toggle_group", map[string]any{"group": 10})
	res := call(t, cs, "hide_all_groups", nil)
	move := call(t, cs, "move_window", map[string]any{"group": 3})

	want := []string{"cycle true", "only 4", "toggle 10", "hide all", "move 0 3"}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Fatalf("daemon calls mismatch (-want +got):\n%s", diff)
	}
	if got := decode[StateOutput](t, res); got.ActiveGroup != 2 {
		t.Fatalf("expected active group 2 in state, got %+v", got)
	}
	if text := resultText(move); text != "Moved focused window to group 3" {
		t.Fatalf("unexpected move result %q", text)
	}
}

func TestCommands_RejectOutOfRangeGroup(t *testing.T) {
	d := &fakeDaemon{}
	cs := connect(t, d)

	for _, tool := range []string{"show_only_group", "toggle_group", "move_window"} {
		res := call(t, cs, tool, map[string]any{"group": 11})
		if !res.IsError || !strings.Contains(resultText(res), "between 1 and 10") {
			t.Errorf("%s: expected range error, got %q", tool, resultText(res))
		}
	}
	if len(d.calls) != 0 {
		t.Fatalf("expected no daemon calls, got %v", d.calls)
	}
}

func TestCommands_DaemonError(t *testing.T) {
	cs := connect(t, &fakeDaemon{err: errors.New("failed to connect to daemon")})

	res := call(t, cs, "cycle_group", nil)

	if !res.IsError || !strings.Contains(resultText(res), "failed to connect") {
		t.Fatalf("expected daemon error in result, got %q", resultText(res))
	}
}
