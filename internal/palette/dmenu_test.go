package palette

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/google/go-cmp/cmp"
)

type runCall struct {
	command string
	args    []string
	stdin   string
}

func stubRun(b Backend, out string, err error) (*dmenuLikeBackend, *[]runCall) {
	d := b.(*dmenuLikeBackend)
	var calls []runCall
	d.run = func(command string, args []string, stdin string) (string, error) {
		calls = append(calls, runCall{command: command, args: args, stdin: stdin})
		return out, err
	}
	return d, &calls
}

func TestRofiBuildArgs_UsesIndexFormatAndNoCustom(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	_, active, urgent := b.formatInput([]Item{
		{Label: "a"},
		{Label: "b", IsActive: true},
		{Label: "c", IsUrgent: true},
	})
	args := b.buildArgs("group", active, urgent)

	if !containsArgs(args, "-format", "i") {
		t.Fatalf("expected -format i in args, got %v", args)
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
	if !containsArgs(args, "-p", "group") {
		t.Fatalf("expected prompt in args, got %v", args)
	}
	if !containsArgs(args, "-a", "1") || !containsArgs(args, "-selected-row", "1") {
		t.Fatalf("expected active row 1 in args, got %v", args)
	}
	if !containsArgs(args, "-u", "2") {
		t.Fatalf("expected -u 2 in args, got %v", args)
	}
}

func TestRofiShow_EscapesMarkupAndReturnsIndex(t *testing.T) {
	b, calls := stubRun(NewRofiBackend(), "1", nil)
	items := []Item{{Label: "1: one"}, {Label: "3: <dev>"}}

	res, err := b.Show("group", items)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if res.Index != 1 || res.Item.Label != "3: <dev>" {
		t.Fatalf("unexpected result %+v", res)
	}
	if diff := cmp.Diff("1: one\n3: &lt;dev&gt;", (*calls)[0].stdin); diff != "" {
		t.Fatalf("stdin mismatch (-want +got):\n%s", diff)
	}
}

func TestShow_EmptySelectionIsCancel(t *testing.T) {
	b, _ := stubRun(NewFuzzelBackend(), "", nil)

	_, err := b.Show("group", []Item{{Label: "a"}})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestShow_NoItems(t *testing.T) {
	b, calls := stubRun(NewDmenuBackend(), "a", nil)

	if _, err := b.Show("group", nil); err == nil {
		t.Fatalf("expected error for empty item list")
	}
	if len(*calls) != 0 {
		t.Fatalf("expected launcher not to run")
	}
}

func TestParseSelection(t *testing.T) {
	items := []Item{{Label: "1: one"}, {Label: "2: [a&b]"}}
	tests := []struct {
		name      string
		backend   Backend
		selection string
		want      int
		wantErr   bool
	}{
		{"rofi index", NewRofiBackend(), "1", 1, false},
		{"rofi out of range", NewRofiBackend(), "5", 0, true},
		{"fuzzel index", NewFuzzelBackend(), "0", 0, false},
		{"dmenu label", NewDmenuBackend(), "2: [a&b]", 1, false},
		{"wofi escaped label", NewWofiBackend(), "2: [a&amp;b]", 1, false},
		{"dmenu unknown", NewDmenuBackend(), "nope", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.backend.(*dmenuLikeBackend).parseSelection(tt.selection, items)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected index %d, got %d", tt.want, got)
			}
		})
	}
}

func TestFormatInput_DisambiguatesDuplicateLabels(t *testing.T) {
	b := NewDmenuBackend().(*dmenuLikeBackend)
	items := []Item{{Label: "Dup"}, {Label: "Dup"}}

	input, _, _ := b.formatInput(items)
	if items[1].Label != "Dup (2)" {
		t.Fatalf("expected second label disambiguated, got %q", items[1].Label)
	}
	if !strings.HasSuffix(input, "Dup (2)") {
		t.Fatalf("expected disambiguated row in input, got %q", input)
	}
}

func TestFormatInput_IndexBackendsDoNotDisambiguateDuplicateLabels(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)
	items := []Item{{Label: "Dup"}, {Label: "Dup"}}

	_, _, _ = b.formatInput(items)
	if items[0].Label != "Dup" || items[1].Label != "Dup" {
		t.Fatalf("expected labels unchanged for index backend, got %#v", items)
	}
}

func TestNewBackend(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		if name == "fuzzel" {
			return "/usr/bin/fuzzel", nil
		}
		return "", errors.New("not found")
	}

	b, err := NewBackend("auto")
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	if d, ok := b.(*dmenuLikeBackend); !ok || d.command != "fuzzel" {
		t.Fatalf("expected fuzzel to be detected, got %#v", b)
	}

	if _, err := NewBackend("rofi"); err == nil {
		t.Fatalf("expected error for missing rofi")
	}
	if _, err := NewBackend("terminal"); err != nil {
		t.Fatalf("terminal backend needs no binary: %v", err)
	}
	if _, err := NewBackend("zenity"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestDetectBackend_None(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(string) (string, error) { return "", errors.New("not found") }

	if _, err := DetectBackend(); err == nil {
		t.Fatalf("expected error when no launcher is installed")
	}
}

type fakeBackend struct {
	result SelectResult
	err    error
	items  []Item
}

func (f *fakeBackend) Show(prompt string, items []Item) (SelectResult, error) {
	f.items = items
	return f.result, f.err
}

func (f *fakeBackend) Capabilities() Capabilities { return Capabilities{} }

func TestPicker(t *testing.T) {
	fb := &fakeBackend{result: SelectResult{Index: 2}}
	idx, ok, err := Picker{Backend: fb}.Pick("group", []string{"a", "b", "c"})
	if err != nil || !ok || idx != 2 {
		t.Fatalf("expected (2, true, nil), got (%d, %v, %v)", idx, ok, err)
	}
	if diff := cmp.Diff([]Item{{Label: "a"}, {Label: "b"}, {Label: "c"}}, fb.items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	_, ok, err = Picker{Backend: &fakeBackend{err: ErrCancelled}}.Pick("group", []string{"a"})
	if ok || err != nil {
		t.Fatalf("expected cancel to be a silent no-selection, got ok=%v err=%v", ok, err)
	}

	boom := errors.New("boom")
	if _, _, err := (Picker{Backend: &fakeBackend{err: boom}}).Pick("group", []string{"a"}); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestTerminalBackend_Abort(t *testing.T) {
	b := &terminalBackend{run: func(*huh.Select[int]) error { return huh.ErrUserAborted }}

	_, err := b.Show("group", []Item{{Label: "a"}})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
