package group

import (
	"testing"

	"github.com/1broseidon/groupwm/internal/platform"
)

type fakeProps struct {
	numDesktops   int
	current       int
	currentWrites []int
	viewport      [2]int
	showing       bool
	rootsCleared  bool

	names       []byte
	namesOK     bool
	namesWrites int

	desktops map[platform.WindowID]platform.Desktop
}

func newFakeProps() *fakeProps {
	return &fakeProps{
		current:  -1,
		desktops: make(map[platform.WindowID]platform.Desktop),
	}
}

func (f *fakeProps) SetNumberOfDesktops(n int) error { f.numDesktops = n; return nil }
func (f *fakeProps) SetCurrentDesktop(i int) error {
	f.current = i
	f.currentWrites = append(f.currentWrites, i)
	return nil
}
func (f *fakeProps) SetDesktopViewport(x, y int) error { f.viewport = [2]int{x, y}; return nil }
func (f *fakeProps) SetShowingDesktop(s bool) error    { f.showing = s; return nil }
func (f *fakeProps) ClearVirtualRoots() error          { f.rootsCleared = true; return nil }

func (f *fakeProps) DesktopNames() ([]byte, bool, error) {
	return f.names, f.namesOK, nil
}

func (f *fakeProps) SetDesktopNames(raw []byte) error {
	f.names = append([]byte(nil), raw...)
	f.namesOK = true
	f.namesWrites++
	return nil
}

func (f *fakeProps) WindowDesktop(win platform.WindowID) (platform.Desktop, bool, error) {
	d, ok := f.desktops[win]
	return d, ok, nil
}

func (f *fakeProps) SetWindowDesktop(win platform.WindowID, d platform.Desktop) error {
	f.desktops[win] = d
	return nil
}

type fakeStack struct {
	order     map[platform.WindowID]int
	refreshes int
	restacks  [][]platform.WindowID
}

func newFakeStack() *fakeStack {
	return &fakeStack{order: make(map[platform.WindowID]int)}
}

func (f *fakeStack) RefreshStackingOrder() error { f.refreshes++; return nil }

func (f *fakeStack) StackIndex(win platform.WindowID) int { return f.order[win] }

func (f *fakeStack) Restack(wins []platform.WindowID) error {
	f.restacks = append(f.restacks, append([]platform.WindowID(nil), wins...))
	return nil
}

type fakeWindows struct {
	hidden  map[platform.WindowID]bool
	borders map[platform.WindowID][]platform.Highlight
}

func newFakeWindows() *fakeWindows {
	return &fakeWindows{
		hidden:  make(map[platform.WindowID]bool),
		borders: make(map[platform.WindowID][]platform.Highlight),
	}
}

func (f *fakeWindows) Hide(win platform.WindowID) error   { f.hidden[win] = true; return nil }
func (f *fakeWindows) Unhide(win platform.WindowID) error { f.hidden[win] = false; return nil }
func (f *fakeWindows) DrawBorder(win platform.WindowID, h platform.Highlight) error {
	f.borders[win] = append(f.borders[win], h)
	return nil
}

type fakePicker struct {
	choice  int
	ok      bool
	prompts []string
	labels  []string
	calls   int
}

func (f *fakePicker) Pick(prompt string, labels []string) (int, bool, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.labels = append([]string(nil), labels...)
	return f.choice, f.ok, nil
}

type fixture struct {
	reg     *Registry
	props   *fakeProps
	stack   *fakeStack
	windows *fakeWindows
}

func newFixture(rules ...Rule) *fixture {
	f := &fixture{
		props:   newFakeProps(),
		stack:   newFakeStack(),
		windows: newFakeWindows(),
	}
	f.reg = NewRegistry(Deps{
		Props:   f.props,
		Stack:   f.stack,
		Windows: f.windows,
		Rules:   rules,
	})
	return f
}

// client creates a client with the given window id and stacking index.
func (f *fixture) client(win platform.WindowID, stackIndex int) *Client {
	f.stack.order[win] = stackIndex
	return NewClient(platform.Window{ID: win, Class: "XTerm", Instance: "xterm"})
}

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	fn()
}
