package daemon

import (
	"context"
	"sync"
	"testing"

	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/platform"
)

// nullDisplay satisfies every window-system collaborator of the registry
// and records the per-window desktop writes. With a source attached, hiding
// a window withdraws it from the client list the way an EWMH window manager
// does on unmap.
type nullDisplay struct {
	desktops map[platform.WindowID]platform.Desktop
	source   *fakeSource
}

func (d *nullDisplay) SetNumberOfDesktops(int) error       { return nil }
func (d *nullDisplay) SetCurrentDesktop(int) error         { return nil }
func (d *nullDisplay) SetDesktopViewport(int, int) error   { return nil }
func (d *nullDisplay) SetShowingDesktop(bool) error        { return nil }
func (d *nullDisplay) ClearVirtualRoots() error            { return nil }
func (d *nullDisplay) DesktopNames() ([]byte, bool, error) { return nil, false, nil }
func (d *nullDisplay) SetDesktopNames([]byte) error        { return nil }

func (d *nullDisplay) WindowDesktop(win platform.WindowID) (platform.Desktop, bool, error) {
	v, ok := d.desktops[win]
	return v, ok, nil
}

func (d *nullDisplay) SetWindowDesktop(win platform.WindowID, v platform.Desktop) error {
	d.desktops[win] = v
	return nil
}

func (d *nullDisplay) RefreshStackingOrder() error                            { return nil }
func (d *nullDisplay) StackIndex(platform.WindowID) int                       { return 0 }
func (d *nullDisplay) Restack([]platform.WindowID) error                      { return nil }
func (d *nullDisplay) DrawBorder(platform.WindowID, platform.Highlight) error { return nil }

func (d *nullDisplay) Hide(win platform.WindowID) error {
	if d.source != nil {
		d.source.withdraw(win)
	}
	return nil
}

func (d *nullDisplay) Unhide(win platform.WindowID) error {
	if d.source != nil {
		d.source.restore(win)
	}
	return nil
}

type fakeSource struct {
	mu        sync.Mutex
	wins      []platform.Window
	withdrawn map[platform.WindowID]platform.Window
	watched   []platform.WindowID
	active    platform.WindowID
	err       error
}

func (f *fakeSource) withdraw(win platform.WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.wins {
		if w.ID == win {
			if f.withdrawn == nil {
				f.withdrawn = make(map[platform.WindowID]platform.Window)
			}
			f.withdrawn[win] = w
			f.wins = append(f.wins[:i:i], f.wins[i+1:]...)
			return
		}
	}
}

func (f *fakeSource) restore(win platform.WindowID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.withdrawn[win]; ok {
		delete(f.withdrawn, win)
		f.wins = append(f.wins, w)
	}
}

func (f *fakeSource) WatchDestroy(win platform.WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watched = append(f.watched, win)
	return nil
}

func (f *fakeSource) set(wins ...platform.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wins = wins
}

func (f *fakeSource) Clients() ([]platform.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.Window(nil), f.wins...), f.err
}

func (f *fakeSource) ActiveWindow() (platform.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, nil
}

func xterm(id platform.WindowID) platform.Window {
	return platform.Window{ID: id, Class: "XTerm", Instance: "xterm"}
}

func newRegistry(rules ...group.Rule) (*group.Registry, *nullDisplay) {
	return newRegistryOn(nil, rules...)
}

// newRegistryOn builds a registry whose hide and unhide withdraw and restore
// windows in source.
func newRegistryOn(source *fakeSource, rules ...group.Rule) (*group.Registry, *nullDisplay) {
	d := &nullDisplay{desktops: make(map[platform.WindowID]platform.Desktop), source: source}
	reg := group.NewRegistry(group.Deps{Props: d, Stack: d, Windows: d, Rules: rules})
	return reg, d
}

type harness struct {
	ctrl    *Controller
	reg     *group.Registry
	source  *fakeSource
	tracker *Tracker
}

// startController runs a controller until the test ends.
func startController(t *testing.T, picker group.Picker, rules ...group.Rule) *harness {
	t.Helper()
	reg, _ := newRegistry(rules...)
	source := &fakeSource{}
	tracker := NewTracker(source, nil)
	ctrl := NewController(Options{
		Registry: reg,
		Tracker:  tracker,
		Active:   source,
		Picker:   picker,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &harness{ctrl: ctrl, reg: reg, source: source, tracker: tracker}
}
