package daemon

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/platform"
)

func TestTracker_SyncClassifiesNewClients(t *testing.T) {
	reg, display := newRegistry(group.Rule{Class: "XTerm", Group: 2})
	source := &fakeSource{}
	source.set(xterm(1), platform.Window{ID: 2, Class: "Emacs", Instance: "emacs"})
	tr := NewTracker(source, nil)

	if err := tr.Sync(reg); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if tr.Len() != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", tr.Len())
	}
	c, err := tr.Client(1)
	if err != nil {
		t.Fatalf("Client(1): %v", err)
	}
	if c.Group() != reg.Group(1) {
		t.Fatalf("expected xterm in group 2")
	}
	if d := display.desktops[1]; d != platform.Assigned(1) {
		t.Fatalf("expected desktop 1 published, got %+v", d)
	}
	emacs, _ := tr.Client(2)
	if emacs.Group() != nil {
		t.Fatalf("expected unmatched client to stay ungrouped")
	}
}

func TestTracker_SyncKeepsExistingRecords(t *testing.T) {
	reg, _ := newRegistry()
	source := &fakeSource{}
	source.set(xterm(1))
	tr := NewTracker(source, nil)
	_ = tr.Sync(reg)
	first, _ := tr.Client(1)
	reg.MoveToGroup(first, 4)

	_ = tr.Sync(reg)

	again, _ := tr.Client(1)
	if again != first {
		t.Fatalf("expected the same client record across syncs")
	}
	if again.Group() != reg.Group(4) {
		t.Fatalf("resync must not reclassify a known client")
	}
}

func TestTracker_SyncDropsVanishedClients(t *testing.T) {
	reg, _ := newRegistry(group.Rule{Class: "XTerm", Group: 3})
	source := &fakeSource{}
	source.set(xterm(1), xterm(2))
	tr := NewTracker(source, nil)
	_ = tr.Sync(reg)

	source.set(xterm(2))
	if err := tr.Sync(reg); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if _, err := tr.Client(1); err == nil {
		t.Fatalf("expected vanished client to be forgotten")
	}
	if got := reg.Group(2).Len(); got != 1 {
		t.Fatalf("expected one member left in group 3, got %d", got)
	}
}

func TestTracker_SyncSourceError(t *testing.T) {
	reg, _ := newRegistry()
	source := &fakeSource{err: errors.New("display gone")}
	tr := NewTracker(source, nil)

	if err := tr.Sync(reg); err == nil {
		t.Fatalf("expected error from source")
	}
}

func TestTracker_HiddenClientSurvivesSync(t *testing.T) {
	source := &fakeSource{}
	reg, _ := newRegistryOn(source, group.Rule{Class: "XTerm", Group: 2})
	source.set(xterm(1), xterm(2))
	tr := NewTracker(source, nil)
	_ = tr.Sync(reg)

	reg.HideToggle(1)
	if got, _ := source.Clients(); len(got) != 0 {
		t.Fatalf("expected hidden windows to leave the client list, got %v", got)
	}
	if err := tr.Sync(reg); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if tr.Len() != 2 || reg.Group(1).Len() != 2 {
		t.Fatalf("expected hidden members to stay tracked, got tracked=%d members=%d", tr.Len(), reg.Group(1).Len())
	}

	reg.HideToggle(1)
	_ = tr.Sync(reg)

	for _, win := range []platform.WindowID{1, 2} {
		c, err := tr.Client(win)
		if err != nil {
			t.Fatalf("Client(%d): %v", win, err)
		}
		if c.Hidden() || c.Group() != reg.Group(1) {
			t.Fatalf("window %d: expected visible member of group 2", win)
		}
	}
	if got, _ := source.Clients(); len(got) != 2 {
		t.Fatalf("expected shown windows back in the client list, got %v", got)
	}
}

func TestTracker_ForgetDropsHiddenClient(t *testing.T) {
	source := &fakeSource{}
	reg, _ := newRegistryOn(source, group.Rule{Class: "XTerm", Group: 3})
	source.set(xterm(1))
	tr := NewTracker(source, nil)
	_ = tr.Sync(reg)
	reg.HideToggle(2)

	if !tr.Forget(reg, 1) {
		t.Fatalf("expected window 1 to be tracked")
	}
	if tr.Forget(reg, 1) {
		t.Fatalf("expected second Forget to report an unknown window")
	}

	if tr.Len() != 0 || !reg.Group(2).Empty() {
		t.Fatalf("expected destroyed client to leave its group")
	}
	_ = tr.Sync(reg)
	if tr.Len() != 0 {
		t.Fatalf("expected no records after resync, got %d", tr.Len())
	}
}

func TestTracker_WatchesAdoptedClients(t *testing.T) {
	reg, _ := newRegistry()
	source := &fakeSource{}
	source.set(xterm(1), xterm(2))
	tr := NewTracker(source, nil)

	_ = tr.Sync(reg)
	_ = tr.Sync(reg)

	source.mu.Lock()
	watched := append([]platform.WindowID(nil), source.watched...)
	source.mu.Unlock()
	slices.Sort(watched)
	if diff := cmp.Diff([]platform.WindowID{1, 2}, watched); diff != "" {
		t.Fatalf("watched windows mismatch (-want +got):\n%s", diff)
	}
}
