package group

import (
	"testing"

	"github.com/1broseidon/groupwm/internal/platform"
)

func TestCycle_AllEmptyStaysPut(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		f := newFixture()

		f.reg.Cycle(reverse)

		if f.reg.Active().Index() != 0 {
			t.Fatalf("reverse=%v: expected active to stay 0, got %d", reverse, f.reg.Active().Index())
		}
		if f.stack.refreshes > NumGroups-1 {
			t.Fatalf("reverse=%v: walked too far (%d hides)", reverse, f.stack.refreshes)
		}
	}
}

func TestCycle_OnlyActiveHasClients(t *testing.T) {
	f := newFixture()
	c := f.client(1, 0)
	f.reg.Add(f.reg.Active(), c)

	f.reg.Cycle(false)

	if f.reg.Active().Index() != 0 {
		t.Fatalf("expected active to stay 0, got %d", f.reg.Active().Index())
	}
	if c.Hidden() || c.Group() != f.reg.Group(0) {
		t.Fatalf("cycle must not touch the only populated group")
	}
}

func TestCycle_ShowsFirstNonEmptyAndHidesSkipped(t *testing.T) {
	f := newFixture()
	second := f.client(2, 0)
	third := f.client(3, 1)
	f.reg.Add(f.reg.Group(1), second)
	f.reg.Add(f.reg.Group(2), third)
	f.reg.Hide(f.reg.Group(1))

	f.reg.Cycle(false)

	if f.reg.Active().Index() != 1 {
		t.Fatalf("expected group index 1 active, got %d", f.reg.Active().Index())
	}
	if f.reg.Group(1).Hidden() || second.Hidden() {
		t.Fatalf("expected first non-empty group to be shown")
	}
	if !f.reg.Group(2).Hidden() || !third.Hidden() {
		t.Fatalf("expected skipped non-empty group to be hidden")
	}
	if !f.reg.Group(0).Hidden() {
		t.Fatalf("expected previously active group to be hidden")
	}
}

func TestCycle_VisibleTargetOnlyBecomesActive(t *testing.T) {
	f := newFixture()
	c := f.client(2, 0)
	f.reg.Add(f.reg.Group(1), c)

	f.reg.Cycle(false)

	if f.reg.Active().Index() != 1 {
		t.Fatalf("expected group index 1 active, got %d", f.reg.Active().Index())
	}
	if len(f.stack.restacks) != 0 {
		t.Fatalf("expected no restack for an already visible group")
	}
	if c.Hidden() {
		t.Fatalf("expected client to stay visible")
	}
}

func TestCycle_Reverse(t *testing.T) {
	f := newFixture()
	near := f.client(9, 0)
	far := f.client(4, 1)
	f.reg.Add(f.reg.Group(8), near)
	f.reg.Add(f.reg.Group(3), far)

	f.reg.Cycle(true)

	if f.reg.Active().Index() != 8 {
		t.Fatalf("expected group index 8 active, got %d", f.reg.Active().Index())
	}
	if !far.Hidden() {
		t.Fatalf("expected group passed over in reverse to be hidden")
	}
}

func TestCycle_WrapsAround(t *testing.T) {
	f := newFixture()
	c := f.client(1, 0)
	f.reg.Add(f.reg.Group(0), c)
	f.reg.SetActive(NumGroups - 1)

	f.reg.Cycle(false)

	if f.reg.Active().Index() != 0 {
		t.Fatalf("expected walk to wrap to index 0, got %d", f.reg.Active().Index())
	}
}

func TestCycle_NeverChangesMembership(t *testing.T) {
	f := newFixture()
	members := map[platform.WindowID]int{1: 2, 2: 5, 3: 5, 4: 9}
	clients := make(map[platform.WindowID]*Client)
	for w, idx := range members {
		c := f.client(w, int(w))
		clients[w] = c
		f.reg.Add(f.reg.Group(idx), c)
	}

	for i := 0; i < 2*NumGroups; i++ {
		f.reg.Cycle(i%3 == 0)
	}

	for w, idx := range members {
		if clients[w].Group() != f.reg.Group(idx) {
			t.Fatalf("window %d moved out of group index %d", w, idx)
		}
	}
}
