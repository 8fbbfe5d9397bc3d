package group

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/groupwm/internal/platform"
)

func TestAdd_IsExclusive(t *testing.T) {
	f := newFixture()
	c := f.client(7, 0)
	g1 := f.reg.Group(1)
	g2 := f.reg.Group(2)

	f.reg.Add(g1, c)
	f.reg.Add(g2, c)

	if c.Group() != g2 {
		t.Fatalf("expected client in group 3, got %v", c.Group())
	}
	for _, g := range f.reg.Groups() {
		if g == g2 {
			continue
		}
		if g.indexOf(c) >= 0 {
			t.Fatalf("client still listed in group %d", g.Shortcut())
		}
	}
	if d := f.props.desktops[7]; d != platform.Assigned(2) {
		t.Fatalf("expected desktop 2 published, got %+v", d)
	}
}

func TestAdd_SameGroupIsNoop(t *testing.T) {
	f := newFixture()
	c := f.client(7, 0)
	g := f.reg.Group(0)

	f.reg.Add(g, c)
	f.reg.Add(g, c)

	if g.Len() != 1 {
		t.Fatalf("expected one member, got %d", g.Len())
	}
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	f := newFixture()
	g := f.reg.Group(3)
	for _, w := range []platform.WindowID{30, 10, 20} {
		f.reg.Add(g, f.client(w, 0))
	}

	var got []platform.WindowID
	for _, c := range g.Clients() {
		got = append(got, c.Window)
	}
	if diff := cmp.Diff([]platform.WindowID{30, 10, 20}, got); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_NilPanics(t *testing.T) {
	f := newFixture()

	expectPanic(t, func() { f.reg.Add(nil, f.client(1, 0)) })
	expectPanic(t, func() { f.reg.Add(f.reg.Group(0), nil) })
}

func TestRemove_RoundTripMarksUngrouped(t *testing.T) {
	f := newFixture()
	c := f.client(9, 0)
	g := f.reg.Group(4)

	f.reg.Add(g, c)
	f.reg.Remove(c)

	d, ok, _ := f.props.WindowDesktop(9)
	if !ok {
		t.Fatalf("expected desktop property to be present")
	}
	if _, assigned := d.Index(); assigned {
		t.Fatalf("expected ungrouped marker, got %+v", d)
	}
	if c.Group() != nil {
		t.Fatalf("expected no group, got %v", c.Group())
	}
	if !g.Empty() {
		t.Fatalf("expected group to be empty")
	}
}

func TestRemove_UngroupedPanics(t *testing.T) {
	f := newFixture()

	expectPanic(t, func() { f.reg.Remove(f.client(1, 0)) })
	expectPanic(t, func() { f.reg.Remove(nil) })
}

func TestMoveToGroup(t *testing.T) {
	tests := []struct {
		name       string
		idx        int
		wantHidden bool
	}{
		{"active group keeps client visible", 0, false},
		{"inactive group hides client first", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			c := f.client(3, 0)

			f.reg.MoveToGroup(c, tt.idx)

			if c.Group() != f.reg.Group(tt.idx) {
				t.Fatalf("expected client in group index %d", tt.idx)
			}
			if c.Hidden() != tt.wantHidden || f.windows.hidden[3] != tt.wantHidden {
				t.Fatalf("expected hidden=%v, got client=%v window=%v", tt.wantHidden, c.Hidden(), f.windows.hidden[3])
			}
		})
	}
}

func TestMoveToGroup_OutOfRangePanics(t *testing.T) {
	f := newFixture()
	c := f.client(3, 0)

	expectPanic(t, func() { f.reg.MoveToGroup(c, NumGroups) })
	expectPanic(t, func() { f.reg.MoveToGroup(c, -1) })
}

func TestClientDestroyed(t *testing.T) {
	f := newFixture()
	c := f.client(5, 0)
	g := f.reg.Group(2)
	f.reg.Add(g, c)
	before := f.props.desktops[5]

	f.reg.ClientDestroyed(c)

	if c.Group() != nil || !g.Empty() {
		t.Fatalf("expected client to be detached")
	}
	if f.props.desktops[5] != before {
		t.Fatalf("expected no property write for a destroyed window")
	}

	// Second call and ungrouped clients are no-ops.
	f.reg.ClientDestroyed(c)
	f.reg.ClientDestroyed(nil)
}

func TestStickyToggle(t *testing.T) {
	f := newFixture()
	c := f.client(11, 0)
	active := f.reg.Active()

	f.reg.StickyToggleEnter(c)
	if c.Group() != active || c.Highlight() != platform.HighlightGroup {
		t.Fatalf("expected client to join active group with group highlight")
	}

	f.reg.StickyToggleExit(c)
	if c.Group() != active {
		t.Fatalf("exit must not change membership")
	}
	if c.Highlight() != platform.HighlightNone {
		t.Fatalf("expected highlight cleared, got %v", c.Highlight())
	}

	f.reg.StickyToggleEnter(c)
	if c.Group() != nil || c.Highlight() != platform.HighlightUngroup {
		t.Fatalf("expected client to leave active group with ungroup highlight")
	}
	f.reg.StickyToggleExit(c)

	want := []platform.Highlight{
		platform.HighlightGroup,
		platform.HighlightNone,
		platform.HighlightUngroup,
		platform.HighlightNone,
	}
	if diff := cmp.Diff(want, f.windows.borders[11]); diff != "" {
		t.Fatalf("border redraws mismatch (-want +got):\n%s", diff)
	}
}
