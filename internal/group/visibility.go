package group

import "github.com/1broseidon/groupwm/internal/platform"

// Hide hides every member of g.
func (r *Registry) Hide(g *Group) {
	if g == nil {
		panic("group: Hide: nil group")
	}
	if err := r.stack.RefreshStackingOrder(); err != nil {
		r.logger.Warn("failed to refresh stacking order", "error", err)
	}

	g.nhidden = 0
	g.highstack = 0
	for _, c := range g.clients {
		r.hideClient(c)
		g.nhidden++
		if idx := r.stack.StackIndex(c.Window); idx > g.highstack {
			g.highstack = idx
		}
	}
	g.hidden = true
	r.logger.Debug("group hidden", "group", g.shortcut, "clients", g.nhidden)
}

// Show unhides every member of g, restores their relative stacking order and
// makes g the active group.
func (r *Registry) Show(g *Group) {
	if g == nil {
		panic("group: Show: nil group")
	}

	g.highstack = 0
	for _, c := range g.clients {
		if idx := r.stack.StackIndex(c.Window); idx > g.highstack {
			g.highstack = idx
		}
	}

	// Stacking indices run bottom-to-top; the restack request wants
	// top-to-bottom.
	winlist := make([]platform.WindowID, g.highstack+1)
	for _, c := range g.clients {
		idx := r.stack.StackIndex(c.Window)
		if idx < 0 {
			idx = 0
		}
		winlist[g.highstack-idx] = c.Window
		r.unhideClient(c)
	}

	if winlist = Compact(winlist); len(winlist) > 0 {
		if err := r.stack.Restack(winlist); err != nil {
			r.logger.Warn("failed to restack group", "group", g.shortcut, "error", err)
		}
	}

	g.hidden = false
	r.SetActive(g.Index())
	r.logger.Debug("group shown", "group", g.shortcut, "clients", len(g.clients))
}

// Compact left-packs the non-zero entries of buf in their original order.
// buf is reused; the returned slice has no holes.
func Compact(buf []platform.WindowID) []platform.WindowID {
	n := 0
	for _, w := range buf {
		if w != 0 {
			buf[n] = w
			n++
		}
	}
	return buf[:n]
}

// fixHiddenState flips the recorded hidden flag when no member agrees with
// it. Groups with mixed member states keep their flag.
func (r *Registry) fixHiddenState(g *Group) {
	same := 0
	for _, c := range g.clients {
		if c.hidden == g.hidden {
			same++
		}
	}
	if same == 0 {
		g.hidden = !g.hidden
	}
}

// HideToggle shows the group at idx if it is hidden and hides it otherwise.
func (r *Registry) HideToggle(idx int) {
	g := r.group("HideToggle", idx)
	r.fixHiddenState(g)

	if g.hidden {
		r.Show(g)
		return
	}
	r.Hide(g)
	if g.Empty() {
		r.SetActive(idx)
	}
}

// Only shows the group at idx and hides every other group.
func (r *Registry) Only(idx int) {
	r.group("Only", idx)
	for i := range r.groups {
		if i == idx {
			r.Show(&r.groups[i])
		} else {
			r.Hide(&r.groups[i])
		}
	}
}

// AllToggle hides every group, or shows every group when they were hidden by
// a previous AllToggle.
func (r *Registry) AllToggle() {
	for i := range r.groups {
		if r.hideAll {
			r.Show(&r.groups[i])
		} else {
			r.Hide(&r.groups[i])
		}
	}
	r.hideAll = !r.hideAll
}
