package group

// Cycle switches to the next (or previous, when reverse is set) non-empty
// group. Non-empty groups passed over on the way are hidden. When no other
// group has members, nothing changes.
func (r *Registry) Cycle(reverse bool) {
	if r.active == nil {
		panic("group: Cycle: no active group")
	}

	step := 1
	if reverse {
		step = NumGroups - 1
	}

	start := r.active.Index()
	var showgroup *Group

	// The walk is bounded by the ring size, not by group contents.
	for i := 1; i < NumGroups; i++ {
		g := &r.groups[(start+i*step)%NumGroups]
		if g == r.active {
			break
		}

		if !g.Empty() && showgroup == nil {
			showgroup = g
		} else if !g.hidden {
			r.Hide(g)
		}
	}

	if showgroup == nil {
		return
	}

	r.Hide(r.active)

	if showgroup.hidden {
		r.Show(showgroup)
	} else {
		r.SetActive(showgroup.Index())
	}
	r.logger.Debug("cycled group", "reverse", reverse, "active", r.active.shortcut)
}
