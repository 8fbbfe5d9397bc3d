package group

import "fmt"

// MenuLabel formats g the way the group menu lists it. Hidden groups are
// bracketed.
func (r *Registry) MenuLabel(g *Group) string {
	if g.hidden {
		return fmt.Sprintf("%d: [%s]", g.shortcut, r.Name(g))
	}
	return fmt.Sprintf("%d: %s", g.shortcut, r.Name(g))
}

// Menu lets the user pick one of the non-empty groups and toggles it: a
// hidden group is shown, a visible one is hidden.
func (r *Registry) Menu(p Picker) error {
	if p == nil {
		panic("group: Menu: nil picker")
	}

	var (
		labels  []string
		choices []*Group
	)
	for i := range r.groups {
		g := &r.groups[i]
		if g.Empty() {
			continue
		}
		labels = append(labels, r.MenuLabel(g))
		choices = append(choices, g)
	}
	if len(choices) == 0 {
		return nil
	}

	idx, ok, err := p.Pick("group", labels)
	if err != nil {
		return fmt.Errorf("group menu: %w", err)
	}
	if !ok || idx < 0 || idx >= len(choices) {
		return nil
	}

	if g := choices[idx]; g.hidden {
		r.Show(g)
	} else {
		r.Hide(g)
	}
	return nil
}
