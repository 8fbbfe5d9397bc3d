package group

import (
	"fmt"

	"github.com/1broseidon/groupwm/internal/platform"
)

// Add appends c to g, detaching it from any previous group first.
func (r *Registry) Add(g *Group, c *Client) {
	if g == nil || c == nil {
		panic("group: Add: nil group or client")
	}
	if c.group == g {
		return
	}
	if c.group != nil {
		c.group.detach(c)
	}

	r.published("window desktop", r.props.SetWindowDesktop(c.Window, platform.Assigned(g.shortcut-1)))

	g.clients = append(g.clients, c)
	c.group = g
	r.logger.Debug("client joined group", "window", c.Window, "group", g.shortcut)
}

// Remove takes c out of its group and marks it ungrouped externally.
func (r *Registry) Remove(c *Client) {
	if c == nil || c.group == nil {
		panic("group: Remove: client is nil or has no group")
	}

	r.published("window desktop", r.props.SetWindowDesktop(c.Window, platform.Unassigned()))

	g := c.group
	g.detach(c)
	c.group = nil
	r.logger.Debug("client left group", "window", c.Window, "group", g.shortcut)
}

// MoveToGroup moves c into the group at idx. A client moved to a group that
// is not active is hidden first.
func (r *Registry) MoveToGroup(c *Client, idx int) {
	if c == nil {
		panic("group: MoveToGroup: nil client")
	}
	if idx < 0 || idx >= NumGroups {
		panic(fmt.Sprintf("group: MoveToGroup: index out of range (%d)", idx))
	}

	g := &r.groups[idx]
	if r.active != g {
		r.hideClient(c)
	}
	r.Add(g, c)
}

// ClientDestroyed detaches c from its group. It is a no-op for ungrouped
// clients.
func (r *Registry) ClientDestroyed(c *Client) {
	if c == nil || c.group == nil {
		return
	}
	c.group.detach(c)
	c.group = nil
}

// StickyToggleEnter toggles c's membership of the active group and marks
// its border accordingly.
func (r *Registry) StickyToggleEnter(c *Client) {
	if c == nil {
		panic("group: StickyToggleEnter: nil client")
	}

	if c.group == r.active {
		r.Remove(c)
		c.highlight = platform.HighlightUngroup
	} else {
		r.Add(r.active, c)
		c.highlight = platform.HighlightGroup
	}
	r.drawBorder(c)
}

// StickyToggleExit clears the mark set by StickyToggleEnter.
func (r *Registry) StickyToggleExit(c *Client) {
	if c == nil {
		panic("group: StickyToggleExit: nil client")
	}
	c.highlight = platform.HighlightNone
	r.drawBorder(c)
}
