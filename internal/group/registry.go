// Package group partitions managed client windows into a fixed set of
// groups (virtual desktops) and decides which groups are visible, in what
// stacking order, and which one is active.
//
// All Registry methods must be called from a single goroutine. Contract
// violations (nil arguments, out-of-range indices) panic.
package group

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/1broseidon/groupwm/internal/platform"
)

// NumGroups is the fixed number of groups per screen.
const NumGroups = 10

// Group is one virtual desktop.
type Group struct {
	shortcut int
	clients  []*Client
	hidden   bool

	// Scratch values recomputed on every hide/show.
	nhidden   int
	highstack int
}

// Shortcut returns the 1-based identity of the group.
func (g *Group) Shortcut() int { return g.shortcut }

// Index returns the 0-based position of the group in its registry.
func (g *Group) Index() int { return g.shortcut - 1 }

// Hidden reports the recorded hidden state of the group.
func (g *Group) Hidden() bool { return g.hidden }

// Len returns the number of member clients.
func (g *Group) Len() int { return len(g.clients) }

// Empty reports whether the group has no members.
func (g *Group) Empty() bool { return len(g.clients) == 0 }

// Clients returns the members in insertion order.
func (g *Group) Clients() []*Client {
	out := make([]*Client, len(g.clients))
	copy(out, g.clients)
	return out
}

func (g *Group) indexOf(c *Client) int {
	for i, cc := range g.clients {
		if cc == c {
			return i
		}
	}
	return -1
}

func (g *Group) detach(c *Client) {
	if i := g.indexOf(c); i >= 0 {
		g.clients = append(g.clients[:i], g.clients[i+1:]...)
	}
}

// Registry owns the groups of one screen.
type Registry struct {
	groups  [NumGroups]Group
	active  *Group
	hideAll bool
	names   []string

	rules  []Rule
	sticky bool

	props   PropertyStore
	stack   Stacker
	windows WindowOps
	logger  *slog.Logger
}

// NewRegistry creates the groups for a screen, repairs the persisted name
// list and publishes the initial desktop metadata.
func NewRegistry(d Deps) *Registry {
	if d.Props == nil || d.Stack == nil || d.Windows == nil {
		panic("group: NewRegistry: missing collaborator")
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Registry{
		rules:   append([]Rule(nil), d.Rules...),
		sticky:  d.Sticky,
		props:   d.Props,
		stack:   d.Stack,
		windows: d.Windows,
		logger:  logger,
	}

	r.UpdateNames()

	for i := range r.groups {
		r.groups[i] = Group{shortcut: i + 1}
	}

	r.published("viewport", r.props.SetDesktopViewport(0, 0))
	r.published("number of desktops", r.props.SetNumberOfDesktops(NumGroups))
	r.published("virtual roots", r.props.ClearVirtualRoots())
	r.published("showing desktop", r.props.SetShowingDesktop(false))
	r.SetActive(0)

	return r
}

// SetActive makes the group at idx the active one and publishes it.
func (r *Registry) SetActive(idx int) {
	r.active = r.group("SetActive", idx)
	r.published("current desktop", r.props.SetCurrentDesktop(idx))
}

// Active returns the active group.
func (r *Registry) Active() *Group { return r.active }

// Group returns the group at idx.
func (r *Registry) Group(idx int) *Group { return r.group("Group", idx) }

// Groups returns all groups in registry order.
func (r *Registry) Groups() []*Group {
	out := make([]*Group, NumGroups)
	for i := range r.groups {
		out[i] = &r.groups[i]
	}
	return out
}

// AllHidden reports the hide-all toggle state.
func (r *Registry) AllHidden() bool { return r.hideAll }

// Names returns a copy of the current group name list.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Name returns the display name of g.
func (r *Registry) Name(g *Group) string {
	if i := g.Index(); i < len(r.names) {
		return r.names[i]
	}
	return defaultNames[g.shortcut]
}

// SetRules replaces the autogroup rule table.
func (r *Registry) SetRules(rules []Rule) {
	r.rules = append([]Rule(nil), rules...)
}

// SetSticky sets whether unmatched clients join the active group.
func (r *Registry) SetSticky(sticky bool) {
	r.sticky = sticky
}

func (r *Registry) group(op string, idx int) *Group {
	if idx < 0 || idx >= NumGroups {
		panic(fmt.Sprintf("group: %s: index out of range (%d)", op, idx))
	}
	return &r.groups[idx]
}

func (r *Registry) published(what string, err error) {
	if err != nil {
		r.logger.Warn("failed to publish property", "property", what, "error", err)
	}
}

// Snapshot is a read-only view of a registry.
type Snapshot struct {
	Active    int
	AllHidden bool
	Groups    []GroupInfo
}

// GroupInfo describes one group in a Snapshot.
type GroupInfo struct {
	Shortcut int
	Name     string
	Hidden   bool
	Active   bool
	Windows  []platform.WindowID
}

// Snapshot captures the current state of every group.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Active:    r.active.Index(),
		AllHidden: r.hideAll,
		Groups:    make([]GroupInfo, 0, NumGroups),
	}
	for i := range r.groups {
		g := &r.groups[i]
		info := GroupInfo{
			Shortcut: g.shortcut,
			Name:     r.Name(g),
			Hidden:   g.hidden,
			Active:   g == r.active,
			Windows:  make([]platform.WindowID, 0, len(g.clients)),
		}
		for _, c := range g.clients {
			info.Windows = append(info.Windows, c.Window)
		}
		s.Groups = append(s.Groups, info)
	}
	return s
}
