package group

import (
	"fmt"
	"strings"
)

// NoGroup is the rule target that keeps a client out of every group.
const NoGroup = 0

// Rule assigns windows of a class (and optionally an instance name) to the
// group with the given shortcut.
type Rule struct {
	Class    string
	Instance string // Empty matches any instance.
	Group    int
}

// ParseRule parses a rule value of the form "class" or "instance,class".
func ParseRule(value string, group int) (Rule, error) {
	if group < NoGroup || group > NumGroups {
		return Rule{}, fmt.Errorf("autogroup %q: group %d out of range (0-%d)", value, group, NumGroups)
	}

	rule := Rule{Group: group}
	if name, class, ok := strings.Cut(value, ","); ok {
		rule.Instance = name
		rule.Class = class
	} else {
		rule.Class = value
	}
	if rule.Class == "" {
		return Rule{}, fmt.Errorf("autogroup %q: class is empty", value)
	}
	return rule, nil
}

// Matches reports whether the rule applies to c.
func (rule Rule) Matches(c *Client) bool {
	if rule.Class != c.Class {
		return false
	}
	return rule.Instance == "" || rule.Instance == c.Instance
}

// Autogroup places a newly managed client. A desktop persisted on the window
// by a previous session wins over the rule table; unmatched clients join the
// active group when sticky groups are enabled. Clients missing either half
// of WM_CLASS are left alone.
func (r *Registry) Autogroup(c *Client) {
	if c == nil {
		panic("group: Autogroup: nil client")
	}
	if c.Class == "" || c.Instance == "" {
		return
	}

	target, found := r.persistedTarget(c)
	if !found {
		for _, rule := range r.rules {
			if rule.Matches(c) {
				target, found = rule.Group, true
				break
			}
		}
	}

	if found && target == NoGroup {
		return
	}
	if found && target >= 1 && target <= NumGroups {
		r.logger.Debug("autogroup", "window", c.Window, "class", c.Class, "group", target)
		r.Add(&r.groups[target-1], c)
		return
	}

	if r.sticky {
		r.Add(r.active, c)
	}
}

// persistedTarget converts the window's stored desktop into a group
// shortcut.
func (r *Registry) persistedTarget(c *Client) (int, bool) {
	d, ok, err := r.props.WindowDesktop(c.Window)
	if err != nil {
		r.logger.Debug("failed to read window desktop", "window", c.Window, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	idx, assigned := d.Index()
	switch {
	case !assigned:
		return NoGroup, true
	case idx < 0 || idx >= NumGroups:
		return NumGroups, true
	default:
		return idx + 1, true
	}
}
