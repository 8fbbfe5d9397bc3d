package mcp

// ListGroupsInput is the input for the list_groups tool.
type ListGroupsInput struct {
	NonEmpty bool `json:"non_empty,omitempty" jsonschema:"When true, only return groups that have at least one window"`
}

// GroupInfo describes one group.
type GroupInfo struct {
	Group   int      `json:"group"`
	Name    string   `json:"name"`
	Hidden  bool     `json:"hidden"`
	Active  bool     `json:"active"`
	Windows []uint32 `json:"windows"`
}

// ListGroupsOutput is the output for the list_groups tool.
type ListGroupsOutput struct {
	ActiveGroup int         `json:"active_group"`
	AllHidden   bool        `json:"all_hidden"`
	Groups      []GroupInfo `json:"groups"`
}

// CycleGroupInput is the input for the cycle_group tool.
type CycleGroupInput struct {
	Reverse bool `json:"reverse,omitempty" jsonschema:"Cycle backwards instead of forwards"`
}

// GroupInput names a group.
type GroupInput struct {
	Group int `json:"group" jsonschema:"required,Group number from 1 to 10"`
}

// HideAllGroupsInput is the input for the hide_all_groups tool.
type HideAllGroupsInput struct{}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X11 window id; 0 or omitted means the focused window"`
	Group  int    `json:"group" jsonschema:"required,Target group number from 1 to 10"`
}

// StateOutput reports the group state after a command ran.
type StateOutput struct {
	ActiveGroup int  `json:"active_group"`
	AllHidden   bool `json:"all_hidden"`
}
