package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/groupwm/internal/group"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListGroups  CommandType = "LIST_GROUPS"
	CommandCycle       CommandType = "CYCLE"
	CommandOnly        CommandType = "ONLY"
	CommandHideToggle  CommandType = "HIDE_TOGGLE"
	CommandHideAll     CommandType = "HIDE_ALL"
	CommandMoveWindow  CommandType = "MOVE_WINDOW"
	CommandMenu        CommandType = "MENU"
	CommandUpdateNames CommandType = "UPDATE_NAMES"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveGroup    int    `json:"active_group"`
	ActiveName     string `json:"active_name"`
	AllHidden      bool   `json:"all_hidden"`
	GroupedWindows int    `json:"grouped_windows"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// GroupData describes one group in LIST_GROUPS output.
type GroupData struct {
	Shortcut int      `json:"shortcut"`
	Name     string   `json:"name"`
	Hidden   bool     `json:"hidden"`
	Active   bool     `json:"active"`
	Windows  []uint32 `json:"windows"`
}

// GroupsData represents the data returned by LIST_GROUPS
type GroupsData struct {
	ActiveGroup int         `json:"active_group"`
	AllHidden   bool        `json:"all_hidden"`
	Groups      []GroupData `json:"groups"`
}

// CyclePayload represents the payload for CYCLE
type CyclePayload struct {
	Reverse bool `json:"reverse,omitempty"`
}

// GroupPayload names a group by its 1-based shortcut. Used by ONLY and
// HIDE_TOGGLE.
type GroupPayload struct {
	Group int `json:"group"`
}

// MoveWindowPayload represents the payload for MOVE_WINDOW. A zero window
// means the active window.
type MoveWindowPayload struct {
	Window uint32 `json:"window,omitempty"`
	Group  int    `json:"group"`
}

// NewGroupsData converts a registry snapshot into its wire form.
func NewGroupsData(snap group.Snapshot) GroupsData {
	data := GroupsData{
		ActiveGroup: snap.Active + 1,
		AllHidden:   snap.AllHidden,
		Groups:      make([]GroupData, 0, len(snap.Groups)),
	}
	for _, g := range snap.Groups {
		wins := make([]uint32, 0, len(g.Windows))
		for _, w := range g.Windows {
			wins = append(wins, uint32(w))
		}
		data.Groups = append(data.Groups, GroupData{
			Shortcut: g.Shortcut,
			Name:     g.Name,
			Hidden:   g.Hidden,
			Active:   g.Active,
			Windows:  wins,
		})
	}
	return data
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
