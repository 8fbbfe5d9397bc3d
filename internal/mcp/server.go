// Package mcp exposes the group commands to MCP clients over stdio. Every
// tool forwards to the running daemon through its IPC socket.
package mcp

import (
	"context"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/groupwm/internal/ipc"
)

const (
	ServerName    = "groupwm"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	ListGroups() (*ipc.GroupsData, error)
	Cycle(reverse bool) error
	Only(group int) error
	HideToggle(group int) error
	HideAll() error
	MoveWindow(window uint32, group int) error
}

// Server is the MCP server for group control.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_groups",
		Description: "List all ten window groups with their names, visibility, and member window ids. Groups are numbered 1-10; the active group is flagged.",
	}, s.handleListGroups)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_group",
		Description: "Switch to the next group that has windows (or the previous one when reverse is true). Groups passed over are hidden.",
	}, s.handleCycleGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_only_group",
		Description: "Show a single group (1-10) and hide every other group. The shown group becomes active.",
	}, s.handleShowOnlyGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_group",
		Description: "Toggle the visibility of a group (1-10). Showing a group makes it active.",
	}, s.handleToggleGroup)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_all_groups",
		Description: "Hide every group, or show them all again if they are already hidden.",
	}, s.handleHideAllGroups)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window into a group (1-10). Omit window (or pass 0) to move the focused window. A window moved into a group other than the active one is hidden.",
	}, s.handleMoveWindow)
}
