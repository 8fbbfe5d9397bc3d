package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/groupwm/internal/group"
)

func validateGroup(n int) error {
	if n < 1 || n > group.NumGroups {
		return fmt.Errorf("group must be between 1 and %d, got %d", group.NumGroups, n)
	}
	return nil
}

func (s *Server) handleListGroups(_ context.Context, _ *mcpsdk.CallToolRequest, args ListGroupsInput) (*mcpsdk.CallToolResult, ListGroupsOutput, error) {
	data, err := s.daemon.ListGroups()
	if err != nil {
		return nil, ListGroupsOutput{}, err
	}

	out := ListGroupsOutput{
		ActiveGroup: data.ActiveGroup,
		AllHidden:   data.AllHidden,
		Groups:      make([]GroupInfo, 0, len(data.Groups)),
	}
	for _, g := range data.Groups {
		if args.NonEmpty && len(g.Windows) == 0 {
			continue
		}
		windows := g.Windows
		if windows == nil {
			windows = []uint32{}
		}
		out.Groups = append(out.Groups, GroupInfo{
			Group:   g.Shortcut,
			Name:    g.Name,
			Hidden:  g.Hidden,
			Active:  g.Active,
			Windows: windows,
		})
	}
	return nil, out, nil
}

func (s *Server) handleCycleGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args CycleGroupInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	s.logger.Info("mcp: cycle_group", "reverse", args.Reverse)
	if err := s.daemon.Cycle(args.Reverse); err != nil {
		return nil, StateOutput{}, err
	}
	return s.state()
}

func (s *Server) handleShowOnlyGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args GroupInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err := validateGroup(args.Group); err != nil {
		return nil, StateOutput{}, err
	}
	s.logger.Info("mcp: show_only_group", "group", args.Group)
	if err := s.daemon.Only(args.Group); err != nil {
		return nil, StateOutput{}, err
	}
	return s.state()
}

func (s *Server) handleToggleGroup(_ context.Context, _ *mcpsdk.CallToolRequest, args GroupInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err := validateGroup(args.Group); err != nil {
		return nil, StateOutput{}, err
	}
	s.logger.Info("mcp: toggle_group", "group", args.Group)
	if err := s.daemon.HideToggle(args.Group); err != nil {
		return nil, StateOutput{}, err
	}
	return s.state()
}

func (s *Server) handleHideAllGroups(_ context.Context, _ *mcpsdk.CallToolRequest, _ HideAllGroupsInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	s.logger.Info("mcp: hide_all_groups")
	if err := s.daemon.HideAll(); err != nil {
		return nil, StateOutput{}, err
	}
	return s.state()
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, any, error) {
	if err := validateGroup(args.Group); err != nil {
		return nil, nil, err
	}
	s.logger.Info("mcp: move_window", "window", args.Window, "group", args.Group)
	if err := s.daemon.MoveWindow(args.Window, args.Group); err != nil {
		return nil, nil, err
	}

	target := "focused window"
	if args.Window != 0 {
		target = fmt.Sprintf("window %#x", args.Window)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf("Moved %s to group %d", target, args.Group)},
		},
	}, nil, nil
}

// state reads back the active group so callers see the effect of a command.
func (s *Server) state() (*mcpsdk.CallToolResult, StateOutput, error) {
	data, err := s.daemon.ListGroups()
	if err != nil {
		return nil, StateOutput{}, err
	}
	return nil, StateOutput{ActiveGroup: data.ActiveGroup, AllHidden: data.AllHidden}, nil
}
