package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/platform"
)

// Commands is the daemon surface exposed over the socket.
type Commands interface {
	Snapshot(ctx context.Context) (group.Snapshot, error)
	Cycle(ctx context.Context, reverse bool) error
	Only(ctx context.Context, shortcut int) error
	HideToggle(ctx context.Context, shortcut int) error
	HideAll(ctx context.Context) error
	MoveWindow(ctx context.Context, win platform.WindowID, shortcut int) error
	Menu(ctx context.Context) error
	UpdateNames(ctx context.Context) error
}

// ServerOptions configures a Server.
type ServerOptions struct {
	SocketPath string
	Commands   Commands
	// Reload re-reads the configuration and applies it.
	Reload func(ctx context.Context) error
	Logger *slog.Logger
	// Timeout bounds each request. MENU waits on the user, so the default
	// is generous.
	Timeout time.Duration
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	commands     Commands
	reload       func(ctx context.Context) error
	logger       *slog.Logger
	timeout      time.Duration
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.SocketPath == "" {
		return nil, fmt.Errorf("socket path is required")
	}
	if opts.Commands == nil {
		return nil, fmt.Errorf("commands are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	// Remove existing socket if present
	os.Remove(opts.SocketPath)

	return &Server{
		socketPath: opts.SocketPath,
		commands:   opts.Commands,
		reload:     opts.Reload,
		logger:     logger,
		timeout:    timeout,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandReload:
		return s.handleReload(ctx)
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListGroups:
		return s.handleListGroups(ctx)
	case CommandCycle:
		var p CyclePayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid cycle payload: %v", err))
		}
		return result(s.commands.Cycle(ctx, p.Reverse))
	case CommandOnly:
		var p GroupPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid only payload: %v", err))
		}
		return result(s.commands.Only(ctx, p.Group))
	case CommandHideToggle:
		var p GroupPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid toggle payload: %v", err))
		}
		return result(s.commands.HideToggle(ctx, p.Group))
	case CommandHideAll:
		return result(s.commands.HideAll(ctx))
	case CommandMoveWindow:
		var p MoveWindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
		}
		return result(s.commands.MoveWindow(ctx, platform.WindowID(p.Window), p.Group))
	case CommandMenu:
		return result(s.commands.Menu(ctx))
	case CommandUpdateNames:
		return result(s.commands.UpdateNames(ctx))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}

func result(err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleReload(ctx context.Context) *Response {
	s.logger.Info("IPC: received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(ctx); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	snap, err := s.commands.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read state: %v", err))
	}

	status := StatusData{
		ActiveGroup:   snap.Active + 1,
		AllHidden:     snap.AllHidden,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	for _, g := range snap.Groups {
		status.GroupedWindows += len(g.Windows)
		if g.Active {
			status.ActiveName = g.Name
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListGroups(ctx context.Context) *Response {
	snap, err := s.commands.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read state: %v", err))
	}
	resp, _ := NewOKResponse(NewGroupsData(snap))
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
