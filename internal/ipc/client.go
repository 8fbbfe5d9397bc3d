package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/groupwm/internal/runtimepath"
)

const menuTimeout = 2 * time.Minute

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the daemon serving the current display.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client bound to an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	_, err := c.sendRequest(req, c.timeout)
	return err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.send(CommandReload, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus}, c.timeout)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// ListGroups retrieves every group with its members.
func (c *Client) ListGroups() (*GroupsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListGroups}, c.timeout)
	if err != nil {
		return nil, err
	}

	var data GroupsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse groups data: %w", err)
	}

	return &data, nil
}

// Cycle switches to the next non-empty group, or the previous one when
// reverse is set.
func (c *Client) Cycle(reverse bool) error {
	return c.send(CommandCycle, CyclePayload{Reverse: reverse})
}

// Only shows a single group and hides the rest.
func (c *Client) Only(group int) error {
	return c.send(CommandOnly, GroupPayload{Group: group})
}

// HideToggle flips a group's visibility.
func (c *Client) HideToggle(group int) error {
	return c.send(CommandHideToggle, GroupPayload{Group: group})
}

// HideAll toggles the hide-all state.
func (c *Client) HideAll() error {
	return c.send(CommandHideAll, nil)
}

// MoveWindow moves a window into a group. window 0 means the active window.
func (c *Client) MoveWindow(window uint32, group int) error {
	return c.send(CommandMoveWindow, MoveWindowPayload{Window: window, Group: group})
}

// Menu opens the group menu on the daemon's display and waits for the
// user to pick or dismiss it.
func (c *Client) Menu() error {
	_, err := c.sendRequest(&Request{Command: CommandMenu}, menuTimeout)
	return err
}

// UpdateNames makes the daemon reread the desktop names.
func (c *Client) UpdateNames() error {
	return c.send(CommandUpdateNames, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
