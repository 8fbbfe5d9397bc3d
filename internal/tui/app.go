package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/groupwm/internal/ipc"
)

const refreshInterval = 2 * time.Second

// groupItem implements list.Item for one group row.
type groupItem struct {
	ipc.GroupData
}

func (i groupItem) Title() string {
	prefix := "  "
	if i.Active {
		prefix = "* "
	}
	name := i.Name
	if i.Hidden {
		name = "[" + name + "]"
	}
	return fmt.Sprintf("%s%d: %s", prefix, i.Shortcut, name)
}

func (i groupItem) Description() string {
	switch n := len(i.Windows); n {
	case 0:
		return "empty"
	case 1:
		return "1 window"
	default:
		return fmt.Sprintf("%d windows", n)
	}
}

func (i groupItem) FilterValue() string { return i.Name }

// refreshMsg carries a fresh group listing (or the error fetching it).
type refreshMsg struct {
	data *ipc.GroupsData
	err  error
}

type tickMsg struct{}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// model is the root bubbletea model for the overview.
type model struct {
	daemon Daemon
	list   list.Model

	connected  bool
	allHidden  bool
	activeName string
	statusText string

	width  int
	height int
}

func newModel(d Daemon) model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Groups"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return model{daemon: d, list: l}
}

func (m model) refresh() tea.Cmd {
	return func() tea.Msg {
		data, err := m.daemon.ListGroups()
		return refreshMsg{data: data, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, m.listHeight())
		return m, nil

	case refreshMsg:
		m.apply(msg)
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		case "enter", " ", "t":
			return m.onSelected("toggled", m.daemon.HideToggle)
		case "o":
			return m.onSelected("showing only", m.daemon.Only)
		case "n", "right", "l":
			return m.run("cycled", func() error { return m.daemon.Cycle(false) })
		case "p", "left", "h":
			return m.run("cycled back", func() error { return m.daemon.Cycle(true) })
		case "a":
			return m.run("hide all toggled", m.daemon.HideAll)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) apply(msg refreshMsg) {
	if msg.err != nil {
		m.connected = false
		m.statusText = fmt.Sprintf("error: %v", msg.err)
		return
	}
	m.connected = true
	m.allHidden = msg.data.AllHidden
	m.activeName = ""

	items := make([]list.Item, 0, len(msg.data.Groups))
	for _, g := range msg.data.Groups {
		items = append(items, groupItem{g})
		if g.Active {
			m.activeName = g.Name
		}
	}
	m.list.SetItems(items)
}

func (m model) selected() (groupItem, bool) {
	item, ok := m.list.SelectedItem().(groupItem)
	return item, ok
}

func (m model) onSelected(verb string, fn func(int) error) (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	label := fmt.Sprintf("%s %d: %s", verb, item.Shortcut, item.Name)
	return m.run(label, func() error { return fn(item.Shortcut) })
}

func (m model) run(label string, fn func() error) (tea.Model, tea.Cmd) {
	if err := fn(); err != nil {
		m.statusText = fmt.Sprintf("error: %v", err)
		return m, clearStatusLater()
	}
	m.statusText = label
	return m, tea.Batch(m.refresh(), clearStatusLater())
}

func (m model) listHeight() int {
	// Status bar, help bar and the status line.
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		renderStatusBar(m.connected, m.activeName, m.allHidden, m.width),
		m.list.View(),
		statusLineStyle.Width(m.width).Render(m.statusText),
		renderHelpBar(m.width),
	)
}

var statusLineStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("214")).
	Padding(0, 1)

func renderStatusBar(connected bool, activeName string, allHidden bool, width int) string {
	var status string
	if connected {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon connected"}
		if activeName != "" {
			parts = append(parts, "active:"+activeName)
		}
		if allHidden {
			parts = append(parts, "all hidden")
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(status)
}

func renderHelpBar(width int) string {
	help := "enter: toggle  o: only  n/p: cycle  a: hide all  r: refresh  q: quit"
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}
