package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Window contains the identification of a managed top-level window.
type Window struct {
	ID       WindowID
	Class    string
	Instance string
	Title    string
}

// Desktop is the decoded per-window desktop property. It is either assigned
// to a zero-based desktop index or explicitly unassigned.
type Desktop struct {
	index    int
	assigned bool
}

// Assigned returns a desktop value pointing at the given zero-based index.
func Assigned(index int) Desktop {
	return Desktop{index: index, assigned: true}
}

// Unassigned returns the "not on any desktop" value.
func Unassigned() Desktop {
	return Desktop{}
}

// Index returns the desktop index and whether the value is assigned.
func (d Desktop) Index() (int, bool) {
	return d.index, d.assigned
}

// Highlight selects the border treatment for a client window.
type Highlight int

const (
	HighlightNone    Highlight = iota // Regular border.
	HighlightGroup                    // Window is joining a group.
	HighlightUngroup                  // Window is leaving a group.
)

func (h Highlight) String() string {
	switch h {
	case HighlightGroup:
		return "group"
	case HighlightUngroup:
		return "ungroup"
	default:
		return "none"
	}
}

// Backend abstracts the window-system queries the daemon needs outside of
// the group engine itself.
type Backend interface {
	Clients() ([]Window, error)
	ActiveWindow() (WindowID, error)
	Close()
}
