package group

import "bytes"

// defaultNames is indexed by shortcut; entry 0 is the "no group" slot.
var defaultNames = [...]string{
	"nogroup", "one", "two", "three", "four", "five", "six",
	"seven", "eight", "nine", "ten",
}

// DefaultName returns the builtin name of the group with the given shortcut.
func DefaultName(shortcut int) string {
	if shortcut < 0 || shortcut >= len(defaultNames) {
		return ""
	}
	return defaultNames[shortcut]
}

// UpdateNames reloads the group names from the property store. Missing
// entries are filled from the builtin table and the full list is written
// back.
func (r *Registry) UpdateNames() {
	var names []string

	raw, ok, err := r.props.DesktopNames()
	switch {
	case err != nil:
		r.logger.Debug("failed to read desktop names", "error", err)
	case ok:
		names = splitNames(raw)
	}

	setnames := false
	if len(names) < NumGroups {
		setnames = true
		for i := 1; len(names) < NumGroups; i++ {
			names = append(names, defaultNames[i])
		}
	}

	r.names = names
	if setnames {
		r.published("desktop names", r.props.SetDesktopNames(joinNames(names)))
	}
}

// splitNames decodes a packed list of NUL-terminated strings. A trailing
// unterminated fragment counts as the last string.
func splitNames(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	raw = bytes.TrimSuffix(raw, []byte{0})
	parts := bytes.Split(raw, []byte{0})
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, string(p))
	}
	return names
}

// joinNames packs names as NUL-terminated strings.
func joinNames(names []string) []byte {
	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}
