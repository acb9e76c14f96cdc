package render

import "strings"

// Hint is a key and the action it triggers, shown in the status row when
// there is no message.
type Hint struct {
	Key    string
	Action string
}

// FormatHints joins hints into a single padded status string.
func FormatHints(hints []Hint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Action)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}
