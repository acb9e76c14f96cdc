package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is the tab stop used for process output and previews.
const DefaultTabWidth = 8

// Ellipsis marks truncated text.
const Ellipsis = "…"

// ExpandTabs replaces tabs with spaces up to the next tab stop, counting
// wide runes as two columns.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	column := 0
	for _, r := range text {
		if r == '\t' {
			spaces := tabWidth - column%tabWidth
			b.WriteString(strings.Repeat(" ", spaces))
			column += spaces
			continue
		}
		b.WriteRune(r)
		column += max(runewidth.RuneWidth(r), 1)
	}
	return b.String()
}

// DisplayWidth reports the number of terminal columns text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to at most width columns, ending it with an
// ellipsis when something was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= runewidth.StringWidth(Ellipsis) {
		return Ellipsis
	}
	return runewidth.Truncate(text, width, Ellipsis)
}

// TruncateLeft keeps the end of text, which is the useful part of a path.
func TruncateLeft(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	ellipsisWidth := runewidth.StringWidth(Ellipsis)
	if width <= ellipsisWidth {
		return Ellipsis
	}

	runes := []rune(text)
	available := width - ellipsisWidth
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > available {
			break
		}
		used += w
		start--
	}
	return Ellipsis + string(runes[start:])
}

// PadRight truncates or pads text with spaces to exactly width columns.
func PadRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(Truncate(text, width), width)
}
