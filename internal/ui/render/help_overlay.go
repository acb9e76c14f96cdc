package render

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rnav/internal/textutil"
)

// HelpEntry is one row of the help overlay.
type HelpEntry struct {
	Keys string
	Desc string
}

// HelpSection groups entries under a title.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

func helpOverlayLines(sections []HelpSection) []string {
	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.Title)
		for _, entry := range section.Entries {
			lines = append(lines, fmt.Sprintf("  %-16s %s", entry.Keys, entry.Desc))
		}
	}
	return lines
}

// DrawHelpOverlay covers the screen with the key binding reference.
func (r *Renderer) DrawHelpOverlay(sections []HelpSection, scroll int) {
	w, h := r.screen.Size()
	base := r.theme.Base()
	for y := 0; y < h; y++ {
		r.fill(0, y, w, base)
	}

	header := base.Bold(true)
	title := " Help "
	start := max((w-textutil.DisplayWidth(title))/2, 0)
	r.drawText(start, 0, w, title, header)

	lines := helpOverlayLines(sections)
	if scroll > len(lines)-1 {
		scroll = max(len(lines)-1, 0)
	}
	row := 2
	for _, line := range lines[min(scroll, len(lines)):] {
		if row >= h-1 {
			break
		}
		text := textutil.Truncate(strings.TrimRight(line, " "), w-4)
		r.drawText(2, row, w-2, text, base)
		row++
	}

	r.DrawLine(0, h-1, w, Text("? toggle · Esc/q close", header), header)
}
