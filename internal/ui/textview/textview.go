// Package textview is a scrollable read-only text pane, used to preview the
// captured output of a process.
package textview

import (
	"fmt"
	"strings"

	"github.com/kk-code-lab/rnav/internal/textutil"
	"github.com/kk-code-lab/rnav/internal/ui/render"
)

// TextView is UI-thread state.
type TextView struct {
	lines  []string
	scroll int
	width  int
	height int
	follow bool
	theme  render.ColorTheme
}

// New returns a pane showing text.
func New(text string) *TextView {
	t := &TextView{height: 1, theme: render.GetColorTheme()}
	t.SetText(text)
	return t
}

// SetText replaces the content. With follow on the pane jumps to the end,
// otherwise the scroll position is kept where possible.
func (t *TextView) SetText(text string) {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		t.lines = nil
	} else {
		t.lines = strings.Split(text, "\n")
	}
	for i, line := range t.lines {
		t.lines[i] = textutil.ExpandTabs(strings.TrimSuffix(line, "\r"), textutil.DefaultTabWidth)
	}
	if t.follow {
		t.Bottom()
		return
	}
	t.clampScroll()
}

// Len returns the number of lines.
func (t *TextView) Len() int { return len(t.lines) }

// Scroll returns the index of the first visible line.
func (t *TextView) Scroll() int { return t.scroll }

// Following reports whether follow mode is on.
func (t *TextView) Following() bool { return t.follow }

func (t *TextView) Resize(width, height int) {
	if height < 1 {
		height = 1
	}
	t.width, t.height = width, height
	if t.follow {
		t.Bottom()
		return
	}
	t.clampScroll()
}

func (t *TextView) clampScroll() {
	maxScroll := len(t.lines) - t.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if t.scroll > maxScroll {
		t.scroll = maxScroll
	}
	if t.scroll < 0 {
		t.scroll = 0
	}
}

func (t *TextView) ScrollDown(n int) {
	t.scroll += n
	t.clampScroll()
}

func (t *TextView) ScrollUp(n int) {
	t.scroll -= n
	t.clampScroll()
}

func (t *TextView) PageDown() { t.ScrollDown(t.height) }

func (t *TextView) PageUp() { t.ScrollUp(t.height) }

func (t *TextView) Top() { t.scroll = 0 }

func (t *TextView) Bottom() {
	t.scroll = len(t.lines)
	t.clampScroll()
}

// ToggleFollow switches follow mode; turning it on jumps to the end.
func (t *TextView) ToggleFollow() {
	t.follow = !t.follow
	if t.follow {
		t.Bottom()
	}
}

// Render returns the visible lines, cut to the pane width.
func (t *TextView) Render() []render.Line {
	end := min(t.scroll+t.height, len(t.lines))
	if t.scroll >= end {
		return nil
	}
	style := t.theme.Base()
	out := make([]render.Line, 0, end-t.scroll)
	for _, text := range t.lines[t.scroll:end] {
		out = append(out, render.Text(textutil.SanitizeTerminalText(text), style).Truncate(t.width))
	}
	return out
}

// Position describes the visible range, e.g. "11-20/57 lines".
func (t *TextView) Position() string {
	total := len(t.lines)
	if total == 0 {
		return "0/0 lines"
	}
	start := t.scroll + 1
	end := min(t.scroll+t.height, total)
	position := fmt.Sprintf("%d-%d/%d lines", start, end, total)
	if t.follow {
		position += " (follow)"
	}
	return position
}
