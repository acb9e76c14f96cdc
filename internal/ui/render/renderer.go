package render

import (
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/textutil"
)

// Rect is a screen area.
type Rect struct {
	X, Y, W, H int
}

// Renderer draws panel output onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
	widths widthCache
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

func (r *Renderer) Theme() ColorTheme { return r.theme }

func (r *Renderer) Size() (int, int) { return r.screen.Size() }

func (r *Renderer) Clear() { r.screen.Clear() }

func (r *Renderer) Show() { r.screen.Show() }

// DrawLine draws line at (x, y) clipped to width and fills the rest of the
// width with fill.
func (r *Renderer) DrawLine(x, y, width int, line Line, fill tcell.Style) {
	maxX := x + width
	cur := x
	for _, seg := range line {
		if cur >= maxX {
			break
		}
		cur = r.drawText(cur, y, maxX, textutil.SanitizeTerminalText(seg.Text), seg.Style)
	}
	r.fill(cur, y, maxX, fill)
}

// DrawList draws one row per line inside area. The row at index selected is
// drawn inverted; pass -1 for no highlight. Rows beyond the lines are
// cleared.
func (r *Renderer) DrawList(area Rect, lines []Line, selected int) {
	base := r.theme.Base()
	for row := 0; row < area.H; row++ {
		y := area.Y + row
		if row >= len(lines) {
			r.fill(area.X, y, area.X+area.W, base)
			continue
		}
		line := lines[row]
		fill := base
		if row == selected {
			line = invert(line)
			fill = base.Reverse(true)
		}
		r.DrawLine(area.X, y, area.W, line, fill)
	}
}

func invert(line Line) Line {
	out := make(Line, len(line))
	for i, seg := range line {
		out[i] = Segment{Text: seg.Text, Style: seg.Style.Reverse(true)}
	}
	return out
}

// DrawSeparator draws a vertical rule at column x.
func (r *Renderer) DrawSeparator(x, y, h int) {
	style := r.theme.Fg(r.theme.BorderFg)
	for row := 0; row < h; row++ {
		r.screen.SetContent(x, y+row, '│', nil, style)
	}
}

// BreadcrumbSep separates header path segments.
const BreadcrumbSep = " › "

// DrawHeader renders the top bar: the current path as breadcrumbs on the
// left, right-aligned extra text on the right.
func (r *Renderer) DrawHeader(path string, right Line) {
	w, _ := r.screen.Size()
	style := r.theme.Base().Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	avail := w - right.Width() - 1
	if avail < 0 {
		avail = 0
	}

	segments := BreadcrumbSegments(path)
	var left Line
	if n := len(segments); n > 0 {
		prefix := ""
		if n > 1 {
			prefix = strings.Join(segments[:n-1], BreadcrumbSep) + BreadcrumbSep
		}
		last := segments[n-1]
		lastWidth := textutil.DisplayWidth(last)
		if lastWidth >= avail {
			left = Text(textutil.TruncateLeft(last, avail), style.Bold(true))
		} else {
			left = Text(textutil.TruncateLeft(prefix, avail-lastWidth), style).
				Append(last, style.Bold(true))
		}
	}

	r.DrawLine(0, 0, w, Row(w, left, right, style), style)
}

// BreadcrumbSegments splits path into the header's breadcrumb segments. An
// absolute path starts with a "/" segment.
func BreadcrumbSegments(path string) []string {
	if path == "" {
		return []string{"/"}
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == "/" || clean == "." {
		return []string{"/"}
	}

	var segments []string
	if strings.HasPrefix(clean, "/") {
		segments = append(segments, "/")
		clean = strings.TrimPrefix(clean, "/")
	}
	for _, part := range strings.Split(clean, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// DrawStatus draws a status message on row y, colored by tone.
func (r *Renderer) DrawStatus(y int, text string, tone events.Tone) {
	w, _ := r.screen.Size()
	style := r.theme.Base().Background(r.theme.StatusBg).Foreground(r.theme.StatusFg)
	switch tone {
	case events.ToneSuccess:
		style = style.Foreground(r.theme.SuccessFg)
	case events.ToneError:
		style = style.Foreground(r.theme.ErrorFg)
	}
	r.DrawLine(0, y, w, Text(textutil.Truncate(text, w), style), style)
}

// DrawPrompt draws an input prompt on row y and places the cursor after the
// input.
func (r *Renderer) DrawPrompt(y int, label, input string) {
	w, _ := r.screen.Size()
	base := r.theme.Base()
	line := Text(label+": ", base.Bold(true)).Append(input, base)
	r.DrawLine(0, y, w, line.Truncate(w), base)
	cursor := min(line.Width(), w-1)
	r.screen.ShowCursor(cursor, y)
}

// HideCursor hides the terminal cursor.
func (r *Renderer) HideCursor() {
	r.screen.HideCursor()
}
