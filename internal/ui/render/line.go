package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/textutil"
)

// Segment is a run of text drawn with one style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Line is one styled row as produced by a panel.
type Line []Segment

// Text builds a single-segment line.
func Text(text string, style tcell.Style) Line {
	return Line{{Text: text, Style: style}}
}

// Append returns l with another segment. Empty text is skipped.
func (l Line) Append(text string, style tcell.Style) Line {
	if text == "" {
		return l
	}
	return append(l, Segment{Text: text, Style: style})
}

// Width is the number of terminal columns the line occupies.
func (l Line) Width() int {
	w := 0
	for _, seg := range l {
		w += textutil.DisplayWidth(seg.Text)
	}
	return w
}

// String returns the unstyled text, mostly for tests.
func (l Line) String() string {
	var b strings.Builder
	for _, seg := range l {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Truncate cuts the line to width columns, ending it with an ellipsis if
// anything was dropped.
func (l Line) Truncate(width int) Line {
	if width <= 0 {
		return nil
	}
	if l.Width() <= width {
		return l
	}

	out := make(Line, 0, len(l))
	used := 0
	ellipsis := textutil.DisplayWidth(textutil.Ellipsis)
	for _, seg := range l {
		w := textutil.DisplayWidth(seg.Text)
		if used+w <= width-ellipsis {
			out = append(out, seg)
			used += w
			continue
		}
		out = append(out, Segment{
			Text:  textutil.Truncate(seg.Text, width-used),
			Style: seg.Style,
		})
		break
	}
	return out
}

// Row lays out left and right in exactly width columns: right is aligned to
// the edge and left is truncated to the remaining space. When both cannot
// fit, right is dropped.
func Row(width int, left, right Line, fill tcell.Style) Line {
	if width <= 0 {
		return nil
	}
	rw := right.Width()
	if rw >= width {
		right, rw = nil, 0
	}
	avail := width - rw
	if rw > 0 {
		// keep a column between the name and the right cell
		avail--
	}
	if avail < 0 {
		avail = 0
	}

	out := left.Truncate(avail)
	if pad := width - rw - out.Width(); pad > 0 {
		out = append(out, Segment{Text: strings.Repeat(" ", pad), Style: fill})
	}
	return append(out, right...)
}
