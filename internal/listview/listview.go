// Package listview binds a viewport to an item collection. File panels and
// the process panel are both built on ListView.
package listview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/kk-code-lab/rnav/internal/viewport"
)

// Source is the collection behind a ListView.
type Source[I any] interface {
	Len() int
	At(i int) (I, bool)
}

// RowFunc renders one item into exactly width columns.
type RowFunc[I any] func(item I, width int) render.Line

// Panel is what the host loop needs from a list panel.
type Panel interface {
	Len() int
	Render() []render.Line
	RenderHeader() render.Line
	RenderFooter() render.Line
	SelectedRow() int
	OnNew() error
	OnRefresh() error
	OnKey(ev *tcell.EventKey) error
	Resize(width, height int)
}

// ListView keeps a selection over a Source and renders the visible rows.
// It tracks the selected item by identity so that structural changes to the
// source (sorting, filtering) can be followed by Select.
type ListView[I any] struct {
	source Source[I]
	vp     viewport.Viewport
	width  int
	same   func(a, b I) bool
	row    RowFunc[I]

	current    I
	hasCurrent bool
}

// New creates a list with a one-row viewport; call Resize before drawing.
func New[I any](source Source[I], same func(a, b I) bool, row RowFunc[I]) *ListView[I] {
	l := &ListView[I]{
		source: source,
		vp:     viewport.New(1),
		same:   same,
		row:    row,
	}
	l.UpdateCurrent()
	return l
}

func (l *ListView[I]) Source() Source[I] { return l.source }

// SetSource swaps the collection and resets the selection to the top.
func (l *ListView[I]) SetSource(source Source[I]) {
	l.source = source
	l.vp.Top()
	l.UpdateCurrent()
}

func (l *ListView[I]) Len() int {
	if l.source == nil {
		return 0
	}
	return l.source.Len()
}

func (l *ListView[I]) Selection() int { return l.vp.Selection() }

func (l *ListView[I]) Offset() int { return l.vp.Offset() }

func (l *ListView[I]) Height() int { return l.vp.Height() }

func (l *ListView[I]) Width() int { return l.width }

// SelectedRow is the selection relative to the first visible row.
func (l *ListView[I]) SelectedRow() int {
	if l.Len() == 0 {
		return -1
	}
	return l.vp.Selection() - l.vp.Offset()
}

// Resize sets the drawing area.
func (l *ListView[I]) Resize(width, height int) {
	l.width = width
	l.vp.SetHeight(height, l.Len())
}

// Visible returns the index range to keep populated: the rows on screen plus
// one below the fold.
func (l *ListView[I]) Visible() (int, int) {
	return l.vp.Visible(l.Len())
}

func (l *ListView[I]) MoveUp(n int) {
	for i := 0; i < n; i++ {
		l.vp.MoveUp()
	}
	l.UpdateCurrent()
}

func (l *ListView[I]) MoveDown(n int) {
	length := l.Len()
	for i := 0; i < n; i++ {
		l.vp.MoveDown(length)
	}
	l.UpdateCurrent()
}

func (l *ListView[I]) PageUp() {
	l.vp.PageUp()
	l.UpdateCurrent()
}

func (l *ListView[I]) PageDown() {
	l.vp.PageDown(l.Len())
	l.UpdateCurrent()
}

func (l *ListView[I]) Top() {
	l.vp.Top()
	l.UpdateCurrent()
}

func (l *ListView[I]) Bottom() {
	l.vp.Bottom(l.Len())
	l.UpdateCurrent()
}

// ClickRow moves the cursor to the visible row without scrolling. It
// reports false when no item is drawn on that row.
func (l *ListView[I]) ClickRow(row int) bool {
	idx := l.vp.Offset() + row
	if row < 0 || row >= l.vp.Height() || idx >= l.Len() {
		return false
	}
	if delta := row - l.SelectedRow(); delta > 0 {
		l.MoveDown(delta)
	} else if delta < 0 {
		l.MoveUp(-delta)
	}
	return true
}

// SetSelection jumps to pos with paged scrolling.
func (l *ListView[I]) SetSelection(pos int) {
	l.vp.SetSelection(pos, l.Len())
	l.UpdateCurrent()
}

// Clamp re-establishes the viewport invariants after the source changed
// length. It does not relocate the current item; use Select for that.
func (l *ListView[I]) Clamp() {
	l.vp.Clamp(l.Len())
	l.UpdateCurrent()
}

// Current returns a copy of the selected item.
func (l *ListView[I]) Current() (I, bool) {
	return l.current, l.hasCurrent
}

// UpdateCurrent refreshes the cached selected item from the source.
func (l *ListView[I]) UpdateCurrent() {
	var zero I
	l.current, l.hasCurrent = zero, false
	if l.source == nil {
		return
	}
	if item, ok := l.source.At(l.vp.Selection()); ok {
		l.current, l.hasCurrent = item, true
	}
}

// SetCurrent replaces the cached selected item, e.g. with a copy that has
// extra data loaded. The next selection change overwrites it.
func (l *ListView[I]) SetCurrent(item I) {
	l.current, l.hasCurrent = item, true
}

// IndexOf finds item by identity, or -1.
func (l *ListView[I]) IndexOf(item I) int {
	for i, n := 0, l.Len(); i < n; i++ {
		candidate, ok := l.source.At(i)
		if ok && l.same(candidate, item) {
			return i
		}
	}
	return -1
}

// Select moves the cursor to item. If the item is gone the selection falls
// back to the first row. It reports whether the item was found.
func (l *ListView[I]) Select(item I) bool {
	pos := l.IndexOf(item)
	found := pos >= 0
	if !found {
		pos = 0
	}
	l.vp.SetSelection(pos, l.Len())
	l.UpdateCurrent()
	return found
}

// Render returns one line per row on screen.
func (l *ListView[I]) Render() []render.Line {
	length := l.Len()
	from := l.vp.Offset()
	to := min(from+l.vp.Height(), length)
	if from >= to {
		return nil
	}
	lines := make([]render.Line, 0, to-from)
	for i := from; i < to; i++ {
		item, ok := l.source.At(i)
		if !ok {
			break
		}
		lines = append(lines, l.row(item, l.width))
	}
	return lines
}
