// Package viewport holds the selection and scroll offset of a list panel.
//
// A Viewport knows nothing about the items it scrolls over: every operation
// that can move past the end takes the current length of the list. All
// operations are O(1) except PageUp/PageDown, which step one row per visible line.
package viewport

// Viewport is single-owner UI state and is not safe for concurrent use.
type Viewport struct {
	selection int
	offset    int
	height    int
}

// New returns a viewport showing height rows.
func New(height int) Viewport {
	v := Viewport{}
	v.height = normalizeHeight(height)
	return v
}

func normalizeHeight(height int) int {
	if height < 1 {
		return 1
	}
	return height
}

// Selection returns the selected index.
func (v *Viewport) Selection() int { return v.selection }

// Offset returns the index of the first visible row.
func (v *Viewport) Offset() int { return v.offset }

// Height returns the number of visible rows.
func (v *Viewport) Height() int { return normalizeHeight(v.height) }

// SetHeight changes the number of visible rows and pulls the offset back so
// the selection stays on screen.
func (v *Viewport) SetHeight(height, length int) {
	v.height = normalizeHeight(height)
	v.Clamp(length)
}

// MoveUp selects the previous row. At the top it is a no-op.
func (v *Viewport) MoveUp() {
	if v.selection == 0 {
		return
	}
	if v.selection-v.offset <= 0 {
		v.offset--
	}
	v.selection--
}

// MoveDown selects the next row. At the bottom it is a no-op.
func (v *Viewport) MoveDown(length int) {
	if length == 0 || v.selection >= length-1 {
		return
	}
	height := v.Height()
	if v.selection+1 >= height && v.selection+1-v.offset >= height {
		v.offset++
	}
	v.selection++
}

// PageUp moves up by one screen.
func (v *Viewport) PageUp() {
	for i := 0; i < v.Height(); i++ {
		v.MoveUp()
	}
}

// PageDown moves down by one screen.
func (v *Viewport) PageDown(length int) {
	for i := 0; i < v.Height(); i++ {
		v.MoveDown(length)
	}
}

// Top selects the first row.
func (v *Viewport) Top() {
	v.selection = 0
	v.offset = 0
}

// Bottom selects the last row.
func (v *Viewport) Bottom(length int) {
	if length == 0 {
		v.Top()
		return
	}
	v.SetSelection(length-1, length)
}

// SetSelection jumps to pos. The offset snaps to the page containing pos
// (a multiple of the height) instead of centering the row.
func (v *Viewport) SetSelection(pos, length int) {
	if length <= 0 || pos < 0 {
		v.Top()
		return
	}
	if pos >= length {
		pos = length - 1
	}
	height := v.Height()
	v.selection = pos
	v.offset = (pos / height) * height
}

// Clamp restores the invariants after the list changed length:
// selection < length (or 0 when empty), offset <= selection and
// selection-offset < height.
func (v *Viewport) Clamp(length int) {
	if length <= 0 {
		v.Top()
		return
	}
	if v.selection >= length {
		v.selection = length - 1
	}
	if v.selection < 0 {
		v.selection = 0
	}
	if v.offset > v.selection {
		v.offset = v.selection
	}
	if v.offset < 0 {
		v.offset = 0
	}
	height := v.Height()
	if v.selection-v.offset >= height {
		v.offset = v.selection - height + 1
	}
}

// Visible returns the half-open index range [from, to) of rows on screen.
// The range includes one extra row past the fold when the list is long enough.
func (v *Viewport) Visible(length int) (int, int) {
	from := v.offset
	if from > length {
		from = length
	}
	to := from + v.Height() + 1
	if to > length {
		to = length
	}
	return from, to
}
