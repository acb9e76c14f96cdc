package viewport

import (
	"math/rand"
	"testing"
)

func assertInvariants(t *testing.T, v *Viewport, length int, step string) {
	t.Helper()
	sel, off, h := v.Selection(), v.Offset(), v.Height()
	upper := length
	if upper < 1 {
		upper = 1
	}
	if sel < 0 || sel >= upper {
		t.Fatalf("%s: selection %d out of [0,%d)", step, sel, upper)
	}
	if off > sel {
		t.Fatalf("%s: offset %d > selection %d", step, off, sel)
	}
	if sel-off >= h {
		t.Fatalf("%s: selection %d - offset %d >= height %d", step, sel, off, h)
	}
}

func TestMoveDownScrollsOncePastFold(t *testing.T) {
	v := New(3)
	for i := 0; i < 4; i++ {
		v.MoveDown(5)
	}
	if v.Selection() != 4 || v.Offset() != 2 {
		t.Fatalf("expected (4,2), got (%d,%d)", v.Selection(), v.Offset())
	}

	v.MoveDown(5)
	if v.Selection() != 4 || v.Offset() != 2 {
		t.Fatalf("move past the end should be a no-op, got (%d,%d)", v.Selection(), v.Offset())
	}
}

func TestMoveUpSaturatesAtTop(t *testing.T) {
	v := New(3)
	v.MoveUp()
	if v.Selection() != 0 || v.Offset() != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", v.Selection(), v.Offset())
	}

	for i := 0; i < 4; i++ {
		v.MoveDown(5)
	}
	for i := 0; i < 3; i++ {
		v.MoveUp()
	}
	if v.Selection() != 1 || v.Offset() != 1 {
		t.Fatalf("expected (1,1), got (%d,%d)", v.Selection(), v.Offset())
	}
}

func TestSetSelectionUsesPagedOffset(t *testing.T) {
	tests := []struct {
		name       string
		height     int
		length     int
		pos        int
		wantSel    int
		wantOffset int
	}{
		{"first page", 10, 100, 7, 7, 0},
		{"page boundary", 10, 100, 10, 10, 10},
		{"middle of third page", 10, 100, 25, 25, 20},
		{"clamped past end", 10, 30, 45, 29, 20},
		{"empty list", 10, 0, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.height)
			v.SetSelection(tt.pos, tt.length)
			if v.Selection() != tt.wantSel || v.Offset() != tt.wantOffset {
				t.Fatalf("got (%d,%d), want (%d,%d)", v.Selection(), v.Offset(), tt.wantSel, tt.wantOffset)
			}
		})
	}
}

func TestBottomAndTop(t *testing.T) {
	v := New(4)
	v.Bottom(10)
	if v.Selection() != 9 || v.Offset() != 8 {
		t.Fatalf("expected (9,8), got (%d,%d)", v.Selection(), v.Offset())
	}
	v.Top()
	if v.Selection() != 0 || v.Offset() != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", v.Selection(), v.Offset())
	}

	v.Bottom(0)
	if v.Selection() != 0 {
		t.Fatalf("bottom of empty list should select 0, got %d", v.Selection())
	}
}

func TestClampAfterShrink(t *testing.T) {
	v := New(5)
	v.SetSelection(40, 50)
	v.Clamp(12)
	assertInvariants(t, &v, 12, "clamp")
	if v.Selection() != 11 {
		t.Fatalf("expected selection 11, got %d", v.Selection())
	}

	v.Clamp(0)
	if v.Selection() != 0 || v.Offset() != 0 {
		t.Fatalf("empty clamp should reset, got (%d,%d)", v.Selection(), v.Offset())
	}
}

func TestVisibleRangeIncludesOneExtraRow(t *testing.T) {
	v := New(20)
	v.SetSelection(10, 100)
	v.offset = 10
	from, to := v.Visible(100)
	if from != 10 || to != 31 {
		t.Fatalf("expected [10,31), got [%d,%d)", from, to)
	}

	from, to = v.Visible(15)
	if from != 10 || to != 15 {
		t.Fatalf("expected [10,15), got [%d,%d)", from, to)
	}
}

func TestRandomNavigationKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		length := rng.Intn(40)
		v := New(1 + rng.Intn(8))

		for step := 0; step < 300; step++ {
			switch rng.Intn(9) {
			case 0:
				v.MoveUp()
			case 1:
				v.MoveDown(length)
			case 2:
				v.PageUp()
			case 3:
				v.PageDown(length)
			case 4:
				v.Top()
			case 5:
				v.Bottom(length)
			case 6:
				v.SetSelection(rng.Intn(length+1), length)
			case 7:
				length = rng.Intn(40)
				v.Clamp(length)
			case 8:
				v.SetHeight(1+rng.Intn(8), length)
			}
			assertInvariants(t, &v, length, "random step")
		}
	}
}
