package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
)

func newTestRenderer(t *testing.T, w, h int) (*Renderer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return NewRenderer(screen), screen
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, width := screen.GetContent(x, y)
		if mainc == 0 {
			mainc = ' '
		}
		b.WriteRune(mainc)
		if width > 1 {
			x += width - 1
		}
	}
	return b.String()
}

func TestRowRightAlignsAndTruncates(t *testing.T) {
	style := tcell.StyleDefault
	tests := []struct {
		name  string
		width int
		left  string
		right string
		want  string
	}{
		{"fits", 16, "notes.txt", "4 KiB", "notes.txt  4 KiB"},
		{"truncates left", 12, "a-very-long-name", "1 B", "a-very-… 1 B"},
		{"drops right when too wide", 4, "abc", "123456", "abc "},
		{"no right", 6, "ab", "", "ab    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var right Line
			if tt.right != "" {
				right = Text(tt.right, style)
			}
			got := Row(tt.width, Text(tt.left, style), right, style)
			if got.String() != tt.want {
				t.Fatalf("Row = %q, want %q", got.String(), tt.want)
			}
			if got.Width() != tt.width {
				t.Fatalf("Row width = %d, want %d", got.Width(), tt.width)
			}
		})
	}
}

func TestLineTruncateAcrossSegments(t *testing.T) {
	style := tcell.StyleDefault
	line := Text("*", style).Append("document.txt", style)
	got := line.Truncate(6)
	if got.String() != "*docu…" {
		t.Fatalf("Truncate = %q", got.String())
	}
	if len(got) != 2 {
		t.Fatalf("expected both segments to survive, got %d", len(got))
	}
}

func TestDrawListHighlightsSelectedRow(t *testing.T) {
	r, screen := newTestRenderer(t, 10, 4)
	base := tcell.StyleDefault
	lines := []Line{Text("one", base), Text("two", base)}

	r.DrawList(Rect{X: 0, Y: 0, W: 10, H: 3}, lines, 1)

	if got := rowText(screen, 0); got != "one       " {
		t.Fatalf("row 0 = %q", got)
	}
	if got := rowText(screen, 1); got != "two       " {
		t.Fatalf("row 1 = %q", got)
	}
	if got := rowText(screen, 2); got != "          " {
		t.Fatalf("row 2 = %q", got)
	}

	_, _, style, _ := screen.GetContent(0, 1)
	_, _, attrs := style.Decompose()
	if attrs&tcell.AttrReverse == 0 {
		t.Fatalf("selected row should be drawn reversed")
	}
	_, _, style, _ = screen.GetContent(9, 1)
	if _, _, attrs = style.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Fatalf("selected row fill should be reversed")
	}
	_, _, style, _ = screen.GetContent(0, 0)
	if _, _, attrs = style.Decompose(); attrs&tcell.AttrReverse != 0 {
		t.Fatalf("unselected row should not be reversed")
	}
}

func TestDrawLineSanitizesControlCharacters(t *testing.T) {
	r, screen := newTestRenderer(t, 12, 1)
	r.DrawLine(0, 0, 12, Text("evil\x1b[2J", tcell.StyleDefault), tcell.StyleDefault)
	if got := rowText(screen, 0); got != "evil?[2J    " {
		t.Fatalf("row = %q", got)
	}
}

func TestDrawHeaderShowsBreadcrumbs(t *testing.T) {
	r, screen := newTestRenderer(t, 30, 2)
	r.DrawHeader("/home/user", Text("3/9", tcell.StyleDefault))
	got := rowText(screen, 0)
	if !strings.HasPrefix(got, "/ › home › user") {
		t.Fatalf("header = %q", got)
	}
	if !strings.HasSuffix(got, "3/9") {
		t.Fatalf("header should end with the position, got %q", got)
	}
}

func TestDrawStatusUsesToneColor(t *testing.T) {
	r, screen := newTestRenderer(t, 20, 2)
	r.DrawStatus(1, "No files selected", events.ToneError)
	if got := rowText(screen, 1); !strings.HasPrefix(got, "No files selected") {
		t.Fatalf("status = %q", got)
	}
	_, _, style, _ := screen.GetContent(0, 1)
	fg, _, _ := style.Decompose()
	if fg != r.Theme().ErrorFg {
		t.Fatalf("status foreground = %v, want %v", fg, r.Theme().ErrorFg)
	}
}

func TestBreadcrumbSegments(t *testing.T) {
	got := BreadcrumbSegments("/a/b/")
	want := []string{"/", "a", "b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	if got := BreadcrumbSegments(""); len(got) != 1 || got[0] != "/" {
		t.Fatalf("empty path segments = %v", got)
	}
}

func TestFormatHints(t *testing.T) {
	got := FormatHints([]Hint{{"q", "quit"}, {"", "skipped"}, {"?", "help"}})
	if got != " q: quit  ?: help " {
		t.Fatalf("FormatHints = %q", got)
	}
}
