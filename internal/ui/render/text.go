package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// widthCache memoizes rune widths. Rows are redrawn on every event, and most
// of them are ASCII.
type widthCache struct {
	mu    sync.RWMutex
	ascii [128]int8
	wide  sync.Map
}

func (c *widthCache) width(ru rune) int {
	if ru >= 0 && ru < 128 {
		c.mu.RLock()
		w := c.ascii[ru]
		c.mu.RUnlock()
		if w != 0 {
			return int(w) - 1
		}
		actual := max(runewidth.RuneWidth(ru), 0)
		c.mu.Lock()
		c.ascii[ru] = int8(actual + 1)
		c.mu.Unlock()
		return actual
	}

	if cached, ok := c.wide.Load(ru); ok {
		return cached.(int)
	}
	w := max(runewidth.RuneWidth(ru), 0)
	c.wide.Store(ru, w)
	return w
}

// drawText draws text starting at x and stops at maxX. Zero-width runes are
// attached to the preceding cell as combining characters. It returns the
// column after the last drawn cell.
func (r *Renderer) drawText(x, y, maxX int, text string, style tcell.Style) int {
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		var combc []rune
		for i < len(runes) && r.widths.width(runes[i]) == 0 && runes[i] > 0x7f {
			combc = append(combc, runes[i])
			i++
		}

		w := r.widths.width(mainc)
		if w == 0 {
			w = 1
		}
		if x+w > maxX {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		for extra := 1; extra < w; extra++ {
			r.screen.SetContent(x+extra, y, ' ', nil, style)
		}
		x += w
	}
	return x
}

func (r *Renderer) fill(x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
