// Package input implements the single-line prompt used for incremental
// search, filtering and command entry. The prompt never blocks: the host
// loop keeps running and feeds it key events.
package input

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Prompt is an in-progress line of input.
type Prompt struct {
	Label string

	input string

	// OnChange is called after every edit with the full input.
	OnChange func(input string)
	// OnConfirm is called on Enter with non-empty input.
	OnConfirm func(input string)
	// OnCancel is called on Esc, or on Enter with empty input.
	OnCancel func()
}

// Input returns the text typed so far.
func (p *Prompt) Input() string {
	return p.input
}

// HandleKey applies ev and reports whether the prompt is finished.
func (p *Prompt) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlG:
		p.cancel()
		return true

	case tcell.KeyEnter:
		if p.input == "" {
			p.cancel()
			return true
		}
		if p.OnConfirm != nil {
			p.OnConfirm(p.input)
		}
		return true

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.input == "" {
			return false
		}
		_, size := utf8.DecodeLastRuneInString(p.input)
		p.set(p.input[:len(p.input)-size])

	case tcell.KeyCtrlU:
		p.set("")

	case tcell.KeyCtrlW:
		p.set(trimLastWord(p.input))

	case tcell.KeyRune:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return false
		}
		p.set(p.input + string(ev.Rune()))
	}
	return false
}

func (p *Prompt) set(input string) {
	if input == p.input {
		return
	}
	p.input = input
	if p.OnChange != nil {
		p.OnChange(input)
	}
}

func (p *Prompt) cancel() {
	if p.OnCancel != nil {
		p.OnCancel()
	}
}

func trimLastWord(s string) string {
	end := len(s)
	for end > 0 && s[end-1] == ' ' {
		end--
	}
	for end > 0 && s[end-1] != ' ' {
		end--
	}
	return s[:end]
}
