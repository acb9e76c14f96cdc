package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// ErrUnknownKey is returned for key strings that cannot be parsed.
var ErrUnknownKey = errors.New("unknown key")

// Key is a normalized key press. Ctrl combinations are carried in Code
// (tcell.KeyCtrlA...), Alt in Mod.
type Key struct {
	Code tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

var namedKeys = map[string]tcell.Key{
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"pgup":      tcell.KeyPgUp,
	"pageup":    tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"pagedown":  tcell.KeyPgDn,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"enter":     tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace,
	"delete":    tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
}

// ParseKey reads forms like "j", "G", "space", "ctrl+n", "alt+v", "pgdn".
func ParseKey(s string) (Key, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Key{}, fmt.Errorf("%w: empty", ErrUnknownKey)
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		return Key{Code: tcell.KeyRune, Rune: r}, nil
	}

	var mod tcell.ModMask
	ctrl := false
	rest := raw
	for {
		lower := strings.ToLower(rest)
		switch {
		case strings.HasPrefix(lower, "ctrl+"):
			ctrl = true
			rest = rest[len("ctrl+"):]
			continue
		case strings.HasPrefix(lower, "alt+"):
			mod |= tcell.ModAlt
			rest = rest[len("alt+"):]
			continue
		}
		break
	}

	if utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		if ctrl {
			lr := r | 0x20
			if lr < 'a' || lr > 'z' {
				return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
			}
			return Key{Code: tcell.KeyCtrlA + tcell.Key(lr-'a'), Mod: mod}, nil
		}
		return Key{Code: tcell.KeyRune, Rune: r, Mod: mod}, nil
	}

	name := strings.ToLower(rest)
	if name == "space" {
		if ctrl {
			return Key{Code: tcell.KeyCtrlSpace, Mod: mod}, nil
		}
		return Key{Code: tcell.KeyRune, Rune: ' ', Mod: mod}, nil
	}
	code, ok := namedKeys[name]
	if !ok || ctrl {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
	return Key{Code: code, Mod: mod}, nil
}

// FromEvent normalizes a tcell key event for lookup.
func FromEvent(ev *tcell.EventKey) Key {
	mod := ev.Modifiers() & tcell.ModAlt
	switch ev.Key() {
	case tcell.KeyRune:
		return Key{Code: tcell.KeyRune, Rune: ev.Rune(), Mod: mod}
	case tcell.KeyBackspace2:
		return Key{Code: tcell.KeyBackspace, Mod: mod}
	default:
		return Key{Code: ev.Key(), Mod: mod}
	}
}

func (k Key) String() string {
	var b strings.Builder
	if k.Mod&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	switch {
	case k.Code == tcell.KeyRune && k.Rune == ' ':
		b.WriteString("space")
	case k.Code == tcell.KeyRune:
		b.WriteRune(k.Rune)
	case k.Code >= tcell.KeyCtrlA && k.Code <= tcell.KeyCtrlZ && !isNamedControl(k.Code):
		b.WriteString("ctrl+")
		b.WriteRune(rune('a' + (k.Code - tcell.KeyCtrlA)))
	default:
		for name, code := range canonicalNames {
			if code == k.Code {
				b.WriteString(name)
				return b.String()
			}
		}
		b.WriteString(tcell.KeyNames[k.Code])
	}
	return b.String()
}

var canonicalNames = map[string]tcell.Key{
	"up": tcell.KeyUp, "down": tcell.KeyDown, "left": tcell.KeyLeft,
	"right": tcell.KeyRight, "pgup": tcell.KeyPgUp, "pgdn": tcell.KeyPgDn,
	"home": tcell.KeyHome, "end": tcell.KeyEnd, "enter": tcell.KeyEnter,
	"esc": tcell.KeyEscape, "tab": tcell.KeyTab, "backtab": tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace, "delete": tcell.KeyDelete,
	"insert": tcell.KeyInsert,
}

// tab, enter and backspace share codes with ctrl+i, ctrl+m and ctrl+h.
func isNamedControl(code tcell.Key) bool {
	return code == tcell.KeyTab || code == tcell.KeyEnter || code == tcell.KeyBackspace
}
