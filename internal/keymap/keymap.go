// Package keymap maps key presses to named actions through per-mode binding
// tables. The tables start from built-in defaults and can be overridden per
// action from the config file.
package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ErrUnknownAction is returned when an override names an action that does
// not exist in its mode.
var ErrUnknownAction = errors.New("unknown action")

// Binding is an action together with its keys.
type Binding struct {
	Action Action
	Keys   []Key
}

// Keymap is immutable after construction and safe for concurrent reads.
type Keymap struct {
	bindings map[Mode]map[Action][]Key
	lookup   map[Mode]map[Key]Action
}

var defaults = map[Mode]map[Action][]string{
	ModeMovement: {
		Up:       {"up", "k"},
		Down:     {"down", "j"},
		Left:     {"left", "h", "backspace"},
		Right:    {"right", "l", "enter"},
		PageUp:   {"pgup", "ctrl+b"},
		PageDown: {"pgdn", "ctrl+f"},
		Top:      {"home", "g"},
		Bottom:   {"end", "G"},
	},
	ModeFileList: {
		Search:          {"/"},
		SearchNext:      {"n"},
		SearchPrev:      {"N"},
		Filter:          {"F", "ctrl+s"},
		Select:          {"space"},
		InvertSelection: {"v"},
		ClearSelection:  {"V"},
		FilterSelection: {"alt+v"},
		ToggleTag:       {"t"},
		ToggleHidden:    {"."},
		ReverseSort:     {"R"},
		CycleSort:       {"s"},
		ToNextMtime:     {"]"},
		ToPrevMtime:     {"["},
		ToggleDirsFirst: {"D"},
		YankPath:        {"y"},
	},
	ModeProcView: {
		Close:        {"w", "esc"},
		Remove:       {"d"},
		Kill:         {"k"},
		Up:           {"up", "p"},
		Down:         {"down", "n"},
		FollowOutput: {"f"},
		ScrollDown:   {"ctrl+n"},
		ScrollUp:     {"ctrl+p"},
		PageDownOut:  {"ctrl+v"},
		PageUpOut:    {"alt+v"},
		OutputBottom: {">"},
		OutputTop:    {"<"},
		Reload:       {"r"},
		CopyOutput:   {"y"},
	},
	ModeGlobal: {
		Quit:          {"q"},
		QuitCd:        {"Q"},
		Help:          {"?"},
		RunCommand:    {"!"},
		ShowProcesses: {"w"},
		RefreshDir:    {"ctrl+r"},
		GoHome:        {"~"},
		Suspend:       {"ctrl+z"},
	},
}

// Default returns the built-in key bindings.
func Default() *Keymap {
	km, err := New(nil)
	if err != nil {
		// the defaults are constant; a parse failure is a programming error
		panic(err)
	}
	return km
}

// New builds a keymap from the defaults with overrides applied. Each
// override replaces all keys of one action in one mode.
func New(overrides map[Mode]map[Action][]string) (*Keymap, error) {
	km := &Keymap{
		bindings: make(map[Mode]map[Action][]Key),
		lookup:   make(map[Mode]map[Key]Action),
	}

	for mode, actions := range defaults {
		for action, keys := range actions {
			if err := km.set(mode, action, keys); err != nil {
				return nil, err
			}
		}
	}

	for mode, actions := range overrides {
		if _, ok := modeActions[mode]; !ok {
			return nil, fmt.Errorf("unknown key binding mode %q", mode)
		}
		for action, keys := range actions {
			if !validAction(mode, action) {
				return nil, fmt.Errorf("%w %q in mode %s", ErrUnknownAction, action, mode)
			}
			if err := km.set(mode, action, keys); err != nil {
				return nil, err
			}
		}
	}

	km.rebuild()
	return km, nil
}

func (km *Keymap) set(mode Mode, action Action, keys []string) error {
	parsed := make([]Key, 0, len(keys))
	for _, s := range keys {
		k, err := ParseKey(s)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", mode, action, err)
		}
		parsed = append(parsed, k)
	}
	if km.bindings[mode] == nil {
		km.bindings[mode] = make(map[Action][]Key)
	}
	km.bindings[mode][action] = parsed
	return nil
}

// rebuild walks actions in declaration order so that, when two actions
// share a key, the earlier one wins deterministically.
func (km *Keymap) rebuild() {
	for mode, actions := range modeActions {
		table := make(map[Key]Action)
		for _, action := range actions {
			for _, k := range km.bindings[mode][action] {
				if _, taken := table[k]; !taken {
					table[k] = action
				}
			}
		}
		km.lookup[mode] = table
	}
}

// Lookup resolves ev in the given modes, first match wins.
func (km *Keymap) Lookup(ev *tcell.EventKey, modes ...Mode) (Action, bool) {
	return km.LookupKey(FromEvent(ev), modes...)
}

// LookupKey is Lookup for an already normalized key.
func (km *Keymap) LookupKey(k Key, modes ...Mode) (Action, bool) {
	for _, mode := range modes {
		if action, ok := km.lookup[mode][k]; ok {
			return action, true
		}
	}
	return "", false
}

// Bindings lists the actions of mode in declaration order.
func (km *Keymap) Bindings(mode Mode) []Binding {
	actions := modeActions[mode]
	out := make([]Binding, 0, len(actions))
	for _, action := range actions {
		keys := km.bindings[mode][action]
		if len(keys) == 0 {
			continue
		}
		out = append(out, Binding{Action: action, Keys: keys})
	}
	return out
}

// KeysFor returns the keys bound to action in mode joined with "/", e.g.
// "w/esc".
func (km *Keymap) KeysFor(mode Mode, action Action) string {
	keys := km.bindings[mode][action]
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, "/")
}

// Actions returns every action name of mode, sorted, for config validation
// messages.
func Actions(mode Mode) []string {
	out := make([]string, 0, len(modeActions[mode]))
	for _, a := range modeActions[mode] {
		out = append(out, string(a))
	}
	sort.Strings(out)
	return out
}
