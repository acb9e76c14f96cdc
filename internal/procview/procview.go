package procview

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/proc"
	"github.com/kk-code-lab/rnav/internal/stale"
	"github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/kk-code-lab/rnav/internal/ui/textview"
)

// PreviewReady carries a preview pane built off the UI thread. The loop
// passes it to HandlePreviewReady, which drops it if a newer swap started.
type PreviewReady struct {
	ProcessID string
	View      *textview.TextView
	tok       *stale.Token
}

// ProcView couples the process list with the output preview of the selected
// process.
type ProcView struct {
	list *ProcList

	preview    *textview.TextView
	previewID  string
	previewLen int
	previewTok *stale.Token
	follow     bool

	keys     *keymap.Keymap
	bus      *events.Bus
	theme    render.ColorTheme
	copyText func(string) error
	spawn    []proc.Option

	width, height int
	listWidth     int
}

// Option configures a ProcView.
type Option func(*ProcView)

func WithKeymap(km *keymap.Keymap) Option { return func(v *ProcView) { v.keys = km } }

func WithBus(bus *events.Bus) Option { return func(v *ProcView) { v.bus = bus } }

func WithTheme(theme render.ColorTheme) Option { return func(v *ProcView) { v.theme = theme } }

// WithClipboard sets the function used to copy process output.
func WithClipboard(copy func(string) error) Option {
	return func(v *ProcView) { v.copyText = copy }
}

// WithSpawnOptions applies opts to every spawned process.
func WithSpawnOptions(opts ...proc.Option) Option {
	return func(v *ProcView) { v.spawn = append(v.spawn, opts...) }
}

// New returns an empty process panel.
func New(opts ...Option) *ProcView {
	v := &ProcView{
		keys:   keymap.Default(),
		theme:  render.GetColorTheme(),
		height: 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.list = NewProcList(v.bus, v.theme, v.spawn...)
	v.preview = textview.New("")
	return v
}

// List exposes the process list.
func (v *ProcView) List() *ProcList { return v.list }

// Preview returns the output pane.
func (v *ProcView) Preview() *textview.TextView { return v.preview }

// PreviewID is the ID of the process shown in the preview, or "".
func (v *ProcView) PreviewID() string { return v.previewID }

func (v *ProcView) Len() int { return v.list.Len() }

func (v *ProcView) Render() []render.Line { return v.list.view.Render() }

func (v *ProcView) RenderHeader() render.Line { return v.list.RenderHeader() }

func (v *ProcView) RenderFooter() render.Line { return v.list.RenderFooter() }

func (v *ProcView) SelectedRow() int { return v.list.view.SelectedRow() }

// ClickRow selects the process drawn on the given visible row.
func (v *ProcView) ClickRow(row int) bool {
	if !v.list.view.ClickRow(row) {
		return false
	}
	v.updatePreview()
	return true
}

// ListWidth is the number of columns given to the list; the preview takes
// the rest after a one-column separator.
func (v *ProcView) ListWidth() int { return v.listWidth }

// Resize splits width between the list and the preview.
func (v *ProcView) Resize(width, height int) {
	v.width, v.height = width, height
	v.listWidth = width * 2 / 5
	v.list.view.Resize(v.listWidth, height)
	v.preview.Resize(v.previewWidth(), height)
}

func (v *ProcView) previewWidth() int {
	return max(v.width-v.listWidth-1, 0)
}

func (v *ProcView) OnNew() error {
	v.list.view.Clamp()
	v.updatePreview()
	return nil
}

// OnRefresh re-syncs the cursor with the list and, in follow mode, takes a
// fresh snapshot when the previewed process produced more output.
func (v *ProcView) OnRefresh() error {
	v.list.view.Clamp()
	if v.follow {
		if p, ok := v.list.Selected(); ok && p.ID == v.previewID && len(p.Output()) != v.previewLen {
			v.SwapPreview(p)
			return nil
		}
	}
	v.updatePreview()
	return nil
}

// RunProc spawns command and shows the process panel's status for it.
func (v *ProcView) RunProc(command string, opts ...proc.Option) (*proc.Process, error) {
	p, err := v.list.RunProc(command, opts...)
	if err != nil {
		return nil, err
	}
	v.updatePreview()
	return p, nil
}

// updatePreview swaps the preview if the selected process changed.
func (v *ProcView) updatePreview() {
	p, ok := v.list.Selected()
	if !ok {
		v.resetPreview()
		return
	}
	if p.ID != v.previewID {
		v.SwapPreview(p)
	}
}

func (v *ProcView) resetPreview() {
	v.previewTok.MarkStale()
	v.previewTok = nil
	v.previewID = ""
	v.previewLen = 0
	v.preview = textview.New("")
	v.preview.Resize(v.previewWidth(), v.height)
}

// SwapPreview snapshots the output of p now and builds the pane on a
// goroutine. The result arrives as a PreviewReady event.
func (v *ProcView) SwapPreview(p *proc.Process) {
	v.previewTok.MarkStale()
	tok := stale.New()
	v.previewTok = tok
	v.previewID = p.ID

	snapshot := p.Output()
	v.previewLen = len(snapshot)
	width, height, follow := v.previewWidth(), v.height, v.follow
	bus := v.bus

	go func() {
		tv := textview.New(snapshot)
		tv.Resize(width, height)
		if follow {
			tv.ToggleFollow()
		}
		if tok.IsStale() {
			return
		}
		bus.Send(PreviewReady{ProcessID: p.ID, View: tv, tok: tok})
	}()
}

// HandlePreviewReady installs a built preview unless it was superseded. It
// reports whether the pane changed.
func (v *ProcView) HandlePreviewReady(ev PreviewReady) bool {
	if ev.tok == nil || ev.tok != v.previewTok || ev.tok.IsStale() {
		return false
	}
	ev.View.Resize(v.previewWidth(), v.height)
	if ev.View.Following() != v.follow {
		ev.View.ToggleFollow()
	}
	v.preview = ev.View
	return true
}

// OnKey dispatches process and movement actions. Close is left to the host.
func (v *ProcView) OnKey(ev *tcell.EventKey) error {
	action, ok := v.keys.Lookup(ev, keymap.ModeProcView, keymap.ModeMovement)
	if !ok {
		return nil
	}
	return v.Do(action)
}

// Handles reports whether ev maps to a process-view action.
func (v *ProcView) Handles(ev *tcell.EventKey) bool {
	_, ok := v.keys.Lookup(ev, keymap.ModeProcView, keymap.ModeMovement)
	return ok
}

// Do runs action. A missing process is reported on the status line.
func (v *ProcView) Do(action keymap.Action) error {
	err := v.do(action)
	switch {
	case errors.Is(err, ErrNoProcess):
		v.bus.Status("No process selected", events.ToneError)
		return nil
	case errors.Is(err, proc.ErrExited):
		v.bus.Status("Process already exited", events.ToneNormal)
		return nil
	}
	return err
}

func (v *ProcView) do(action keymap.Action) error {
	list := v.list.view
	switch action {
	case keymap.Up:
		list.MoveUp(1)
	case keymap.Down:
		list.MoveDown(1)
	case keymap.PageUp:
		list.PageUp()
	case keymap.PageDown:
		list.PageDown()
	case keymap.Top:
		list.Top()
	case keymap.Bottom:
		list.Bottom()
	case keymap.Remove:
		if err := v.list.RemoveProc(); err != nil {
			return err
		}
		v.resetPreview()
	case keymap.Kill:
		return v.list.KillProc()
	case keymap.FollowOutput:
		v.follow = !v.follow
		v.preview.ToggleFollow()
		v.bus.Status(fmt.Sprintf("Following output: %t", v.follow), events.ToneNormal)
	case keymap.ScrollDown:
		v.preview.ScrollDown(1)
	case keymap.ScrollUp:
		v.preview.ScrollUp(1)
	case keymap.PageDownOut:
		v.preview.PageDown()
	case keymap.PageUpOut:
		v.preview.PageUp()
	case keymap.OutputBottom:
		v.preview.Bottom()
	case keymap.OutputTop:
		v.preview.Top()
	case keymap.Reload:
		p, ok := v.list.Selected()
		if !ok {
			return ErrNoProcess
		}
		v.SwapPreview(p)
		return nil
	case keymap.CopyOutput:
		return v.copyOutput()
	}
	v.updatePreview()
	return nil
}

func (v *ProcView) copyOutput() error {
	p, ok := v.list.Selected()
	if !ok {
		return ErrNoProcess
	}
	if v.copyText == nil {
		v.bus.Status("Clipboard is not available", events.ToneError)
		return nil
	}
	if err := v.copyText(p.Output()); err != nil {
		v.bus.Status(fmt.Sprintf("Can't copy output: %v", err), events.ToneError)
		return nil
	}
	v.bus.Status("Copied output of "+p.Command, events.ToneSuccess)
	return nil
}
