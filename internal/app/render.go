package app

import (
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/keymap"
	renderui "github.com/kk-code-lab/rnav/internal/ui/render"
)

var modeTitles = map[keymap.Mode]string{
	keymap.ModeFileList: "Files",
	keymap.ModeProcView: "Processes",
	keymap.ModeMovement: "Movement",
	keymap.ModeGlobal:   "Global",
}

// draw paints the whole screen: header, the active panel, its footer and
// the status row.
func (app *Application) draw() {
	r := app.renderer
	if app.showHelp {
		r.HideCursor()
		r.DrawHelpOverlay(app.helpSections(), app.helpScroll)
		r.Show()
		return
	}

	w, h := app.screen.Size()
	listH := listHeight(h)
	base := r.Theme().Base()

	switch app.mode {
	case modeProcs:
		r.DrawHeader(app.files.Dir().FullPath, app.procs.RenderHeader())
		lw := app.procs.ListWidth()
		r.DrawList(renderui.Rect{X: 0, Y: 1, W: lw, H: listH}, app.procs.Render(), app.procs.SelectedRow())
		r.DrawSeparator(lw, 1, listH)
		r.DrawList(renderui.Rect{X: lw + 1, Y: 1, W: w - lw - 1, H: listH}, app.procs.Preview().Render(), -1)
		footer := app.procs.RenderFooter()
		if pos := app.procs.Preview().Position(); pos != "" {
			footer = renderui.Row(w, footer, renderui.Text(pos, base), base)
		}
		r.DrawLine(0, h-2, w, footer, base)
	default:
		r.DrawHeader(app.files.Dir().FullPath, app.files.RenderHeader())
		r.DrawList(renderui.Rect{X: 0, Y: 1, W: w, H: listH}, app.files.Render(), app.files.SelectedRow())
		r.DrawLine(0, h-2, w, app.files.RenderFooter(), base)
	}

	app.drawStatusRow(h - 1)
	r.Show()
}

func (app *Application) drawStatusRow(y int) {
	r := app.renderer
	prompt := app.prompt
	if prompt == nil && app.mode == modeFiles {
		prompt = app.files.Prompt()
	}
	if prompt != nil {
		r.DrawPrompt(y, prompt.Label, prompt.Input())
		return
	}

	r.HideCursor()
	if app.status != "" {
		r.DrawStatus(y, app.status, app.statusTone)
		return
	}
	r.DrawStatus(y, renderui.FormatHints(app.hints()), events.ToneNormal)
}

func (app *Application) hints() []renderui.Hint {
	km := app.keys
	if app.mode == modeProcs {
		return []renderui.Hint{
			{Key: km.KeysFor(keymap.ModeProcView, keymap.Close), Action: "close"},
			{Key: km.KeysFor(keymap.ModeProcView, keymap.Kill), Action: "kill"},
			{Key: km.KeysFor(keymap.ModeProcView, keymap.Remove), Action: "remove"},
			{Key: km.KeysFor(keymap.ModeProcView, keymap.FollowOutput), Action: "follow"},
			{Key: km.KeysFor(keymap.ModeGlobal, keymap.Help), Action: "help"},
		}
	}
	return []renderui.Hint{
		{Key: km.KeysFor(keymap.ModeGlobal, keymap.RunCommand), Action: "run"},
		{Key: km.KeysFor(keymap.ModeGlobal, keymap.ShowProcesses), Action: "processes"},
		{Key: km.KeysFor(keymap.ModeFileList, keymap.Search), Action: "search"},
		{Key: km.KeysFor(keymap.ModeGlobal, keymap.Help), Action: "help"},
		{Key: km.KeysFor(keymap.ModeGlobal, keymap.Quit), Action: "quit"},
	}
}

// helpSections lists every binding, one section per mode.
func (app *Application) helpSections() []renderui.HelpSection {
	sections := make([]renderui.HelpSection, 0, len(keymap.Modes))
	for _, mode := range keymap.Modes {
		bindings := app.keys.Bindings(mode)
		section := renderui.HelpSection{
			Title:   modeTitles[mode],
			Entries: make([]renderui.HelpEntry, 0, len(bindings)),
		}
		for _, b := range bindings {
			section.Entries = append(section.Entries, renderui.HelpEntry{
				Keys: app.keys.KeysFor(mode, b.Action),
				Desc: keymap.Describe(b.Action),
			})
		}
		sections = append(sections, section)
	}
	return sections
}

// helpLen is the number of lines in the help overlay.
func (app *Application) helpLen() int {
	n := 0
	for i, section := range app.helpSections() {
		if i > 0 {
			n++
		}
		n += 1 + len(section.Entries)
	}
	return n
}
