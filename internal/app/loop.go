package app

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/filelist"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/procview"
	"github.com/kk-code-lab/rnav/internal/stale"
	renderui "github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/mattn/go-runewidth"
)

const doubleClickThreshold = 300 * time.Millisecond

// navigated delivers a listing built off the UI thread.
type navigated struct {
	tok   *stale.Token
	dir   string
	panel *filelist.FileList
	err   error
}

// Run processes events until quit.
func (app *Application) Run() {
	app.draw()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.draw()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case ev := <-app.bus.C():
			if app.handleBusEvent(ev) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processEvents() {
			renderPending = true
		}
	}
}

// processEvents drains whatever the bus holds so a burst of process output
// costs one redraw and one process panel refresh.
func (app *Application) processEvents() bool {
	changed := false
	for {
		select {
		case ev := <-app.bus.C():
			if app.handleBusEvent(ev) {
				changed = true
			}
		default:
			app.refreshProcs()
			return changed
		}
	}
}

// refreshProcs re-syncs the process panel once after status events marked
// it stale. Outside the panel the refresh waits until it is shown.
func (app *Application) refreshProcs() {
	if !app.procsStale || app.mode != modeProcs {
		return
	}
	app.procsStale = false
	if err := app.procs.OnRefresh(); err != nil {
		app.log.WithError(err).Warn("process panel refresh failed")
	}
}

func (app *Application) handleBusEvent(ev events.Event) bool {
	switch ev := ev.(type) {
	case events.Status:
		app.status = ev.Text
		app.statusTone = ev.Tone
		app.procsStale = true
		return true
	case events.Refresh:
		if filepath.Clean(ev.Path) != filepath.Clean(app.files.Dir().FullPath) {
			return false
		}
		if err := app.files.OnRefresh(); err != nil {
			app.log.WithError(err).Warn("file panel refresh failed")
		}
		return true
	case filelist.MetaLoaded:
		return app.files.HandleMetaLoaded(ev)
	case procview.PreviewReady:
		return app.procs.HandlePreviewReady(ev)
	case navigated:
		return app.handleNavigated(ev)
	}
	return false
}

func (app *Application) handleNavigated(ev navigated) bool {
	if ev.tok != app.navTok || ev.tok.IsStale() {
		return false
	}
	app.navTok = nil
	if ev.err != nil {
		if errors.Is(ev.err, stale.ErrStale) {
			return false
		}
		app.setStatus("Can't open this path: "+ev.err.Error(), events.ToneError)
		return true
	}
	app.files.Adopt(ev.panel)
	if err := app.files.OnRefresh(); err != nil {
		app.log.WithError(err).Warn("file panel refresh failed")
	}
	app.log.WithField("dir", ev.dir).Debug("navigated")
	return true
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		app.handleKey(ev)
	case *tcell.EventResize:
		app.screen.Sync()
		app.layout()
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) handleKey(ev *tcell.EventKey) {
	if app.showHelp {
		app.handleHelpKey(ev)
		return
	}
	if app.prompt != nil {
		if app.prompt.HandleKey(ev) {
			app.prompt = nil
		}
		return
	}
	app.status = ""

	switch app.mode {
	case modeFiles:
		if app.files.Prompt() != nil {
			app.report(app.files.OnKey(ev))
			return
		}
		if action, ok := app.keys.Lookup(ev, keymap.ModeFileList, keymap.ModeMovement); ok {
			if action == keymap.Right && app.openSelectedFile() {
				return
			}
			app.report(app.files.OnKey(ev))
			return
		}
	case modeProcs:
		if action, ok := app.keys.Lookup(ev, keymap.ModeProcView, keymap.ModeMovement); ok {
			if action == keymap.Close {
				app.mode = modeFiles
				return
			}
			app.report(app.procs.Do(action))
			return
		}
	}

	if action, ok := app.keys.Lookup(ev, keymap.ModeGlobal); ok {
		app.handleAction(action)
	}
}

// report puts an unexpected panel error on the status line.
func (app *Application) report(err error) {
	if err == nil {
		return
	}
	app.log.WithError(err).Warn("action failed")
	app.setStatus(err.Error(), events.ToneError)
}

func (app *Application) setStatus(text string, tone events.Tone) {
	app.status = text
	app.statusTone = tone
}

func (app *Application) handleHelpKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyEscape {
		app.showHelp = false
		return
	}
	if action, ok := app.keys.Lookup(ev, keymap.ModeGlobal); ok && (action == keymap.Help || action == keymap.Quit) {
		app.showHelp = false
		return
	}
	action, ok := app.keys.Lookup(ev, keymap.ModeMovement)
	if !ok {
		return
	}
	_, h := app.screen.Size()
	switch action {
	case keymap.Up:
		app.helpScroll--
	case keymap.Down:
		app.helpScroll++
	case keymap.PageUp:
		app.helpScroll -= h / 2
	case keymap.PageDown:
		app.helpScroll += h / 2
	case keymap.Top:
		app.helpScroll = 0
	}
	app.helpScroll = max(min(app.helpScroll, app.helpLen()-1), 0)
}

// handleMouse maps primary-clicks to selection and navigation and the wheel
// to movement.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.showHelp {
		return false
	}
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.moveBy(keymap.Up)
		return true
	case buttons&tcell.WheelDown != 0:
		app.moveBy(keymap.Down)
		return true
	case buttons&tcell.Button1 == 0:
		return false
	}

	x, y := ev.Position()
	if y == 0 {
		if app.mode == modeFiles {
			return app.handleBreadcrumbClick(x)
		}
		return false
	}

	_, h := app.screen.Size()
	row := y - 1
	if row >= listHeight(h) {
		return false
	}

	if app.mode == modeProcs {
		if x >= app.procs.ListWidth() {
			return false
		}
		return app.procs.ClickRow(row)
	}

	doubleClick := app.lastClickRow == row && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickRow = row
	app.lastClickTime = time.Now()

	if !app.files.ClickRow(row) {
		return false
	}
	if doubleClick {
		app.lastClickTime = time.Time{}
		if !app.openSelectedFile() {
			app.report(app.files.Do(keymap.Right))
		}
	}
	return true
}

func (app *Application) moveBy(action keymap.Action) {
	if app.mode == modeProcs {
		app.report(app.procs.Do(action))
		return
	}
	app.report(app.files.Do(action))
}

// handleBreadcrumbClick navigates to the header segment under x. Clicks are
// ignored while the path is truncated.
func (app *Application) handleBreadcrumbClick(x int) bool {
	w, _ := app.screen.Size()
	segments := renderui.BreadcrumbSegments(app.files.Dir().FullPath)
	if len(segments) == 0 {
		return false
	}

	sepW := runewidth.StringWidth(renderui.BreadcrumbSep)
	totalWidth := 0
	for i, s := range segments {
		if i > 0 {
			totalWidth += sepW
		}
		totalWidth += runewidth.StringWidth(s)
	}
	if totalWidth > w-app.files.RenderHeader().Width()-1 {
		return false
	}

	currentX := 0
	for i, s := range segments {
		if i > 0 {
			if x >= currentX && x < currentX+sepW {
				app.jumpToBreadcrumb(segments, i-1)
				return true
			}
			currentX += sepW
		}
		segW := runewidth.StringWidth(s)
		if x >= currentX && x < currentX+segW {
			app.jumpToBreadcrumb(segments, i)
			return true
		}
		currentX += segW
	}
	return false
}

func (app *Application) jumpToBreadcrumb(segments []string, idx int) {
	path := buildBreadcrumbPath(segments, idx)
	if path == "" || filepath.Clean(path) == filepath.Clean(app.files.Dir().FullPath) {
		return
	}
	app.files.GotoPath(path, nil)
}

func buildBreadcrumbPath(segments []string, idx int) string {
	if idx < 0 || idx >= len(segments) {
		return ""
	}
	path := ""
	for i := 0; i <= idx; i++ {
		switch {
		case segments[i] == "/":
			path = string(filepath.Separator)
		case i == 0 && filepath.VolumeName(segments[i]) == segments[i]:
			path = segments[i] + string(filepath.Separator)
		default:
			path = filepath.Join(path, segments[i])
		}
	}
	return path
}
