package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/filelist"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/proc"
	"github.com/kk-code-lab/rnav/internal/stale"
	inputui "github.com/kk-code-lab/rnav/internal/ui/input"
	"github.com/sirupsen/logrus"
)

// selectionPlaceholder in a command is replaced by the shell-quoted paths
// of the selected entries.
const selectionPlaceholder = "$s"

func (app *Application) handleAction(action keymap.Action) {
	switch action {
	case keymap.Quit:
		app.shouldQuit = true
	case keymap.QuitCd:
		app.files.RememberSelection()
		app.currentPath = app.files.Dir().FullPath
		app.shouldQuit = true
	case keymap.Help:
		app.showHelp = !app.showHelp
		app.helpScroll = 0
	case keymap.RunCommand:
		app.prompt = &inputui.Prompt{
			Label:     "Run",
			OnConfirm: app.runCommand,
		}
	case keymap.ShowProcesses:
		app.mode = modeProcs
		app.procsStale = false
		if err := app.procs.OnRefresh(); err != nil {
			app.log.WithError(err).Warn("process panel refresh failed")
		}
	case keymap.RefreshDir:
		app.refreshDir()
	case keymap.GoHome:
		home, err := os.UserHomeDir()
		if err != nil {
			app.setStatus("Can't open this path: "+err.Error(), events.ToneError)
			return
		}
		app.mode = modeFiles
		app.files.GotoPath(home, nil)
	case keymap.Suspend:
		app.suspendToShell()
		app.resumeAfterStop()
	}
}

// navigate builds the listing of dir on a goroutine. A newer navigation
// marks the previous build stale, so only the last one is shown.
func (app *Application) navigate(dir string, selected *fs.Entry) {
	app.navTok.MarkStale()
	tok := stale.New()
	app.navTok = tok

	w, h := app.screen.Size()
	b := filelist.NewBuilder(filelist.FromPath(fs.Entry{Name: filepath.Base(dir), FullPath: dir}), app.files.Options()...).
		WithCache(app.cache).
		WithStale(tok).
		Size(w, listHeight(h))
	if app.cfg.MetaAll {
		b = b.MetaAll()
	}
	if selected != nil {
		b = b.Select(*selected)
	}

	bus := app.bus
	log := app.log
	go func() {
		panel, err := b.Build()
		if errors.Is(err, stale.ErrStale) {
			log.WithField("dir", dir).Debug("navigation superseded")
			return
		}
		bus.Send(navigated{tok: tok, dir: dir, panel: panel, err: err})
	}()
}

// refreshDir re-reads the current directory, keeping the selection.
func (app *Application) refreshDir() {
	dir := app.files.Dir().FullPath
	if cur, ok := app.files.Selected(); ok && !cur.Placeholder {
		app.navigate(dir, &cur)
		return
	}
	app.navigate(dir, nil)
}

// runCommand spawns command in the process panel, running in the directory
// of the file panel.
func (app *Application) runCommand(command string) {
	var paths []string
	for _, e := range app.files.SelectedEntries() {
		paths = append(paths, e.FullPath)
	}
	command = expandCommand(command, paths)

	p, err := app.procs.RunProc(command, proc.WithDir(app.files.Dir().FullPath))
	if err != nil {
		app.log.WithError(err).WithField("command", command).Warn("spawn failed")
		return
	}
	app.log.WithFields(logrus.Fields{"command": command, "pid": p.Pid()}).Info("process started")
}

func expandCommand(command string, paths []string) string {
	if !strings.Contains(command, selectionPlaceholder) {
		return command
	}
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = shellQuote(p)
	}
	return strings.ReplaceAll(command, selectionPlaceholder, strings.Join(quoted, " "))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}

// openSelectedFile opens the current entry in the editor. It reports false
// for directories and the placeholder, which the file panel handles itself.
func (app *Application) openSelectedFile() bool {
	cur, ok := app.files.Selected()
	if !ok || cur.Placeholder {
		return false
	}
	if !cur.HasMeta {
		if err := cur.LoadMeta(); err != nil {
			return false
		}
	}
	if cur.IsDir {
		return false
	}

	if err := app.openFileInEditor(cur.FullPath); err != nil {
		app.log.WithError(err).WithField("path", cur.FullPath).Warn("editor failed")
		app.setStatus(fmt.Sprintf("Can't open %s: %v", cur.Name, err), events.ToneError)
	}
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := exec.Command(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	app.refreshDir()
	return runErr
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
		app.refreshDir()
	}()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
