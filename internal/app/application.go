// Package app runs the terminal UI: one tcell loop owning the file panel
// and the process panel, fed by key events and by the event bus that
// background work reports on.
package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/config"
	"github.com/kk-code-lab/rnav/internal/dircache"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/filelist"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/listing"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/proc"
	"github.com/kk-code-lab/rnav/internal/procview"
	"github.com/kk-code-lab/rnav/internal/stale"
	inputui "github.com/kk-code-lab/rnav/internal/ui/input"
	renderui "github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/sirupsen/logrus"
)

const busSize = 256

type mode int

const (
	modeFiles mode = iota
	modeProcs
)

// Options configures NewApplication.
type Options struct {
	Config config.Config
	// Dir is the starting directory. Defaults to the working directory.
	Dir string
	// Run lists commands spawned in the process panel at startup.
	Run []string
	// Screen replaces the terminal screen, for tests.
	Screen tcell.Screen
	// TagFile overrides dircache.DefaultTagFile.
	TagFile string
	// Clipboard replaces the system clipboard.
	Clipboard func(string) error
	// NoWatch disables filesystem notifications.
	NoWatch bool
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	renderer *renderui.Renderer
	bus      *events.Bus
	cache    *dircache.Cache
	keys     *keymap.Keymap
	cfg      config.Config
	log      *logrus.Entry

	files *filelist.FileList
	procs *procview.ProcView
	mode  mode

	// procsStale is set by status events and cleared by one refresh per
	// drained batch.
	procsStale bool

	prompt     *inputui.Prompt
	showHelp   bool
	helpScroll int
	status     string
	statusTone events.Tone

	navTok    *stale.Token
	copyText  func(string) error
	editorCmd []string

	lastClickRow  int
	lastClickTime time.Time

	shouldQuit  bool
	currentPath string
}

// NewApplication opens the screen and reads the starting directory.
func NewApplication(opts Options) (*Application, error) {
	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
		if err := screen.Init(); err != nil {
			return nil, err
		}
	}
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	cfg := opts.Config
	keys, err := cfg.Keymap()
	if err != nil {
		return nil, err
	}

	dir, err := startDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	log := logging.For("app")
	bus := events.NewBus(busSize)

	tagFile := opts.TagFile
	if tagFile == "" {
		tagFile = dircache.DefaultTagFile()
	}
	tags := dircache.NewTagStore(tagFile)
	if err := tags.Load(); err != nil {
		log.WithError(err).Warn("tags not loaded")
	}
	cacheOpts := []dircache.Option{dircache.WithBus(bus), dircache.WithTags(tags)}
	if opts.NoWatch {
		cacheOpts = append(cacheOpts, dircache.WithoutWatcher())
	}

	copyText := opts.Clipboard
	if copyText == nil && !clipboard.Unsupported {
		copyText = clipboard.WriteAll
	}
	editorCmd, _ := editorCommand(cfg, os.Getenv, exec.LookPath)

	app := &Application{
		screen:    screen,
		renderer:  renderui.NewRenderer(screen),
		bus:       bus,
		cache:     dircache.New(cacheOpts...),
		keys:      keys,
		cfg:       cfg,
		log:       log,
		copyText:  copyText,
		editorCmd: editorCmd,
	}

	var spawn []proc.Option
	if cfg.Shell != "" {
		spawn = append(spawn, proc.WithShell(cfg.Shell))
	}
	app.procs = procview.New(
		procview.WithKeymap(keys),
		procview.WithBus(bus),
		procview.WithTheme(app.renderer.Theme()),
		procview.WithClipboard(copyText),
		procview.WithSpawnOptions(spawn...),
	)

	if err := app.loadFiles(dir); err != nil {
		_ = app.cache.Close()
		return nil, err
	}
	app.layout()

	for _, command := range opts.Run {
		app.runCommand(command)
	}
	return app, nil
}

func startDir(dir string) (string, error) {
	if dir == "" {
		return GetCwd()
	}
	abs, err := filepath.Abs(homePath(dir))
	if err != nil {
		return "", err
	}
	return abs, nil
}

// loadFiles builds the first file panel synchronously.
func (app *Application) loadFiles(dir string) error {
	var yank func(string) error
	if app.copyText != nil {
		yank = func(path string) error {
			return app.copyText(normalizeClipboardPath(path, runtime.GOOS))
		}
	}

	w, h := app.screen.Size()
	b := filelist.NewBuilder(filelist.FromPath(fs.Entry{Name: filepath.Base(dir), FullPath: dir}),
		filelist.WithKeymap(app.keys),
		filelist.WithBus(app.bus),
		filelist.WithTheme(app.renderer.Theme()),
		filelist.WithTagger(app.cache.Tags()),
		filelist.WithClipboard(yank),
		filelist.WithNavigator(app.navigate),
		filelist.WithShowHidden(app.cfg.ShowHidden),
	).WithCache(app.cache).Size(w, listHeight(h))
	if app.cfg.MetaAll {
		b = b.MetaAll()
	}

	files, err := b.Build()
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", dir, err)
	}
	files.ApplyOptions(listing.Options{
		SortKey:    app.cfg.SortKey(),
		DirsFirst:  app.cfg.DirsFirst,
		ShowHidden: app.cfg.ShowHidden,
	})
	app.files = files
	return nil
}

// listHeight is the number of list rows between the header and the footer
// and status rows.
func listHeight(screenHeight int) int {
	return max(screenHeight-3, 1)
}

// layout sizes both panels to the screen.
func (app *Application) layout() {
	w, h := app.screen.Size()
	app.files.Resize(w, listHeight(h))
	app.procs.Resize(w, listHeight(h))
	app.refreshPanels()
}

func (app *Application) refreshPanels() {
	if err := app.files.OnRefresh(); err != nil {
		app.log.WithError(err).Warn("file panel refresh failed")
	}
	if err := app.procs.OnRefresh(); err != nil {
		app.log.WithError(err).Warn("process panel refresh failed")
	}
}

// Close stops running processes and the directory watcher and releases the
// terminal.
func (app *Application) Close() error {
	for _, p := range app.procs.List().Processes() {
		if !p.Running() {
			continue
		}
		if err := p.Kill(); err != nil {
			app.log.WithError(err).WithField("command", p.Command).Debug("kill on exit failed")
		}
	}
	err := app.cache.Close()
	app.screen.Fini()
	return err
}

// GetCurrentPath returns the directory chosen with quit_cd, or "" when the
// app was left with a plain quit.
func (app *Application) GetCurrentPath() string {
	return app.currentPath
}

// GetCwd returns current working directory.
func GetCwd() (string, error) {
	return os.Getwd()
}
