//go:build !windows

package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/filelist"
	"github.com/kk-code-lab/rnav/internal/stale"
	renderui "github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func click(app *Application, x, y int) bool {
	return app.handleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func TestEnterAndLeaveDirectory(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	root := app.files.Dir().FullPath

	require.Equal(t, "docs", selectedName(app))
	press(app, 'l')
	require.NotNil(t, app.navTok, "listing is built in the background")
	waitNavigation(t, app)

	assert.Equal(t, filepath.Join(root, "docs"), app.files.Dir().FullPath)
	assert.Equal(t, "inner.txt", selectedName(app))

	press(app, 'h')
	waitNavigation(t, app)
	assert.Equal(t, root, app.files.Dir().FullPath)
	assert.Equal(t, "docs", selectedName(app))
}

func TestFailedNavigationKeepsDirectory(t *testing.T) {
	app, screen := newTestApp(t, Options{})
	root := app.files.Dir().FullPath

	app.files.GotoPath(filepath.Join(root, "missing"), nil)
	waitNavigation(t, app)

	assert.Equal(t, root, app.files.Dir().FullPath)
	assert.Equal(t, events.ToneError, app.statusTone)
	assert.True(t, strings.HasPrefix(app.status, "Can't open this path: "), app.status)

	app.draw()
	assert.Contains(t, rowText(screen, 11), "Can't open this path")
}

func TestNewerNavigationWins(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	root := app.files.Dir().FullPath

	app.navigate(root, nil)
	first := app.navTok
	app.navigate(filepath.Join(root, "docs"), nil)
	assert.True(t, first.IsStale())

	waitNavigation(t, app)
	assert.Equal(t, filepath.Join(root, "docs"), app.files.Dir().FullPath)

	late := navigated{tok: first, dir: root}
	assert.False(t, app.handleNavigated(late))
	assert.False(t, app.handleNavigated(navigated{tok: stale.New(), dir: root}))
	assert.Equal(t, filepath.Join(root, "docs"), app.files.Dir().FullPath)
}

func TestRefreshEventsForOtherDirectoriesAreIgnored(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	root := app.files.Dir().FullPath

	assert.False(t, app.handleBusEvent(events.Refresh{Path: filepath.Join(root, "docs")}))
	assert.True(t, app.handleBusEvent(events.Refresh{Path: root + string(filepath.Separator)}))
	assert.False(t, app.handleBusEvent("unknown"))
	assert.False(t, app.handleBusEvent(filelist.MetaLoaded{Dir: root}), "pass for another listing")
}

func TestProcessPanelRefreshesOncePerDrain(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.bus.Status("in the file panel", events.ToneNormal)
	assert.True(t, app.processEvents())
	assert.True(t, app.procsStale, "refresh waits until the panel is shown")

	press(app, 'w')
	require.Equal(t, modeProcs, app.mode)
	assert.False(t, app.procsStale)

	for i := 0; i < 5; i++ {
		app.bus.Status(fmt.Sprintf("chunk %d", i), events.ToneNormal)
	}
	assert.True(t, app.handleBusEvent(<-app.bus.C()))
	assert.True(t, app.procsStale, "status events only mark the panel")

	assert.True(t, app.processEvents())
	assert.False(t, app.procsStale)
	assert.Equal(t, "chunk 4", app.status)
}

func TestMouseClickSelectsRow(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	app.editorCmd = nil

	assert.False(t, click(app, 5, 6), "below the last entry")
	assert.False(t, click(app, 5, 10), "footer row")
	assert.Equal(t, "docs", selectedName(app))

	assert.True(t, click(app, 5, 3))
	assert.Equal(t, "beta.txt", selectedName(app))
	assert.Empty(t, app.status)

	assert.True(t, click(app, 5, 3))
	assert.Equal(t, "Can't open beta.txt: no editor configured", app.status)
}

func TestDoubleClickEntersDirectory(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	root := app.files.Dir().FullPath

	click(app, 2, 2)
	click(app, 2, 1)
	assert.Nil(t, app.navTok, "clicks on different rows")
	click(app, 2, 1)
	require.NotNil(t, app.navTok)
	waitNavigation(t, app)
	assert.Equal(t, filepath.Join(root, "docs"), app.files.Dir().FullPath)
}

func TestMouseWheelMovesSelection(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.handleEvent(tcell.NewEventMouse(0, 2, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, "alpha.txt", selectedName(app))
	app.handleEvent(tcell.NewEventMouse(0, 2, tcell.WheelUp, tcell.ModNone))
	assert.Equal(t, "docs", selectedName(app))
}

func TestBreadcrumbClickGoesToParent(t *testing.T) {
	app, _ := newTestAppSized(t, 300, 12, Options{})
	root := app.files.Dir().FullPath
	segments := renderui.BreadcrumbSegments(root)
	require.Greater(t, len(segments), 2)

	sepW := runewidth.StringWidth(renderui.BreadcrumbSep)
	x := 0
	for _, s := range segments[:len(segments)-2] {
		x += runewidth.StringWidth(s) + sepW
	}

	assert.True(t, click(app, x, 0))
	waitNavigation(t, app)
	assert.Equal(t, filepath.Dir(root), app.files.Dir().FullPath)
}

func TestBreadcrumbClickOnCurrentDirectoryStays(t *testing.T) {
	app, _ := newTestAppSized(t, 300, 12, Options{})
	root := app.files.Dir().FullPath
	segments := renderui.BreadcrumbSegments(root)

	sepW := runewidth.StringWidth(renderui.BreadcrumbSep)
	x := 0
	for _, s := range segments[:len(segments)-1] {
		x += runewidth.StringWidth(s) + sepW
	}

	assert.True(t, click(app, x, 0))
	assert.Nil(t, app.navTok)
	assert.Equal(t, root, app.files.Dir().FullPath)
}

func TestTruncatedBreadcrumbIgnoresClicks(t *testing.T) {
	app, _ := newTestAppSized(t, 20, 12, Options{})
	assert.False(t, click(app, 0, 0))
	assert.Nil(t, app.navTok)
}

func TestBuildBreadcrumbPath(t *testing.T) {
	segments := []string{"/", "home", "user", "src"}
	tests := []struct {
		idx  int
		want string
	}{
		{0, "/"},
		{1, "/home"},
		{3, "/home/user/src"},
		{-1, ""},
		{4, ""},
	}
	for _, tt := range tests {
		if got := buildBreadcrumbPath(segments, tt.idx); got != filepath.FromSlash(tt.want) {
			t.Fatalf("buildBreadcrumbPath(%d) = %q, want %q", tt.idx, got, tt.want)
		}
	}
}
