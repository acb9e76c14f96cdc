//go:build !windows

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandPrompt(t *testing.T) {
	app, screen := newTestApp(t, Options{})

	press(app, '!')
	require.NotNil(t, app.prompt)
	typeText(app, "pwd")
	app.draw()
	assert.Contains(t, rowText(screen, 11), "Run: pwd")

	pressKey(app, tcell.KeyEnter)
	assert.Nil(t, app.prompt)
	require.Equal(t, 1, app.procs.Len())

	p := app.procs.List().Processes()[0]
	seen := pump(t, app, func() bool { return !p.Running() })
	assert.Equal(t, app.files.Dir().FullPath+"\n", p.Output())
	assert.Contains(t, seen, "Running: pwd")
}

func TestRunCommandPromptCancel(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	press(app, '!')
	typeText(app, "echo no")
	pressKey(app, tcell.KeyEscape)
	assert.Nil(t, app.prompt)
	assert.Equal(t, 0, app.procs.Len())
	assert.False(t, app.shouldQuit)
}

func TestRunCommandExpandsSelection(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	press(app, 'j')
	press(app, ' ')
	press(app, ' ')
	app.runCommand("cat $s")

	p := app.procs.List().Processes()[0]
	pump(t, app, func() bool { return !p.Running() })
	assert.Equal(t, "alphabeta", p.Output())
}

func TestExpandCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		paths   []string
		want    string
	}{
		{"no placeholder", "ls -l", []string{"/a"}, "ls -l"},
		{"single", "cat $s", []string{"/tmp/a b"}, "cat '/tmp/a b'"},
		{"several", "wc $s", []string{"/x", "/y"}, "wc '/x' '/y'"},
		{"quote", "cat $s", []string{"/it's"}, `cat '/it'\''s'`},
		{"repeated", "diff $s $s", []string{"/x"}, "diff '/x' '/x'"},
		{"nothing selected", "echo $s", nil, "echo "},
	}
	for _, tt := range tests {
		if got := expandCommand(tt.command, tt.paths); got != tt.want {
			t.Fatalf("%s: expandCommand(%q) = %q, want %q", tt.name, tt.command, got, tt.want)
		}
	}
}

func TestQuitCdRecordsDirectory(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	press(app, 'Q')
	assert.True(t, app.shouldQuit)
	assert.Equal(t, app.files.Dir().FullPath, app.GetCurrentPath())

	plain, _ := newTestApp(t, Options{})
	press(plain, 'q')
	assert.True(t, plain.shouldQuit)
	assert.Empty(t, plain.GetCurrentPath())
}

func TestYankPathUsesClipboard(t *testing.T) {
	var copied string
	app, _ := newTestApp(t, Options{Clipboard: func(s string) error {
		copied = s
		return nil
	}})

	press(app, 'j')
	press(app, 'y')
	assert.Equal(t, filepath.Join(app.files.Dir().FullPath, "alpha.txt"), copied)

	seen := pump(t, app, func() bool { return app.status != "" })
	assert.Equal(t, []string{"Copied " + copied}, seen)
}

func TestOpenFileWithoutEditor(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	app.editorCmd = nil

	press(app, 'j')
	press(app, 'l')
	assert.Equal(t, "Can't open alpha.txt: no editor configured", app.status)
	assert.Nil(t, app.navTok)
}

func TestOpenFileRunsEditor(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	app.editorCmd = []string{"true"}

	press(app, 'j')
	press(app, 'l')
	assert.Empty(t, app.status)
	waitNavigation(t, app)
	assert.Equal(t, "alpha.txt", selectedName(app))

	app.editorCmd = []string{"false"}
	press(app, 'l')
	assert.Equal(t, "Can't open alpha.txt: exit status 1", app.status)
}

func TestRefreshDirKeepsSelection(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	root := app.files.Dir().FullPath
	require.NoError(t, os.WriteFile(filepath.Join(root, "gamma.txt"), nil, 0o644))

	press(app, 'j')
	press(app, 'j')
	pressKey(app, tcell.KeyCtrlR)
	waitNavigation(t, app)

	assert.Equal(t, 4, app.files.Len())
	assert.Equal(t, "beta.txt", selectedName(app))
}

func TestGoHome(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	home := filepath.Join(app.files.Dir().FullPath, "docs")
	t.Setenv("HOME", home)

	press(app, '~')
	waitNavigation(t, app)
	assert.Equal(t, home, app.files.Dir().FullPath)
}

func TestProcessPanelToggle(t *testing.T) {
	app, screen := newTestApp(t, Options{})

	press(app, 'w')
	require.Equal(t, modeProcs, app.mode)
	app.draw()
	assert.Contains(t, rowText(screen, 0), "Running processes: 0 / 0")
	assert.Contains(t, rowText(screen, 10), "No processes")
	assert.Contains(t, rowText(screen, 11), "close")

	press(app, 'w')
	assert.Equal(t, modeFiles, app.mode)

	press(app, 'w')
	pressKey(app, tcell.KeyEscape)
	assert.Equal(t, modeFiles, app.mode)
}

func TestNormalizeClipboardPath(t *testing.T) {
	tests := []struct {
		in, goos, want string
	}{
		{"/home/user/../user/file.txt", "linux", "/home/user/file.txt"},
		{"/tmp//x/", "darwin", "/tmp/x"},
		{"C:/Users/me/file.txt", "windows", `C:\Users\me\file.txt`},
	}
	for _, tt := range tests {
		if got := normalizeClipboardPath(tt.in, tt.goos); got != tt.want {
			t.Fatalf("normalizeClipboardPath(%q, %q) = %q, want %q", tt.in, tt.goos, got, tt.want)
		}
	}
}
