//go:build !windows

package procview

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/keymap"
	"github.com/kk-code-lab/rnav/internal/proc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newView(t *testing.T, opts ...Option) (*ProcView, *events.Bus) {
	t.Helper()
	bus := events.NewBus(256)
	opts = append([]Option{WithBus(bus), WithSpawnOptions(proc.WithShell("sh"))}, opts...)
	v := New(opts...)
	v.Resize(100, 10)
	require.NoError(t, v.OnNew())
	return v, bus
}

func waitDone(t *testing.T, p *proc.Process) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		t.Fatalf("process %q did not finish", p.Command)
	}
}

// statuses drains pending status texts.
func statuses(bus *events.Bus) []string {
	var out []string
	for {
		select {
		case ev := <-bus.C():
			if s, ok := ev.(events.Status); ok {
				out = append(out, s.Text)
			}
		default:
			return out
		}
	}
}

// nextPreview waits for the next PreviewReady event, skipping others.
func nextPreview(t *testing.T, bus *events.Bus) PreviewReady {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-bus.C():
			if ready, ok := ev.(PreviewReady); ok {
				return ready
			}
		case <-timeout:
			t.Fatalf("no preview was built")
		}
	}
}

// installPreview feeds events to the view until a preview is accepted.
func installPreview(t *testing.T, v *ProcView, bus *events.Bus) {
	t.Helper()
	for {
		if v.HandlePreviewReady(nextPreview(t, bus)) {
			return
		}
	}
}

func previewText(v *ProcView) string {
	var lines []string
	for _, line := range v.Preview().Render() {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func TestRunProcListsFinishedProcess(t *testing.T) {
	v, bus := newView(t)

	p, err := v.RunProc("echo hi")
	require.NoError(t, err)
	waitDone(t, p)
	require.NoError(t, v.OnRefresh())

	assert.Contains(t, statuses(bus), "Running: echo hi")
	assert.Equal(t, "Running processes: 0 / 1", v.RenderHeader().String())
	assert.Equal(t, fmt.Sprintf("echo hi:%d exited successfully with status: 0", p.Pid()), v.RenderFooter().String())

	rows := v.Render()
	require.Len(t, rows, 1)
	row := rows[0].String()
	assert.True(t, strings.HasPrefix(row, "echo hi"), row)
	assert.True(t, strings.HasSuffix(row, "0"), row)
}

func TestRunningProcessRowAndRemove(t *testing.T) {
	v, _ := newView(t)

	p, err := v.RunProc("sleep 30")
	require.NoError(t, err)

	assert.Equal(t, "Running processes: 1 / 1", v.RenderHeader().String())
	assert.Contains(t, v.Render()[0].String(), fmt.Sprintf("<%d>", p.Pid()))
	assert.Contains(t, v.RenderFooter().String(), "still running")

	require.NoError(t, v.Do(keymap.Remove))
	assert.Equal(t, 0, v.Len())
	waitDone(t, p)
	assert.False(t, p.Running())
	assert.Equal(t, "No processes", v.RenderFooter().String())
	assert.Empty(t, v.PreviewID())
	assert.Equal(t, 0, v.Preview().Len())
}

func TestRemoveExitedProcess(t *testing.T) {
	v, _ := newView(t)
	p, err := v.RunProc("true")
	require.NoError(t, err)
	waitDone(t, p)

	require.NoError(t, v.Do(keymap.Remove))
	assert.Equal(t, 0, v.Len())
}

func TestActionsWithoutProcess(t *testing.T) {
	v, bus := newView(t)

	for _, action := range []keymap.Action{keymap.Kill, keymap.Remove, keymap.Reload, keymap.CopyOutput} {
		require.NoError(t, v.Do(action), action)
		assert.Equal(t, []string{"No process selected"}, statuses(bus), action)
	}
	assert.ErrorIs(t, v.List().KillProc(), ErrNoProcess)
	assert.ErrorIs(t, v.List().RemoveProc(), ErrNoProcess)
}

func TestKillKeyTerminatesProcess(t *testing.T) {
	v, bus := newView(t)
	p, err := v.RunProc("sleep 30")
	require.NoError(t, err)

	require.NoError(t, v.OnKey(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone)))
	waitDone(t, p)
	success, _ := p.Success()
	assert.False(t, success)
	assert.Equal(t, 1, v.Len())

	statuses(bus)
	require.NoError(t, v.Do(keymap.Kill))
	assert.Equal(t, []string{"Process already exited"}, statuses(bus))
}

func TestPreviewFollowsSelection(t *testing.T) {
	v, bus := newView(t)

	one, err := v.RunProc("echo one")
	require.NoError(t, err)
	two, err := v.RunProc("echo two")
	require.NoError(t, err)
	waitDone(t, one)
	waitDone(t, two)

	require.NoError(t, v.Do(keymap.Reload))
	installPreview(t, v, bus)
	assert.Equal(t, one.ID, v.PreviewID())
	assert.Equal(t, "one", previewText(v))

	require.NoError(t, v.Do(keymap.Down))
	assert.Equal(t, two.ID, v.PreviewID())
	installPreview(t, v, bus)
	assert.Equal(t, "two", previewText(v))
}

func TestSupersededPreviewIsDropped(t *testing.T) {
	v, bus := newView(t)
	a, err := v.RunProc("echo a")
	require.NoError(t, err)
	b, err := v.RunProc("echo b")
	require.NoError(t, err)
	waitDone(t, a)
	waitDone(t, b)

	v.SwapPreview(a)
	first := nextPreview(t, bus)
	for first.ProcessID != a.ID {
		first = nextPreview(t, bus)
	}

	v.SwapPreview(b)
	assert.False(t, v.HandlePreviewReady(first))
	installPreview(t, v, bus)
	assert.Equal(t, "b", previewText(v))
}

func TestFollowAndCopyOutput(t *testing.T) {
	var copied string
	v, bus := newView(t, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	p, err := v.RunProc("printf 'x\\ny\\n'")
	require.NoError(t, err)
	waitDone(t, p)
	statuses(bus)

	require.NoError(t, v.Do(keymap.FollowOutput))
	assert.True(t, v.Preview().Following())
	assert.Contains(t, statuses(bus), "Following output: true")

	require.NoError(t, v.Do(keymap.CopyOutput))
	assert.Equal(t, "x\ny\n", copied)
	assert.Contains(t, statuses(bus), "Copied output of printf 'x\\ny\\n'")
}

func TestFollowResnapshotsOnRefresh(t *testing.T) {
	v, bus := newView(t)
	p, err := v.RunProc("echo start; sleep 0.3; echo end")
	require.NoError(t, err)
	require.NoError(t, v.Do(keymap.FollowOutput))
	waitDone(t, p)

	require.NoError(t, v.OnRefresh())
	installPreview(t, v, bus)
	assert.Equal(t, "start\nend", previewText(v))
	assert.True(t, v.Preview().Following())
}

func TestLabelShortensHome(t *testing.T) {
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, "ls ~/src", label("ls /home/someone/src"))
	assert.Equal(t, "echo hi", label("echo hi"))
}
