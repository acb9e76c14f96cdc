// Package procview is the process panel: a ListView of spawned commands and
// a preview pane showing the captured output of the selected one.
package procview

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/fs"
	"github.com/kk-code-lab/rnav/internal/listview"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/proc"
	"github.com/kk-code-lab/rnav/internal/textutil"
	"github.com/kk-code-lab/rnav/internal/ui/render"
	"github.com/sirupsen/logrus"
)

// ErrNoProcess is returned by actions that need a selected process.
var ErrNoProcess = errors.New("no process selected")

type processes struct {
	items []*proc.Process
}

func (p *processes) Len() int { return len(p.items) }

func (p *processes) At(i int) (*proc.Process, bool) {
	if i < 0 || i >= len(p.items) {
		return nil, false
	}
	return p.items[i], true
}

func sameProcess(a, b *proc.Process) bool {
	return a != nil && b != nil && a.ID == b.ID
}

// ProcList is the list half of the process panel. It is UI-thread state;
// the processes themselves are safe to read from anywhere.
type ProcList struct {
	view  *listview.ListView[*proc.Process]
	procs *processes
	bus   *events.Bus
	theme render.ColorTheme
	spawn []proc.Option
	log   *logrus.Entry
}

// NewProcList returns an empty list. spawn options apply to every RunProc.
func NewProcList(bus *events.Bus, theme render.ColorTheme, spawn ...proc.Option) *ProcList {
	l := &ProcList{
		procs: &processes{},
		bus:   bus,
		theme: theme,
		spawn: spawn,
		log:   logging.For("procview"),
	}
	l.view = listview.New[*proc.Process](l.procs, sameProcess, l.renderRow)
	return l
}

func (l *ProcList) Len() int { return l.view.Len() }

// Processes returns the listed processes in order.
func (l *ProcList) Processes() []*proc.Process {
	return append([]*proc.Process(nil), l.procs.items...)
}

// Selected returns the process under the cursor.
func (l *ProcList) Selected() (*proc.Process, bool) {
	return l.view.Current()
}

// RunningCount returns how many listed processes have not exited.
func (l *ProcList) RunningCount() int {
	n := 0
	for _, p := range l.procs.items {
		if p.Running() {
			n++
		}
	}
	return n
}

// RunProc spawns command and appends it to the list.
func (l *ProcList) RunProc(command string, opts ...proc.Option) (*proc.Process, error) {
	spawn := append(append([]proc.Option(nil), l.spawn...), opts...)
	p, err := proc.Spawn(command, l.bus, spawn...)
	if err != nil {
		l.bus.Status(fmt.Sprintf("Can't run %s: %v", command, err), events.ToneError)
		return nil, err
	}
	l.procs.items = append(l.procs.items, p)
	l.view.Clamp()
	l.bus.Status("Running: "+label(command), events.ToneNormal)
	return p, nil
}

// KillProc terminates the selected process.
func (l *ProcList) KillProc() error {
	p, ok := l.Selected()
	if !ok {
		return ErrNoProcess
	}
	return p.Kill()
}

// RemoveProc kills the selected process if it still runs and drops it from
// the list. A failed kill does not keep the entry.
func (l *ProcList) RemoveProc() error {
	p, ok := l.Selected()
	if !ok {
		return ErrNoProcess
	}
	if p.Running() {
		if err := p.Kill(); err != nil {
			l.log.WithError(err).WithField("command", p.Command).Debug("kill before remove failed")
		}
	}

	sel := l.view.Selection()
	items := l.procs.items
	l.procs.items = append(items[:sel:sel], items[sel+1:]...)
	l.view.Clamp()
	return nil
}

// label shortens the home directory to ~. It is only used for display; the
// command runs as typed.
func label(command string) string {
	home, err := os.UserHomeDir()
	if err != nil || len(home) < 2 {
		return command
	}
	return strings.ReplaceAll(command, home, "~")
}

// statusCell is the pid while running, then the exit status colored by
// success.
func (l *ProcList) statusCell(p *proc.Process) render.Line {
	th := l.theme
	status, exited := p.Status()
	if !exited {
		return render.Text(fmt.Sprintf("<%d>", p.Pid()), th.Fg(th.RunningFg))
	}
	text := fmt.Sprintf("%d", status)
	if ok, _ := p.Success(); ok {
		return render.Text(text, th.Fg(th.SuccessFg))
	}
	return render.Text(text, th.Fg(th.ErrorFg))
}

func (l *ProcList) renderRow(p *proc.Process, width int) render.Line {
	th := l.theme
	status := l.statusCell(p)
	command := render.Text(textutil.SanitizeTerminalText(label(p.Command)), th.Fg(th.FileFg))
	return render.Row(width, command, status, th.Base())
}

// RenderHeader counts running processes.
func (l *ProcList) RenderHeader() render.Line {
	th := l.theme
	text := fmt.Sprintf("Running processes: %d / %d", l.RunningCount(), l.procs.Len())
	return render.Text(text, th.Fg(th.SizeFg))
}

// RenderFooter describes the selected process.
func (l *ProcList) RenderFooter() render.Line {
	th := l.theme
	p, ok := l.Selected()
	if !ok {
		return render.Text("No processes", th.Base())
	}

	status, exited := p.Status()
	if !exited {
		text := fmt.Sprintf("%s:%d still running", p.Command, p.Pid())
		if usage, err := p.Usage(); err == nil {
			text += fmt.Sprintf("  cpu %.1f%%  rss %s", usage.CPU, fs.HumanSize(int64(usage.RSS)))
		}
		return render.Text(text, th.Fg(th.RunningFg))
	}

	outcome, style := "successfully", th.Fg(th.SuccessFg)
	if ok, _ := p.Success(); !ok {
		outcome, style = "unsuccessfully", th.Fg(th.ErrorFg)
	}
	return render.Text(fmt.Sprintf("%s:%d exited %s with status: %d", p.Command, p.Pid(), outcome, status), style)
}
