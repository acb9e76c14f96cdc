// Package proc runs shell commands in the background and captures their
// combined output.
//
// Every Process has exactly one reader goroutine. It appends to the output
// buffer, reports each read on the event bus, waits for the child and then
// records the exit status once. The mutable fields are guarded by separate
// mutexes so that rendering never waits behind an append.
package proc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kk-code-lab/rnav/internal/events"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// ErrExited is returned by Kill when the process has already finished.
var ErrExited = errors.New("process already exited")

const readChunk = 4096

// Process is one spawned command. The zero value is not usable; use Spawn.
type Process struct {
	ID      string
	Command string
	Started time.Time

	cmdMu sync.Mutex
	cmd   *exec.Cmd

	outMu  sync.Mutex
	output strings.Builder

	statusMu sync.Mutex
	status   *int

	successMu sync.Mutex
	success   *bool

	bus  *events.Bus
	done chan struct{}
	log  *logrus.Entry
}

type spawnConfig struct {
	shell string
	dir   string
	env   []string
}

// Option configures Spawn.
type Option func(*spawnConfig)

// WithShell runs commands through shell instead of $SHELL.
func WithShell(shell string) Option {
	return func(c *spawnConfig) {
		if shell != "" {
			c.shell = shell
		}
	}
}

// WithDir sets the working directory of the command.
func WithDir(dir string) Option { return func(c *spawnConfig) { c.dir = dir } }

// WithEnv appends KEY=VALUE pairs to the inherited environment.
func WithEnv(env ...string) Option {
	return func(c *spawnConfig) { c.env = append(c.env, env...) }
}

// Spawn starts command through the user's shell with no stdin. Stdout and
// stderr share one pipe so their output interleaves as the child wrote it.
func Spawn(command string, bus *events.Bus, opts ...Option) (*Process, error) {
	cfg := spawnConfig{shell: os.Getenv("SHELL")}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.shell == "" {
		cfg.shell = defaultShell
	}

	cmd := exec.Command(cfg.shell, shellFlag, command)
	cmd.Dir = cfg.dir
	if len(cfg.env) > 0 {
		cmd.Env = append(os.Environ(), cfg.env...)
	}
	setupProcessGroup(cmd)

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		_ = r.Close()
		_ = w.Close()
		return nil, fmt.Errorf("failed to start %q: %w", command, err)
	}
	// the child holds its own copy; ours would keep the reader from seeing EOF
	_ = w.Close()

	p := &Process{
		ID:      uuid.NewString(),
		Command: command,
		Started: time.Now(),
		cmd:     cmd,
		bus:     bus,
		done:    make(chan struct{}),
		log:     logging.For("proc").WithField("command", command),
	}
	p.log.WithField("pid", cmd.Process.Pid).Debug("spawned")

	go p.read(r)
	return p, nil
}

func (p *Process) read(r io.ReadCloser) {
	defer close(p.done)
	defer r.Close()

	buf := make([]byte, readChunk)
	var carry []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := append(carry, buf[:n]...)
			cut := completePrefix(data)
			carry = append([]byte(nil), data[cut:]...)
			p.emit(data[:cut])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				p.log.WithError(err).Warn("reading output failed")
			}
			break
		}
	}
	p.emit(carry)
	p.finish()
}

// emit appends a decoded chunk and reports it.
func (p *Process) emit(data []byte) {
	if len(data) == 0 {
		return
	}
	chunk := strings.ToValidUTF8(string(data), string(utf8.RuneError))

	p.outMu.Lock()
	p.output.WriteString(chunk)
	p.outMu.Unlock()

	p.bus.SendBlocking(events.Status{
		Text: fmt.Sprintf("%s: read %d chars!", p.Command, utf8.RuneCountInString(chunk)),
		Tone: events.ToneNormal,
	})
}

// completePrefix returns the length of data without a trailing, not yet
// complete UTF-8 sequence.
func completePrefix(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if utf8.FullRune(data[i:]) {
			return len(data)
		}
		return i
	}
	return len(data)
}

func (p *Process) finish() {
	cmd := p.handle()
	err := cmd.Wait()

	code, ok := -1, false
	if cmd.ProcessState != nil {
		code, ok = exitStatus(cmd.ProcessState)
	} else if err != nil {
		p.log.WithError(err).Warn("waiting for process failed")
	}

	p.statusMu.Lock()
	p.status = &code
	p.statusMu.Unlock()

	p.successMu.Lock()
	p.success = &ok
	p.successMu.Unlock()

	outcome, tone := "successfully", events.ToneSuccess
	if !ok {
		outcome, tone = "unsuccessfully", events.ToneError
	}
	p.log.WithFields(logrus.Fields{"status": code, "success": ok}).Debug("exited")
	p.bus.SendBlocking(events.Status{
		Text: fmt.Sprintf("Process: %s:%d exited %s with status: %d", p.Command, cmd.Process.Pid, outcome, code),
		Tone: tone,
	})
}

func (p *Process) handle() *exec.Cmd {
	p.cmdMu.Lock()
	defer p.cmdMu.Unlock()
	return p.cmd
}

// Pid returns the OS process id of the shell.
func (p *Process) Pid() int {
	cmd := p.handle()
	if cmd == nil || cmd.Process == nil {
		return 0
	}
	return cmd.Process.Pid
}

// Output returns a snapshot of everything read so far.
func (p *Process) Output() string {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	return p.output.String()
}

// Status returns the exit status once known. Signalled processes report the
// raw signal number.
func (p *Process) Status() (int, bool) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	if p.status == nil {
		return 0, false
	}
	return *p.status, true
}

// Success reports whether the process exited with status 0, once known.
func (p *Process) Success() (bool, bool) {
	p.successMu.Lock()
	defer p.successMu.Unlock()
	if p.success == nil {
		return false, false
	}
	return *p.success, true
}

// Running reports whether the exit status is still unknown.
func (p *Process) Running() bool {
	_, known := p.Status()
	return !known
}

// Done is closed after the exit status has been recorded and reported.
func (p *Process) Done() <-chan struct{} { return p.done }

// Kill terminates the process and everything it started. Descendants found
// through the process table are terminated first, then the process group.
func (p *Process) Kill() error {
	if !p.Running() {
		return ErrExited
	}
	cmd := p.handle()
	if cmd == nil || cmd.Process == nil {
		return ErrExited
	}

	if root, err := process.NewProcess(int32(cmd.Process.Pid)); err == nil {
		terminateDescendants(root, p.log)
	}
	if err := terminate(cmd); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return ErrExited
		}
		return fmt.Errorf("kill %s: %w", p.Command, err)
	}
	return nil
}

func terminateDescendants(parent *process.Process, log *logrus.Entry) {
	children, err := parent.Children()
	if err != nil {
		return
	}
	for _, child := range children {
		terminateDescendants(child, log)
		if err := child.Terminate(); err != nil {
			log.WithError(err).WithField("pid", child.Pid).Debug("cannot terminate child")
		}
	}
}

// Usage is a resource snapshot of a running process.
type Usage struct {
	CPU float64
	RSS uint64
}

// Usage samples CPU and resident memory of the shell process.
func (p *Process) Usage() (Usage, error) {
	if !p.Running() {
		return Usage{}, ErrExited
	}
	pr, err := process.NewProcess(int32(p.Pid()))
	if err != nil {
		return Usage{}, fmt.Errorf("inspect process: %w", err)
	}
	var u Usage
	if u.CPU, err = pr.CPUPercent(); err != nil {
		return Usage{}, fmt.Errorf("cpu usage: %w", err)
	}
	mem, err := pr.MemoryInfo()
	if err != nil {
		return Usage{}, fmt.Errorf("memory usage: %w", err)
	}
	u.RSS = mem.RSS
	return u, nil
}
