//go:build !windows

package proc

import (
	"os"
	"os/exec"
	"syscall"
)

const (
	defaultShell = "sh"
	shellFlag    = "-c"
)

// setupProcessGroup puts the child in its own process group so Kill reaches
// everything it started.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminate(cmd *exec.Cmd) error {
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err == nil {
		if err := syscall.Kill(-pgid, syscall.SIGTERM); err == nil {
			return nil
		}
	}
	return cmd.Process.Signal(syscall.SIGTERM)
}

func exitStatus(state *os.ProcessState) (int, bool) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return int(ws.Signal()), false
	}
	return state.ExitCode(), state.Success()
}
