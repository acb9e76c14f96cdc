//go:build windows

package proc

import (
	"os"
	"os/exec"
	"syscall"
)

const (
	defaultShell = "cmd.exe"
	shellFlag    = "/C"
)

func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// terminate kills the process; Windows has no SIGTERM.
func terminate(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}

func exitStatus(state *os.ProcessState) (int, bool) {
	return state.ExitCode(), state.Success()
}
