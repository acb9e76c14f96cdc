// Package shellsetup prints the shell function that lets rnav change the
// directory of the calling shell on quit_cd.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
	// Executable is the rnav binary named in the snippet. Defaults to
	// os.Executable.
	Executable string
}

// DetectParentShellName returns the executable name of the parent process.
func DetectParentShellName() string {
	ppid := os.Getppid()
	if ppid <= 0 {
		return ""
	}
	p, err := process.NewProcess(int32(ppid))
	if err != nil {
		return ""
	}
	name, err := p.Name()
	if err != nil {
		return ""
	}
	return name
}

// PrintSetup writes the integration snippet for shellOverride, or for the
// detected shell when it is empty.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) error {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}

	shell := normalizeShellName(shellOverride)
	if shell == "" {
		shell = detectShell(parent)
	}
	shell = canonicalShellName(shell)

	exe := cfg.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			exe = "rnav"
		}
	}

	_, err := io.WriteString(w, Snippet(shell, exe))
	return err
}

// Snippet returns the function definition for shell. Unknown shells get the
// POSIX form.
func Snippet(shell, exe string) string {
	quoted := strconv.Quote(exe)

	switch shell {
	case "fish":
		return fmt.Sprintf(`function rnav
    set dest (command %s --print-dir $argv)
    or return $status
    if test -n "$dest" -a -d "$dest"
        builtin cd "$dest"
    end
end
`, quoted)
	case "pwsh":
		return fmt.Sprintf(`function rnav {
    $dest = & %s --print-dir @args
    if ($LASTEXITCODE -ne 0) { return }
    if (-not [string]::IsNullOrEmpty($dest) -and (Test-Path $dest -PathType Container)) {
        Set-Location $dest
    }
}
`, quoted)
	case "cmd":
		return fmt.Sprintf(`:: Save as rnav.cmd and run "call rnav.cmd" from cmd.exe sessions.
@echo off
for /f "delims=" %%%%d in ('%s --print-dir %%*') do (
    if not "%%%%d"=="" cd /d "%%%%d"
)
`, quoted)
	default:
		return fmt.Sprintf(`rnav() {
    dest=$(command %s --print-dir "$@") || return $?
    if [ -n "$dest" ] && [ -d "$dest" ]; then
        cd "$dest"
    fi
}
`, quoted)
	}
}

func detectShell(parent ParentShellFunc) string {
	return detectShellInternal(runtime.GOOS, os.Getenv, parent)
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}

	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}

	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell != "" {
			switch shell {
			case "pwsh", "cmd":
				return shell
			}
		}
		return "pwsh"
	}

	return "bash"
}

func canonicalShellName(name string) string {
	switch name {
	case "powershell":
		return "pwsh"
	case "bash", "zsh", "sh", "ksh", "dash":
		return "sh"
	default:
		return name
	}
}

func normalizeShellName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	value = extractExecutable(value)
	if value == "" {
		return ""
	}

	value = strings.Trim(value, `"'`)
	value = strings.ReplaceAll(value, "\\", "/")
	base := path.Base(value)
	base = strings.ToLower(base)
	base = strings.TrimSuffix(base, ".exe")
	return strings.TrimSpace(base)
}

func extractExecutable(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if strings.HasPrefix(value, "\"") || strings.HasPrefix(value, "'") {
		quote := value[:1]
		value = value[1:]
		if idx := strings.Index(value, quote); idx >= 0 {
			return value[:idx]
		}
		return value
	}

	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		return value[:idx]
	}

	return value
}
