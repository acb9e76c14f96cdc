//go:build windows

package app

import (
	"os"

	"github.com/kk-code-lab/rnav/internal/events"
)

// There is no SIGTSTP/SIGCONT on Windows; suspend only reports that.
func (app *Application) suspendToShell() {
	app.setStatus("Suspend is not supported on Windows", events.ToneError)
}

func (app *Application) resumeAfterStop() bool {
	// Nothing to resume; keep running.
	return false
}

func contSignals() []os.Signal {
	return nil
}
