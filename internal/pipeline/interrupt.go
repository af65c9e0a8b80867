package pipeline

import (
	"log/slog"
	"os"
)

// ForcedExitCode is the exit status used when the operator interrupts twice.
const ForcedExitCode = 130

// WatchInterrupts turns operator signals into termination requests.
//
// A signal received while the flag is still running sets the flag and lets
// in-flight work finish. A signal received while the flag is already set
// calls exit with ForcedExitCode without waiting for anything, so an
// uncommitted batch is lost. WatchInterrupts returns when signals is closed
// or after calling exit.
//
// exit is injected so tests can observe the forced path; callers pass
// os.Exit.
func WatchInterrupts(signals <-chan os.Signal, flag *Flag, exit func(int), logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	for sig := range signals {
		if flag.Stop() {
			logger.Warn("interrupt received, finishing in-flight work (interrupt again to force exit)",
				"signal", sig.String(),
			)
			continue
		}

		logger.Error("interrupt received while stopping, exiting immediately",
			"signal", sig.String(),
		)
		exit(ForcedExitCode)
		return
	}
}
