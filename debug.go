package ember

import (
	"fmt"
	"os"
)

// logf prints a diagnostic line to stderr with the package prefix.
// The engine logs only recoverable oddities: callback panics and preset
// fallbacks. Nothing here is fatal to the caller's frame loop.
func logf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[ember] "+format+"\n", args...)
}

// safeCall invokes a user-supplied callback, converting a panic into a logged
// no-op. A single failing callback must never abort the frame loop.
func safeCall(name string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logf("recovered panic in %s callback: %v", name, r)
		}
	}()
	fn()
}

// safeCallProgress is safeCall for callbacks taking a progress value.
func safeCallProgress(name string, fn func(float64), progress float64) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logf("recovered panic in %s callback: %v", name, r)
		}
	}()
	fn(progress)
}
