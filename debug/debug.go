// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — zero-alloc cold-path logging helper
//
// Purpose:
//   - Logs infrequent error and diagnostic paths without introducing heap
//     pressure: allocator exhaustion, precondition violations, cache misses.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Uses a stackless logging model: no alloc, no interfaces.
//
// ⚠️ Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "eratsieve/utils"

// DropError logs an error with a zero-allocation print strategy, writing
// directly to stderr (file descriptor 2).
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		msg := prefix + ": " + err.Error() + "\n"
		utils.PrintWarning(msg)
	} else {
		msg := prefix + "\n"
		utils.PrintWarning(msg)
	}
}

// DropMessage logs a diagnostic message with zero-allocation print strategy.
// No package in this module calls it; eratbig's re-file failures go
// through DropError.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	msg := prefix + ": " + message + "\n"
	utils.PrintWarning(msg)
}
