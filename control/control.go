// control.go — global cancellation and worker-coordination flags
// ============================================================================
// WORKER CONTROL ORCHESTRATION
// ============================================================================
//
// Control provides lightweight global signaling infrastructure for
// coordinating shutdown across the workerpool's sieving goroutines with
// zero-allocation flag access, so a CrossOff hot loop never pays more than
// one uint32 load per segment to notice a cancellation request.
//
// Threading model:
//   - The orchestrator signals shutdown via Stop().
//   - Each worker's segsieve.Sieve checks Stopped() (installed through
//     SetCancel) once per segment boundary, never inside the crossing-off
//     inner loop itself.

package control

// stop is the shutdown signal: 1 = initiate graceful shutdown, 0 = running.
var stop uint32

// Stop requests that all sieving workers terminate at their next segment
// boundary. Idempotent and safe for concurrent callers.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Stop() {
	stop = 1
}

// Stopped reports whether Stop has been called.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Stopped() bool {
	return stop == 1
}

// Reset clears the shutdown signal. Used between independent runs of the
// same process (e.g. successive primeapi calls in a long-lived CLI).
func Reset() {
	stop = 0
}

// Flags returns a direct pointer to the global stop flag for zero-allocation
// polling by worker goroutines.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func Flags() *uint32 {
	return &stop
}
