// Package utils provides zero-allocation helpers shared by the sieve packages:
// unsafe byte/string casts, unaligned word loads, and a direct-to-stderr
// writer used by the debug package's cold-path logging.
package utils

import (
	"syscall"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// ⚠️ Caller must ensure the input slice remains valid and unchanged.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64-Bit Reads
///////////////////////////////////////////////////////////////////////////////

// Load64 reads an unaligned 64-bit word from a byte slice.
//
//go:nosplit
//go:inline
func Load64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

///////////////////////////////////////////////////////////////////////////////
// Integer Formatting — No fmt/strconv Dependency On The Cold Path
///////////////////////////////////////////////////////////////////////////////

// Itoa renders a signed integer without going through fmt/strconv, matching
// the zero-alloc texture the rest of this package uses for hot-adjacent code.
// Cold-path only (progress logging, CLI output) — correctness over speed.
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

///////////////////////////////////////////////////////////////////////////////
// Direct Writer — Used By debug.DropMessage/DropError
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg directly to stderr (fd 2), bypassing the buffered
// os.Stderr machinery so cold-path logging never touches the heap.
//
//go:nosplit
func PrintWarning(msg string) {
	b := unsafe.Slice(unsafe.StringData(msg), len(msg))
	syscall.Write(2, b)
}
