// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global sieve tunables
//
// Purpose:
//   - Defines compile-time tunables for the bucket allocator, segment size,
//     and worker decomposition used across the sieve packages.
//
// Notes:
//   - Optimized for cache-resident segments and minimal allocator overhead.
//   - No runtime logic here — all values must be compile-time resolvable.
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Bucket allocator ────────────────────────────

const (
	// MemoryPerAlloc bounds the size of one BucketPool slab.
	// 8 MiB amortizes allocator calls across ~thousands of buckets while
	// keeping a single slab well within typical L3 sizing.
	MemoryPerAlloc = 8 << 20 // 8 MiB

	// BucketCapacity is the number of WheelPrimes stored per Bucket.
	// 1024 entries of 8 bytes each (see bucket.WheelPrime) keeps sizeof(Bucket)
	// near 8 KiB, a cache- and TLB-friendly unit for the slab allocator.
	BucketCapacity = 1024
)

// ───────────────────────────── Segment sizing ──────────────────────────────

const (
	// MinSieveSize is the smallest permitted segment size in bytes.
	MinSieveSize = 1 << 14 // 16 KiB

	// MaxSieveSize is the largest permitted segment size in bytes.
	MaxSieveSize = 1 << 23 // 8 MiB

	// DefaultSieveSize targets L1/L2 residency for the hot crossing-off loop.
	DefaultSieveSize = 1 << 15 // 32 KiB
)

// ─────────────────────────── Worker decomposition ──────────────────────────

const (
	// MinWorkerSpan is the smallest range handed to a single worker;
	// below this, splitting further only adds goroutine overhead.
	MinWorkerSpan = 1 << 20 // ~1M integers

	// ResultRingSize is the SPSC ring capacity used to stream segment
	// results from a worker to the merging consumer. Must be a power of two.
	ResultRingSize = 1 << 10
)

// ───────────────────────────── Persistence ─────────────────────────────────

const (
	// DefaultCachePath is the default SQLite cache file name, the same value
	// as the CLI's -db flag default; resultstore.Open always takes an
	// explicit path.
	DefaultCachePath = "sieve_cache.db"
)
