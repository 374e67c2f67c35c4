// Package smallsieve computes the ordinary list of sieving primes needed to
// seed a segmented sieve: every prime up to and including sqrt(stop). These
// are the primes segsieve hands to eratsmall (direct multiples) or
// eratbig.AddSievingPrime (bucketed), depending on the split point in
// SPEC_FULL.md §4.4.0.
//
// This is a plain Sieve of Eratosthenes, not wheel-factored: its output range
// is small (at most sqrt(2^64) ~ 2^32, and in practice far smaller for any
// runnable sieve), so a byte-per-candidate bitmap is simplest and grounded on
// the corpus's preference for the straightforward implementation where
// performance is not the bottleneck (trial-division helpers appear
// throughout debug/test code in the pack; nothing in the retrieved corpus
// implements a dedicated small-prime sieve, so this package follows the
// textbook Eratosthenes shape rather than imitating a specific file).
package smallsieve

import "math"

// Primes returns every prime p such that 2 <= p <= limit, in ascending order.
func Primes(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var out []uint64
	for p := uint64(2); p <= limit; p++ {
		if composite[p] {
			continue
		}
		out = append(out, p)
		if p > limit/p {
			continue
		}
		for m := p * p; m <= limit; m += p {
			composite[m] = true
		}
	}
	return out
}

// SievingPrimes returns every odd prime greater than 5 and at most
// floor(sqrt(stop)), the set segsieve partitions between eratsmall and
// eratbig. The primes 2, 3, and 5 are never returned: the segment bit
// layout already excludes their multiples by construction (§3, Segment bit
// buffer), so segsieve handles them as a fixed presieve step instead.
func SievingPrimes(stop uint64) []uint64 {
	limit := uint64(math.Sqrt(float64(stop)))
	for limit*limit > stop {
		limit--
	}
	for (limit+1)*(limit+1) <= stop {
		limit++
	}
	all := Primes(limit)
	out := all[:0:0]
	for _, p := range all {
		if p > 5 {
			out = append(out, p)
		}
	}
	return out
}
