// Package primeapi is the public surface of the sieve: the thin layer that
// turns workerpool's parallel segmented sieve into the handful of entry
// points a CLI or library caller actually wants — generate, count, find the
// nth prime, or iterate one at a time.
package primeapi

import (
	"errors"
	"fmt"
	"io"
	"math"

	"eratsieve/constants"
	"eratsieve/segsieve"
	"eratsieve/workerpool"
)

// ErrInvalidRange flags stop < start, mirroring segsieve.ErrInvalidRange at
// the public boundary.
var ErrInvalidRange = errors.New("primeapi: invalid range")

// GeneratePrimes returns every prime in [start, stop), ascending, computed
// across workers goroutines (runtime.GOMAXPROCS(0) if workers <= 0).
func GeneratePrimes(start, stop uint64, workers int) ([]uint64, error) {
	if stop < start {
		return nil, ErrInvalidRange
	}
	return workerpool.GeneratePrimes(start, stop, constants.DefaultSieveSize, workers)
}

// CountPrimes returns the number of primes in [start, stop) without
// materializing them, computed across workers goroutines.
func CountPrimes(start, stop uint64, workers int) (uint64, error) {
	if stop < start {
		return 0, ErrInvalidRange
	}
	return workerpool.CountPrimes(start, stop, constants.DefaultSieveSize, workers)
}

// CountPrimesWithProgress is CountPrimes with a callback invoked once per
// segment any worker finishes, reporting that worker's index and the prime
// count found in that segment.
func CountPrimesWithProgress(start, stop uint64, workers int, onProgress func(worker, count int)) (uint64, error) {
	if stop < start {
		return 0, ErrInvalidRange
	}
	return workerpool.CountPrimesWithProgress(start, stop, constants.DefaultSieveSize, workers, onProgress)
}

// NthPrime returns the n-th prime, 1-indexed (NthPrime(1) == 2). It picks a
// first upper bound from the standard n*(ln n + ln ln n) prime-counting
// estimate, then doubles the bound and re-sieves until it has found at
// least n primes.
func NthPrime(n uint64) (uint64, error) {
	if n == 0 {
		return 0, ErrInvalidRange
	}
	stop := estimateUpperBound(n)
	for {
		primes, err := GeneratePrimes(0, stop, 1)
		if err != nil {
			return 0, err
		}
		if uint64(len(primes)) >= n {
			return primes[n-1], nil
		}
		stop *= 2
	}
}

func estimateUpperBound(n uint64) uint64 {
	if n < 6 {
		return 15
	}
	f := float64(n)
	est := f * (math.Log(f) + math.Log(math.Log(f)))
	return uint64(est) + 10
}

// Iterator streams primes from [start, stop) one at a time without
// materializing the whole range. It drives a single segsieve.Sieve
// internally, buffering each segment's reconstructed primes into a small
// queue drained by Next.
type Iterator struct {
	sieve     *segsieve.Sieve
	queue     []uint64
	pos       int
	done      bool
	presieved bool
}

// NewIterator constructs an Iterator over [start, stop).
func NewIterator(start, stop uint64) (*Iterator, error) {
	if stop < start {
		return nil, ErrInvalidRange
	}
	s, err := segsieve.New(start, stop, constants.DefaultSieveSize)
	if err != nil {
		return nil, err
	}
	return &Iterator{sieve: s}, nil
}

// Next returns the next prime and true, or (0, false) once the range is
// exhausted.
func (it *Iterator) Next() (uint64, bool) {
	for it.pos >= len(it.queue) {
		if it.done {
			return 0, false
		}
		it.fill()
	}
	p := it.queue[it.pos]
	it.pos++
	return p, true
}

func (it *Iterator) fill() {
	it.queue = it.queue[:0]
	it.pos = 0

	if !it.presieved {
		it.presieved = true
		it.queue = append(it.queue, it.sieve.PresievePrimes()...)
		if len(it.queue) > 0 {
			return
		}
	}

	seg, lo, ok := it.sieve.NextSegment()
	if !ok {
		it.done = true
		return
	}
	segsieve.ExtractPrimes(seg, lo, it.sieve.Start(), it.sieve.Stop(), func(p uint64) {
		it.queue = append(it.queue, p)
	})
}

// PrintPrimes writes every prime in [start, stop) to w, one per line,
// computed across workers goroutines.
func PrintPrimes(w io.Writer, start, stop uint64, workers int) error {
	primes, err := GeneratePrimes(start, stop, workers)
	if err != nil {
		return err
	}
	for _, p := range primes {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
