// Package workerpool achieves the CORE's "parallelism across segments is
// achieved outside the core" requirement literally: it splits [start, stop)
// into disjoint, order-preserving ranges and runs one independent
// segsieve.Sieve (hence one independent eratbig.Engine and eratsmall.Crosser)
// per goroutine. No Engine, Bucket, or sieve buffer is ever shared across
// workers (SPEC_FULL.md §5).
//
// Grounded on syncharvester.executeHarvesting's sector-splitting algorithm:
// a total span divided into connectionCount sectors with the remainder
// distributed across the first sectors, each handed to its own goroutine
// under a sync.WaitGroup.
package workerpool

import (
	"runtime"
	"sync"
	"unsafe"

	"eratsieve/constants"
	"eratsieve/control"
	"eratsieve/ring"
	"eratsieve/segsieve"
)

// Range is a half-open numeric span [Start, Stop) assigned to one worker.
type Range struct {
	Start, Stop uint64
}

// Plan splits [start, stop) into disjoint, order-preserving worker ranges.
// It never splits into ranges narrower than constants.MinWorkerSpan: below
// that width per-goroutine overhead outweighs the parallelism gained, so
// workers is silently reduced rather than honored exactly. A total span
// below MinWorkerSpan yields one range covering all of it.
func Plan(start, stop uint64, workers int) []Range {
	if stop <= start || workers < 1 {
		return nil
	}
	total := stop - start

	maxWorkers := int(total / constants.MinWorkerSpan)
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	spanPer := total / uint64(workers)
	extra := total % uint64(workers)

	ranges := make([]Range, workers)
	cur := start
	for i := 0; i < workers; i++ {
		size := spanPer
		if uint64(i) < extra {
			size++
		}
		ranges[i] = Range{Start: cur, Stop: cur + size}
		cur += size
	}
	return ranges
}

// runRanges builds one segsieve.Sieve per range and runs fn concurrently
// over each, returning the first construction error encountered (if any).
// fn is responsible for storing whatever output it needs into idx's slot of
// a caller-owned, pre-sized collection — each goroutine only ever touches
// its own slot, so no further synchronization is needed after wg.Wait.
func runRanges(ranges []Range, sieveSize uint32, fn func(idx int, s *segsieve.Sieve)) error {
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for i, r := range ranges {
		wg.Add(1)
		go func(idx int, rng Range) {
			defer wg.Done()
			s, err := segsieve.New(rng.Start, rng.Stop, sieveSize)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			s.SetCancel(control.Stopped)
			fn(idx, s)
		}(i, r)
	}
	wg.Wait()
	return firstErr
}

// CountPrimes sieves [start, stop) across workers (runtime.GOMAXPROCS(0) if
// workers <= 0) and returns the total prime count. Per-worker partial
// counts are summed once every worker has finished; summation order doesn't
// affect the total, so no ordering bookkeeping is needed (§8, Partition
// equivalence: this total matches a single-worker run over the same range).
func CountPrimes(start, stop uint64, sieveSize uint32, workers int) (uint64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ranges := Plan(start, stop, workers)
	counts := make([]uint64, len(ranges))

	err := runRanges(ranges, sieveSize, func(idx int, s *segsieve.Sieve) {
		var n uint64
		s.Run(func(uint64) { n++ })
		counts[idx] = n
	})
	if err != nil {
		return 0, err
	}

	var total uint64
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// segmentReport is one producer-to-consumer message on a worker's ring: the
// count of primes found in the segment just finished, or, with done set, the
// worker's final authoritative total (no more segments follow).
type segmentReport struct {
	count int
	done  bool
}

// CountPrimesWithProgress is CountPrimes with a side channel: onProgress is
// invoked on a dedicated consumer goroutine once per segment completed by any
// worker, reporting that worker's index and the prime count found in that
// segment. Each worker publishes through its own ring.Ring rather than a
// shared channel, matching the SPSC discipline ring.Ring is built for — one
// producer goroutine, one consumer goroutine, per ring. The ring is purely a
// progress side-channel: the returned total is always summed from each
// worker's own authoritative counter, never reconstructed from ring traffic,
// so a dropped or delayed report cannot corrupt the result.
func CountPrimesWithProgress(start, stop uint64, sieveSize uint32, workers int, onProgress func(worker, count int)) (uint64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ranges := Plan(start, stop, workers)
	rings := make([]*ring.Ring, len(ranges))
	for i := range rings {
		rings[i] = ring.New(constants.ResultRingSize)
	}

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		finished := make([]bool, len(rings))
		remaining := len(rings)
		for remaining > 0 {
			progressed := false
			for i, r := range rings {
				if finished[i] {
					continue
				}
				p := r.Pop()
				if p == nil {
					continue
				}
				progressed = true
				rep := (*segmentReport)(p)
				if rep.done {
					finished[i] = true
					remaining--
					continue
				}
				if onProgress != nil {
					onProgress(i, rep.count)
				}
			}
			if !progressed {
				runtime.Gosched()
			}
		}
	}()

	counts := make([]uint64, len(ranges))
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error
	for i, rng := range ranges {
		wg.Add(1)
		go func(idx int, rng Range) {
			defer wg.Done()
			r := rings[idx]
			push := func(rep *segmentReport) {
				for !r.Push(unsafe.Pointer(rep)) {
					runtime.Gosched()
				}
			}
			defer push(&segmentReport{done: true})

			s, err := segsieve.New(rng.Start, rng.Stop, sieveSize)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			s.SetCancel(control.Stopped)

			var total uint64
			if pre := s.PresievePrimes(); len(pre) > 0 {
				total += uint64(len(pre))
				push(&segmentReport{count: len(pre)})
			}
			for {
				seg, lo, ok := s.NextSegment()
				if !ok {
					break
				}
				n := 0
				segsieve.ExtractPrimes(seg, lo, s.Start(), s.Stop(), func(uint64) { n++ })
				total += uint64(n)
				push(&segmentReport{count: n})
			}
			counts[idx] = total
		}(i, rng)
	}
	wg.Wait()
	<-consumerDone
	if firstErr != nil {
		return 0, firstErr
	}

	var grandTotal uint64
	for _, c := range counts {
		grandTotal += c
	}
	return grandTotal, nil
}

// GeneratePrimes sieves [start, stop) across workers and returns every
// prime in ascending order. Each worker collects its own primes into its
// slot of a slice-of-slices; slots are concatenated in range order once all
// workers finish, reproducing exactly a single-worker run's ordering since
// ranges are disjoint and order-preserving (§8, Partition equivalence).
func GeneratePrimes(start, stop uint64, sieveSize uint32, workers int) ([]uint64, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ranges := Plan(start, stop, workers)
	perWorker := make([][]uint64, len(ranges))

	err := runRanges(ranges, sieveSize, func(idx int, s *segsieve.Sieve) {
		var out []uint64
		s.Run(func(p uint64) { out = append(out, p) })
		perWorker[idx] = out
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range perWorker {
		total += len(p)
	}
	result := make([]uint64, 0, total)
	for _, p := range perWorker {
		result = append(result, p...)
	}
	return result, nil
}
