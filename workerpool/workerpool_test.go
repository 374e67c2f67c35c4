package workerpool

import (
	"sort"
	"sync"
	"testing"

	"eratsieve/control"
)

func isPrimeBruteForce(n uint64) bool {
	if n < 2 {
		return false
	}
	for i := uint64(2); i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func TestPlanCoversRangeExactlyOnce(t *testing.T) {
	ranges := Plan(0, 5_000_000, 4)
	if len(ranges) == 0 {
		t.Fatal("expected at least one range")
	}
	if ranges[0].Start != 0 {
		t.Fatalf("first range starts at %d, want 0", ranges[0].Start)
	}
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Start != ranges[i-1].Stop {
			t.Fatalf("gap or overlap between range %d and %d", i-1, i)
		}
	}
	if ranges[len(ranges)-1].Stop != 5_000_000 {
		t.Fatalf("last range ends at %d, want 5000000", ranges[len(ranges)-1].Stop)
	}
}

func TestPlanShrinksWorkersBelowMinSpan(t *testing.T) {
	ranges := Plan(0, 1000, 64)
	if len(ranges) != 1 {
		t.Fatalf("expected a single range for a span below MinWorkerSpan, got %d", len(ranges))
	}
}

func TestPlanRejectsEmptyRange(t *testing.T) {
	if Plan(100, 100, 4) != nil {
		t.Fatal("expected nil for an empty range")
	}
	if Plan(100, 50, 4) != nil {
		t.Fatal("expected nil for stop < start")
	}
}

func TestCountPrimesMatchesSingleWorker(t *testing.T) {
	const stop = 3_000_000
	multi, err := CountPrimes(0, stop, 1<<14, 4)
	if err != nil {
		t.Fatalf("CountPrimes(multi): %v", err)
	}
	single, err := CountPrimes(0, stop, 1<<14, 1)
	if err != nil {
		t.Fatalf("CountPrimes(single): %v", err)
	}
	if multi != single {
		t.Fatalf("multi-worker count %d != single-worker count %d", multi, single)
	}

	var want uint64
	for n := uint64(2); n < stop; n++ {
		if isPrimeBruteForce(n) {
			want++
		}
	}
	if multi != want {
		t.Fatalf("count %d, want %d", multi, want)
	}
}

func TestGeneratePrimesIsSortedAndDeduped(t *testing.T) {
	const stop = 2_000_000
	got, err := GeneratePrimes(0, stop, 1<<14, 4)
	if err != nil {
		t.Fatalf("GeneratePrimes: %v", err)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatal("result is not sorted")
	}
	seen := make(map[uint64]bool, len(got))
	for _, p := range got {
		if seen[p] {
			t.Fatalf("duplicate prime %d", p)
		}
		seen[p] = true
	}
}

func TestCancellationStopsEarly(t *testing.T) {
	control.Reset()
	defer control.Reset()
	control.Stop()
	got, err := GeneratePrimes(0, 10_000_000, 1<<14, 4)
	if err != nil {
		t.Fatalf("GeneratePrimes: %v", err)
	}
	if len(got) == len(mustCount(t, 10_000_000)) {
		t.Fatal("expected cancellation to shrink output, got full range")
	}
}

func TestCountPrimesWithProgressMatchesCountPrimes(t *testing.T) {
	const stop = 3_000_000
	var mu sync.Mutex
	reports := make(map[int]int)
	total, err := CountPrimesWithProgress(0, stop, 1<<14, 4, func(worker, count int) {
		mu.Lock()
		reports[worker]++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("CountPrimesWithProgress: %v", err)
	}

	want, err := CountPrimes(0, stop, 1<<14, 4)
	if err != nil {
		t.Fatalf("CountPrimes: %v", err)
	}
	if total != want {
		t.Fatalf("got %d, want %d", total, want)
	}
	if len(reports) == 0 {
		t.Fatal("expected at least one progress report")
	}
	for worker, n := range reports {
		if n == 0 {
			t.Fatalf("worker %d reported zero segments", worker)
		}
	}
}

func mustCount(t *testing.T, stop uint64) []uint64 {
	t.Helper()
	control.Reset()
	got, err := GeneratePrimes(0, stop, 1<<14, 4)
	if err != nil {
		t.Fatalf("GeneratePrimes: %v", err)
	}
	return got
}
