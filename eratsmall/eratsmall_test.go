package eratsmall

import (
	"testing"

	"eratsieve/wheel210"
)

const testSieveSize = 1 << 14

var bitResidues = [8]uint64{1, 7, 11, 13, 17, 19, 23, 29}

func bitSet(buf []byte, n uint64) bool {
	byteIdx := n / 30
	r := n % 30
	for i, rv := range bitResidues {
		if rv == r {
			return buf[byteIdx]&(1<<uint(i)) != 0
		}
	}
	panic("not representable")
}

func isRepresentable(n uint64) bool {
	r := n % 30
	for _, rv := range bitResidues {
		if rv == r {
			return true
		}
	}
	return false
}

func seed(t *testing.T, c *Crosser, p uint64) {
	t.Helper()
	k, state := wheel210.NextK(1)
	if err := c.AddSievingPrime(p, p*k, state); err != nil {
		t.Fatalf("AddSievingPrime(%d): %v", p, err)
	}
}

func runSieve(t *testing.T, c *Crosser, numSegments int) []byte {
	t.Helper()
	out := make([]byte, 0, numSegments*testSieveSize)
	seg := make([]byte, testSieveSize)
	for i := 0; i < numSegments; i++ {
		for j := range seg {
			seg[j] = 0xFF
		}
		c.CrossOff(seg)
		out = append(out, seg...)
	}
	return out
}

// TestCoverageAndNonDamage checks that every representable multiple of a
// registered small prime is cleared, and nothing else is.
func TestCoverageAndNonDamage(t *testing.T) {
	const stop = 2_000_000
	primes := []uint64{7, 11, 13, 17, 19, 101, 211, 1009}
	c, err := New(testSieveSize, testSieveSize*30, stop)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, p := range primes {
		seed(t, c, p)
	}

	numSegments := (stop + testSieveSize*30 - 1) / (testSieveSize * 30)
	buf := runSieve(t, c, numSegments)

	for n := uint64(1); n < stop; n++ {
		if !isRepresentable(n) {
			continue
		}
		wantCleared := false
		for _, p := range primes {
			if n%p == 0 {
				wantCleared = true
				break
			}
		}
		got := !bitSet(buf, n)
		if got != wantCleared {
			t.Fatalf("n=%d: bit cleared=%v, want %v", n, got, wantCleared)
		}
	}
}

func TestCrossOffPanicsOnWrongSegmentSize(t *testing.T) {
	c, err := New(testSieveSize, testSieveSize*30, 1_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("CrossOff with wrong-size buffer should panic")
		}
	}()
	c.CrossOff(make([]byte, testSieveSize+1))
}

func TestAddSievingPrimeRejectsPrimeAboveMax(t *testing.T) {
	c, err := New(testSieveSize, 1000, 1_000_000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.AddSievingPrime(1009, 1009, 0); err != ErrPrecondition {
		t.Fatalf("got %v, want ErrPrecondition", err)
	}
}

func TestAddSievingPrimeBeyondStopIsSilentlyDropped(t *testing.T) {
	const stop = 1_000_000
	c, err := New(testSieveSize, 2_000_000, stop)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.AddSievingPrime(1_500_001, 1_500_001, 0); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	numSegments := (stop + testSieveSize*30 - 1) / (testSieveSize * 30)
	buf := runSieve(t, c, numSegments)
	for _, b := range buf {
		if b != 0xFF {
			t.Fatal("a prime beyond stop must never clear a bit")
		}
	}
}
