package smallsieve

import "testing"

func TestPrimesMatchesBruteForce(t *testing.T) {
	isPrime := func(n uint64) bool {
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
	got := Primes(1000)
	want := []uint64{}
	for n := uint64(2); n <= 1000; n++ {
		if isPrime(n) {
			want = append(want, n)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d primes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("primes[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPrimesBelowTwoIsEmpty(t *testing.T) {
	if Primes(0) != nil || Primes(1) != nil {
		t.Fatal("Primes below 2 should return nil")
	}
}

func TestSievingPrimesExcludesTwoThreeFive(t *testing.T) {
	got := SievingPrimes(10000)
	for _, p := range got {
		if p == 2 || p == 3 || p == 5 {
			t.Fatalf("SievingPrimes must not return %d", p)
		}
	}
	if got[0] != 7 {
		t.Fatalf("first sieving prime = %d, want 7", got[0])
	}
}

func TestSievingPrimesUpperBound(t *testing.T) {
	const stop = 1_000_000
	got := SievingPrimes(stop)
	last := got[len(got)-1]
	if last*last > stop {
		t.Fatalf("last prime %d exceeds sqrt(stop)", last)
	}
	// the smallest prime whose square exceeds stop must not appear
	for _, p := range got {
		if p*p > stop {
			t.Fatalf("prime %d is greater than sqrt(stop)", p)
		}
	}
}
