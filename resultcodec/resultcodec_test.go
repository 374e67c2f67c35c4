package resultcodec

import "testing"

func TestJobRoundTrip(t *testing.T) {
	job := SieveJob{Start: 100, Stop: 200, CountOnly: true}
	data, err := EncodeJob(job)
	if err != nil {
		t.Fatalf("EncodeJob: %v", err)
	}
	got, err := DecodeJob(data)
	if err != nil {
		t.Fatalf("DecodeJob: %v", err)
	}
	if got != job {
		t.Fatalf("got %+v, want %+v", got, job)
	}
}

func TestResultRoundTripCountOnly(t *testing.T) {
	result := SieveResult{
		Start:    0,
		Stop:     1000,
		Count:    168,
		Checksum: [32]byte{1, 2, 3},
	}
	data, err := EncodeResult(result)
	if err != nil {
		t.Fatalf("EncodeResult: %v", err)
	}
	got, err := DecodeResult(data)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if got.Start != result.Start || got.Stop != result.Stop || got.Count != result.Count {
		t.Fatalf("got %+v, want %+v", got, result)
	}
	if got.Checksum != result.Checksum {
		t.Fatal("checksum mismatch after round-trip")
	}
	if len(got.Primes) != 0 {
		t.Fatal("CountOnly result should omit Primes")
	}
}

func TestResultRoundTripWithPrimes(t *testing.T) {
	result := SieveResult{
		Start:    0,
		Stop:     30,
		Count:    10,
		Checksum: [32]byte{9, 9, 9},
		Primes:   []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29},
	}
	data, err := EncodeResult(result)
	if err != nil {
		t.Fatalf("EncodeResult: %v", err)
	}
	got, err := DecodeResult(data)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if len(got.Primes) != len(result.Primes) {
		t.Fatalf("got %d primes, want %d", len(got.Primes), len(result.Primes))
	}
	for i := range result.Primes {
		if got.Primes[i] != result.Primes[i] {
			t.Fatalf("primes[%d] = %d, want %d", i, got.Primes[i], result.Primes[i])
		}
	}
}
