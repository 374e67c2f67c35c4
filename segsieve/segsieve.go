// Package segsieve is the segmented sieve loop: it owns the per-segment bit
// buffer, seeds sievingPrimes from smallsieve into eratsmall (direct) or
// eratbig (bucketed) per the split point in SPEC_FULL.md §4.4.0, drives
// CrossOff on both per segment, and reconstructs surviving primes from the
// mod-30 bit layout for counting, printing, or iteration.
//
// A single Sieve covers one contiguous range [start, stop); workerpool
// creates one Sieve per goroutine to cover disjoint sub-ranges in parallel,
// each with its own eratbig.Engine and eratsmall.Crosser (§5, no shared
// state across workers).
package segsieve

import (
	"errors"
	"math/bits"

	"eratsieve/constants"
	"eratsieve/eratbig"
	"eratsieve/eratsmall"
	"eratsieve/smallsieve"
	"eratsieve/wheel210"
)

// ErrInvalidRange flags stop < start, matching SPEC_FULL.md §7.
var ErrInvalidRange = errors.New("segsieve: invalid range")

// bitResidues gives the numeric residue mod 30 represented by each of the
// eight bits in a segment byte, lowest bit first — the same layout eratbig
// and eratsmall strike against.
var bitResidues = [8]uint64{1, 7, 11, 13, 17, 19, 23, 29}

// Sieve drives one contiguous sieving range. Not safe for concurrent use;
// workerpool gives each goroutine its own Sieve.
type Sieve struct {
	start, stop uint64
	sieveSize   uint32
	segSpan     uint64 // sieveSize * 30
	big         *eratbig.Engine
	small       *eratsmall.Crosser
	buf         []byte
	segLo       uint64 // numeric lower bound of the next segment NextSegment will produce
	done        bool
	stopped     func() bool
}

// SetCancel installs a function consulted once per segment boundary inside
// Run; the next segment after it returns true is not produced. Nil (the
// default) disables cancellation. Grounded on this corpus's cooperative
// cancellation points checked between work units rather than inside a hot
// loop (see control.Stopped, consulted the same way by workerpool).
func (s *Sieve) SetCancel(stopped func() bool) {
	s.stopped = stopped
}

// New constructs a Sieve covering [start, stop). sieveSize is the segment
// size in bytes; zero selects constants.DefaultSieveSize. Every sieving
// prime up to sqrt(stop) is computed once (via smallsieve) and registered
// with whichever of eratsmall/eratbig its stride requires.
func New(start, stop uint64, sieveSize uint32) (*Sieve, error) {
	if stop < start {
		return nil, ErrInvalidRange
	}
	if sieveSize == 0 {
		sieveSize = constants.DefaultSieveSize
	}

	bigThreshold := uint64(sieveSize) * 30 // §4.4.0 split point

	sievingPrimes := smallsieve.SievingPrimes(stop)
	maxSievingPrime := bigThreshold + 1
	if n := len(sievingPrimes); n > 0 && sievingPrimes[n-1] > maxSievingPrime {
		maxSievingPrime = sievingPrimes[n-1]
	}

	// Segments start on a multiple of 30 so each byte's bits line up with the
	// residues in bitResidues; ExtractPrimes drops anything below start.
	base := start - start%30

	big, err := eratbig.New(sieveSize, maxSievingPrime, stop)
	if err != nil {
		return nil, err
	}
	big.Rebase(base)

	small, err := eratsmall.New(sieveSize, bigThreshold, stop)
	if err != nil {
		return nil, err
	}
	small.Rebase(base)

	s := &Sieve{
		start:     start,
		stop:      stop,
		sieveSize: sieveSize,
		segSpan:   bigThreshold,
		big:       big,
		small:     small,
		buf:       make([]byte, sieveSize),
		segLo:     base,
	}

	for _, p := range sievingPrimes {
		k0 := p
		if start > p*p {
			k0 = ceilDiv(start, p)
			if k0 < p {
				k0 = p
			}
		}
		k, state := wheel210.NextK(k0)
		if p == 7 {
			// eratsmall steps 7 over every multiplier coprime to 30, so its
			// first multiplier is the smallest such k >= k0 (7 itself, giving
			// 49, when the range starts low enough).
			for k = k0; k%2 == 0 || k%3 == 0 || k%5 == 0; k++ {
			}
		}
		firstMultiple := p * k

		if p <= bigThreshold {
			if err := small.AddSievingPrime(p, firstMultiple, state); err != nil {
				return nil, err
			}
			continue
		}
		if err := big.AddSievingPrime(p, firstMultiple, state); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func ceilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

// NextSegment crosses off one segment and returns its bit buffer (owned by
// the Sieve, valid only until the next NextSegment call) and the numeric
// lower bound it represents. ok is false once the range is exhausted.
func (s *Sieve) NextSegment() (seg []byte, lo uint64, ok bool) {
	if s.done || s.segLo >= s.stop {
		s.done = true
		return nil, 0, false
	}
	for i := range s.buf {
		s.buf[i] = 0xFF
	}
	s.small.CrossOff(s.buf)
	s.big.CrossOff(s.buf)

	lo = s.segLo
	s.segLo += s.segSpan
	return s.buf, lo, true
}

// Start and Stop return the half-open range this Sieve covers, for callers
// (primeapi.Iterator) that drive NextSegment directly instead of Run.
func (s *Sieve) Start() uint64 { return s.start }
func (s *Sieve) Stop() uint64  { return s.stop }

// PresievePrimes returns 2, 3, and 5 if they fall within [start, stop), or
// nil otherwise. The mod-30 bit layout structurally excludes their
// multiples, so they never appear as surviving bits and must be reported
// separately — exactly once, by whichever sub-range contains them. 7 is
// never included here: it is a genuine sieving prime whose own bit is never
// cleared (its first crossed-off multiple is 49), so it surfaces naturally
// from ExtractPrimes instead.
func (s *Sieve) PresievePrimes() []uint64 {
	var out []uint64
	for _, p := range []uint64{2, 3, 5} {
		if p >= s.start && p < s.stop {
			out = append(out, p)
		}
	}
	return out
}

// ExtractPrimes scans one segment's surviving bits and calls emit once per
// prime in [start, stop), ascending. lo is the numeric lower bound
// NextSegment returned alongside seg.
func ExtractPrimes(seg []byte, lo, start, stop uint64, emit func(uint64)) {
	for byteIdx, b := range seg {
		for b != 0 {
			bit := bits.TrailingZeros8(b)
			b &^= 1 << uint(bit)
			n := lo + uint64(byteIdx)*30 + bitResidues[bit]
			if n >= start && n < stop && n != 1 {
				emit(n)
			}
		}
	}
}

// Run drives the sieve to completion, calling emit once per surviving prime
// in [start, stop) in ascending order.
func (s *Sieve) Run(emit func(uint64)) {
	for _, p := range s.PresievePrimes() {
		emit(p)
	}
	for {
		if s.stopped != nil && s.stopped() {
			return
		}
		seg, lo, ok := s.NextSegment()
		if !ok {
			return
		}
		ExtractPrimes(seg, lo, s.start, s.stop, emit)
	}
}
