// Package eratsmall implements direct in-segment crossing-off for sieving
// primes small enough to strike more than once per segment. Unlike eratbig,
// which parks a prime in a future bucket list between its (at most one)
// strike per segment, eratsmall walks a prime's cursor forward across the
// whole segment in one pass, wrapping to the next segment only once the
// cursor runs past the end of the current bit buffer.
//
// Grounded on the same wheel210 state machine eratbig uses (see
// eratbig.strike for the byte/bit advance derivation); the "small collaborator"
// this package provides is the one SPEC_FULL.md §4.4.0/§2 assumes exists
// alongside the bucketed CORE, split from it purely by the stride-vs-segment
// comparison in §4.4.0.
package eratsmall

import (
	"errors"

	"eratsieve/wheel210"
)

// ErrPrecondition flags a malformed constructor argument or an
// AddSievingPrime call with a prime outside the engine's accepted range.
var ErrPrecondition = errors.New("eratsmall: precondition violated")

type entry struct {
	slot     uint32 // byte*8+bit cursor within the *next* segment to process
	wheelIdx uint8
	residue  uint8 // wheel210 bit index (0..7) of p mod 30
	sp30     uint32
}

// Crosser is the direct small/medium-prime crossing-off engine. Like
// eratbig.Engine it is single-threaded and non-reentrant.
type Crosser struct {
	sieveSize uint32
	maxPrime  uint64
	stopLimit uint64
	segmentLo uint64
	entries   []entry
}

// New constructs a Crosser. sieveSize is the segment size in bytes (the same
// value passed to the sibling eratbig.Engine); maxSievingPrime bounds the
// largest prime AddSievingPrime accepts (segsieve passes bigPrimeThreshold,
// §4.4.0); stop is the numeric end of the sieving range.
func New(sieveSize uint32, maxSievingPrime, stop uint64) (*Crosser, error) {
	if sieveSize == 0 || maxSievingPrime == 0 || stop == 0 {
		return nil, ErrPrecondition
	}
	return &Crosser{sieveSize: sieveSize, maxPrime: maxSievingPrime, stopLimit: stop}, nil
}

// Rebase sets the crosser's current segment lower bound. Call it, if at
// all, immediately after New and before any AddSievingPrime or CrossOff
// call, mirroring eratbig.Engine.Rebase.
func (c *Crosser) Rebase(start uint64) {
	c.segmentLo = start
}

// AddSievingPrime registers p with its first multiple at or after the
// current segment's lower bound, on wheel210 state wheelIndex. A prime whose
// first multiple lies beyond stop is silently dropped, matching eratbig's
// equivalent normal-flow behavior.
func (c *Crosser) AddSievingPrime(p uint64, firstMultiple uint64, wheelIndex uint8) error {
	if p == 0 || p%2 == 0 || p%3 == 0 || p%5 == 0 || p > c.maxPrime {
		return ErrPrecondition
	}
	if firstMultiple > c.stopLimit {
		return nil
	}
	if firstMultiple < c.segmentLo {
		return ErrPrecondition
	}
	byteOffset := (firstMultiple - c.segmentLo) / 30
	if byteOffset >= 1<<29 {
		// A first multiple may lie several segments ahead (segsieve seeds
		// at p*p); CrossOff carries it forward until it is reached. The
		// cursor is a 32-bit byte*8+bit slot, so an offset it cannot hold
		// is rejected.
		return ErrPrecondition
	}
	bitIdx := wheel210.BitIndexOfResidue(uint8(firstMultiple % 30))
	c.entries = append(c.entries, entry{
		slot:     uint32(byteOffset)*8 + uint32(bitIdx),
		wheelIdx: wheelIndex,
		residue:  wheel210.BitIndexOfResidue(uint8(p % 30)),
		sp30:     uint32(p / 30),
	})
	return nil
}

// CrossOff clears every multiple of every registered prime within sieve,
// walking each prime's cursor forward until it runs past the end of the
// segment, then carries the overshoot into next segment's starting slot.
// sieve must be exactly sieveSize bytes.
func (c *Crosser) CrossOff(sieve []byte) {
	if len(sieve) != int(c.sieveSize) {
		panic("eratsmall: CrossOff called with mismatched segment size")
	}
	limitBits := uint64(c.sieveSize) * 8

	for i := range c.entries {
		e := &c.entries[i]
		tbl := wheel210.Table()
		slot := uint64(e.slot)
		wheelIdx := e.wheelIdx
		pr30 := uint64(wheel210.ResidueValue(e.residue))
		sp30 := uint64(e.sp30)
		// 7 divides the wheel210 modulus, so its wheel210 walk would skip
		// 49, 343, ...; it steps over every multiplier coprime to 30 instead.
		// k mod 30 is recovered from the multiple's residue times 13, the
		// inverse of 7 mod 30.
		isSeven := sp30 == 0 && pr30 == 7
		wheel30Gap := [30]uint8{1: 6, 7: 4, 11: 2, 13: 4, 17: 2, 19: 4, 23: 6, 29: 2}

		for slot < limitBits {
			byteIdx := slot >> 3
			bitIdx := uint8(slot & 7)
			sieve[byteIdx] &^= 1 << bitIdx

			tr := tbl[wheelIdx]
			oldResidue := wheel210.ResidueValue(bitIdx)
			gap := uint64(tr.Gap)
			if isSeven {
				gap = uint64(wheel30Gap[uint64(oldResidue)*13%30])
			}
			sum := uint64(oldResidue) + pr30*gap
			extraBytes := sum / 30
			newResidue := uint8(sum % 30)
			byteAdvance := sp30*gap + extraBytes
			newBitIdx := wheel210.BitIndexOfResidue(newResidue)

			slot = (byteIdx+byteAdvance)*8 + uint64(newBitIdx)
			wheelIdx = tr.Next
		}

		e.slot = uint32(slot - limitBits)
		e.wheelIdx = wheelIdx
	}

	c.segmentLo += uint64(c.sieveSize) * 30
}
