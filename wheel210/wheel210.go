// Package wheel210 builds the process-wide, read-only modulo-210 wheel used
// to step a sieving prime from one candidate multiple to the next while
// skipping every multiple of 2, 3, 5, and 7.
//
// The wheel has 48 states, one per residue class mod 210 that is coprime to
// 2*3*5*7. Each state carries the additive "gap" to the next state (in units
// of the sieving prime) and the index of that next state. Because every
// residue coprime to 210 is also coprime to 30, each state's residue reduces
// to exactly one of the eight mod-30 bit positions {1,7,11,13,17,19,23,29}
// that segsieve's segment byte layout uses, so the same table drives both
// the 210-periodicity of the stepping and the 30-periodicity of the bitmap.
package wheel210

import "sync"

// MinFactor is the smallest gap in the wheel, i.e. the smallest multiplier a
// sieving prime can advance by between two consecutive strikes, so p*MinFactor
// is the worst-case minimum stride of a prime.
const MinFactor = 2

// NumStates is the number of residue classes mod 210 coprime to 2*3*5*7.
const NumStates = 48

// Transition describes one wheel state's step to its successor.
type Transition struct {
	Gap  uint8 // additive step, in multiples of the sieving prime, to the next state
	Next uint8 // index of the next state, 0..NumStates-1
}

var (
	once       sync.Once
	table      [NumStates]Transition
	bitPos     [NumStates]uint8 // bit index 0..7 within a byte for this state's mod-30 residue
	resByte    [8]uint8         // mod-30 residue value for bit index 0..7, e.g. resByte[0] == 1
	residueBit [30]uint8        // mod-30 residue value -> bit index 0..7, for the 8 valid residues
)

// residues holds the 48 residues mod 210 coprime to 2, 3, 5, and 7, in
// ascending order. Computed once at build time; verified by wheel210_test.go
// against a brute-force coprimality check.
var residues = [NumStates]uint16{
	1, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67,
	71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 121, 127, 131, 137, 139,
	143, 149, 151, 157, 163, 167, 169, 173, 179, 181, 187, 191, 193, 197, 199, 209,
}

func build() {
	var residueToBit [30]int8
	for i := range residueToBit {
		residueToBit[i] = -1
	}
	for bit, m := range [8]uint8{1, 7, 11, 13, 17, 19, 23, 29} {
		residueToBit[m] = int8(bit)
		resByte[bit] = m
		residueBit[m] = uint8(bit)
	}
	for i := 0; i < NumStates; i++ {
		next := (i + 1) % NumStates
		gap := int(residues[next]) - int(residues[i])
		if gap <= 0 {
			gap += 210
		}
		table[i] = Transition{Gap: uint8(gap), Next: uint8(next)}
		bitPos[i] = uint8(residueToBit[residues[i]%30])
	}
}

// Table returns the 48-entry wheel transition table, built on first use.
func Table() *[NumStates]Transition {
	once.Do(build)
	return &table
}

// BitIndex returns the 0..7 bit position within a segment byte that wheel
// state i's residue occupies.
func BitIndex(state uint8) uint8 {
	once.Do(build)
	return bitPos[state]
}

// ResidueValue returns the mod-30 residue (one of 1,7,11,13,17,19,23,29)
// associated with bit index 0..7.
func ResidueValue(bitIndex uint8) uint8 {
	once.Do(build)
	return resByte[bitIndex]
}

// BitIndexOfResidue maps a mod-30 residue value (one of 1,7,11,13,17,19,23,29)
// back to its 0..7 bit index. Used to derive a sieving prime's own residue
// class once at AddSievingPrime time, storing it alongside the prime so
// CrossOff's strike step never needs a division by the prime itself.
func BitIndexOfResidue(r uint8) uint8 {
	once.Do(build)
	return residueBit[r%30]
}

// StateOf returns the wheel state index whose residue mod 210 equals r,
// where r is itself coprime to 2, 3, 5, and 7. Used when seeding a sieving
// prime's initial wheel index from its first multiple.
func StateOf(r uint32) uint8 {
	once.Do(build)
	r %= 210
	for i, v := range residues {
		if uint32(v) == r {
			return uint8(i)
		}
	}
	panic("wheel210: residue not coprime to 210")
}

// NextK returns the smallest k >= k0 that is coprime to 2, 3, 5, and 7,
// together with its wheel state. Used once per sieving prime to find the
// first multiplier k whose multiple p*k is a candidate for crossing off,
// before the wheel210 gap table takes over for every subsequent step.
func NextK(k0 uint64) (k uint64, state uint8) {
	once.Do(build)
	cycle := k0 / 210
	r := uint32(k0 % 210)
	for i, v := range residues {
		if uint32(v) >= r {
			return cycle*210 + uint64(v), uint8(i)
		}
	}
	// Wrapped past the largest residue in this cycle: the answer is the
	// smallest residue in the next cycle.
	return (cycle+1)*210 + uint64(residues[0]), 0
}
