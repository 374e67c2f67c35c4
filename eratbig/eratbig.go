// Package eratbig implements the large-prime crossing-off engine: the
// subsystem of a segmented sieve that eliminates multiples of sieving primes
// large enough to strike at most once per segment. Each such prime is parked
// in a bucket list indexed by how many segments ahead its next multiple
// falls, and CrossOff drains the list for the current segment, strikes each
// prime's one bit, and re-files it into a future list via the wheel210 state
// machine.
//
// Grounded directly on EratBig::crossOff in original_source/src/EratBig.cpp:
// the re-entrant "keep draining lists_[0]" loop is carried over verbatim in
// spirit, and the stock/pointers bookkeeping lives in bucket.Pool. Unlike the
// original's flat multipleIndex-plus-precomputed-correction table (which
// assumes a single canonical residue per wheel state and isn't recoverable
// from the files retrieved for this corpus), this engine stores each prime's
// own mod-30 residue class alongside it and derives the byte/bit advance with
// one small division per strike (see strike).
package eratbig

import (
	"errors"

	"eratsieve/bucket"
	"eratsieve/debug"
	"eratsieve/wheel210"
)

var (
	// ErrOutOfMemory surfaces a bucket.Pool allocation failure.
	ErrOutOfMemory = bucket.ErrOutOfMemory
	// ErrPrecondition flags a malformed constructor argument or an
	// AddSievingPrime call outside the engine's accepted prime range.
	ErrPrecondition = errors.New("eratbig: precondition violated")
)

// Engine is the large-prime crossing-off core. It is single-threaded and
// non-reentrant: exactly one goroutine may call AddSievingPrime/CrossOff on a
// given Engine, and never concurrently with itself.
type Engine struct {
	pool *bucket.Pool

	sieveSize    uint32 // segment size in bytes, power of two in [2^14, 2^23]
	log2Sieve    uint32 // log2(sieveSize)
	maxPrime     uint64 // largest sieving prime this engine accepts
	stopLimit    uint64 // largest multiple value in scope (the sieve's stop)
	curSegmentLo uint64 // numeric lower bound of the segment CrossOff will next process

	lists    []*bucket.Bucket // ring of bucket-chain heads, length L (power of two)
	listMask uint32           // L-1
	base     uint32           // rotating base index: lists[(base+0)&listMask] is "this segment"
}

// New constructs an Engine. sieveSize must be a power of two in
// [2^14, 2^23]. maxSievingPrime bounds the largest prime AddSievingPrime will
// accept. stop is the numeric end of the overall sieving range.
func New(sieveSize uint32, maxSievingPrime, stop uint64) (*Engine, error) {
	if sieveSize < 1<<14 || sieveSize > 1<<23 || sieveSize&(sieveSize-1) != 0 {
		return nil, ErrPrecondition
	}
	if maxSievingPrime == 0 || stop == 0 {
		return nil, ErrPrecondition
	}
	log2 := uint32(0)
	for s := sieveSize; s > 1; s >>= 1 {
		log2++
	}

	// L must cover the farthest possible segment distance a max-size prime's
	// single strike can land at (a step of up to 10*p, the largest wheel210
	// gap), plus two spare slots for the rotation.
	segSpanNumeric := uint64(sieveSize) * 30
	maxSegmentsAhead := maxSievingPrime*10/segSpanNumeric + 2
	l := uint32(1)
	for uint64(l) < maxSegmentsAhead {
		l <<= 1
	}

	e := &Engine{
		pool:      bucket.NewPool(),
		sieveSize: sieveSize,
		log2Sieve: log2,
		maxPrime:  maxSievingPrime,
		stopLimit: stop,
		lists:     make([]*bucket.Bucket, l),
		listMask:  l - 1,
	}
	return e, nil
}

// Rebase sets the engine's current segment lower bound. Call it, if at all,
// immediately after New and before any AddSievingPrime or CrossOff call:
// segsieve uses it so a worker covering a sub-range [start, stop) of the
// overall sieve can begin its first segment at start instead of at 0.
func (e *Engine) Rebase(start uint64) {
	e.curSegmentLo = start
}

// route computes how many segments ahead a future byte offset falls, and the
// byte offset within that future segment's buffer. Both are a shift and a
// mask because sieveSize is a power of two (SegmentIndex, distilled spec
// §4.3).
//
//go:nosplit
//go:inline
func (e *Engine) route(futureByteOffset uint64) (segmentsAhead uint32, byteInTarget uint32) {
	segmentsAhead = uint32(futureByteOffset >> e.log2Sieve)
	byteInTarget = uint32(futureByteOffset) & (e.sieveSize - 1)
	return segmentsAhead, byteInTarget
}

// AddSievingPrime registers a prime p (the actual prime value, not divided
// by 30) whose first multiple at or after the engine's current segment lower
// bound falls at absolute numeric position firstMultiple, on wheel210 state
// wheelIndex. If firstMultiple lies beyond stop the prime is silently
// dropped — it will never strike within the sieve's range, which is normal
// flow, not an error (distilled spec §4.5/§7).
func (e *Engine) AddSievingPrime(p uint64, firstMultiple uint64, wheelIndex uint8) error {
	if p == 0 || p%2 == 0 || p%3 == 0 || p%5 == 0 || p > e.maxPrime {
		return ErrPrecondition
	}
	if firstMultiple > e.stopLimit {
		return nil
	}
	if firstMultiple < e.curSegmentLo {
		return ErrPrecondition
	}

	byteOffset := (firstMultiple - e.curSegmentLo) / 30
	segmentsAhead, byteInTarget := e.route(byteOffset)
	// bitIdx comes from the multiple's own residue mod 30, not from the
	// wheel state's k-residue — wheelIndex only drives how the cursor steps
	// forward (see strike), it is not itself the multiple's bit position.
	bitIdx := wheel210.BitIndexOfResidue(uint8(firstMultiple % 30))
	slot := byteInTarget*8 + uint32(bitIdx)

	residueClass := wheel210.BitIndexOfResidue(uint8(p % 30))
	sp30 := uint32(p / 30)
	wp := bucket.Pack(slot, wheelIndex, residueClass, sp30)
	return e.fileAt((e.base+segmentsAhead)&e.listMask, wp)
}

// CrossOff drains the bucket list for the current segment, clearing one bit
// in sieve per WheelPrime, and re-files each entry at its next strike
// position. sieve must be exactly sieveSize bytes. After draining, the
// engine's list ring is rotated one slot forward so the caller may begin the
// next segment.
func (e *Engine) CrossOff(sieve []byte) {
	if len(sieve) != int(e.sieveSize) {
		panic("eratbig: CrossOff called with mismatched segment size")
	}
	idx := e.base & e.listMask

	// EratBig::crossOff's outer while(buckets_[0]) loop: re-entering slot 0
	// is expected whenever a prime's single wheel210 step still lands inside
	// the current segment, not a bug.
	for e.lists[idx] != nil {
		head := e.lists[idx]
		e.lists[idx] = nil

		for b := head; b != nil; {
			for _, wp := range b.All() {
				e.strike(sieve, wp, idx)
			}
			next := b.Next()
			b.SetNext(nil)
			e.pool.Release(b)
			b = next
		}
	}

	e.curSegmentLo += uint64(e.sieveSize) * 30
	e.base = (e.base + 1) & e.listMask
}

// strike clears one bit for wp, computes its next strike position via the
// wheel210 state machine, and re-files it. curIdx is the ring slot of the
// segment currently being drained (needed so a same-segment re-file can
// re-enter the drain loop rather than wait for the next CrossOff call).
func (e *Engine) strike(sieve []byte, wp bucket.WheelPrime, curIdx uint32) {
	slot := wp.MultipleIndex()
	byteIdx := slot >> 3
	bitIdx := uint8(slot & 7)

	sieve[byteIdx] &^= 1 << bitIdx

	state := wp.WheelIndex()
	tr := wheel210.Table()[state]
	sp30 := wp.SievingPrime30()
	pr30 := wheel210.ResidueValue(wp.PrimeResidueClass())
	oldResidue := wheel210.ResidueValue(bitIdx)

	// next multiple = current + gap*p; the 30*sp30*gap term is an exact
	// number of bytes, so only the fractional (pr30*gap) term needs a
	// division. See EratBig::crossOff grounding note above.
	sum := uint32(oldResidue) + uint32(pr30)*uint32(tr.Gap)
	extraBytes := sum / 30
	newResidue := uint8(sum % 30)
	byteAdvance := uint64(sp30)*uint64(tr.Gap) + uint64(extraBytes)

	newByteOffset := uint64(byteIdx) + byteAdvance
	newBitIdx := wheel210.BitIndexOfResidue(newResidue)
	newByteInSegment := uint32(newByteOffset % uint64(e.sieveSize))
	segmentsAhead := uint32(newByteOffset / uint64(e.sieveSize))

	newWp := wp.WithCursor(newByteInSegment*8+uint32(newBitIdx), tr.Next)

	if segmentsAhead == 0 {
		// Lands in the segment still being drained: re-file into lists[curIdx]
		// so the outer CrossOff loop picks it up again before rotating.
		if err := e.fileAt(curIdx, newWp); err != nil {
			debug.DropError("eratbig: re-file during CrossOff", err)
		}
		return
	}
	absolutePos := e.curSegmentLo + newByteOffset*30 + uint64(newResidue)
	if absolutePos > e.stopLimit {
		return // prime's next strike falls beyond the sieve; drop it
	}
	if err := e.fileAt((curIdx+segmentsAhead)&e.listMask, newWp); err != nil {
		debug.DropError("eratbig: re-file after strike", err)
	}
}

// fileAt appends wp onto the bucket-chain head at lists[idx], acquiring a
// fresh bucket from the pool if the current head is full or absent.
func (e *Engine) fileAt(idx uint32, wp bucket.WheelPrime) error {
	head := e.lists[idx]
	if head == nil || head.IsFull() {
		nb, err := e.pool.Acquire()
		if err != nil {
			return err
		}
		nb.SetNext(head)
		head = nb
		e.lists[idx] = head
	}
	head.Push(wp)
	return nil
}
