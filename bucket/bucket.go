// Package bucket implements the packed WheelPrime record, the fixed-capacity
// Bucket that chains WheelPrimes into per-future-segment lists, and the slab
// allocator (BucketPool) that hands out and reclaims Buckets without
// touching the garbage collector on the hot path.
//
// Grounded on bucketqueue.go's arena-plus-free-list design: an intrusive
// singly-linked free list threaded through the same storage the live data
// occupies, sentinel package-level errors instead of a custom error type,
// and //go:nosplit on the per-item hot paths.
package bucket

import (
	"errors"
	"unsafe"

	"eratsieve/constants"
)

// ErrOutOfMemory is returned when a new slab cannot be allocated.
var ErrOutOfMemory = errors.New("bucket: out of memory")

const (
	multipleIndexBits = 26
	wheelIndexBits    = 6
	residueBits       = 3
	sievingPrimeBits  = 64 - multipleIndexBits - wheelIndexBits - residueBits

	wheelIndexShift    = multipleIndexBits
	residueShift       = multipleIndexBits + wheelIndexBits
	sievingPrimeShift  = multipleIndexBits + wheelIndexBits + residueBits
	multipleIndexMask  = 1<<multipleIndexBits - 1
	wheelIndexMask     = 1<<wheelIndexBits - 1
	residueMask        = 1<<residueBits - 1
	sievingPrime30Mask = 1<<sievingPrimeBits - 1
)

// WheelPrime packs {multiple_index, wheel_index, prime_residue_class,
// sieving_prime/30} into a single 64-bit word. multiple_index is a combined
// byte*8+bit "slot" into a future segment's bit array (always less than
// segment_bytes*8); wheel_index selects one of the 48 wheel210 states;
// prime_residue_class is the wheel210 bit index (0..7) of the prime's own
// value mod 30, fixed for the prime's lifetime and needed so CrossOff's
// strike step can advance the cursor without ever dividing by the prime
// itself; the sieving prime is stored divided by 30 since it is always
// coprime to 30.
type WheelPrime uint64

// Pack builds a WheelPrime from its four logical fields.
//
//go:nosplit
//go:inline
func Pack(multipleIndex uint32, wheelIndex uint8, primeResidueClass uint8, sievingPrime30 uint32) WheelPrime {
	return WheelPrime(uint64(multipleIndex&multipleIndexMask) |
		uint64(wheelIndex&wheelIndexMask)<<wheelIndexShift |
		uint64(primeResidueClass&residueMask)<<residueShift |
		uint64(sievingPrime30&sievingPrime30Mask)<<sievingPrimeShift)
}

//go:nosplit
//go:inline
func (w WheelPrime) MultipleIndex() uint32 {
	return uint32(w) & multipleIndexMask
}

//go:nosplit
//go:inline
func (w WheelPrime) WheelIndex() uint8 {
	return uint8(uint64(w)>>wheelIndexShift) & wheelIndexMask
}

//go:nosplit
//go:inline
func (w WheelPrime) PrimeResidueClass() uint8 {
	return uint8(uint64(w)>>residueShift) & residueMask
}

//go:nosplit
//go:inline
func (w WheelPrime) SievingPrime30() uint32 {
	return uint32(uint64(w) >> sievingPrimeShift)
}

// WithCursor returns a copy of w with a new multiple index and wheel state,
// leaving the sieving prime and its residue class untouched. Used by
// eratbig.CrossOff to re-file an entry after each strike.
//
//go:nosplit
//go:inline
func (w WheelPrime) WithCursor(multipleIndex uint32, wheelIndex uint8) WheelPrime {
	return Pack(multipleIndex, wheelIndex, w.PrimeResidueClass(), w.SievingPrime30())
}

// Bucket is a fixed-capacity array of WheelPrimes chained via next into a
// singly-linked per-future-segment list.
type Bucket struct {
	next  *Bucket
	count uint32
	data  [constants.BucketCapacity]WheelPrime
}

// IsFull reports whether the bucket has no remaining slots.
//
//go:nosplit
//go:inline
func (b *Bucket) IsFull() bool {
	return int(b.count) == len(b.data)
}

// Count returns the number of live entries.
//
//go:nosplit
//go:inline
func (b *Bucket) Count() int {
	return int(b.count)
}

// Push appends wp, returning false if the bucket is already full. Callers on
// the AddSievingPrime path check IsFull first and acquire a new bucket, but
// Push still guards defensively rather than trusting the caller blindly.
//
//go:nosplit
func (b *Bucket) Push(wp WheelPrime) bool {
	if b.IsFull() {
		return false
	}
	b.data[b.count] = wp
	b.count++
	return true
}

// All returns a slice view over the live prefix of the bucket's storage, for
// iteration during CrossOff. The slice aliases the bucket's backing array and
// is only valid until the bucket is next mutated.
//
//go:nosplit
//go:inline
func (b *Bucket) All() []WheelPrime {
	return b.data[:b.count]
}

// Next returns the next bucket in this chain, or nil.
//
//go:nosplit
//go:inline
func (b *Bucket) Next() *Bucket {
	return b.next
}

// SetNext links b to the next bucket in its chain.
//
//go:nosplit
//go:inline
func (b *Bucket) SetNext(next *Bucket) {
	b.next = next
}

// Clear resets a bucket to empty with no successor, preparing it for reuse.
//
//go:nosplit
func (b *Bucket) Clear() {
	b.count = 0
	b.next = nil
}

// Pool is a slab allocator for Buckets with a free list (stock) and a record
// of every slab base address (pointers) so tests can verify every bucket
// remains reachable through stock, a live chain, or a slab.
type Pool struct {
	stock    *Bucket
	pointers [][]Bucket
}

// NewPool returns an empty pool; the first Acquire call allocates the first
// slab.
func NewPool() *Pool {
	return &Pool{}
}

// Acquire returns a zero-count Bucket with no successor, growing the pool
// from a fresh slab if the free list is empty.
func (p *Pool) Acquire() (*Bucket, error) {
	if p.stock == nil {
		if err := p.grow(); err != nil {
			return nil, err
		}
	}
	b := p.stock
	p.stock = b.next
	b.next = nil
	b.count = 0
	return b, nil
}

// grow allocates one slab of MemoryPerAlloc/sizeof(Bucket) buckets, chains
// them all onto stock, and records the slab in pointers.
func (p *Pool) grow() error {
	n := constants.MemoryPerAlloc / bucketSize
	if n <= 0 {
		return ErrOutOfMemory
	}
	slab := make([]Bucket, n)
	for i := n - 1; i > 0; i-- {
		slab[i-1].next = &slab[i]
	}
	slab[n-1].next = p.stock
	p.stock = &slab[0]
	p.pointers = append(p.pointers, slab)
	return nil
}

// Release detaches a chain of buckets headed by chainHead, clears each one,
// and concatenates the chain onto stock. O(k) in chain length.
func (p *Pool) Release(chainHead *Bucket) {
	if chainHead == nil {
		return
	}
	tail := chainHead
	tail.Clear()
	for tail.next != nil {
		tail = tail.next
		tail.Clear()
	}
	tail.next = p.stock
	p.stock = chainHead
}

// SlabCount returns the number of slabs allocated so far. Used by tests to
// confirm the pool grows only when the free list is exhausted.
func (p *Pool) SlabCount() int {
	return len(p.pointers)
}

var bucketSize = int(unsafe.Sizeof(Bucket{}))
