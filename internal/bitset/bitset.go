package bitset

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// BitSet is a thread-safe, lock-free, fixed-size bitset.
//
// Set, Unset and Test may be called concurrently from any goroutine.
// Count, AllSet and ClearAll are not linearizable against concurrent writers.
type BitSet struct {
	words []atomic.Uint64
	size  uint64
}

// New creates a new BitSet holding size bits, all unset.
func New(size uint64) *BitSet {
	return &BitSet{
		words: make([]atomic.Uint64, (size+63)/64),
		size:  size,
	}
}

func (b *BitSet) check(i uint64) {
	if i >= b.size {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", i, b.size))
	}
}

// Set sets the bit at the given index.
func (b *BitSet) Set(i uint64) {
	b.check(i)
	b.words[i>>6].Or(uint64(1) << (i & 63))
}

// TestAndSet sets the bit at the given index and returns true if it was ALREADY set.
func (b *BitSet) TestAndSet(i uint64) bool {
	b.check(i)
	mask := uint64(1) << (i & 63)
	return b.words[i>>6].Or(mask)&mask != 0
}

// Unset clears the bit at the given index.
func (b *BitSet) Unset(i uint64) {
	b.check(i)
	b.words[i>>6].And(^(uint64(1) << (i & 63)))
}

// Test returns true if the bit at the given index is set.
func (b *BitSet) Test(i uint64) bool {
	b.check(i)
	return b.words[i>>6].Load()&(uint64(1)<<(i&63)) != 0
}

// Count returns the number of set bits.
func (b *BitSet) Count() uint64 {
	var count uint64
	for i := range b.words {
		if val := b.words[i].Load(); val != 0 {
			count += uint64(bits.OnesCount64(val))
		}
	}
	return count
}

// AllSet reports whether every bit in [0, Len()) is set.
// An empty bitset is trivially all set.
func (b *BitSet) AllSet() bool {
	full := b.size / 64
	for i := uint64(0); i < full; i++ {
		if b.words[i].Load() != ^uint64(0) {
			return false
		}
	}
	if rem := b.size & 63; rem != 0 {
		mask := uint64(1)<<rem - 1
		return b.words[full].Load()&mask == mask
	}
	return true
}

// NextSetBit returns the index of the next set bit starting from i (inclusive).
// Returns -1 if no bit is set after i.
func (b *BitSet) NextSetBit(i uint64) int64 {
	if i >= b.size {
		return -1
	}

	wordIdx := i >> 6
	// Mask out bits before i
	val := b.words[wordIdx].Load() & ^((uint64(1) << (i & 63)) - 1)
	for {
		if val != 0 {
			idx := wordIdx*64 + uint64(bits.TrailingZeros64(val))
			if idx >= b.size {
				return -1
			}
			return int64(idx)
		}
		wordIdx++
		if wordIdx >= uint64(len(b.words)) {
			return -1
		}
		val = b.words[wordIdx].Load()
	}
}

// ClearAll clears all bits in the bitset.
func (b *BitSet) ClearAll() {
	for i := range b.words {
		b.words[i].Store(0)
	}
}

// Len returns the size of the bitset in bits.
func (b *BitSet) Len() uint64 {
	return b.size
}

// Roaring returns a compressed snapshot of the set bits.
func (b *BitSet) Roaring() *roaring64.Bitmap {
	rb := roaring64.New()
	for i := range b.words {
		val := b.words[i].Load()
		for val != 0 {
			tz := uint64(bits.TrailingZeros64(val))
			rb.Add(uint64(i)*64 + tz)
			val &= val - 1
		}
	}
	return rb
}
