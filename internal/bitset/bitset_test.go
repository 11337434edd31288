package bitset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSet(t *testing.T) {
	b := New(100)

	if b.Len() != 100 {
		t.Errorf("expected len 100, got %d", b.Len())
	}

	b.Set(10)
	if !b.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}

	if b.Count() != 1 {
		t.Errorf("expected count 1, got %d", b.Count())
	}

	b.Unset(10)
	if b.Test(10) {
		t.Errorf("expected bit 10 to be unset")
	}

	b.Set(10)
	b.Set(20)
	b.Set(30)

	if b.Count() != 3 {
		t.Errorf("expected count 3, got %d", b.Count())
	}

	b.ClearAll()
	if b.Count() != 0 {
		t.Errorf("expected count 0 after clear, got %d", b.Count())
	}
}

func TestBitSet_TestAndSet(t *testing.T) {
	b := New(100)
	if b.TestAndSet(10) {
		t.Errorf("expected TestAndSet(10) to return false (was unset)")
	}
	if !b.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}
	if !b.TestAndSet(10) {
		t.Errorf("expected TestAndSet(10) to return true (was set)")
	}
}

func TestBitSet_AllSet(t *testing.T) {
	for _, size := range []uint64{0, 1, 63, 64, 65, 128, 1000} {
		b := New(size)
		if size == 0 {
			assert.True(t, b.AllSet(), "empty bitset is all set")
			continue
		}
		assert.False(t, b.AllSet(), "size %d", size)

		for i := uint64(0); i < size-1; i++ {
			b.Set(i)
		}
		assert.False(t, b.AllSet(), "size %d with last bit unset", size)

		b.Set(size - 1)
		assert.True(t, b.AllSet(), "size %d", size)
		assert.Equal(t, size, b.Count())

		b.Unset(0)
		assert.False(t, b.AllSet(), "size %d with first bit unset", size)
	}
}

func TestBitSet_NextSetBit(t *testing.T) {
	b := New(1000)
	b.Set(10)
	b.Set(20)
	b.Set(100)

	tests := []struct {
		start    uint64
		expected int64
	}{
		{0, 10},
		{10, 10},
		{11, 20},
		{20, 20},
		{21, 100},
		{100, 100},
		{101, -1},
		{5000, -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, b.NextSetBit(tt.start), "NextSetBit(%d)", tt.start)
	}
}

func TestBitSet_OutOfRangePanics(t *testing.T) {
	b := New(10)
	assert.Panics(t, func() { b.Set(10) })
	assert.Panics(t, func() { b.Unset(11) })
	assert.Panics(t, func() { b.Test(100) })
}

func TestBitSet_Roaring(t *testing.T) {
	b := New(200)
	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(199)

	rb := b.Roaring()
	require.Equal(t, uint64(4), rb.GetCardinality())
	assert.Equal(t, []uint64{0, 63, 64, 199}, rb.ToArray())
}

// Concurrent writers on neighbouring bits of the same word must never lose updates.
func TestBitSet_ConcurrentSameWord(t *testing.T) {
	const size = 64 * 16
	b := New(size)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < size; i += 8 {
				b.Set(uint64(i))
			}
		}(w)
	}
	wg.Wait()

	assert.True(t, b.AllSet())

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < size; i += 8 {
				if i%2 == 0 {
					b.Unset(uint64(i))
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, uint64(size/2), b.Count())
}
