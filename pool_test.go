package profiler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocateRelease(t *testing.T) {
	p := newPool(make([]Record, 4), nil)

	a, ok := p.allocate()
	require.True(t, ok)
	b, ok := p.allocate()
	require.True(t, ok)
	c, ok := p.allocate()
	require.True(t, ok)
	require.NotEqual(t, a, b)
	require.NotEqual(t, b, c)

	_, ok = p.allocate()
	require.False(t, ok, "pool of 4 slots has only 3 allocatable slots")

	p.release(a, a)
	d, ok := p.allocate()
	require.True(t, ok)
	assert.Equal(t, a, d, "released slot should be reused")
}

func TestPoolExhaustionWarningIsOneShot(t *testing.T) {
	var warnings int
	p := newPool(make([]Record, 2), func(n int) { warnings++ })

	_, ok := p.allocate()
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		_, ok := p.allocate()
		require.False(t, ok)
	}
	assert.Equal(t, 1, warnings, "exhaustion warning fires exactly once")
}

func TestPoolFreeListConservationConcurrent(t *testing.T) {
	const n = 256
	p := newPool(make([]Record, n), nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				slot, ok := p.allocate()
				if !ok {
					continue
				}
				p.release(slot, slot)
			}
		}()
	}
	wg.Wait()

	count, violation := p.freeListLength()
	assert.Equal(t, n-1, count, "free list must recover to n-1 slots at quiescence")
	assert.Zero(t, violation, "no free-list element should carry a nonzero sibling")

	seen := make(map[uint32]bool)
	slot := p.free.Load() & 0xffff
	for slot != 0 {
		require.False(t, seen[slot], "slot %d observed twice in free list", slot)
		seen[slot] = true
		slot = uint32(p.get(slot).child)
	}
}

func TestPoolRootListLIFOOrdering(t *testing.T) {
	p := newPool(make([]Record, 8), nil)

	a, _ := p.allocate()
	b, _ := p.allocate()
	c, _ := p.allocate()

	p.putRoot(a)
	p.putRoot(b)
	p.putRoot(c)

	head := p.drainRoot()
	require.NotZero(t, head)

	var order []uint32
	slot := head
	for slot != 0 {
		order = append(order, slot)
		slot = uint32(p.get(slot).sibling)
	}
	assert.Equal(t, []uint32{c, b, a}, order, "putRoot splices the existing list onto the tail of each new tree, so the newest tree comes first")
	assert.Zero(t, p.drainRoot(), "root list should be empty after drain")
}
