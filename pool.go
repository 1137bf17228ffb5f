package profiler

import (
	"sync/atomic"
)

// maxSlots is the largest pool capacity representable by a 16-bit slot
// index (§3.2): slot 0 is reserved as "null" and never allocated, so a
// pool of maxSlots records yields maxSlots-1 allocatable slots.
const maxSlots = 65535

// pool is the lock-free, tagged-free-list record allocator (§4.1) plus the
// lock-free root handoff list (§4.3) it hands completed trees to. Both
// share the same underlying record storage, so they live together here.
type pool struct {
	records []Record

	// free is the tagged free-list head: low 16 bits are the slot index
	// (0 == empty), high 16 bits are a loop-id tag bumped on every CAS
	// attempt, for ABA safety (§3.3/§4.1). Every allocating/releasing
	// goroutine hammers this word, so it gets its own cache line.
	free atomic.Uint32
	_    [cacheLineSize - sizeOfAtomicUint32]byte

	// loopID is the monotonically incrementing tag source shared by
	// allocate, release, putRoot and drainRoot, per §4.1's "ABA
	// correctness" note. Bumped on the same hot path as free; padded
	// apart from it for the same reason.
	loopID atomic.Uint32
	_      [cacheLineSize - sizeOfAtomicUint32]byte

	// root is the root-list head. Unlike the spec's bare 16-bit word
	// (§3.4), this carries the same kind of ABA tag as free in its high
	// 32 bits — an intentional hardening of the §9 open question ("high
	// bits are unused... reimplementers may choose to add a tag"), kept
	// consistent with free's own tagging scheme. Written by every
	// producer goroutine's End (putRoot) and read/cleared by the drain
	// goroutine (drainRoot/peekRootNonEmpty): the many-producers/
	// one-consumer case sizeof.go's padding exists for.
	root atomic.Uint64
	_    [cacheLineSize - sizeOfAtomicUint64]byte

	warnedOnce atomic.Bool
	onExhausted func(numRecords int)

	numRecords int // N, including reserved slot 0
}

// newPool threads slots 1..N-1 onto the free list via their child field,
// exactly as §3.2 describes; the terminal slot's child is left 0.
func newPool(records []Record, onExhausted func(int)) *pool {
	n := len(records)
	if n > maxSlots {
		n = maxSlots
		records = records[:n]
	}
	p := &pool{records: records, numRecords: n, onExhausted: onExhausted}
	for i := 1; i < n-1; i++ {
		records[i].child = uint16(i + 1)
		records[i].sibling = 0
	}
	if n > 1 {
		records[n-1].child = 0
		records[n-1].sibling = 0
	}
	if n > 0 {
		p.free.Store(uint32(firstFreeSlot(n)))
	}
	return p
}

func firstFreeSlot(n int) uint32 {
	if n <= 1 {
		return 0
	}
	return 1
}

func (p *pool) get(slot uint32) *Record {
	return &p.records[slot]
}

// allocate implements §4.1's allocate(): pop the free-list head, zero the
// reclaimed record, and return its slot. Returns ok=false (and triggers
// the one-shot exhaustion warning) when the pool has no free slots.
func (p *pool) allocate() (uint32, bool) {
	for {
		h := p.free.Load()
		slot := h & 0xffff
		if slot == 0 {
			if p.warnedOnce.CompareAndSwap(false, true) && p.onExhausted != nil {
				p.onExhausted(p.numRecords)
			}
			return 0, false
		}
		next := uint32(p.records[slot].child)
		tag := (p.loopID.Add(1) & 0xffff) << 16
		newHead := next | tag
		if p.free.CompareAndSwap(h, newHead) {
			p.records[slot].reset()
			return slot, true
		}
	}
}

// release implements §4.1's release(): push the whole child-linked chain
// [rootSlot..leafSlot] onto the free list in one CAS.
func (p *pool) release(rootSlot, leafSlot uint32) {
	for {
		h := p.free.Load()
		p.records[leafSlot].child = uint16(h & 0xffff)
		tag := (p.loopID.Add(1) & 0xffff) << 16
		newHead := rootSlot | tag
		if p.free.CompareAndSwap(h, newHead) {
			return
		}
	}
}

// freeListLength walks the free list and counts it; used by
// Engine.Finalize's consistency check (§7) and the pool-occupancy metric
// (Engine.poolOccupied), never on a hot path.
func (p *pool) freeListLength() (count int, siblingViolation uint32) {
	h := p.free.Load()
	slot := h & 0xffff
	for slot != 0 {
		count++
		rec := &p.records[slot]
		if rec.sibling != 0 && siblingViolation == 0 {
			siblingViolation = slot
		}
		slot = uint32(rec.child)
	}
	return count, siblingViolation
}

func packRoot(slot uint32, tag uint32) uint64 {
	return uint64(slot) | uint64(tag)<<32
}

func rootSlotOf(word uint64) uint32 { return uint32(word) }

// putRoot publishes a completed outermost tree into the lock-free LIFO
// linked through Record.sibling (§4.3). self is the tree's top-level
// record (block); it must not have an outstanding sibling (it is a freshly
// detached root).
func (p *pool) putRoot(block uint32) {
	self := p.get(block)
	for {
		cur := p.root.Load()
		curSlot := rootSlotOf(cur)
		if curSlot == 0 {
			tag := p.loopID.Add(1)
			if p.root.CompareAndSwap(cur, packRoot(block, tag)) {
				return
			}
			continue
		}

		// Atomically swap the existing list out to empty, then splice it
		// onto the tail of this tree's sibling chain, and retry
		// publishing. This is exactly the original _profile_put_root_block
		// splice-then-publish loop (§4.3).
		if !p.root.CompareAndSwap(cur, packRoot(0, p.loopID.Add(1))) {
			continue
		}
		if self.sibling != 0 {
			leaf := self.sibling
			for p.get(leaf).sibling != 0 {
				leaf = p.get(leaf).sibling
			}
			p.get(curSlot).previous = uint16(leaf)
			p.get(leaf).sibling = uint16(curSlot)
		} else {
			self.sibling = uint16(curSlot)
		}
	}
}

// drainRoot atomically captures and clears the whole root list (§4.6 step
// 4), returning the slot of its head (0 if the list was empty).
func (p *pool) drainRoot() uint32 {
	for {
		cur := p.root.Load()
		slot := rootSlotOf(cur)
		if slot == 0 {
			return 0
		}
		if p.root.CompareAndSwap(cur, packRoot(0, p.loopID.Add(1))) {
			return slot
		}
	}
}

// peekRootNonEmpty is a racy, lock-free hint used by the drain loop and
// Engine.Finalize to decide whether a CAS-swap drain is worth attempting
// (§4.6 step 2).
func (p *pool) peekRootNonEmpty() bool {
	return rootSlotOf(p.root.Load()) != 0
}
