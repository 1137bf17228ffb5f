package profiler

import "time"

// process walks block depth-first, writing each record to the sink and
// rewriting child/sibling links into a single child-chain as it goes
// (§4.6.1, _profile_process_block). Each record is handed to the sink
// before its links are rewritten. It returns the slot of the tail of the
// resulting child-chain (the leaf of the child subtree when block has a
// child, which is not necessarily the last record visited), the leaf the
// caller passes to pool.release.
func (e *Engine) process(block uint32) uint32 {
	rec := e.pool.get(block)
	leaf := block

	if e.sink != nil {
		e.sink(rec.bytes())
	}

	if rec.child != 0 {
		leaf = e.process(uint32(rec.child))
		if rec.sibling != 0 {
			subleaf := e.process(uint32(rec.sibling))
			e.pool.get(subleaf).child = rec.child
			rec.child = rec.sibling
			rec.sibling = 0
		}
	} else if rec.sibling != 0 {
		leaf = e.process(uint32(rec.sibling))
		rec.child = rec.sibling
		rec.sibling = 0
	}

	return leaf
}

// processRoot drains the entire root list and, for each completed tree,
// walks it with process and releases every visited slot back to the pool
// (§4.6 step 4, _profile_process_root_block). Safe to call concurrently
// with producers: only fully closed, already-detached trees ever reach the
// root list, so nothing new is appended to a subtree while it is being
// walked here.
func (e *Engine) processRoot() {
	block := e.pool.drainRoot()
	for block != 0 {
		current := e.pool.get(block)
		next := uint32(current.sibling)
		current.sibling = 0

		leaf := e.process(block)
		e.pool.release(block, leaf)

		block = next
	}
}

// sysInfoRecord returns a fresh synthetic system-info record (§4.6 step 6,
// §6.2 id 1): start carries the clock's tick rate rather than a timestamp,
// so consumers can interpret every other record's Start/End values.
func (e *Engine) sysInfoRecord() Record {
	var rec Record
	rec.ID = idSystemInfo
	rec.Start = e.clock.TicksPerSecond()
	rec.setName("sysinfo")
	return rec
}

// runIO is the background drain loop (§4.6): every drainInterval, check
// whether the root list holds any completed trees and, if so, walk and
// release them, opening nested "profile_io"/"process" spans around the
// work so the drain thread's own cost is visible in the stream. Emits a
// synthetic system-info record roughly once every 11 iterations and a
// terminator record when stopped, matching _profile_io.
func (e *Engine) runIO() {
	defer close(e.ioStopped)

	sysInfoCounter := 0
	ticker := time.NewTicker(e.drainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ioExit:
			e.processRoot()
			e.emitTerminator()
			return
		case <-ticker.C:
		}

		if !e.pool.peekRootNonEmpty() {
			continue
		}

		e.begin("profile_io")
		if e.pool.peekRootNonEmpty() {
			e.begin("process")
			e.processRoot()
			e.end()
		}

		if sysInfoCounter++; sysInfoCounter > 10 {
			if e.sink != nil {
				rec := e.sysInfoRecord()
				e.sink(rec.bytes())
			}
			sysInfoCounter = 0
		}

		e.end()
	}
}

// emitTerminator writes the end-of-stream marker record (§6.2 id 0) that
// tells a consumer no further records follow.
func (e *Engine) emitTerminator() {
	if e.sink == nil {
		return
	}
	var rec Record
	rec.ID = idEndOfStream
	e.sink(rec.bytes())
}
