package profiler

// Begin opens a new span named name on the calling thread (§4.2
// begin_block). If the thread has no currently open span, the new record
// becomes the root of that thread's open tree; otherwise it becomes the
// new first child of the currently open span. A no-op while the engine is
// disabled or the pool is exhausted.
func (e *Engine) Begin(name string) {
	if !e.enabled.Load() {
		return
	}
	e.begin(name)
}

func (e *Engine) begin(name string) {
	parentSlot := e.tl.Get()
	slot, ok := e.pool.allocate()
	if !ok {
		return
	}
	rec := e.pool.get(slot)
	rec.Processor = e.procSrc.ProcessorID()
	rec.Thread = e.threadSrc.ThreadID()
	rec.Start = e.clock.Now() - e.groundTime
	rec.setName(name)
	rec.ID = e.ids.next()

	if parentSlot == 0 {
		e.tl.Set(slot)
		return
	}

	parent := e.pool.get(parentSlot)
	rec.ParentID = parent.ID
	rec.previous = uint16(parentSlot)
	rec.sibling = parent.child
	if parent.child != 0 {
		e.pool.get(uint32(parent.child)).previous = uint16(slot)
	}
	parent.child = uint16(slot)
	e.tl.Set(slot)
}

// End closes the innermost currently open span on the calling thread
// (§4.2 end_block). If closing the outermost span of the thread's open
// tree, the completed tree is handed off to the root list (§4.3). A
// migration split (§4.4) is performed transparently when the owning
// processor changed mid-span. A no-op while the engine is disabled or the
// thread has no open span.
func (e *Engine) End() {
	if !e.enabled.Load() {
		return
	}
	e.end()
}

func (e *Engine) end() {
	current := e.tl.Get()
	if current == 0 {
		return
	}
	rec := e.pool.get(current)
	rec.End = e.clock.Now() - e.groundTime

	if rec.previous == 0 {
		e.pool.putRoot(current)
		e.tl.Set(0)
		return
	}

	// Walk the sibling list backwards to find the true parent: the
	// previous pointer chains from first-child back through its siblings
	// to the parent, not directly to it (§4.2's tie-break note).
	currentIdx := current
	curRec := rec
	prevRec := e.pool.get(uint32(curRec.previous))
	for uint32(prevRec.child) != currentIdx {
		currentIdx = uint32(curRec.previous)
		curRec = e.pool.get(currentIdx)
		prevRec = e.pool.get(uint32(curRec.previous))
	}
	parentSlot := uint32(curRec.previous)
	parent := e.pool.get(parentSlot)
	e.tl.Set(parentSlot)

	if proc := e.procSrc.ProcessorID(); parent.Processor != proc {
		name := nameString(parent.Name)
		e.end()
		e.begin(name)
	}
}

// Update checks whether the calling thread's currently open span is still
// running on the processor it started on, and if not, splits it into two
// contiguous spans so each records the processor it actually ran on
// (§4.2/§4.4 update_block). A no-op while disabled or with no open span.
func (e *Engine) Update() {
	if !e.enabled.Load() {
		return
	}
	slot := e.tl.Get()
	if slot == 0 {
		return
	}
	rec := e.pool.get(slot)
	proc := e.procSrc.ProcessorID()
	if rec.Processor == proc {
		return
	}
	name := nameString(rec.Name)
	e.end()
	e.begin(name)
}
