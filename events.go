package profiler

// putSimpleBlock attaches an already-populated record (slot), together with
// any continuation chain hanging off its child link, to
// the calling thread's current open span as a new first child, or to the
// root list directly if the thread has no open span (§4.5,
// _profile_put_simple_block). Used for both EndFrame markers and the
// master record of a chunked message.
func (e *Engine) putSimpleBlock(slot uint32) {
	parentSlot := e.tl.Get()
	if parentSlot == 0 {
		e.pool.putRoot(slot)
		return
	}
	rec := e.pool.get(slot)
	parent := e.pool.get(parentSlot)
	rec.ParentID = parent.ID
	rec.previous = uint16(parentSlot)
	rec.sibling = parent.child
	if parent.child != 0 {
		e.pool.get(uint32(parent.child)).previous = uint16(slot)
	}
	parent.child = uint16(slot)
}

// putMessageBlock records an event carrying an arbitrary-length message
// (§4.5, _profile_put_message_block): a master record of kind id holding
// the first nameSize bytes, followed by zero or more idLogContinue-style
// continuation records each holding the next nameSize bytes, each one the
// child of the segment before it (child link forward, previous link back;
// sibling is not used). The
// master's End field carries a sequence number (drawn from the same
// counter as span ids) rather than a timestamp, used by consumers to order
// continuations; this mirrors the original implementation exactly.
//
// Chunking advances by nameSize (26) bytes per record rather than the
// original C's MAX_MESSAGE_LENGTH (25): the spec's oversized-name test
// scenario is explicit about 26-byte chunks, and that takes precedence
// here.
func (e *Engine) putMessageBlock(id int32, message string) {
	masterSlot, ok := e.pool.allocate()
	if !ok {
		return
	}
	master := e.pool.get(masterSlot)
	master.ID = id
	master.Processor = e.procSrc.ProcessorID()
	master.Thread = e.threadSrc.ThreadID()
	master.Start = e.clock.Now() - e.groundTime
	seq := e.ids.next()
	master.End = int64(seq)

	rest := message
	if len(rest) > nameSize {
		master.setName(rest[:nameSize])
		rest = rest[nameSize:]
	} else {
		master.setName(rest)
		rest = ""
	}

	prevSlot := masterSlot
	prevSeq := seq
	for len(rest) > 0 {
		contSlot, ok := e.pool.allocate()
		if !ok {
			break
		}
		cont := e.pool.get(contSlot)
		cont.ID = id + 1
		cont.ParentID = int32(prevSeq)
		cont.Processor = master.Processor
		cont.Thread = master.Thread
		contSeq := e.ids.next()
		cont.End = int64(contSeq)

		if len(rest) > nameSize {
			cont.setName(rest[:nameSize])
			rest = rest[nameSize:]
		} else {
			cont.setName(rest)
			rest = ""
		}

		prev := e.pool.get(prevSlot)
		prev.child = uint16(contSlot)
		cont.previous = uint16(prevSlot)

		prevSlot = contSlot
		prevSeq = contSeq
	}

	e.putSimpleBlock(masterSlot)
}

// Log records a free-form log message against the calling thread's current
// span (§4.5, id 2/3). A no-op while disabled.
func (e *Engine) Log(message string) {
	if !e.enabled.Load() {
		return
	}
	e.putMessageBlock(idLogMessage, message)
}

// TryLock records a lock-acquisition attempt on the named lock (§4.5, id 5).
func (e *Engine) TryLock(name string) {
	if !e.enabled.Load() {
		return
	}
	e.putMessageBlock(idTryLock, name)
}

// Lock records a successful lock acquisition on the named lock (§4.5, id 7).
func (e *Engine) Lock(name string) {
	if !e.enabled.Load() {
		return
	}
	e.putMessageBlock(idLock, name)
}

// Unlock records a lock release on the named lock (§4.5, id 9).
func (e *Engine) Unlock(name string) {
	if !e.enabled.Load() {
		return
	}
	e.putMessageBlock(idUnlock, name)
}

// Wait records a condition-variable wait on the named condition (§4.5, id 11).
func (e *Engine) Wait(name string) {
	if !e.enabled.Load() {
		return
	}
	e.putMessageBlock(idWait, name)
}

// Signal records a condition-variable signal on the named condition (§4.5, id 12).
func (e *Engine) Signal(name string) {
	if !e.enabled.Load() {
		return
	}
	e.putMessageBlock(idSignal, name)
}

// EndFrame records a frame boundary marker carrying counter (e.g. a frame
// number), attached like any other simple block but without message
// chunking or a sequence number: End holds counter directly (§4.5, id 4).
func (e *Engine) EndFrame(counter uint64) {
	if !e.enabled.Load() {
		return
	}
	slot, ok := e.pool.allocate()
	if !ok {
		return
	}
	rec := e.pool.get(slot)
	rec.ID = idEndFrame
	rec.Processor = e.procSrc.ProcessorID()
	rec.Thread = e.threadSrc.ThreadID()
	rec.Start = e.clock.Now() - e.groundTime
	rec.End = int64(counter)
	e.putSimpleBlock(slot)
}
