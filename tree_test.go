package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, numRecords int, clock *fakeClock, proc *fakeProcessorSource, sink *captureSink) *Engine {
	t.Helper()
	e, err := Initialize("test", numRecords,
		WithClock(clock),
		WithProcessorIDSource(proc),
		WithThreadIDSource(fakeThreadSource{id: 7}),
		WithSink(sink.sink),
	)
	require.NoError(t, err)
	return e
}

// S2: nested begin/end pairs on a single thread preserve hierarchy.
func TestNestedSpansPreserveHierarchy(t *testing.T) {
	clock := &fakeClock{}
	proc := &fakeProcessorSource{}
	sink := &captureSink{}
	e := newTestEngine(t, 16, clock, proc, sink)

	clock.set(100)
	e.begin("root")
	clock.set(110)
	e.begin("child")
	clock.set(120)
	e.end() // child
	clock.set(130)
	e.end() // root

	e.processRoot()
	records := sink.asRecords()
	require.Len(t, records, 2)

	var root, child Record
	for _, r := range records {
		if nameString(r.Name) == "root" {
			root = r
		} else {
			child = r
		}
	}

	assert.Greater(t, child.ID, root.ID)
	assert.Equal(t, root.ID, child.ParentID)
	assert.LessOrEqual(t, root.Start, child.Start)
	assert.LessOrEqual(t, child.End, root.End)
	assert.Equal(t, uint32(7), root.Thread)
	assert.Equal(t, uint32(7), child.Thread)
}

// S3: a processor migration detected by Update splits one span into two
// contiguous records sharing a name and thread.
func TestUpdateSplitsOnMigration(t *testing.T) {
	clock := &fakeClock{}
	proc := &fakeProcessorSource{}
	sink := &captureSink{}
	e := newTestEngine(t, 16, clock, proc, sink)
	e.enabled.Store(true) // exercise Update directly without the drain goroutine

	clock.set(100)
	e.begin("x")
	clock.set(150)
	proc.set(1)
	e.Update()
	clock.set(200)
	e.end()

	e.processRoot()
	records := sink.asRecords()
	require.Len(t, records, 2)

	first, second := records[0], records[1]
	if first.Processor > second.Processor {
		first, second = second, first
	}
	assert.Equal(t, "x", nameString(first.Name))
	assert.Equal(t, "x", nameString(second.Name))
	assert.Equal(t, uint32(0), first.Processor)
	assert.Equal(t, uint32(1), second.Processor)
	assert.Equal(t, first.Thread, second.Thread)
	assert.GreaterOrEqual(t, second.Start, first.End)
}

func TestEndWithNoOpenSpanIsNoOp(t *testing.T) {
	clock := &fakeClock{}
	proc := &fakeProcessorSource{}
	sink := &captureSink{}
	e := newTestEngine(t, 16, clock, proc, sink)

	e.end()
	e.processRoot()
	assert.Empty(t, sink.records)
}
