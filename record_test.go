package profiler

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestRecordLayout(t *testing.T) {
	assert.Equal(t, uintptr(58), unsafe.Offsetof(Record{}.previous))
	assert.Equal(t, uintptr(64), unsafe.Sizeof(Record{}))
}

func TestSetNameZeroPads(t *testing.T) {
	var r Record
	r.setName("short")
	assert.Equal(t, "short", nameString(r.Name))
	for i := len("short"); i < nameSize; i++ {
		assert.Zero(t, r.Name[i])
	}
}

func TestSetNameTruncatesAtFullWidth(t *testing.T) {
	var r Record
	r.setName(strings.Repeat("z", 100))
	assert.Equal(t, strings.Repeat("z", nameSize), nameString(r.Name))
}

func TestRecordResetZeroesEverything(t *testing.T) {
	var r Record
	r.setName("x")
	r.ID, r.ParentID, r.Processor, r.Thread, r.Start, r.End = 1, 2, 3, 4, 5, 6
	r.previous, r.sibling, r.child = 7, 8, 9

	r.reset()

	for _, b := range r.bytes() {
		assert.Zero(t, b)
	}
}
