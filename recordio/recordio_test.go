package recordio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestRecord(t *testing.T, id, parentID int32, processor, thread uint32, start, end int64, name string) []byte {
	t.Helper()
	buf := make([]byte, RecordSize)
	bo := binary.NativeEndian
	bo.PutUint32(buf[0:4], uint32(id))
	bo.PutUint32(buf[4:8], uint32(parentID))
	bo.PutUint32(buf[8:12], processor)
	bo.PutUint32(buf[12:16], thread)
	bo.PutUint64(buf[16:24], uint64(start))
	bo.PutUint64(buf[24:32], uint64(end))
	copy(buf[32:58], name)
	return buf
}

func TestDecode(t *testing.T) {
	buf := encodeTestRecord(t, 130, 128, 2, 9, 100, 200, "render")
	rec, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, int32(130), rec.ID)
	assert.Equal(t, int32(128), rec.ParentID)
	assert.Equal(t, uint32(2), rec.Processor)
	assert.Equal(t, uint32(9), rec.Thread)
	assert.Equal(t, int64(100), rec.Start)
	assert.Equal(t, int64(200), rec.End)
	assert.Equal(t, "render", rec.Name)
}

func TestDecodeFullWidthNameHasNoTrailingNUL(t *testing.T) {
	name := ""
	for i := 0; i < NameSize; i++ {
		name += "x"
	}
	buf := encodeTestRecord(t, 1, 0, 0, 0, 0, 0, name)
	rec, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, name, rec.Name)
	assert.Len(t, rec.Name, NameSize)
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	_, err := Decode(make([]byte, 10))
	assert.Error(t, err)
}

func TestIsContinuation(t *testing.T) {
	assert.True(t, IsContinuation(IDLogContinue))
	assert.True(t, IsContinuation(IDTryLock+1))
	assert.True(t, IsContinuation(IDLock+1))
	assert.True(t, IsContinuation(IDUnlock+1))
	assert.False(t, IsContinuation(IDLogMessage))
	assert.False(t, IsContinuation(IDEndFrame))
}
