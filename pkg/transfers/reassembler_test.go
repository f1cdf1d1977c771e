package transfers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packet(bitmask uint8, payload []byte) []byte {
	return append([]byte{2, bitmask}, payload...)
}

func fill(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestReassembler_FrameIDToggle(t *testing.T) {
	r := NewReassembler(1024)

	out, err := r.Push(packet(0x00, fill(0xA, 10)))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Push(packet(0x00, fill(0xB, 10)))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Push(packet(0x01, fill(0xC, 5)))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, append(fill(0xA, 10), fill(0xB, 10)...), out[0].Data)
	assert.False(t, out[0].FrameID)
	assert.Equal(t, 2, out[0].Packets)
	assert.Equal(t, uint64(0), out[0].Sequence)

	// frame 1 is still open
	assert.Equal(t, 5, r.Buffered())
	last := r.Flush()
	require.NotNil(t, last)
	assert.Equal(t, fill(0xC, 5), last.Data)
	assert.True(t, last.FrameID)
	assert.Equal(t, uint64(1), last.Sequence)
}

func TestReassembler_EndOfFrame(t *testing.T) {
	r := NewReassembler(1024)

	out, err := r.Push(packet(0x00, []byte{1, 2}))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Push(packet(0x02, []byte{3}))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []byte{1, 2, 3}, out[0].Data)

	// the next packet starts a fresh frame even though the frame ID did not toggle
	out, err = r.Push(packet(0x00, []byte{4}))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, r.Buffered())

	// toggle and end of frame on the same packet emit both frames
	out, err = r.Push(packet(0x03, []byte{5}))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []byte{4}, out[0].Data)
	assert.Equal(t, []byte{5}, out[1].Data)
	assert.True(t, out[1].FrameID)
	assert.Equal(t, uint64(3), r.Stats().Samples)
}

func TestReassembler_InvalidHeaderLeavesFrame(t *testing.T) {
	r := NewReassembler(1024)

	_, err := r.Push(packet(0x00, []byte{1, 2, 3}))
	require.NoError(t, err)

	bad := []byte{200, 0x01, 9, 9, 9}
	out, err := r.Push(bad)
	assert.ErrorIs(t, err, ErrInvalidHeader)
	assert.Empty(t, out)
	assert.Equal(t, 3, r.Buffered())

	out, err = r.Push(packet(0x02, []byte{4}))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, out[0].Data)

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.InvalidHeaders)
	assert.Equal(t, uint64(2), stats.Packets)
}

func TestReassembler_Overflow(t *testing.T) {
	r := NewReassembler(16)

	_, err := r.Push(packet(0x00, fill(1, 10)))
	require.NoError(t, err)
	_, err = r.Push(packet(0x00, fill(2, 10)))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Buffered())

	// the rest of the oversized frame is dropped too
	out, err := r.Push(packet(0x02, fill(3, 2)))
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Push(packet(0x03, fill(4, 16)))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, fill(4, 16), out[0].Data)
	assert.Equal(t, 16, cap(r.buf))

	assert.Equal(t, uint64(1), r.Stats().Overflows)
}

func TestReassembler_Metadata(t *testing.T) {
	r := NewReassembler(0)

	withPTS := []byte{6, 0x04, 0x10, 0x00, 0x00, 0x00, 0xAA}
	withSCR := []byte{8, 0x08 | 0x40, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0xBB}
	still := []byte{6, 0x04 | 0x20 | 0x02, 0x20, 0x00, 0x00, 0x00, 0xCC}

	for _, p := range [][]byte{withPTS, withSCR} {
		out, err := r.Push(p)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
	out, err := r.Push(still)
	require.NoError(t, err)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, s.Data)
	assert.True(t, s.HasPTS)
	assert.Equal(t, uint32(0x10), s.PTS)
	assert.True(t, s.HasSCR)
	assert.Equal(t, SourceClockReference{SourceTimeClock: 1, TokenCounter: 2}, s.SCR)
	assert.True(t, s.Still)
	assert.True(t, s.Error)
	assert.Equal(t, 3, s.Packets)
	assert.Equal(t, uint64(1), r.Stats().ErroredPayloads)
}

func TestReassembler_SampleOwnsData(t *testing.T) {
	r := NewReassembler(64)

	out, err := r.Push(packet(0x02, []byte{1, 2, 3}))
	require.NoError(t, err)
	require.Len(t, out, 1)

	_, err = r.Push(packet(0x02, []byte{7, 7, 7}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, out[0].Data)
}

func TestReassembler_HeaderOnlyPackets(t *testing.T) {
	r := NewReassembler(64)

	out, err := r.Push([]byte{2, 0x02})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Push(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, uint64(0), r.Stats().Samples)
}
