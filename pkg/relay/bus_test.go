package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevmo314/go-uvc-engine/pkg/transfers"
)

func TestBus_DropOnFull(t *testing.T) {
	b := NewBus()
	defer b.Close()

	slow, slowCh, err := b.Subscribe(1)
	require.NoError(t, err)
	fast, fastCh, err := b.Subscribe(4)
	require.NoError(t, err)
	assert.NotEqual(t, slow, fast)

	b.Publish(Frame{Sequence: 1})
	b.Publish(Frame{Sequence: 2})

	assert.Equal(t, uint64(1), (<-slowCh).Sequence)
	assert.Equal(t, uint64(1), (<-fastCh).Sequence)
	assert.Equal(t, uint64(2), (<-fastCh).Sequence)

	stats := b.Stats()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(3), stats.Sent)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, SubscriberStats{Sent: 1, Dropped: 1}, stats.Subscribers[slow])
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	id, ch, err := b.Subscribe(1)
	require.NoError(t, err)

	require.NoError(t, b.Unsubscribe(id))
	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, b.Unsubscribe(id), ErrSubscriberNotFound)

	_, other, err := b.Subscribe(1)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	_, ok = <-other
	assert.False(t, ok)

	_, _, err = b.Subscribe(1)
	assert.ErrorIs(t, err, ErrBusClosed)
	assert.ErrorIs(t, b.Unsubscribe(id), ErrBusClosed)
	b.Publish(Frame{})
	require.NoError(t, b.Close())
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(&transfers.VideoSample{Data: jpeg(1), FrameID: true, Sequence: 7, PTS: 90, HasPTS: true})
	assert.Equal(t, "image/jpeg", f.ContentType)
	assert.Equal(t, uint64(7), f.Sequence)
	assert.True(t, f.FrameID)

	f = NewFrame(&transfers.VideoSample{Data: []byte{0x00, 0x80, 0x10, 0x80}})
	assert.Equal(t, "application/octet-stream", f.ContentType)
}
