package transfers

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevmo314/go-uvc-engine/pkg/transport"
	"github.com/kevmo314/go-uvc-engine/pkg/transport/transporttest"
)

func testParams() *NegotiatedStreamParameters {
	return &NegotiatedStreamParameters{
		FormatIndex:            1,
		FrameIndex:             1,
		MaxVideoFrameSize:      64,
		MaxPayloadTransferSize: 32,
		FramingInfo:            0x03,
		InterfaceNumber:        1,
		AlternateSetting:       2,
		EndpointAddress:        0x81,
		PacketSize:             32,
	}
}

func nextSubmission(t *testing.T, tr *transporttest.Transport) *transporttest.Submission {
	t.Helper()
	s, ok := tr.NextSubmission(time.Second)
	require.True(t, ok, "no submission")
	return s
}

func TestStream_Samples(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(2), WithPacketsPerTransfer(3))
	require.NoError(t, err)
	defer s.Close()

	first := nextSubmission(t, tr)
	nextSubmission(t, tr)
	assert.Equal(t, uint8(0x81), first.Endpoint)
	assert.Equal(t, 3, first.Buffer.PacketCount)
	assert.Equal(t, 32, first.Buffer.PacketSize)

	first.Complete([][]byte{
		packet(0x00, fill(1, 10)),
		packet(0x00, fill(2, 10)),
		packet(0x01, fill(3, 5)),
	}, 31)

	sample, err := s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Len(t, sample.Data, 20)

	// the completed buffer is resubmitted
	again := nextSubmission(t, tr)
	assert.Same(t, first.Buffer, again.Buffer)
	again.Complete([][]byte{packet(0x02, fill(4, 4)), nil, {}}, 6)

	sample, err = s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fill(3, 5), sample.Data)
	sample, err = s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fill(4, 4), sample.Data)

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.Transfers)
	assert.Equal(t, uint64(4), stats.Packets)
	assert.Equal(t, uint64(3), stats.Samples)
}

func TestStream_PacketStatus(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(1), WithPacketsPerTransfer(2))
	require.NoError(t, err)
	defer s.Close()

	sub := nextSubmission(t, tr)
	sub.Buffer.Fill(0, packet(0x02, []byte{9}))
	sub.Buffer.Status[0] = -71
	sub.Buffer.Fill(1, packet(0x02, []byte{1}))
	sub.OnComplete(sub.Buffer, 6)

	sample, err := s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, sample.Data)
	assert.Equal(t, uint64(1), s.Stats().PacketErrors)
}

func TestStream_IOError(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(2), WithPacketsPerTransfer(1))
	require.NoError(t, err)

	a := nextSubmission(t, tr)
	b := nextSubmission(t, tr)
	a.Complete([][]byte{packet(0x02, []byte{1, 2})}, 4)
	b.Complete(nil, int(transport.CodeNoDevice))

	// samples queued before the failure are still delivered
	sample, err := s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, sample.Data)

	_, err = s.ReadSample(context.Background())
	var ioerr *IOError
	require.True(t, errors.As(err, &ioerr))
	assert.Equal(t, transport.CodeNoDevice, ioerr.Code)
	assert.True(t, errors.Is(err, transport.ErrNoDevice))

	// the buffer completed before the failure was resubmitted, the failed one was not
	resubmitted := nextSubmission(t, tr)
	assert.Same(t, a.Buffer, resubmitted.Buffer)
	assert.Equal(t, 0, tr.Pending())
	assert.Equal(t, []uint8{0x81}, tr.Cancels())
}

func TestStream_Close(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(1), WithPacketsPerTransfer(1))
	require.NoError(t, err)

	sub := nextSubmission(t, tr)
	require.NoError(t, s.Close())

	// in-flight completions after close are discarded and not resubmitted
	sub.Complete([][]byte{packet(0x02, []byte{1})}, 3)
	_, ok := tr.NextSubmission(20 * time.Millisecond)
	assert.False(t, ok)

	_, err = s.ReadSample(context.Background())
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, s.Err())
}

func TestStream_ContextCanceled(t *testing.T) {
	tr := transporttest.New()
	ctx, cancel := context.WithCancel(context.Background())
	s, err := StartStream(ctx, tr, testParams(), WithTransferCount(1))
	require.NoError(t, err)
	nextSubmission(t, tr)

	cancel()
	_, err = s.ReadSample(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestStream_Backpressure(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(1), WithPacketsPerTransfer(2), WithQueueDepth(1))
	require.NoError(t, err)
	defer s.Close()

	sub := nextSubmission(t, tr)
	done := make(chan struct{})
	go func() {
		sub.Complete([][]byte{packet(0x02, []byte{1}), packet(0x02, []byte{2})}, 6)
		close(done)
	}()

	// the second sample does not fit in the queue, so the buffer is not resubmitted yet
	_, ok := tr.NextSubmission(50 * time.Millisecond)
	assert.False(t, ok)

	sample, err := s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, sample.Data)
	<-done
	nextSubmission(t, tr)

	sample, err = s.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, sample.Data)
}

func TestStream_SubmitFailure(t *testing.T) {
	tr := transporttest.New()
	tr.SubmitErr = transport.ErrBusy
	_, err := StartStream(context.Background(), tr, testParams())
	assert.ErrorIs(t, err, transport.ErrBusy)
}

func TestStream_TransferCountClamped(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(1000))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, MaxTransferCount, tr.Pending())
}

func TestSampleReader(t *testing.T) {
	tr := transporttest.New()
	s, err := StartStream(context.Background(), tr, testParams(), WithTransferCount(1), WithPacketsPerTransfer(2))
	require.NoError(t, err)

	sub := nextSubmission(t, tr)
	sub.Complete([][]byte{packet(0x02, []byte("ab")), packet(0x03, []byte("cd"))}, 8)
	require.NoError(t, s.Close())

	got, err := io.ReadAll(NewSampleReader(s))
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
}
