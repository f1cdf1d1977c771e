package transfers

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

const (
	DefaultTransferCount = 8
	MaxTransferCount     = 64
	DefaultQueueDepth    = 8
)

type StreamOption func(*Stream)

// WithTransferCount sets how many buffers are kept in flight, clamped to MaxTransferCount.
func WithTransferCount(n int) StreamOption {
	return func(s *Stream) {
		if n > MaxTransferCount {
			n = MaxTransferCount
		}
		if n > 0 {
			s.transferCount = n
		}
	}
}

// WithPacketsPerTransfer overrides the number of packets per buffer, which otherwise covers
// one frame.
func WithPacketsPerTransfer(n int) StreamOption {
	return func(s *Stream) {
		if n > 0 {
			s.packetsPerTransfer = n
		}
	}
}

// WithQueueDepth sets how many reassembled samples may wait for ReadSample before completions
// block.
func WithQueueDepth(n int) StreamOption {
	return func(s *Stream) {
		if n > 0 {
			s.queueDepth = n
		}
	}
}

func WithStreamLogger(log logrus.FieldLogger) StreamOption {
	return func(s *Stream) {
		s.log = log
	}
}

// Stream keeps isochronous buffers in flight on the negotiated endpoint and reassembles the
// packets they return into samples.
type Stream struct {
	t      transport.Transport
	params *NegotiatedStreamParameters
	log    logrus.FieldLogger

	transferCount      int
	packetsPerTransfer int
	queueDepth         int

	reassembler *Reassembler
	samples     chan *VideoSample

	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	err      error

	transfers    atomic.Uint64
	packetErrors atomic.Uint64
}

// StartStream creates a stream for params and submits its buffers. The stream stops when ctx
// is done or Close is called.
func StartStream(ctx context.Context, t transport.Transport, params *NegotiatedStreamParameters, opts ...StreamOption) (*Stream, error) {
	s := &Stream{
		t:                  t,
		params:             params,
		log:                quietLogger(),
		transferCount:      DefaultTransferCount,
		packetsPerTransfer: params.PacketsPerTransfer(),
		queueDepth:         DefaultQueueDepth,
		done:               make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(logrus.Fields{
		"iface":    params.InterfaceNumber,
		"endpoint": params.EndpointAddress,
	})
	if params.PacketSize == 0 {
		return nil, fmt.Errorf("failed to start stream: %w", ErrNoBandwidth)
	}
	s.reassembler = NewReassembler(params.MaxVideoFrameSize, WithReassemblerLogger(s.log))
	s.samples = make(chan *VideoSample, s.queueDepth)

	for i := 0; i < s.transferCount; i++ {
		buf := transport.NewIsoBuffer(s.packetsPerTransfer, int(params.PacketSize))
		if err := t.SubmitIsochronous(params.EndpointAddress, buf, s.complete); err != nil {
			s.stop(nil)
			return nil, fmt.Errorf("failed to submit isochronous transfer: %w", err)
		}
	}
	s.log.WithFields(logrus.Fields{
		"transfers":   s.transferCount,
		"packets":     s.packetsPerTransfer,
		"packet_size": params.PacketSize,
	}).Debug("stream started")

	go func() {
		select {
		case <-ctx.Done():
			s.stop(nil)
		case <-s.done:
		}
	}()
	return s, nil
}

func (s *Stream) Params() *NegotiatedStreamParameters {
	return s.params
}

// complete runs for every finished buffer: it feeds the packets to the reassembler, queues
// the resulting samples and resubmits the buffer.
func (s *Stream) complete(buf *transport.IsoBuffer, result int) {
	if s.stopped() {
		return
	}
	if result < 0 {
		s.stop(&IOError{Code: transport.Code(result)})
		return
	}
	s.transfers.Add(1)
	for i := 0; i < buf.PacketCount; i++ {
		if buf.Status[i] != 0 {
			s.packetErrors.Add(1)
			continue
		}
		packet := buf.Packet(i)
		if len(packet) == 0 {
			continue
		}
		samples, err := s.reassembler.Push(packet)
		if err != nil {
			s.log.WithError(err).Debug("dropping packet")
			continue
		}
		for _, sample := range samples {
			select {
			case s.samples <- sample:
			case <-s.done:
				return
			}
		}
	}
	if s.stopped() {
		return
	}
	buf.Reset()
	if err := s.t.SubmitIsochronous(s.params.EndpointAddress, buf, s.complete); err != nil {
		s.stop(fmt.Errorf("failed to resubmit isochronous transfer: %w", err))
	}
}

func (s *Stream) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Stream) stop(err error) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
		if err != nil {
			s.log.WithError(err).Error("stream stopped")
		}
		if c, ok := s.t.(transport.Canceler); ok {
			if cerr := c.CancelIsochronous(s.params.EndpointAddress); cerr != nil {
				s.log.WithError(cerr).Warn("failed to cancel transfers")
			}
		}
	})
}

// Err is the error that stopped the stream, or nil after a clean close.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ReadSample blocks until a sample is available. Samples queued before the stream stopped are
// still returned; after that it returns io.EOF for a clean close or the error that stopped the
// stream.
func (s *Stream) ReadSample(ctx context.Context) (*VideoSample, error) {
	select {
	case sample := <-s.samples:
		return sample, nil
	default:
	}
	select {
	case sample := <-s.samples:
		return sample, nil
	case <-s.done:
		select {
		case sample := <-s.samples:
			return sample, nil
		default:
		}
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Stream) Stats() Stats {
	stats := s.reassembler.Stats()
	stats.Transfers = s.transfers.Load()
	stats.PacketErrors = s.packetErrors.Load()
	return stats
}

// Close stops resubmission and cancels the buffers in flight. Their completions are
// discarded.
func (s *Stream) Close() error {
	s.stop(nil)
	return nil
}
