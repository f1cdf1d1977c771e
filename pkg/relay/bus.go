// Package relay republishes the samples of a running stream over HTTP: an MJPEG multipart
// feed, a websocket feed of sample metadata and JSON descriptions of the negotiated stream.
package relay

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/kevmo314/go-uvc-engine/pkg/transfers"
)

var (
	ErrBusClosed          = errors.New("bus is closed")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// Frame is one published sample.
type Frame struct {
	Sequence    uint64
	Data        []byte
	ContentType string
	FrameID     bool
	PTS         uint32
	HasPTS      bool
	Error       bool
	Time        time.Time
}

// NewFrame wraps a sample, sniffing its content type from the payload.
func NewFrame(s *transfers.VideoSample) Frame {
	return Frame{
		Sequence:    s.Sequence,
		Data:        s.Data,
		ContentType: mimetype.Detect(s.Data).String(),
		FrameID:     s.FrameID,
		PTS:         s.PTS,
		HasPTS:      s.HasPTS,
		Error:       s.Error,
		Time:        time.Now(),
	}
}

type BusStats struct {
	Published   uint64
	Sent        uint64
	Dropped     uint64
	Subscribers map[string]SubscriberStats
}

type SubscriberStats struct {
	Sent    uint64
	Dropped uint64
}

type subscriber struct {
	ch      chan Frame
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// Bus fans frames out to subscribers. A subscriber whose buffer is full misses the frame
// instead of stalling the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	closed      bool
	published   atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]*subscriber)}
}

// Subscribe registers a subscriber with room for buffer frames and returns its id and
// channel. The channel is closed by Unsubscribe or Close.
func (b *Bus) Subscribe(buffer int) (string, <-chan Frame, error) {
	if buffer < 1 {
		buffer = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", nil, ErrBusClosed
	}
	id := uuid.NewString()
	sub := &subscriber{ch: make(chan Frame, buffer)}
	b.subscribers[id] = sub
	return id, sub.ch, nil
}

func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	sub, ok := b.subscribers[id]
	if !ok {
		return ErrSubscriberNotFound
	}
	delete(b.subscribers, id)
	close(sub.ch)
	return nil
}

// Publish offers f to every subscriber without blocking. Publishing on a closed bus is a
// no-op.
func (b *Bus) Publish(f Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	b.published.Add(1)
	for _, sub := range b.subscribers {
		select {
		case sub.ch <- f:
			sub.sent.Add(1)
		default:
			sub.dropped.Add(1)
		}
	}
}

func (b *Bus) Stats() BusStats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	stats := BusStats{
		Published:   b.published.Load(),
		Subscribers: make(map[string]SubscriberStats, len(b.subscribers)),
	}
	for id, sub := range b.subscribers {
		s := SubscriberStats{Sent: sub.sent.Load(), Dropped: sub.dropped.Load()}
		stats.Sent += s.Sent
		stats.Dropped += s.Dropped
		stats.Subscribers[id] = s
	}
	return stats
}

// Close closes every subscriber channel. Closing twice is a no-op.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	return nil
}
