package transfers

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Stats counts what a stream has seen.
type Stats struct {
	Transfers       uint64
	Packets         uint64
	PacketErrors    uint64
	Samples         uint64
	InvalidHeaders  uint64
	Overflows       uint64
	ErroredPayloads uint64
}

type ReassemblerOption func(*Reassembler)

func WithReassemblerLogger(log logrus.FieldLogger) ReassemblerOption {
	return func(r *Reassembler) {
		r.log = log
	}
}

// Reassembler turns payload packets into frames. A frame ends when the frame ID bit toggles
// or after a packet with the end of frame bit. It is safe for concurrent use but expects
// packets in stream order.
type Reassembler struct {
	mu    sync.Mutex
	limit int
	buf   []byte
	log   logrus.FieldLogger

	inProgress bool
	discarding bool
	fid        bool
	sample     VideoSample
	sequence   uint64
	stats      Stats
}

// NewReassembler preallocates a frame buffer of maxVideoFrameSize bytes. Frames larger than
// that are dropped. A zero size lets the buffer grow without bound.
func NewReassembler(maxVideoFrameSize uint32, opts ...ReassemblerOption) *Reassembler {
	r := &Reassembler{
		limit: int(maxVideoFrameSize),
		buf:   make([]byte, 0, maxVideoFrameSize),
		log:   quietLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Push consumes one packet and returns the frames it completed, at most two. A packet with a
// malformed header returns ErrInvalidHeader and leaves the frame in progress untouched.
func (r *Reassembler) Push(packet []byte) ([]*VideoSample, error) {
	if len(packet) == 0 {
		return nil, nil
	}
	var p Payload
	if err := p.UnmarshalBinary(packet); err != nil {
		r.mu.Lock()
		r.stats.InvalidHeaders++
		r.mu.Unlock()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Packets++

	var out []*VideoSample
	if r.inProgress && p.FrameID() != r.fid {
		if s := r.finish(); s != nil {
			out = append(out, s)
		}
	}
	if !r.inProgress {
		r.start(&p)
	}
	r.append(&p)
	if p.EndOfFrame() {
		if s := r.finish(); s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// Flush emits the frame in progress, if any.
func (r *Reassembler) Flush() *VideoSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finish()
}

// Buffered is the size of the frame in progress.
func (r *Reassembler) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

func (r *Reassembler) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Reassembler) start(p *Payload) {
	r.inProgress = true
	r.discarding = false
	r.fid = p.FrameID()
	r.buf = r.buf[:0]
	r.sample = VideoSample{FrameID: p.FrameID()}
}

func (r *Reassembler) append(p *Payload) {
	s := &r.sample
	s.Packets++
	if p.HasPTS() && !s.HasPTS {
		s.PTS, s.HasPTS = p.PTS, true
	}
	if p.HasSCR() {
		s.SCR, s.HasSCR = p.SCR, true
	}
	if p.StillImage() {
		s.Still = true
	}
	if p.Error() {
		r.stats.ErroredPayloads++
		s.Error = true
	}
	if r.discarding {
		return
	}
	if r.limit > 0 && len(r.buf)+len(p.Data) > r.limit {
		r.discarding = true
		r.stats.Overflows++
		r.log.WithFields(logrus.Fields{
			"limit":    r.limit,
			"buffered": len(r.buf),
			"incoming": len(p.Data),
		}).Warn("frame exceeds max video frame size, discarding")
		r.buf = r.buf[:0]
		return
	}
	r.buf = append(r.buf, p.Data...)
}

func (r *Reassembler) finish() *VideoSample {
	if !r.inProgress {
		return nil
	}
	r.inProgress = false
	if r.discarding || len(r.buf) == 0 {
		r.discarding = false
		r.buf = r.buf[:0]
		return nil
	}
	s := r.sample
	s.Data = append([]byte(nil), r.buf...)
	s.Sequence = r.sequence
	r.sequence++
	r.stats.Samples++
	r.buf = r.buf[:0]
	return &s
}
