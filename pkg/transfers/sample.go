package transfers

import (
	"context"
	"io"
)

// VideoSample is one reassembled frame. Data is owned by the sample.
type VideoSample struct {
	Data    []byte
	FrameID bool

	// PTS is taken from the first packet of the frame that carries one.
	PTS    uint32
	HasPTS bool
	// SCR is taken from the last packet of the frame that carries one.
	SCR    SourceClockReference
	HasSCR bool

	Still bool
	// Error is set when any packet of the frame had the payload error bit.
	Error bool

	Sequence uint64
	Packets  int
}

type sampleReader struct {
	s       *Stream
	pending []byte
}

// NewSampleReader returns a reader over the concatenated bytes of every sample the stream
// produces. It returns io.EOF once the stream is closed.
func NewSampleReader(s *Stream) io.Reader {
	return &sampleReader{s: s}
}

func (r *sampleReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		sample, err := r.s.ReadSample(context.Background())
		if err != nil {
			return 0, err
		}
		r.pending = sample.Data
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
