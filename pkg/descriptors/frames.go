package descriptors

import (
	"encoding/binary"
	"fmt"
	"time"
)

// VideoFrame is a frame descriptor of any family that carries one. Exactly one of
// ContinuousFrameInterval and DiscreteFrameIntervals is populated: FrameIntervalType 0 means a
// continuous range, N > 0 means N discrete intervals.
type VideoFrame struct {
	Index                   uint8
	Capabilities            uint8
	Width, Height           uint16
	MinBitRate, MaxBitRate  uint32
	MaxVideoFrameBufferSize uint32
	DefaultFrameInterval    time.Duration
	FrameIntervalType       uint8

	ContinuousFrameInterval struct {
		MinFrameInterval, MaxFrameInterval, FrameIntervalStep time.Duration
	}
	DiscreteFrameIntervals []time.Duration

	// BytesPerLine is set for frame based frames.
	BytesPerLine uint32

	// The following are set for H.264 and VP8 frames.
	SARWidth, SARHeight            uint16
	Profile                        uint16
	LevelIDC                       uint8
	SupportedUsagesBitmask         uint32
	CapabilitiesBitmask            uint16
	SVCCapabilitiesBitmask         uint32
	MVCCapabilitiesBitmask         uint32
	ScalabilityCapabilitiesBitmask uint32
}

// MaxExpandedIntervals bounds how many entries Intervals produces for a continuous range.
const MaxExpandedIntervals = 64

// Intervals lists every frame interval the frame supports. A continuous range is expanded by
// its step, or reported as its bounds if the step is zero or the range would expand to more
// than MaxExpandedIntervals entries.
func (f *VideoFrame) Intervals() []time.Duration {
	if f.FrameIntervalType > 0 {
		return f.DiscreteFrameIntervals
	}
	c := f.ContinuousFrameInterval
	if c.FrameIntervalStep <= 0 || c.MaxFrameInterval < c.MinFrameInterval ||
		(c.MaxFrameInterval-c.MinFrameInterval)/c.FrameIntervalStep >= MaxExpandedIntervals {
		return []time.Duration{c.MinFrameInterval, c.MaxFrameInterval}
	}
	out := make([]time.Duration, 0, (c.MaxFrameInterval-c.MinFrameInterval)/c.FrameIntervalStep+1)
	for d := c.MinFrameInterval; d <= c.MaxFrameInterval; d += c.FrameIntervalStep {
		out = append(out, d)
	}
	return out
}

// FrameRate is the default frame rate in frames per second.
func (f *VideoFrame) FrameRate() float64 {
	if f.DefaultFrameInterval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(f.DefaultFrameInterval)
}

func (f *VideoFrame) String() string {
	return fmt.Sprintf("%dx%d@%.2ffps", f.Width, f.Height, f.FrameRate())
}

// UnmarshalFrame decodes a VS frame descriptor.
func UnmarshalFrame(buf []byte) (*VideoFrame, error) {
	if err := need(buf, 4); err != nil {
		return nil, err
	}
	f := &VideoFrame{Index: buf[3]}
	var err error
	switch VideoStreamingInterfaceDescriptorSubtype(buf[2]) {
	case VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed, VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG:
		err = f.unmarshalUncompressed(buf)
	case VideoStreamingInterfaceDescriptorSubtypeFrameFrameBased:
		err = f.unmarshalFrameBased(buf)
	case VideoStreamingInterfaceDescriptorSubtypeFrameH264:
		err = f.unmarshalH264(buf)
	case VideoStreamingInterfaceDescriptorSubtypeFrameVP8:
		err = f.unmarshalVP8(buf)
	default:
		return nil, fmt.Errorf("%w: video streaming frame 0x%02x", ErrUnknownSubtype, buf[2])
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func interval(b []byte) time.Duration {
	return time.Duration(binary.LittleEndian.Uint32(b)) * 100 * time.Nanosecond
}

// unmarshalIntervals decodes the frame interval table starting at offset.
func (f *VideoFrame) unmarshalIntervals(buf []byte, offset int) error {
	n := int(f.FrameIntervalType)
	if n == 0 {
		// Continuous frame intervals
		if err := need(buf, offset+12); err != nil {
			return err
		}
		f.ContinuousFrameInterval.MinFrameInterval = interval(buf[offset : offset+4])
		f.ContinuousFrameInterval.MaxFrameInterval = interval(buf[offset+4 : offset+8])
		f.ContinuousFrameInterval.FrameIntervalStep = interval(buf[offset+8 : offset+12])
		return nil
	}
	if err := need(buf, offset+4*n); err != nil {
		return err
	}
	f.DiscreteFrameIntervals = make([]time.Duration, n)
	for i := 0; i < n; i++ {
		f.DiscreteFrameIntervals[i] = interval(buf[offset+4*i : offset+4*i+4])
	}
	return nil
}

// unmarshalUncompressed decodes uncompressed and MJPEG frames, which share a layout.
func (f *VideoFrame) unmarshalUncompressed(buf []byte) error {
	if err := need(buf, 26); err != nil {
		return err
	}
	f.Capabilities = buf[4]
	f.Width = binary.LittleEndian.Uint16(buf[5:7])
	f.Height = binary.LittleEndian.Uint16(buf[7:9])
	f.MinBitRate = binary.LittleEndian.Uint32(buf[9:13])
	f.MaxBitRate = binary.LittleEndian.Uint32(buf[13:17])
	f.MaxVideoFrameBufferSize = binary.LittleEndian.Uint32(buf[17:21])
	f.DefaultFrameInterval = interval(buf[21:25])
	f.FrameIntervalType = buf[25]
	return f.unmarshalIntervals(buf, 26)
}

func (f *VideoFrame) unmarshalFrameBased(buf []byte) error {
	if err := need(buf, 26); err != nil {
		return err
	}
	f.Capabilities = buf[4]
	f.Width = binary.LittleEndian.Uint16(buf[5:7])
	f.Height = binary.LittleEndian.Uint16(buf[7:9])
	f.MinBitRate = binary.LittleEndian.Uint32(buf[9:13])
	f.MaxBitRate = binary.LittleEndian.Uint32(buf[13:17])
	f.DefaultFrameInterval = interval(buf[17:21])
	f.FrameIntervalType = buf[21]
	f.BytesPerLine = binary.LittleEndian.Uint32(buf[22:26])
	return f.unmarshalIntervals(buf, 26)
}

func (f *VideoFrame) unmarshalH264(buf []byte) error {
	if err := need(buf, 44); err != nil {
		return err
	}
	f.Width = binary.LittleEndian.Uint16(buf[4:6])
	f.Height = binary.LittleEndian.Uint16(buf[6:8])
	f.SARWidth = binary.LittleEndian.Uint16(buf[8:10])
	f.SARHeight = binary.LittleEndian.Uint16(buf[10:12])
	f.Profile = binary.LittleEndian.Uint16(buf[12:14])
	f.LevelIDC = buf[14]
	// buf[15:17] reserved
	f.SupportedUsagesBitmask = binary.LittleEndian.Uint32(buf[17:21])
	f.CapabilitiesBitmask = binary.LittleEndian.Uint16(buf[21:23])
	f.SVCCapabilitiesBitmask = binary.LittleEndian.Uint32(buf[23:27])
	f.MVCCapabilitiesBitmask = binary.LittleEndian.Uint32(buf[27:31])
	f.MinBitRate = binary.LittleEndian.Uint32(buf[31:35])
	f.MaxBitRate = binary.LittleEndian.Uint32(buf[35:39])
	f.DefaultFrameInterval = interval(buf[39:43])
	f.FrameIntervalType = buf[43]
	return f.unmarshalIntervals(buf, 44)
}

func (f *VideoFrame) unmarshalVP8(buf []byte) error {
	if err := need(buf, 31); err != nil {
		return err
	}
	f.Width = binary.LittleEndian.Uint16(buf[4:6])
	f.Height = binary.LittleEndian.Uint16(buf[6:8])
	f.SupportedUsagesBitmask = binary.LittleEndian.Uint32(buf[8:12])
	f.CapabilitiesBitmask = binary.LittleEndian.Uint16(buf[12:14])
	f.ScalabilityCapabilitiesBitmask = binary.LittleEndian.Uint32(buf[14:18])
	f.MinBitRate = binary.LittleEndian.Uint32(buf[18:22])
	f.MaxBitRate = binary.LittleEndian.Uint32(buf[22:26])
	f.DefaultFrameInterval = interval(buf[26:30])
	f.FrameIntervalType = buf[30]
	return f.unmarshalIntervals(buf, 31)
}
