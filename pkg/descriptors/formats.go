package descriptors

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// VideoFormat is one format descriptor of a streaming interface together with the frames,
// color matching and still image descriptors that follow it.
type VideoFormat struct {
	Index               uint8
	NumFrameDescriptors uint8
	DefaultFrameIndex   uint8
	AspectRatioX        uint8
	AspectRatioY        uint8
	InterlaceFlags      uint8
	CopyProtect         uint8

	Descriptor FormatDescriptor
	Frames     []*VideoFrame

	ColorMatching   *ColorMatchingDescriptor
	StillImageFrame *StillImageFrameDescriptor
}

// Frame returns the frame with bFrameIndex == index, or nil.
func (vf *VideoFormat) Frame(index uint8) *VideoFrame {
	for _, f := range vf.Frames {
		if f.Index == index {
			return f
		}
	}
	return nil
}

// DefaultFrame returns the frame named by bDefaultFrameIndex, falling back to the first frame.
func (vf *VideoFormat) DefaultFrame() *VideoFrame {
	if f := vf.Frame(vf.DefaultFrameIndex); f != nil {
		return f
	}
	if len(vf.Frames) > 0 {
		return vf.Frames[0]
	}
	return nil
}

// FormatDescriptor is implemented by the payload-specific part of each format family.
type FormatDescriptor interface {
	// FrameSubtype is the frame descriptor subtype that may follow this format, or
	// VideoStreamingInterfaceDescriptorSubtypeUndefined if the family has no frame descriptors.
	FrameSubtype() VideoStreamingInterfaceDescriptorSubtype
	isFormatDescriptor()
}

// UnmarshalFormat decodes any VS format descriptor into a VideoFormat.
func UnmarshalFormat(buf []byte) (*VideoFormat, error) {
	if err := need(buf, 4); err != nil {
		return nil, err
	}
	vf := &VideoFormat{Index: buf[3]}
	var err error
	switch VideoStreamingInterfaceDescriptorSubtype(buf[2]) {
	case VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed:
		vf.Descriptor, err = unmarshalUncompressedFormat(vf, buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG:
		vf.Descriptor, err = unmarshalMJPEGFormat(vf, buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatFrameBased:
		vf.Descriptor, err = unmarshalFrameBasedFormat(vf, buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatStreamBased:
		vf.Descriptor, err = unmarshalStreamBasedFormat(buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatMPEG2TS:
		vf.Descriptor, err = unmarshalMPEG2TSFormat(buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatDV:
		vf.Descriptor, err = unmarshalDVFormat(buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatH264, VideoStreamingInterfaceDescriptorSubtypeFormatH264Simulcast:
		vf.Descriptor, err = unmarshalH264Format(vf, buf)
	case VideoStreamingInterfaceDescriptorSubtypeFormatVP8, VideoStreamingInterfaceDescriptorSubtypeFormatVP8Simulcast:
		vf.Descriptor, err = unmarshalVP8Format(vf, buf)
	default:
		return nil, fmt.Errorf("%w: video streaming format 0x%02x", ErrUnknownSubtype, buf[2])
	}
	if err != nil {
		return nil, err
	}
	return vf, nil
}

// UncompressedFormat as defined in UVC 1.5 Uncompressed Payload, 3.1.1
type UncompressedFormat struct {
	GUIDFormat   uuid.UUID
	BitsPerPixel uint8
}

func unmarshalUncompressedFormat(vf *VideoFormat, buf []byte) (*UncompressedFormat, error) {
	if err := need(buf, 27); err != nil {
		return nil, err
	}
	vf.NumFrameDescriptors = buf[4]
	vf.DefaultFrameIndex = buf[22]
	vf.AspectRatioX = buf[23]
	vf.AspectRatioY = buf[24]
	vf.InterlaceFlags = buf[25]
	vf.CopyProtect = buf[26]
	return &UncompressedFormat{
		GUIDFormat:   readGUID(buf[5:21]),
		BitsPerPixel: buf[21],
	}, nil
}

func (*UncompressedFormat) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed
}

func (*UncompressedFormat) isFormatDescriptor() {}

// MJPEGFormat as defined in UVC 1.5 MJPEG Payload, 3.1.1
type MJPEGFormat struct {
	Flags uint8
}

// FixedSizeSamples reports bmFlags bit 0.
func (f *MJPEGFormat) FixedSizeSamples() bool {
	return f.Flags&0x01 != 0
}

func unmarshalMJPEGFormat(vf *VideoFormat, buf []byte) (*MJPEGFormat, error) {
	if err := need(buf, 11); err != nil {
		return nil, err
	}
	vf.NumFrameDescriptors = buf[4]
	vf.DefaultFrameIndex = buf[6]
	vf.AspectRatioX = buf[7]
	vf.AspectRatioY = buf[8]
	vf.InterlaceFlags = buf[9]
	vf.CopyProtect = buf[10]
	return &MJPEGFormat{Flags: buf[5]}, nil
}

func (*MJPEGFormat) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG
}

func (*MJPEGFormat) isFormatDescriptor() {}

// FrameBasedFormat as defined in UVC 1.5 Frame Based Payload, 3.1.1
type FrameBasedFormat struct {
	GUIDFormat   uuid.UUID
	BitsPerPixel uint8
	VariableSize bool
}

func unmarshalFrameBasedFormat(vf *VideoFormat, buf []byte) (*FrameBasedFormat, error) {
	if err := need(buf, 28); err != nil {
		return nil, err
	}
	vf.NumFrameDescriptors = buf[4]
	vf.DefaultFrameIndex = buf[22]
	vf.AspectRatioX = buf[23]
	vf.AspectRatioY = buf[24]
	vf.InterlaceFlags = buf[25]
	vf.CopyProtect = buf[26]
	return &FrameBasedFormat{
		GUIDFormat:   readGUID(buf[5:21]),
		BitsPerPixel: buf[21],
		VariableSize: buf[27] != 0,
	}, nil
}

func (*FrameBasedFormat) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeFrameFrameBased
}

func (*FrameBasedFormat) isFormatDescriptor() {}

// StreamBasedFormat as defined in UVC 1.5 Stream Based Payload, 3.1.1
type StreamBasedFormat struct {
	GUIDFormat   uuid.UUID
	PacketLength uint32
}

func unmarshalStreamBasedFormat(buf []byte) (*StreamBasedFormat, error) {
	if err := need(buf, 24); err != nil {
		return nil, err
	}
	return &StreamBasedFormat{
		GUIDFormat:   readGUID(buf[4:20]),
		PacketLength: binary.LittleEndian.Uint32(buf[20:24]),
	}, nil
}

func (*StreamBasedFormat) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeUndefined
}

func (*StreamBasedFormat) isFormatDescriptor() {}

// MPEG2TSFormat as defined in UVC 1.5 MPEG-2 TS Payload, 3.1.1
type MPEG2TSFormat struct {
	DataOffset   uint8
	PacketLength uint8
	StrideLength uint8
	// GUIDStrideFormat is only present in UVC 1.1 and later.
	GUIDStrideFormat uuid.UUID
}

func unmarshalMPEG2TSFormat(buf []byte) (*MPEG2TSFormat, error) {
	if err := need(buf, 7); err != nil {
		return nil, err
	}
	f := &MPEG2TSFormat{
		DataOffset:   buf[4],
		PacketLength: buf[5],
		StrideLength: buf[6],
	}
	if len(buf) >= 23 {
		f.GUIDStrideFormat = readGUID(buf[7:23])
	}
	return f, nil
}

func (*MPEG2TSFormat) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeUndefined
}

func (*MPEG2TSFormat) isFormatDescriptor() {}

// DVFormat as defined in UVC 1.5 DV Payload, 3.1.1
type DVFormat struct {
	MaxVideoFrameBufferSize uint32
	FormatType              uint8
}

func unmarshalDVFormat(buf []byte) (*DVFormat, error) {
	if err := need(buf, 9); err != nil {
		return nil, err
	}
	return &DVFormat{
		MaxVideoFrameBufferSize: binary.LittleEndian.Uint32(buf[4:8]),
		FormatType:              buf[8],
	}, nil
}

func (*DVFormat) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeUndefined
}

func (*DVFormat) isFormatDescriptor() {}

// H264Format as defined in UVC 1.5 H.264 Payload, 3.1.1
type H264Format struct {
	Simulcast                        bool
	MaxCodecConfigDelay              uint8
	SupportedSliceModesBitmask       uint8
	SupportedSyncFrameTypesBitmask   uint8
	ResolutionScaling                uint8
	SupportedRateControlModesBitmask uint8
	// MaxMBPerSec holds the wMaxMBperSec fields in descriptor order, four resolutions per
	// scalability mode.
	MaxMBPerSec [20]uint16
}

func unmarshalH264Format(vf *VideoFormat, buf []byte) (*H264Format, error) {
	if err := need(buf, 52); err != nil {
		return nil, err
	}
	vf.NumFrameDescriptors = buf[4]
	vf.DefaultFrameIndex = buf[5]
	f := &H264Format{
		Simulcast:                        VideoStreamingInterfaceDescriptorSubtype(buf[2]) == VideoStreamingInterfaceDescriptorSubtypeFormatH264Simulcast,
		MaxCodecConfigDelay:              buf[6],
		SupportedSliceModesBitmask:       buf[7],
		SupportedSyncFrameTypesBitmask:   buf[8],
		ResolutionScaling:                buf[9],
		SupportedRateControlModesBitmask: buf[11],
	}
	// buf[10] reserved
	for i := range f.MaxMBPerSec {
		f.MaxMBPerSec[i] = binary.LittleEndian.Uint16(buf[12+2*i : 14+2*i])
	}
	return f, nil
}

func (*H264Format) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeFrameH264
}

func (*H264Format) isFormatDescriptor() {}

// VP8Format as defined in UVC 1.5 VP8 Payload, 3.1.1
type VP8Format struct {
	Simulcast                        bool
	MaxCodecConfigDelay              uint8
	SupportedPartitionCount          uint8
	SupportedSyncFrameTypesBitmask   uint8
	ResolutionScaling                uint8
	SupportedRateControlModesBitmask uint8
	MaxMBPerSec                      uint16
}

func unmarshalVP8Format(vf *VideoFormat, buf []byte) (*VP8Format, error) {
	if err := need(buf, 13); err != nil {
		return nil, err
	}
	vf.NumFrameDescriptors = buf[4]
	vf.DefaultFrameIndex = buf[5]
	return &VP8Format{
		Simulcast:                        VideoStreamingInterfaceDescriptorSubtype(buf[2]) == VideoStreamingInterfaceDescriptorSubtypeFormatVP8Simulcast,
		MaxCodecConfigDelay:              buf[6],
		SupportedPartitionCount:          buf[7],
		SupportedSyncFrameTypesBitmask:   buf[8],
		ResolutionScaling:                buf[9],
		SupportedRateControlModesBitmask: buf[10],
		MaxMBPerSec:                      binary.LittleEndian.Uint16(buf[11:13]),
	}, nil
}

func (*VP8Format) FrameSubtype() VideoStreamingInterfaceDescriptorSubtype {
	return VideoStreamingInterfaceDescriptorSubtypeFrameVP8
}

func (*VP8Format) isFormatDescriptor() {}
