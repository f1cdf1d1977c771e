package transfers

import (
	"time"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
)

// FormatRequest names the format, frame and interval to negotiate. Zero indexes select the
// first format and its first frame; a zero interval selects the frame's default.
type FormatRequest struct {
	FormatIndex   uint8
	FrameIndex    uint8
	FrameInterval time.Duration
}

// NegotiatedStreamParameters is the committed stream configuration and the alternate setting
// chosen to carry it. It is not modified after Establish returns.
type NegotiatedStreamParameters struct {
	FormatIndex            uint8
	FrameIndex             uint8
	FrameInterval          time.Duration
	MaxVideoFrameSize      uint32
	MaxPayloadTransferSize uint32
	ClockFrequency         uint32
	FramingInfo            uint8

	InterfaceNumber  uint8
	AlternateSetting uint8
	EndpointAddress  uint8
	PacketSize       uint32
}

// ProbeCommitControl renders the parameters as the probe/commit block that produced them.
func (p *NegotiatedStreamParameters) ProbeCommitControl() *descriptors.VideoProbeCommitControl {
	return &descriptors.VideoProbeCommitControl{
		HintBitmask:            descriptors.HintFrameInterval,
		FormatIndex:            p.FormatIndex,
		FrameIndex:             p.FrameIndex,
		FrameInterval:          p.FrameInterval,
		MaxVideoFrameSize:      p.MaxVideoFrameSize,
		MaxPayloadTransferSize: p.MaxPayloadTransferSize,
		ClockFrequency:         p.ClockFrequency,
		FramingInfoBitmask:     p.FramingInfo,
	}
}

// ParametersFromProbe extracts the stream parameters carried by a probe/commit block. The
// alternate setting fields are left zero.
func ParametersFromProbe(vpcc *descriptors.VideoProbeCommitControl) *NegotiatedStreamParameters {
	return &NegotiatedStreamParameters{
		FormatIndex:            vpcc.FormatIndex,
		FrameIndex:             vpcc.FrameIndex,
		FrameInterval:          vpcc.FrameInterval,
		MaxVideoFrameSize:      vpcc.MaxVideoFrameSize,
		MaxPayloadTransferSize: vpcc.MaxPayloadTransferSize,
		ClockFrequency:         vpcc.ClockFrequency,
		FramingInfo:            vpcc.FramingInfoBitmask,
	}
}

func (p *NegotiatedStreamParameters) FrameIDRequired() bool {
	return p.FramingInfo&descriptors.FramingInfoFrameIDRequired != 0
}

func (p *NegotiatedStreamParameters) EndOfFrameAllowed() bool {
	return p.FramingInfo&descriptors.FramingInfoEndOfFrame != 0
}

// PacketsPerTransfer is enough packets to carry one frame, capped at 128.
func (p *NegotiatedStreamParameters) PacketsPerTransfer() int {
	if p.PacketSize == 0 {
		return 1
	}
	return int(min((p.MaxVideoFrameSize+p.PacketSize-1)/p.PacketSize, 128))
}
