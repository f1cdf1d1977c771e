package descriptors

import (
	"encoding/binary"
	"time"
)

// ProbeCommitControlSize is the length of the probe/commit block defined by UVC 1.5. Devices
// implementing earlier revisions report 26 (1.0) or 34 (1.1) bytes.
const ProbeCommitControlSize = 48

const (
	// HintFrameInterval asks the device to keep dwFrameInterval fixed.
	HintFrameInterval  uint16 = 1 << 0
	HintKeyFrameRate   uint16 = 1 << 1
	HintPFrameRate     uint16 = 1 << 2
	HintCompQuality    uint16 = 1 << 3
	HintCompWindowSize uint16 = 1 << 4
)

const (
	FramingInfoFrameIDRequired uint8 = 1 << 0
	FramingInfoEndOfFrame      uint8 = 1 << 1
	FramingInfoEndOfSlice      uint8 = 1 << 2
)

// VideoProbeCommitControl as defined in UVC spec 1.5, 4.3.1.1
type VideoProbeCommitControl struct {
	HintBitmask            uint16
	FormatIndex            uint8
	FrameIndex             uint8
	FrameInterval          time.Duration
	KeyFrameRate           uint16
	PFrameRate             uint16
	CompQuality            uint16
	CompWindowSize         uint16
	Delay                  uint16
	MaxVideoFrameSize      uint32
	MaxPayloadTransferSize uint32

	// added in uvc 1.1
	ClockFrequency     uint32
	FramingInfoBitmask uint8
	PreferedVersion    uint8
	MinVersion         uint8
	MaxVersion         uint8

	// added in uvc 1.5
	Usage                     uint8
	BitDepthLuma              uint8
	SettingsBitmask           uint8
	MaxNumberOfRefFramesPlus1 uint8
	RateControlModes          uint16
	LayoutPerStream           [4]uint16
}

// MarshalInto writes as many fields as fit in buf, which must hold at least the 26 bytes of a
// UVC 1.0 block.
func (vpcc *VideoProbeCommitControl) MarshalInto(buf []byte) error {
	if err := need(buf, 26); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf[0:2], vpcc.HintBitmask)
	buf[2] = vpcc.FormatIndex
	buf[3] = vpcc.FrameIndex
	binary.LittleEndian.PutUint32(buf[4:8], uint32(vpcc.FrameInterval/100/time.Nanosecond))
	binary.LittleEndian.PutUint16(buf[8:10], vpcc.KeyFrameRate)
	binary.LittleEndian.PutUint16(buf[10:12], vpcc.PFrameRate)
	binary.LittleEndian.PutUint16(buf[12:14], vpcc.CompQuality)
	binary.LittleEndian.PutUint16(buf[14:16], vpcc.CompWindowSize)
	binary.LittleEndian.PutUint16(buf[16:18], vpcc.Delay)
	binary.LittleEndian.PutUint32(buf[18:22], vpcc.MaxVideoFrameSize)
	binary.LittleEndian.PutUint32(buf[22:26], vpcc.MaxPayloadTransferSize)
	if len(buf) >= 34 {
		binary.LittleEndian.PutUint32(buf[26:30], vpcc.ClockFrequency)
		buf[30] = vpcc.FramingInfoBitmask
		buf[31] = vpcc.PreferedVersion
		buf[32] = vpcc.MinVersion
		buf[33] = vpcc.MaxVersion
	}
	if len(buf) >= ProbeCommitControlSize {
		buf[34] = vpcc.Usage
		buf[35] = vpcc.BitDepthLuma
		buf[36] = vpcc.SettingsBitmask
		buf[37] = vpcc.MaxNumberOfRefFramesPlus1
		binary.LittleEndian.PutUint16(buf[38:40], vpcc.RateControlModes)
		for i, layout := range vpcc.LayoutPerStream {
			binary.LittleEndian.PutUint16(buf[40+2*i:42+2*i], layout)
		}
	}
	return nil
}

func (vpcc *VideoProbeCommitControl) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ProbeCommitControlSize)
	return buf, vpcc.MarshalInto(buf)
}

func (vpcc *VideoProbeCommitControl) UnmarshalBinary(buf []byte) error {
	// this block is not length and control-selector prefixed because
	// the control transfer carries only the data stage.
	if err := need(buf, 26); err != nil {
		return err
	}
	vpcc.HintBitmask = binary.LittleEndian.Uint16(buf[0:2])
	vpcc.FormatIndex = buf[2]
	vpcc.FrameIndex = buf[3]
	vpcc.FrameInterval = time.Duration(binary.LittleEndian.Uint32(buf[4:8])) * 100 * time.Nanosecond

	vpcc.KeyFrameRate = binary.LittleEndian.Uint16(buf[8:10])
	vpcc.PFrameRate = binary.LittleEndian.Uint16(buf[10:12])

	vpcc.CompQuality = binary.LittleEndian.Uint16(buf[12:14])
	vpcc.CompWindowSize = binary.LittleEndian.Uint16(buf[14:16])

	vpcc.Delay = binary.LittleEndian.Uint16(buf[16:18])

	vpcc.MaxVideoFrameSize = binary.LittleEndian.Uint32(buf[18:22])
	vpcc.MaxPayloadTransferSize = binary.LittleEndian.Uint32(buf[22:26])

	if len(buf) >= 34 {
		vpcc.ClockFrequency = binary.LittleEndian.Uint32(buf[26:30])
		vpcc.FramingInfoBitmask = buf[30]
		vpcc.PreferedVersion = buf[31]
		vpcc.MinVersion = buf[32]
		vpcc.MaxVersion = buf[33]
	}

	if len(buf) >= ProbeCommitControlSize {
		vpcc.Usage = buf[34]
		vpcc.BitDepthLuma = buf[35]
		vpcc.SettingsBitmask = buf[36]
		vpcc.MaxNumberOfRefFramesPlus1 = buf[37]
		vpcc.RateControlModes = binary.LittleEndian.Uint16(buf[38:40])
		for i := range vpcc.LayoutPerStream {
			vpcc.LayoutPerStream[i] = binary.LittleEndian.Uint16(buf[40+2*i : 42+2*i])
		}
	}
	return nil
}

// FrameIDRequired reports framing info bit 0.
func (vpcc *VideoProbeCommitControl) FrameIDRequired() bool {
	return vpcc.FramingInfoBitmask&FramingInfoFrameIDRequired != 0
}

// EndOfFrameAllowed reports framing info bit 1.
func (vpcc *VideoProbeCommitControl) EndOfFrameAllowed() bool {
	return vpcc.FramingInfoBitmask&FramingInfoEndOfFrame != 0
}
