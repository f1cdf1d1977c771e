package transfers

import (
	"encoding/binary"
)

// SourceClockReference is the SCR field of a payload header: the device's source time clock
// and the USB frame counter it was sampled at.
type SourceClockReference struct {
	SourceTimeClock uint32
	TokenCounter    uint16
}

// Payload is one packet of a video stream, as defined in UVC spec 1.5, 2.4.3.3
type Payload struct {
	HeaderLength      uint8
	HeaderInfoBitmask uint8
	PTS               uint32
	SCR               SourceClockReference
	Data              []byte
}

func (f *Payload) FrameID() bool {
	return f.HeaderInfoBitmask&0b00000001 != 0
}

func (f *Payload) EndOfFrame() bool {
	return f.HeaderInfoBitmask&0b00000010 != 0
}

func (f *Payload) HasPTS() bool {
	return f.HeaderInfoBitmask&0b00000100 != 0
}

func (f *Payload) HasSCR() bool {
	return f.HeaderInfoBitmask&0b00001000 != 0
}

func (f *Payload) PayloadSpecificBit() bool {
	return f.HeaderInfoBitmask&0b00010000 != 0
}

func (f *Payload) StillImage() bool {
	return f.HeaderInfoBitmask&0b00100000 != 0
}

func (f *Payload) Error() bool {
	return f.HeaderInfoBitmask&0b01000000 != 0
}

func (f *Payload) EndOfHeader() bool {
	return f.HeaderInfoBitmask&0b10000000 != 0
}

// UnmarshalBinary parses the header of buf. Data aliases buf past bHeaderLength. A header
// shorter than 2 bytes, longer than the packet or too short for the PTS/SCR fields it flags
// is rejected with ErrInvalidHeader.
func (f *Payload) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2 {
		return ErrInvalidHeader
	}
	hl := int(buf[0])
	if hl < 2 || hl > len(buf) {
		return ErrInvalidHeader
	}
	bitmask := buf[1]
	required := 2
	if bitmask&0b00000100 != 0 {
		required += 4
	}
	if bitmask&0b00001000 != 0 {
		required += 6
	}
	if hl < required {
		return ErrInvalidHeader
	}
	f.HeaderLength = buf[0]
	f.HeaderInfoBitmask = bitmask
	f.PTS = 0
	f.SCR = SourceClockReference{}
	offset := 2
	if f.HasPTS() {
		f.PTS = binary.LittleEndian.Uint32(buf[offset : offset+4])
		offset += 4
	}
	if f.HasSCR() {
		f.SCR.SourceTimeClock = binary.LittleEndian.Uint32(buf[offset : offset+4])
		offset += 4
		f.SCR.TokenCounter = binary.LittleEndian.Uint16(buf[offset : offset+2])
	}
	f.Data = buf[hl:]
	return nil
}
