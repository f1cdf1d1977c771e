// This file implements the descriptors as defined in the UVC spec 1.5, section 3.7.
package descriptors

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Unit is implemented by every terminal and unit of a video function's control graph.
type Unit interface {
	ID() uint8
	// Sources returns the IDs this unit receives data from, in declaration order.
	Sources() []uint8
	isUnit()
}

// UnmarshalUnit decodes a class-specific VC descriptor other than the header.
func UnmarshalUnit(buf []byte) (Unit, error) {
	if err := need(buf, 3); err != nil {
		return nil, err
	}
	var desc interface {
		Unit
		UnmarshalBinary([]byte) error
	}
	switch VideoControlInterfaceDescriptorSubtype(buf[2]) {
	case VideoControlInterfaceDescriptorSubtypeInputTerminal:
		if err := need(buf, 6); err != nil {
			return nil, err
		}
		if InputTerminalType(binary.LittleEndian.Uint16(buf[4:6])) == InputTerminalTypeCamera {
			desc = &CameraTerminal{}
		} else {
			desc = &InputTerminal{}
		}
	case VideoControlInterfaceDescriptorSubtypeOutputTerminal:
		desc = &OutputTerminal{}
	case VideoControlInterfaceDescriptorSubtypeSelectorUnit:
		desc = &SelectorUnit{}
	case VideoControlInterfaceDescriptorSubtypeProcessingUnit:
		desc = &ProcessingUnit{}
	case VideoControlInterfaceDescriptorSubtypeEncodingUnit:
		desc = &EncodingUnit{}
	case VideoControlInterfaceDescriptorSubtypeExtensionUnit:
		desc = &ExtensionUnit{}
	default:
		return nil, fmt.Errorf("%w: video control 0x%02x", ErrUnknownSubtype, buf[2])
	}
	return desc, desc.UnmarshalBinary(buf)
}

type VideoControlInterfaceDescriptorSubtype byte

const (
	VideoControlInterfaceDescriptorSubtypeUndefined      VideoControlInterfaceDescriptorSubtype = 0x00
	VideoControlInterfaceDescriptorSubtypeHeader         VideoControlInterfaceDescriptorSubtype = 0x01
	VideoControlInterfaceDescriptorSubtypeInputTerminal  VideoControlInterfaceDescriptorSubtype = 0x02
	VideoControlInterfaceDescriptorSubtypeOutputTerminal VideoControlInterfaceDescriptorSubtype = 0x03
	VideoControlInterfaceDescriptorSubtypeSelectorUnit   VideoControlInterfaceDescriptorSubtype = 0x04
	VideoControlInterfaceDescriptorSubtypeProcessingUnit VideoControlInterfaceDescriptorSubtype = 0x05
	VideoControlInterfaceDescriptorSubtypeExtensionUnit  VideoControlInterfaceDescriptorSubtype = 0x06
	VideoControlInterfaceDescriptorSubtypeEncodingUnit   VideoControlInterfaceDescriptorSubtype = 0x07
)

type TerminalType uint16

const (
	TerminalTypeVendorSpecific TerminalType = 0x0100
	TerminalTypeStreaming      TerminalType = 0x0101
)

type InputTerminalType uint16

const (
	InputTerminalTypeVendorSpecific      InputTerminalType = 0x0200
	InputTerminalTypeCamera              InputTerminalType = 0x0201
	InputTerminalTypeMediaTransportInput InputTerminalType = 0x0202
)

type OutputTerminalType uint16

const (
	OutputTerminalTypeVendorSpecific       OutputTerminalType = 0x0300
	OutputTerminalTypeDisplay              OutputTerminalType = 0x0301
	OutputTerminalTypeMediaTransportOutput OutputTerminalType = 0x0302
)

func checkSubtype(buf []byte, subtype VideoControlInterfaceDescriptorSubtype) error {
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeInterface {
		return ErrInvalidDescriptor
	}
	if VideoControlInterfaceDescriptorSubtype(buf[2]) != subtype {
		return ErrInvalidDescriptor
	}
	return nil
}

// HeaderDescriptor as defined in UVC spec 1.5, 3.7.2.1
type HeaderDescriptor struct {
	UVC                            BinaryCodedDecimal
	TotalLength                    uint16
	ClockFrequency                 uint32
	VideoStreamingInterfaceIndexes []uint8
}

func (hd *HeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 12); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeHeader); err != nil {
		return err
	}
	n := int(buf[11])
	if err := need(buf, 12+n); err != nil {
		return err
	}
	hd.UVC = BinaryCodedDecimal(binary.LittleEndian.Uint16(buf[3:5]))
	hd.TotalLength = binary.LittleEndian.Uint16(buf[5:7])
	hd.ClockFrequency = binary.LittleEndian.Uint32(buf[7:11])
	hd.VideoStreamingInterfaceIndexes = make([]uint8, n)
	copy(hd.VideoStreamingInterfaceIndexes, buf[12:12+n])
	return nil
}

// InputTerminal as defined in UVC spec 1.5, 3.7.2.1
type InputTerminal struct {
	TerminalID           uint8
	TerminalType         InputTerminalType
	AssociatedTerminalID uint8
	DescriptionIndex     uint8
}

func (it *InputTerminal) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeInputTerminal); err != nil {
		return err
	}
	it.TerminalID = buf[3]
	it.TerminalType = InputTerminalType(binary.LittleEndian.Uint16(buf[4:6]))
	it.AssociatedTerminalID = buf[6]
	it.DescriptionIndex = buf[7]
	return nil
}

func (it *InputTerminal) ID() uint8        { return it.TerminalID }
func (it *InputTerminal) Sources() []uint8 { return nil }
func (it *InputTerminal) isUnit()          {}

// CameraTerminal as defined in UVC spec 1.5, 3.7.2.3
type CameraTerminal struct {
	InputTerminal
	ObjectiveFocalLengthMin uint16
	ObjectiveFocalLengthMax uint16
	OcularFocalLength       uint16
	ControlsBitmask         uint32
}

func (ct *CameraTerminal) UnmarshalBinary(buf []byte) error {
	if err := ct.InputTerminal.UnmarshalBinary(buf); err != nil {
		return err
	}
	if ct.TerminalType != InputTerminalTypeCamera {
		return ErrInvalidDescriptor
	}
	if err := need(buf, 15); err != nil {
		return err
	}
	n := int(buf[14])
	if err := need(buf, 15+n); err != nil {
		return err
	}
	ct.ObjectiveFocalLengthMin = binary.LittleEndian.Uint16(buf[8:10])
	ct.ObjectiveFocalLengthMax = binary.LittleEndian.Uint16(buf[10:12])
	ct.OcularFocalLength = binary.LittleEndian.Uint16(buf[12:14])
	ct.ControlsBitmask = bitmask(buf[15 : 15+n])
	return nil
}

// OutputTerminal as defined in UVC spec 1.5, 3.7.2.2
type OutputTerminal struct {
	TerminalID           uint8
	TerminalType         OutputTerminalType
	AssociatedTerminalID uint8
	SourceID             uint8
	DescriptionIndex     uint8
}

func (ot *OutputTerminal) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 9); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeOutputTerminal); err != nil {
		return err
	}
	ot.TerminalID = buf[3]
	ot.TerminalType = OutputTerminalType(binary.LittleEndian.Uint16(buf[4:6]))
	ot.AssociatedTerminalID = buf[6]
	ot.SourceID = buf[7]
	ot.DescriptionIndex = buf[8]
	return nil
}

func (ot *OutputTerminal) ID() uint8        { return ot.TerminalID }
func (ot *OutputTerminal) Sources() []uint8 { return []uint8{ot.SourceID} }
func (ot *OutputTerminal) isUnit()          {}

// SelectorUnit as defined in UVC spec 1.5, 3.7.2.4
type SelectorUnit struct {
	UnitID           uint8
	SourceIDs        []uint8
	DescriptionIndex uint8
}

func (su *SelectorUnit) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 5); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeSelectorUnit); err != nil {
		return err
	}
	p := int(buf[4])
	if err := need(buf, 6+p); err != nil {
		return err
	}
	su.UnitID = buf[3]
	su.SourceIDs = make([]uint8, p)
	copy(su.SourceIDs, buf[5:5+p])
	su.DescriptionIndex = buf[5+p]
	return nil
}

func (su *SelectorUnit) ID() uint8        { return su.UnitID }
func (su *SelectorUnit) Sources() []uint8 { return su.SourceIDs }
func (su *SelectorUnit) isUnit()          {}

// ProcessingUnit as defined in UVC spec 1.5, 3.7.2.5
type ProcessingUnit struct {
	UnitID                uint8
	SourceID              uint8
	MaxMultiplier         uint16
	ControlsBitmask       uint32
	DescriptionIndex      uint8
	VideoStandardsBitmask uint8
}

func (pu *ProcessingUnit) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeProcessingUnit); err != nil {
		return err
	}
	n := int(buf[7])
	if err := need(buf, 9+n); err != nil {
		return err
	}
	pu.UnitID = buf[3]
	pu.SourceID = buf[4]
	pu.MaxMultiplier = binary.LittleEndian.Uint16(buf[5:7])
	pu.ControlsBitmask = bitmask(buf[8 : 8+n])
	pu.DescriptionIndex = buf[8+n]
	if len(buf) > 9+n {
		// bmVideoStandards was added in UVC 1.1.
		pu.VideoStandardsBitmask = buf[9+n]
	}
	return nil
}

func (pu *ProcessingUnit) ID() uint8        { return pu.UnitID }
func (pu *ProcessingUnit) Sources() []uint8 { return []uint8{pu.SourceID} }
func (pu *ProcessingUnit) isUnit()          {}

// EncodingUnit as defined in UVC spec 1.5, 3.7.2.6
type EncodingUnit struct {
	UnitID                 uint8
	SourceID               uint8
	DescriptionIndex       uint8
	ControlsBitmask        uint32
	ControlsRuntimeBitmask uint32
}

func (eu *EncodingUnit) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 7); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeEncodingUnit); err != nil {
		return err
	}
	n := int(buf[6])
	if err := need(buf, 7+2*n); err != nil {
		return err
	}
	eu.UnitID = buf[3]
	eu.SourceID = buf[4]
	eu.DescriptionIndex = buf[5]
	eu.ControlsBitmask = bitmask(buf[7 : 7+n])
	eu.ControlsRuntimeBitmask = bitmask(buf[7+n : 7+2*n])
	return nil
}

func (eu *EncodingUnit) ID() uint8        { return eu.UnitID }
func (eu *EncodingUnit) Sources() []uint8 { return []uint8{eu.SourceID} }
func (eu *EncodingUnit) isUnit()          {}

// ExtensionUnit as defined in UVC spec 1.5, 3.7.2.7
type ExtensionUnit struct {
	UnitID            uint8
	GUIDExtensionCode uuid.UUID
	NumControls       uint8
	SourceIDs         []uint8
	// ControlsBitmask is vendor defined and kept opaque.
	ControlsBitmask  []byte
	DescriptionIndex uint8
}

func (xu *ExtensionUnit) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 22); err != nil {
		return err
	}
	if err := checkSubtype(buf, VideoControlInterfaceDescriptorSubtypeExtensionUnit); err != nil {
		return err
	}
	p := int(buf[21])
	if err := need(buf, 23+p); err != nil {
		return err
	}
	n := int(buf[22+p])
	if err := need(buf, 24+p+n); err != nil {
		return err
	}
	xu.UnitID = buf[3]
	xu.GUIDExtensionCode = readGUID(buf[4:20])
	xu.NumControls = buf[20]
	xu.SourceIDs = make([]uint8, p)
	copy(xu.SourceIDs, buf[22:22+p])
	xu.ControlsBitmask = make([]byte, n)
	copy(xu.ControlsBitmask, buf[23+p:23+p+n])
	xu.DescriptionIndex = buf[23+p+n]
	return nil
}

func (xu *ExtensionUnit) ID() uint8        { return xu.UnitID }
func (xu *ExtensionUnit) Sources() []uint8 { return xu.SourceIDs }
func (xu *ExtensionUnit) isUnit()          {}

// bitmask reads a little-endian control bitmap of up to four bytes.
func bitmask(b []byte) uint32 {
	var v uint32
	for i := 0; i < len(b) && i < 4; i++ {
		v |= uint32(b[i]) << (8 * i)
	}
	return v
}
