// This file implements the endpoint descriptors as defined in the UVC spec 1.5, sections 3.8 and 3.10.
package descriptors

import (
	"encoding/binary"
)

type EndpointDirection uint8

const (
	EndpointDirectionOut EndpointDirection = 0
	EndpointDirectionIn  EndpointDirection = 0x80
)

var endpointDirectionDescription = map[EndpointDirection]string{
	EndpointDirectionOut: "out",
	EndpointDirectionIn:  "in",
}

func (d EndpointDirection) String() string {
	return endpointDirectionDescription[d]
}

type TransferType uint8

const (
	TransferTypeControl     TransferType = 0
	TransferTypeIsochronous TransferType = 1
	TransferTypeBulk        TransferType = 2
	TransferTypeInterrupt   TransferType = 3
)

var transferTypeDescription = map[TransferType]string{
	TransferTypeControl:     "control",
	TransferTypeIsochronous: "isochronous",
	TransferTypeBulk:        "bulk",
	TransferTypeInterrupt:   "interrupt",
}

func (t TransferType) String() string {
	return transferTypeDescription[t]
}

type IsoSyncType uint8

const (
	IsoSyncTypeNone     IsoSyncType = 0
	IsoSyncTypeAsync    IsoSyncType = 1
	IsoSyncTypeAdaptive IsoSyncType = 2
	IsoSyncTypeSync     IsoSyncType = 3
)

var isoSyncTypeDescription = map[IsoSyncType]string{
	IsoSyncTypeNone:     "none",
	IsoSyncTypeAsync:    "async",
	IsoSyncTypeAdaptive: "adaptive",
	IsoSyncTypeSync:     "sync",
}

func (t IsoSyncType) String() string {
	return isoSyncTypeDescription[t]
}

type IsoUsageType uint8

const (
	IsoUsageTypeData     IsoUsageType = 0
	IsoUsageTypeFeedback IsoUsageType = 1
	IsoUsageTypeImplicit IsoUsageType = 2
)

type VideoControlEndpointDescriptorSubtype byte

const (
	VideoControlEndpointDescriptorSubtypeUndefined VideoControlEndpointDescriptorSubtype = 0x00
	VideoControlEndpointDescriptorSubtypeGeneral   VideoControlEndpointDescriptorSubtype = 0x01
	VideoControlEndpointDescriptorSubtypeEndpoint  VideoControlEndpointDescriptorSubtype = 0x02
	VideoControlEndpointDescriptorSubtypeInterrupt VideoControlEndpointDescriptorSubtype = 0x03
)

// Endpoint is a standard endpoint descriptor, UVC spec 1.5, 3.8.2.1 and 3.10.1.
type Endpoint struct {
	Address       uint8
	Attributes    uint8
	MaxPacketSize uint16
	Interval      uint8

	// Interrupt is set when a class-specific VC interrupt endpoint descriptor follows.
	Interrupt *ClassSpecificInterruptEndpointDescriptor
	// Companion is set on SuperSpeed devices.
	Companion *SuperSpeedEndpointCompanionDescriptor
	// Extra holds any other class-specific endpoint descriptor, unparsed.
	Extra [][]byte
}

func (ep *Endpoint) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 7); err != nil {
		return err
	}
	ep.Address = buf[2]
	ep.Attributes = buf[3]
	ep.MaxPacketSize = binary.LittleEndian.Uint16(buf[4:6])
	ep.Interval = buf[6]
	return nil
}

func (ep *Endpoint) Number() uint8 {
	return ep.Address & 0x0f
}

func (ep *Endpoint) Direction() EndpointDirection {
	return EndpointDirection(ep.Address & 0x80)
}

func (ep *Endpoint) TransferType() TransferType {
	return TransferType(ep.Attributes & 0x03)
}

func (ep *Endpoint) SyncType() IsoSyncType {
	return IsoSyncType((ep.Attributes >> 2) & 0x03)
}

func (ep *Endpoint) UsageType() IsoUsageType {
	return IsoUsageType((ep.Attributes >> 4) & 0x03)
}

// EffectiveMaxPacketSize is the number of bytes the endpoint moves per service interval.
// High-bandwidth isochronous and interrupt endpoints encode up to two additional transactions
// per microframe in bits 11..12. SuperSpeed endpoints report it in the companion descriptor.
func (ep *Endpoint) EffectiveMaxPacketSize() uint32 {
	if ep.Companion != nil && ep.Companion.BytesPerInterval > 0 {
		return uint32(ep.Companion.BytesPerInterval)
	}
	val := uint32(ep.MaxPacketSize & 0x07ff)
	switch ep.TransferType() {
	case TransferTypeIsochronous, TransferTypeInterrupt:
		val *= 1 + uint32((ep.MaxPacketSize>>11)&0x03)
	}
	return val
}

// ClassSpecificInterruptEndpointDescriptor as defined in UVC spec 1.5, 3.8.2.2
type ClassSpecificInterruptEndpointDescriptor struct {
	MaxTransferSize uint16
}

func (d *ClassSpecificInterruptEndpointDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 5); err != nil {
		return err
	}
	if ClassSpecificDescriptorType(buf[1]) != ClassSpecificDescriptorTypeEndpoint {
		return ErrInvalidDescriptor
	}
	if VideoControlEndpointDescriptorSubtype(buf[2]) != VideoControlEndpointDescriptorSubtypeInterrupt {
		return ErrInvalidDescriptor
	}
	d.MaxTransferSize = binary.LittleEndian.Uint16(buf[3:5])
	return nil
}

// SuperSpeedEndpointCompanionDescriptor as defined in USB 3.2, 9.6.7
type SuperSpeedEndpointCompanionDescriptor struct {
	MaxBurst         uint8
	Attributes       uint8
	BytesPerInterval uint16
}

func (d *SuperSpeedEndpointCompanionDescriptor) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 6); err != nil {
		return err
	}
	d.MaxBurst = buf[2]
	d.Attributes = buf[3]
	d.BytesPerInterval = binary.LittleEndian.Uint16(buf[4:6])
	return nil
}
