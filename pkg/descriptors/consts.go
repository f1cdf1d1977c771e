package descriptors

import "fmt"

type ClassCode byte

const (
	ClassCodeAudio ClassCode = 0x01
	ClassCodeVideo ClassCode = 0x0E
)

func (c ClassCode) String() string {
	switch c {
	case ClassCodeAudio:
		return "audio"
	case ClassCodeVideo:
		return "video"
	}
	return fmt.Sprintf("class(0x%02x)", byte(c))
}

type SubclassCode byte

const (
	SubclassCodeUndefined                SubclassCode = 0x00
	SubclassCodeVideoControl             SubclassCode = 0x01
	SubclassCodeVideoStreaming           SubclassCode = 0x02
	SubclassCodeVideoInterfaceCollection SubclassCode = 0x03
)

type ProtocolCode byte

const (
	ProtocolCodeUndefined ProtocolCode = 0x00
	ProtocolCode15        ProtocolCode = 0x01
)

// DescriptorType is the bDescriptorType byte of every descriptor packet.
type DescriptorType byte

const (
	DescriptorTypeDevice                      DescriptorType = 0x01
	DescriptorTypeConfiguration               DescriptorType = 0x02
	DescriptorTypeString                      DescriptorType = 0x03
	DescriptorTypeInterface                   DescriptorType = 0x04
	DescriptorTypeEndpoint                    DescriptorType = 0x05
	DescriptorTypeDeviceQualifier             DescriptorType = 0x06
	DescriptorTypeInterfaceAssociation        DescriptorType = 0x0B
	DescriptorTypeSuperSpeedEndpointCompanion DescriptorType = 0x30
)

// ClassSpecificDescriptorType values share the DescriptorType byte space.
type ClassSpecificDescriptorType = DescriptorType

const (
	ClassSpecificDescriptorTypeUndefined     ClassSpecificDescriptorType = 0x20
	ClassSpecificDescriptorTypeDevice        ClassSpecificDescriptorType = 0x21
	ClassSpecificDescriptorTypeConfiguration ClassSpecificDescriptorType = 0x22
	ClassSpecificDescriptorTypeString        ClassSpecificDescriptorType = 0x23
	ClassSpecificDescriptorTypeInterface     ClassSpecificDescriptorType = 0x24
	ClassSpecificDescriptorTypeEndpoint      ClassSpecificDescriptorType = 0x25
)

func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeDevice:
		return "DEVICE"
	case DescriptorTypeConfiguration:
		return "CONFIGURATION"
	case DescriptorTypeString:
		return "STRING"
	case DescriptorTypeInterface:
		return "INTERFACE"
	case DescriptorTypeEndpoint:
		return "ENDPOINT"
	case DescriptorTypeDeviceQualifier:
		return "DEVICE_QUALIFIER"
	case DescriptorTypeInterfaceAssociation:
		return "INTERFACE_ASSOCIATION"
	case DescriptorTypeSuperSpeedEndpointCompanion:
		return "SS_ENDPOINT_COMPANION"
	case ClassSpecificDescriptorTypeUndefined:
		return "CS_UNDEFINED"
	case ClassSpecificDescriptorTypeDevice:
		return "CS_DEVICE"
	case ClassSpecificDescriptorTypeConfiguration:
		return "CS_CONFIGURATION"
	case ClassSpecificDescriptorTypeString:
		return "CS_STRING"
	case ClassSpecificDescriptorTypeInterface:
		return "CS_INTERFACE"
	case ClassSpecificDescriptorTypeEndpoint:
		return "CS_ENDPOINT"
	}
	return fmt.Sprintf("type(0x%02x)", byte(t))
}
