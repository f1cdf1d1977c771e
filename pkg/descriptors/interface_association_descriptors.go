// This file implements the descriptors as defined in the UVC spec 1.5, section 3.6.
package descriptors

import "fmt"

func (iad *InterfaceAssociation) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 8); err != nil {
		return err
	}
	iad.FirstInterface = buf[2]
	iad.InterfaceCount = buf[3]
	iad.FunctionClass = ClassCode(buf[4])
	iad.FunctionSubclass = SubclassCode(buf[5])
	iad.FunctionProtocol = ProtocolCode(buf[6])
	iad.FunctionIndex = buf[7]
	switch iad.FunctionClass {
	case ClassCodeVideo:
		if iad.FunctionSubclass != SubclassCodeVideoInterfaceCollection {
			return fmt.Errorf("%w: video function subclass 0x%02x", ErrInvalidDescriptor, byte(iad.FunctionSubclass))
		}
		if iad.FunctionProtocol != ProtocolCodeUndefined {
			return fmt.Errorf("%w: function protocol 0x%02x", ErrUnsupportedProtocol, byte(iad.FunctionProtocol))
		}
	case ClassCodeAudio:
	default:
		return fmt.Errorf("%w: function class %s", ErrInvalidDescriptor, iad.FunctionClass)
	}
	return nil
}

// UnmarshalBinary decodes a standard interface descriptor.
func (as *AlternateSetting) UnmarshalBinary(buf []byte) error {
	if err := need(buf, 9); err != nil {
		return err
	}
	as.InterfaceNumber = buf[2]
	as.AlternateSetting = buf[3]
	as.NumEndpoints = buf[4]
	as.Class = ClassCode(buf[5])
	as.Subclass = SubclassCode(buf[6])
	as.Protocol = ProtocolCode(buf[7])
	as.DescriptionIndex = buf[8]
	switch as.Class {
	case ClassCodeVideo:
		if as.Protocol == ProtocolCode15 {
			return fmt.Errorf("%w: interface %d protocol 0x%02x", ErrUnsupportedProtocol, as.InterfaceNumber, byte(as.Protocol))
		}
		if as.Subclass != SubclassCodeVideoControl && as.Subclass != SubclassCodeVideoStreaming {
			return fmt.Errorf("%w: video interface subclass 0x%02x", ErrInvalidDescriptor, byte(as.Subclass))
		}
	case ClassCodeAudio:
	default:
		return fmt.Errorf("%w: interface class %s", ErrInvalidDescriptor, as.Class)
	}
	return nil
}
