package descriptors

// InterfaceAssociation groups the interfaces of one USB function. A video function owns one
// ControlInterface and zero or more StreamingInterfaces. An audio function is kept as a
// placeholder so its position in the configuration is preserved, but nothing below it is
// modeled.
type InterfaceAssociation struct {
	FirstInterface   uint8
	InterfaceCount   uint8
	FunctionClass    ClassCode
	FunctionSubclass SubclassCode
	FunctionProtocol ProtocolCode
	FunctionIndex    uint8

	Control   *ControlInterface
	Streaming []*StreamingInterface
	Audio     []*AudioInterface
}

func (iad *InterfaceAssociation) IsVideo() bool {
	return iad.FunctionClass == ClassCodeVideo
}

// Interfaces returns every interface attached to the association in interface number order of
// first appearance.
func (iad *InterfaceAssociation) Interfaces() []Interface {
	var ifaces []Interface
	if iad.Control != nil {
		ifaces = append(ifaces, iad.Control)
	}
	for _, si := range iad.Streaming {
		ifaces = append(ifaces, si)
	}
	for _, ai := range iad.Audio {
		ifaces = append(ifaces, ai)
	}
	return ifaces
}

// Interface looks up an attached interface by its bInterfaceNumber.
func (iad *InterfaceAssociation) Interface(number uint8) Interface {
	for _, iface := range iad.Interfaces() {
		if iface.Number() == number {
			return iface
		}
	}
	return nil
}

// StreamingInterface returns the streaming interface with the given number, or nil.
func (iad *InterfaceAssociation) StreamingInterface(number uint8) *StreamingInterface {
	for _, si := range iad.Streaming {
		if si.InterfaceNumber == number {
			return si
		}
	}
	return nil
}

// Interface is implemented by *ControlInterface, *StreamingInterface and *AudioInterface.
type Interface interface {
	Number() uint8
	AltSettings() []*AlternateSetting
	isInterface()
}

// AlternateSetting is one standard interface descriptor and the endpoints that follow it.
type AlternateSetting struct {
	InterfaceNumber  uint8
	AlternateSetting uint8
	NumEndpoints     uint8
	Class            ClassCode
	Subclass         SubclassCode
	Protocol         ProtocolCode
	DescriptionIndex uint8
	Endpoints        []*Endpoint
}

// Endpoint returns the endpoint at the 1-based index in encounter order.
func (as *AlternateSetting) Endpoint(index int) *Endpoint {
	if index < 1 || index > len(as.Endpoints) {
		return nil
	}
	return as.Endpoints[index-1]
}

// EndpointByAddress returns the endpoint with the given bEndpointAddress, or nil.
func (as *AlternateSetting) EndpointByAddress(address uint8) *Endpoint {
	for _, ep := range as.Endpoints {
		if ep.Address == address {
			return ep
		}
	}
	return nil
}

type interfaceBase struct {
	InterfaceNumber   uint8
	AlternateSettings []*AlternateSetting
}

func (b *interfaceBase) Number() uint8 {
	return b.InterfaceNumber
}

func (b *interfaceBase) AltSettings() []*AlternateSetting {
	return b.AlternateSettings
}

// AltSetting returns the alternate setting with bAlternateSetting == n, or nil.
func (b *interfaceBase) AltSetting(n uint8) *AlternateSetting {
	for _, as := range b.AlternateSettings {
		if as.AlternateSetting == n {
			return as
		}
	}
	return nil
}

// ControlInterface is a Video Control interface and its unit/terminal graph.
type ControlInterface struct {
	interfaceBase
	Header *HeaderDescriptor
	Units  []Unit
}

func (*ControlInterface) isInterface() {}

// Unit returns the unit or terminal with the given ID, or nil.
func (ci *ControlInterface) Unit(id uint8) Unit {
	for _, u := range ci.Units {
		if u.ID() == id {
			return u
		}
	}
	return nil
}

// Streams returns the streaming interface numbers declared by the header. The list is
// informational and not checked against the configuration.
func (ci *ControlInterface) Streams() []uint8 {
	if ci.Header == nil {
		return nil
	}
	return ci.Header.VideoStreamingInterfaceIndexes
}

// StreamingInterface is a Video Streaming interface and its format catalog.
type StreamingInterface struct {
	interfaceBase
	InputHeader  *InputHeaderDescriptor
	OutputHeader *OutputHeaderDescriptor
	Formats      []*VideoFormat
	// ColorMatching holds a color matching descriptor seen before any format.
	ColorMatching *ColorMatchingDescriptor
}

func (*StreamingInterface) isInterface() {}

// Format returns the format with bFormatIndex == index, or nil.
func (si *StreamingInterface) Format(index uint8) *VideoFormat {
	for _, f := range si.Formats {
		if f.Index == index {
			return f
		}
	}
	return nil
}

// EndpointAddress is the video data endpoint named by the input or output header.
func (si *StreamingInterface) EndpointAddress() (uint8, bool) {
	switch {
	case si.InputHeader != nil:
		return si.InputHeader.EndpointAddress, true
	case si.OutputHeader != nil:
		return si.OutputHeader.EndpointAddress, true
	}
	return 0, false
}

// AudioInterface is a placeholder for an audio class interface. Its class-specific
// descriptors are skipped.
type AudioInterface struct {
	interfaceBase
}

func (*AudioInterface) isInterface() {}
