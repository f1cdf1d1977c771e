package descriptors

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ParserState is the position of the parser within the descriptor hierarchy.
type ParserState int

const (
	ParserStateNone ParserState = iota
	ParserStateIAD
	ParserStateStandardInterface
	ParserStateClassInterface
	ParserStateStandardEndpoint
	ParserStateClassEndpoint
)

func (s ParserState) String() string {
	switch s {
	case ParserStateNone:
		return "none"
	case ParserStateIAD:
		return "iad"
	case ParserStateStandardInterface:
		return "standard-interface"
	case ParserStateClassInterface:
		return "class-interface"
	case ParserStateStandardEndpoint:
		return "standard-endpoint"
	case ParserStateClassEndpoint:
		return "class-endpoint"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// NextState is the parser's transition table. It returns the state after a descriptor of type t
// is seen in state s. stop is true when t marks the end of the modeled descriptor block, in
// which case the packet and everything after it are not parsed.
func NextState(s ParserState, t DescriptorType) (next ParserState, stop bool, err error) {
	switch t {
	case DescriptorTypeDevice, DescriptorTypeConfiguration, DescriptorTypeDeviceQualifier, DescriptorTypeString,
		ClassSpecificDescriptorTypeUndefined, ClassSpecificDescriptorTypeDevice,
		ClassSpecificDescriptorTypeConfiguration, ClassSpecificDescriptorTypeString:
		return s, false, nil
	case DescriptorTypeInterfaceAssociation:
		switch s {
		case ParserStateNone:
			return ParserStateIAD, false, nil
		case ParserStateStandardEndpoint, ParserStateClassEndpoint:
			return s, true, nil
		}
	case DescriptorTypeInterface:
		switch s {
		case ParserStateIAD, ParserStateClassInterface, ParserStateStandardEndpoint, ParserStateClassEndpoint:
			return ParserStateStandardInterface, false, nil
		}
	case ClassSpecificDescriptorTypeInterface:
		switch s {
		case ParserStateStandardInterface, ParserStateClassInterface:
			return ParserStateClassInterface, false, nil
		}
	case DescriptorTypeEndpoint:
		switch s {
		case ParserStateStandardInterface, ParserStateClassInterface:
			return ParserStateStandardEndpoint, false, nil
		}
	case ClassSpecificDescriptorTypeEndpoint:
		if s == ParserStateStandardEndpoint {
			return ParserStateClassEndpoint, false, nil
		}
	case DescriptorTypeSuperSpeedEndpointCompanion:
		switch s {
		case ParserStateStandardEndpoint, ParserStateClassEndpoint:
			return s, false, nil
		}
	default:
		return s, false, ErrUnknownDescriptorType
	}
	return s, false, ErrIllegalTransition
}

type parseOptions struct {
	allowDanglingSources bool
	log                  logrus.FieldLogger
}

type ParseOption func(*parseOptions)

// AllowDanglingSources disables the check that every unit source ID names a unit or terminal of
// the same control interface.
func AllowDanglingSources() ParseOption {
	return func(o *parseOptions) {
		o.allowDanglingSources = true
	}
}

// WithLogger makes the parser trace each state transition.
func WithLogger(log logrus.FieldLogger) ParseOption {
	return func(o *parseOptions) {
		o.log = log
	}
}

// parserContext carries everything the parser remembers between packets.
type parserContext struct {
	opts  parseOptions
	state ParserState

	iads []*InterfaceAssociation
	iad  *InterfaceAssociation

	iface   Interface
	alt     *AlternateSetting
	format  *VideoFormat
	pending *ControlInterface
}

// Parse decodes a raw configuration descriptor into its interface associations. Any malformed
// or misordered descriptor fails the whole parse with a *ParseError.
func Parse(buf []byte, opts ...ParseOption) ([]*InterfaceAssociation, error) {
	ctx := &parserContext{}
	for _, opt := range opts {
		opt(&ctx.opts)
	}
	if ctx.opts.log == nil {
		log := logrus.New()
		log.SetLevel(logrus.PanicLevel)
		ctx.opts.log = log
	}
	for offset := 0; offset < len(buf); {
		length := int(buf[offset])
		if length < 2 || offset+length > len(buf) {
			var t DescriptorType
			if offset+1 < len(buf) {
				t = DescriptorType(buf[offset+1])
			}
			return nil, &ParseError{
				Offset: offset,
				Type:   t,
				State:  ctx.state,
				Err:    fmt.Errorf("%w: length %d with %d bytes remaining", ErrShortDescriptor, length, len(buf)-offset),
			}
		}
		packet := buf[offset : offset+length]
		stop, err := ctx.step(packet)
		if err != nil {
			perr := &ParseError{Offset: offset, Type: DescriptorType(packet[1]), State: ctx.state, Err: err}
			if isClassSpecific(perr.Type) && len(packet) > 2 {
				perr.Subtype = packet[2]
			}
			return nil, perr
		}
		if stop {
			ctx.opts.log.WithField("offset", offset).Trace("end of modeled descriptors")
			break
		}
		offset += length
	}
	if err := ctx.closeInterface(); err != nil {
		return nil, &ParseError{Offset: len(buf), Type: DescriptorTypeInterface, State: ctx.state, Err: err}
	}
	return ctx.iads, nil
}

func isClassSpecific(t DescriptorType) bool {
	return t == ClassSpecificDescriptorTypeInterface || t == ClassSpecificDescriptorTypeEndpoint
}

// step consumes one packet.
func (ctx *parserContext) step(packet []byte) (bool, error) {
	t := DescriptorType(packet[1])
	next, stop, err := NextState(ctx.state, t)
	if err != nil || stop {
		return stop, err
	}
	ctx.opts.log.WithFields(logrus.Fields{
		"type": t,
		"from": ctx.state,
		"to":   next,
	}).Trace("descriptor")

	switch t {
	case DescriptorTypeInterfaceAssociation:
		err = ctx.interfaceAssociation(packet)
	case DescriptorTypeInterface:
		err = ctx.standardInterface(packet)
	case ClassSpecificDescriptorTypeInterface:
		err = ctx.classInterface(packet)
	case DescriptorTypeEndpoint:
		err = ctx.endpoint(packet)
	case ClassSpecificDescriptorTypeEndpoint:
		err = ctx.classEndpoint(packet)
	case DescriptorTypeSuperSpeedEndpointCompanion:
		err = ctx.companion(packet)
	}
	if err != nil {
		return false, err
	}
	ctx.state = next
	return false, nil
}

func (ctx *parserContext) interfaceAssociation(packet []byte) error {
	iad := &InterfaceAssociation{}
	if err := iad.UnmarshalBinary(packet); err != nil {
		return err
	}
	ctx.iads = append(ctx.iads, iad)
	ctx.iad = iad
	ctx.iface, ctx.alt, ctx.format = nil, nil, nil
	return nil
}

func (ctx *parserContext) standardInterface(packet []byte) error {
	as := &AlternateSetting{}
	if err := as.UnmarshalBinary(packet); err != nil {
		return err
	}
	iad := ctx.iad
	if as.Class == ClassCodeVideo && !iad.IsVideo() {
		return fmt.Errorf("%w: video interface %d under %s function", ErrInvalidDescriptor, as.InterfaceNumber, iad.FunctionClass)
	}

	if existing := iad.Interface(as.InterfaceNumber); existing != nil {
		if existing != ctx.iface {
			if err := ctx.closeInterface(); err != nil {
				return err
			}
		}
		switch iface := existing.(type) {
		case *ControlInterface:
			iface.AlternateSettings = append(iface.AlternateSettings, as)
			ctx.pending = iface
		case *StreamingInterface:
			iface.AlternateSettings = append(iface.AlternateSettings, as)
		case *AudioInterface:
			iface.AlternateSettings = append(iface.AlternateSettings, as)
		}
		ctx.iface, ctx.alt = existing, as
		return nil
	}

	if err := ctx.closeInterface(); err != nil {
		return err
	}
	base := interfaceBase{InterfaceNumber: as.InterfaceNumber, AlternateSettings: []*AlternateSetting{as}}
	switch {
	case as.Class == ClassCodeAudio:
		ai := &AudioInterface{interfaceBase: base}
		iad.Audio = append(iad.Audio, ai)
		ctx.iface = ai
	case as.Subclass == SubclassCodeVideoControl:
		if iad.Control != nil {
			return fmt.Errorf("%w: second control interface %d", ErrInvalidDescriptor, as.InterfaceNumber)
		}
		ci := &ControlInterface{interfaceBase: base}
		iad.Control = ci
		ctx.iface = ci
		ctx.pending = ci
	case as.Subclass == SubclassCodeVideoStreaming:
		si := &StreamingInterface{interfaceBase: base}
		iad.Streaming = append(iad.Streaming, si)
		ctx.iface = si
	}
	ctx.alt = as
	ctx.format = nil
	return nil
}

// closeInterface runs the checks that need a control interface's complete unit list.
func (ctx *parserContext) closeInterface() error {
	ci := ctx.pending
	ctx.pending = nil
	if ci == nil || ctx.opts.allowDanglingSources {
		return nil
	}
	return validateSources(ci.Units)
}

func (ctx *parserContext) classInterface(packet []byte) error {
	if err := need(packet, 3); err != nil {
		return err
	}
	switch iface := ctx.iface.(type) {
	case *ControlInterface:
		return ctx.videoControl(iface, packet)
	case *StreamingInterface:
		return ctx.videoStreaming(iface, packet)
	case *AudioInterface:
		// audio class-specific descriptors are not modeled.
		return nil
	}
	return ErrIllegalTransition
}

func (ctx *parserContext) videoControl(ci *ControlInterface, packet []byte) error {
	if VideoControlInterfaceDescriptorSubtype(packet[2]) == VideoControlInterfaceDescriptorSubtypeHeader {
		if ci.Header != nil {
			return fmt.Errorf("%w: duplicate video control header", ErrInvalidDescriptor)
		}
		hd := &HeaderDescriptor{}
		if err := hd.UnmarshalBinary(packet); err != nil {
			return err
		}
		ci.Header = hd
		return nil
	}
	unit, err := UnmarshalUnit(packet)
	if err != nil {
		return err
	}
	if ci.Unit(unit.ID()) != nil {
		return fmt.Errorf("%w: duplicate unit id %d", ErrInvalidDescriptor, unit.ID())
	}
	ci.Units = append(ci.Units, unit)
	return nil
}

func (ctx *parserContext) videoStreaming(si *StreamingInterface, packet []byte) error {
	subtype := VideoStreamingInterfaceDescriptorSubtype(packet[2])
	switch {
	case subtype == VideoStreamingInterfaceDescriptorSubtypeInputHeader:
		ihd := &InputHeaderDescriptor{}
		if err := ihd.UnmarshalBinary(packet); err != nil {
			return err
		}
		si.InputHeader = ihd
	case subtype == VideoStreamingInterfaceDescriptorSubtypeOutputHeader:
		ohd := &OutputHeaderDescriptor{}
		if err := ohd.UnmarshalBinary(packet); err != nil {
			return err
		}
		si.OutputHeader = ohd
	case subtype.isFormat():
		vf, err := UnmarshalFormat(packet)
		if err != nil {
			return err
		}
		si.Formats = append(si.Formats, vf)
		ctx.format = vf
	case subtype.isFrame():
		if ctx.format == nil {
			return ErrOrphanFrame
		}
		if ctx.format.Descriptor.FrameSubtype() != subtype {
			return fmt.Errorf("%w: frame subtype 0x%02x after format %d", ErrInvalidDescriptor, byte(subtype), ctx.format.Index)
		}
		f, err := UnmarshalFrame(packet)
		if err != nil {
			return err
		}
		ctx.format.Frames = append(ctx.format.Frames, f)
	case subtype == VideoStreamingInterfaceDescriptorSubtypeStillImageFrame:
		if ctx.format == nil {
			return ErrOrphanFrame
		}
		sifd := &StillImageFrameDescriptor{}
		if err := sifd.UnmarshalBinary(packet); err != nil {
			return err
		}
		ctx.format.StillImageFrame = sifd
	case subtype == VideoStreamingInterfaceDescriptorSubtypeColorFormat:
		cmd := &ColorMatchingDescriptor{}
		if err := cmd.UnmarshalBinary(packet); err != nil {
			return err
		}
		if ctx.format != nil {
			ctx.format.ColorMatching = cmd
		} else {
			si.ColorMatching = cmd
		}
	default:
		return fmt.Errorf("%w: video streaming 0x%02x", ErrUnknownSubtype, byte(subtype))
	}
	return nil
}

func (ctx *parserContext) endpoint(packet []byte) error {
	ep := &Endpoint{}
	if err := ep.UnmarshalBinary(packet); err != nil {
		return err
	}
	ctx.alt.Endpoints = append(ctx.alt.Endpoints, ep)
	return nil
}

func (ctx *parserContext) lastEndpoint() *Endpoint {
	return ctx.alt.Endpoints[len(ctx.alt.Endpoints)-1]
}

func (ctx *parserContext) classEndpoint(packet []byte) error {
	if err := need(packet, 3); err != nil {
		return err
	}
	ep := ctx.lastEndpoint()
	if _, ok := ctx.iface.(*ControlInterface); ok &&
		VideoControlEndpointDescriptorSubtype(packet[2]) == VideoControlEndpointDescriptorSubtypeInterrupt {
		d := &ClassSpecificInterruptEndpointDescriptor{}
		if err := d.UnmarshalBinary(packet); err != nil {
			return err
		}
		ep.Interrupt = d
		return nil
	}
	ep.Extra = append(ep.Extra, append([]byte(nil), packet...))
	return nil
}

func (ctx *parserContext) companion(packet []byte) error {
	d := &SuperSpeedEndpointCompanionDescriptor{}
	if err := d.UnmarshalBinary(packet); err != nil {
		return err
	}
	ctx.lastEndpoint().Companion = d
	return nil
}
