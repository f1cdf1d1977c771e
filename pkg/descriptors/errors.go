package descriptors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDescriptor     = errors.New("invalid descriptor")
	ErrShortDescriptor       = errors.New("descriptor too short")
	ErrIllegalTransition     = errors.New("descriptor out of order")
	ErrUnknownDescriptorType = errors.New("unknown descriptor type")
	ErrUnknownSubtype        = errors.New("unknown descriptor subtype")
	ErrUnsupportedProtocol   = errors.New("unsupported interface protocol")
	ErrOrphanFrame           = errors.New("frame descriptor without a format")
	ErrDanglingSource        = errors.New("unit references an unknown source id")
)

// ParseError is returned by Parse for any malformed or misordered descriptor. No
// partial tree accompanies it.
type ParseError struct {
	Offset  int
	Type    DescriptorType
	Subtype byte
	State   ParserState
	Err     error
}

func (e *ParseError) Error() string {
	if e.Subtype != 0 {
		return fmt.Sprintf("parse %s subtype 0x%02x at offset %d (state %s): %v", e.Type, e.Subtype, e.Offset, e.State, e.Err)
	}
	return fmt.Sprintf("parse %s at offset %d (state %s): %v", e.Type, e.Offset, e.State, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
