package uvc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/requests"
)

var (
	ErrControlNotFound  = errors.New("control not found")
	ErrCompositeControl = errors.New("control does not hold a single integer")
	ErrValueOutOfRange  = errors.New("value does not fit the control")
)

// Control is one camera terminal or processing unit control advertised by the device.
type Control struct {
	UnitID     uint8
	Definition descriptors.ControlDefinition
}

func (c Control) String() string {
	return fmt.Sprintf("%s@%d", c.Definition.Name, c.UnitID)
}

// ControlRange holds the GET_MIN, GET_MAX, GET_RES and GET_DEF answers for a control.
type ControlRange struct {
	Min, Max, Resolution, Default int64
}

// Controls lists the controls whose bit is set in the bmControls of each camera terminal and
// processing unit.
func (d *Device) Controls() []Control {
	var controls []Control
	for _, unit := range d.video.Control.Units {
		var (
			defs    []descriptors.ControlDefinition
			bitmask uint32
		)
		switch u := unit.(type) {
		case *descriptors.CameraTerminal:
			defs, bitmask = descriptors.CameraTerminalControls, u.ControlsBitmask
		case *descriptors.ProcessingUnit:
			defs, bitmask = descriptors.ProcessingUnitControls, u.ControlsBitmask
		default:
			continue
		}
		for _, def := range defs {
			if def.Supported(bitmask) {
				controls = append(controls, Control{UnitID: unit.ID(), Definition: def})
			}
		}
	}
	return controls
}

// Control looks up a supported control by name, for example "brightness".
func (d *Device) Control(name string) (Control, error) {
	for _, c := range d.Controls() {
		if c.Definition.Name == name {
			return c, nil
		}
	}
	return Control{}, fmt.Errorf("%w: %s", ErrControlNotFound, name)
}

// GetRaw issues a GET request for c and returns the control's bytes.
func (d *Device) GetRaw(c Control, code requests.RequestCode) ([]byte, error) {
	buf := make([]byte, c.Definition.Size)
	n, err := d.t.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceGetRequest),
		uint8(code),
		requests.Value(c.Definition.Selector),
		requests.Index(c.UnitID, d.video.Control.Number()),
		buf,
		d.timeout,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", code, c, err)
	}
	return buf[:n], nil
}

// SetRaw issues SET_CUR for c with data, which must be exactly the control's size.
func (d *Device) SetRaw(c Control, data []byte) error {
	if len(data) != c.Definition.Size {
		return fmt.Errorf("%s takes %d bytes, got %d", c, c.Definition.Size, len(data))
	}
	if _, err := d.t.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceSetRequest),
		uint8(requests.RequestCodeSetCur),
		requests.Value(c.Definition.Selector),
		requests.Index(c.UnitID, d.video.Control.Number()),
		data,
		d.timeout,
	); err != nil {
		return fmt.Errorf("failed to SET_CUR %s: %w", c, err)
	}
	return nil
}

// Get reads the current value of an integer control.
func (d *Device) Get(c Control) (int64, error) {
	return d.getInt(c, requests.RequestCodeGetCur)
}

// Set writes the current value of an integer control.
func (d *Device) Set(c Control, value int64) error {
	buf, err := encodeControl(c.Definition, value)
	if err != nil {
		return err
	}
	return d.SetRaw(c, buf)
}

// Range reads the bounds, step and default of an integer control.
func (d *Device) Range(c Control) (ControlRange, error) {
	var r ControlRange
	for _, q := range []struct {
		code requests.RequestCode
		dst  *int64
	}{
		{requests.RequestCodeGetMin, &r.Min},
		{requests.RequestCodeGetMax, &r.Max},
		{requests.RequestCodeGetRes, &r.Resolution},
		{requests.RequestCodeGetDef, &r.Default},
	} {
		v, err := d.getInt(c, q.code)
		if err != nil {
			return ControlRange{}, err
		}
		*q.dst = v
	}
	return r, nil
}

func (d *Device) getInt(c Control, code requests.RequestCode) (int64, error) {
	if c.Definition.Size > 4 {
		return 0, fmt.Errorf("%w: %s", ErrCompositeControl, c)
	}
	buf, err := d.GetRaw(c, code)
	if err != nil {
		return 0, err
	}
	return decodeControl(c.Definition, buf)
}

func decodeControl(def descriptors.ControlDefinition, buf []byte) (int64, error) {
	if len(buf) < def.Size {
		return 0, fmt.Errorf("%s: short reply of %d bytes", def.Name, len(buf))
	}
	switch def.Size {
	case 1:
		if def.Signed {
			return int64(int8(buf[0])), nil
		}
		return int64(buf[0]), nil
	case 2:
		v := binary.LittleEndian.Uint16(buf)
		if def.Signed {
			return int64(int16(v)), nil
		}
		return int64(v), nil
	case 4:
		v := binary.LittleEndian.Uint32(buf)
		if def.Signed {
			return int64(int32(v)), nil
		}
		return int64(v), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrCompositeControl, def.Name)
}

func encodeControl(def descriptors.ControlDefinition, value int64) ([]byte, error) {
	switch def.Size {
	case 1, 2, 4:
		bits := uint(def.Size * 8)
		lo, hi := int64(0), int64(1)<<bits-1
		if def.Signed {
			lo, hi = -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		}
		if value < lo || value > hi {
			return nil, fmt.Errorf("%w: %s accepts [%d, %d], got %d", ErrValueOutOfRange, def.Name, lo, hi, value)
		}
	}
	buf := make([]byte, def.Size)
	switch def.Size {
	case 1:
		buf[0] = uint8(value)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(value))
	default:
		return nil, fmt.Errorf("%w: %s", ErrCompositeControl, def.Name)
	}
	return buf, nil
}
