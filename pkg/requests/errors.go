package requests

import "fmt"

// RequestErrorCode is the value of VC_REQUEST_ERROR_CODE_CONTROL, as defined in UVC spec 1.5,
// 4.2.1.2. The device resets it to RequestErrorCodeNoError after any successful request.
type RequestErrorCode uint8

const (
	RequestErrorCodeNoError                 RequestErrorCode = 0x00
	RequestErrorCodeNotReady                RequestErrorCode = 0x01
	RequestErrorCodeWrongState              RequestErrorCode = 0x02
	RequestErrorCodePower                   RequestErrorCode = 0x03
	RequestErrorCodeOutOfRange              RequestErrorCode = 0x04
	RequestErrorCodeInvalidUnit             RequestErrorCode = 0x05
	RequestErrorCodeInvalidControl          RequestErrorCode = 0x06
	RequestErrorCodeInvalidRequest          RequestErrorCode = 0x07
	RequestErrorCodeInvalidValueWithinRange RequestErrorCode = 0x08
	RequestErrorCodeUnknown                 RequestErrorCode = 0xFF
)

func (c RequestErrorCode) String() string {
	switch c {
	case RequestErrorCodeNoError:
		return "no error"
	case RequestErrorCodeNotReady:
		return "not ready"
	case RequestErrorCodeWrongState:
		return "wrong state"
	case RequestErrorCodePower:
		return "power"
	case RequestErrorCodeOutOfRange:
		return "out of range"
	case RequestErrorCodeInvalidUnit:
		return "invalid unit"
	case RequestErrorCodeInvalidControl:
		return "invalid control"
	case RequestErrorCodeInvalidRequest:
		return "invalid request"
	case RequestErrorCodeInvalidValueWithinRange:
		return "invalid value within range"
	case RequestErrorCodeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("reserved(0x%02x)", uint8(c))
}

// PowerMode is the value of VC_VIDEO_POWER_MODE_CONTROL, as defined in UVC spec 1.5, 4.2.1.1.
// Bits 3..0 are the mode the host may set; bits 7..4 are read-only device state.
type PowerMode uint8

const (
	PowerModeFullPower       PowerMode = 0x00
	PowerModeVendorDependent PowerMode = 0x01

	powerModeSetMask PowerMode = 0x0F
)

// Mode returns the settable part of the value.
func (pm PowerMode) Mode() PowerMode {
	return pm & powerModeSetMask
}

func (pm PowerMode) VendorDependentSupported() bool { return pm&(1<<4) != 0 }
func (pm PowerMode) USBPowered() bool               { return pm&(1<<5) != 0 }
func (pm PowerMode) BatteryPowered() bool           { return pm&(1<<6) != 0 }
func (pm PowerMode) ACPowered() bool                { return pm&(1<<7) != 0 }

func (pm PowerMode) String() string {
	mode := "full"
	if pm.Mode() == PowerModeVendorDependent {
		mode = "vendor-dependent"
	}
	var source string
	switch {
	case pm.ACPowered():
		source = "ac"
	case pm.BatteryPowered():
		source = "battery"
	case pm.USBPowered():
		source = "usb"
	default:
		source = "unknown"
	}
	return fmt.Sprintf("%s (source: %s)", mode, source)
}
