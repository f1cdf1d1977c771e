package requests

import "fmt"

type RequestType uint8

const (
	RequestTypeVideoInterfaceSetRequest RequestType = 0b00100001
	RequestTypeDataEndpointSetRequest   RequestType = 0b00100010
	RequestTypeVideoInterfaceGetRequest RequestType = 0b10100001
	RequestTypeDataEndpointGetRequest   RequestType = 0b10100010
)

type RequestCode uint8

const (
	RequestCodeUndefined RequestCode = 0x00
	RequestCodeSetCur    RequestCode = 0x01
	RequestCodeSetCurAll RequestCode = 0x11
	RequestCodeGetCur    RequestCode = 0x81
	RequestCodeGetMin    RequestCode = 0x82
	RequestCodeGetMax    RequestCode = 0x83
	RequestCodeGetRes    RequestCode = 0x84
	RequestCodeGetLen    RequestCode = 0x85
	RequestCodeGetInfo   RequestCode = 0x86
	RequestCodeGetDef    RequestCode = 0x87
	RequestCodeGetCurAll RequestCode = 0x91
	RequestCodeGetMinAll RequestCode = 0x92
	RequestCodeGetMaxAll RequestCode = 0x93
	RequestCodeGetResAll RequestCode = 0x94
	RequestCodeGetDefAll RequestCode = 0x97
)

var requestCodeNames = map[RequestCode]string{
	RequestCodeSetCur:    "SET_CUR",
	RequestCodeSetCurAll: "SET_CUR_ALL",
	RequestCodeGetCur:    "GET_CUR",
	RequestCodeGetMin:    "GET_MIN",
	RequestCodeGetMax:    "GET_MAX",
	RequestCodeGetRes:    "GET_RES",
	RequestCodeGetLen:    "GET_LEN",
	RequestCodeGetInfo:   "GET_INFO",
	RequestCodeGetDef:    "GET_DEF",
	RequestCodeGetCurAll: "GET_CUR_ALL",
	RequestCodeGetMinAll: "GET_MIN_ALL",
	RequestCodeGetMaxAll: "GET_MAX_ALL",
	RequestCodeGetResAll: "GET_RES_ALL",
	RequestCodeGetDefAll: "GET_DEF_ALL",
}

func (rc RequestCode) String() string {
	if name, ok := requestCodeNames[rc]; ok {
		return name
	}
	return fmt.Sprintf("request(0x%02x)", uint8(rc))
}

// IsGet reports whether the request reads from the device.
func (rc RequestCode) IsGet() bool {
	return rc&0x80 != 0
}

// Type returns the interface request type matching the direction of rc.
func (rc RequestCode) Type() RequestType {
	if rc.IsGet() {
		return RequestTypeVideoInterfaceGetRequest
	}
	return RequestTypeVideoInterfaceSetRequest
}

// Value is the wValue of a class request: the control selector in the high byte.
func Value(selector uint8) uint16 {
	return uint16(selector) << 8
}

// Index is the wIndex of a request addressed to a unit or terminal: the entity ID in the high
// byte and the interface number in the low byte. A zero entity addresses the interface itself.
func Index(entityID, interfaceNumber uint8) uint16 {
	return uint16(entityID)<<8 | uint16(interfaceNumber)
}
