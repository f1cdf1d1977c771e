//go:build linux

package usbfs

import (
	usb "github.com/kevmo314/go-usb"
)

// configDescriptorReader is the go-usb method ConfigDescriptor relies on.
type configDescriptorReader interface {
	RawConfigDescriptor(index uint8) ([]byte, error)
}

var _ configDescriptorReader = (*usb.DeviceHandle)(nil)
