//go:build linux

package uvc

import (
	"fmt"

	"github.com/kevmo314/go-uvc-engine/pkg/transport/usbfs"
)

// OpenFD opens a session on an already opened usbfs file descriptor, as handed out by
// Android's UsbDeviceConnection. The device takes ownership of fd.
func OpenFD(fd uintptr, opts ...Option) (*Device, error) {
	d := &Device{log: quietLogger()}
	for _, opt := range opts {
		opt(d)
	}
	t, err := usbfs.Wrap(fd, usbfs.WithLogger(d.log))
	if err != nil {
		return nil, err
	}
	return openUSBFS(t, opts...)
}

// OpenPath opens a session on the usbfs node at path, for example /dev/bus/usb/001/004.
func OpenPath(path string, opts ...Option) (*Device, error) {
	d := &Device{log: quietLogger()}
	for _, opt := range opts {
		opt(d)
	}
	t, err := usbfs.Open(path, usbfs.WithLogger(d.log))
	if err != nil {
		return nil, err
	}
	return openUSBFS(t, opts...)
}

func openUSBFS(t *usbfs.Transport, opts ...Option) (*Device, error) {
	raw, err := t.ConfigDescriptor()
	if err != nil {
		t.Close()
		return nil, err
	}
	d, err := Open(t, raw, opts...)
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("failed to open device: %w", err)
	}
	return d, nil
}
