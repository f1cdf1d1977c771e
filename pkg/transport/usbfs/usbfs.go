//go:build linux

// Package usbfs implements transport.Transport on top of go-usb, which talks to the Linux usbfs
// device nodes directly.
package usbfs

import (
	"fmt"
	"sync"
	"time"

	usb "github.com/kevmo314/go-usb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

// DeviceInfo is the summary of an attached device as reported by the bus enumeration.
type DeviceInfo struct {
	Path           string
	Bus            uint8
	Address        uint8
	VendorID       uint16
	ProductID      uint16
	USBVersion     uint16
	DeviceClass    uint8
	DeviceSubClass uint8
	DeviceProtocol uint8
}

// IsComposite reports whether the device uses the IAD class triple that video functions sit
// behind.
func (d DeviceInfo) IsComposite() bool {
	return d.DeviceClass == 0xEF && d.DeviceSubClass == 0x02 && d.DeviceProtocol == 0x01
}

// DevicePath returns the usbfs node of the device at bus and address.
func DevicePath(bus, address uint8) string {
	return fmt.Sprintf("/dev/bus/usb/%03d/%03d", bus, address)
}

// List enumerates attached devices.
func List() ([]DeviceInfo, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}
	infos := make([]DeviceInfo, 0, len(devices))
	for _, dev := range devices {
		infos = append(infos, DeviceInfo{
			Path:           dev.Path,
			Bus:            dev.Bus,
			Address:        dev.Address,
			VendorID:       dev.Descriptor.VendorID,
			ProductID:      dev.Descriptor.ProductID,
			USBVersion:     dev.Descriptor.USBVersion,
			DeviceClass:    dev.Descriptor.DeviceClass,
			DeviceSubClass: dev.Descriptor.DeviceSubClass,
			DeviceProtocol: dev.Descriptor.DeviceProtocol,
		})
	}
	return infos, nil
}

type Option func(*Transport)

func WithLogger(log logrus.FieldLogger) Option {
	return func(t *Transport) { t.log = log }
}

// Transport is a claimed usbfs device handle.
type Transport struct {
	handle *usb.DeviceHandle
	log    logrus.FieldLogger

	mu        sync.Mutex
	claimed   map[uint8]bool
	endpoints map[uint8]*endpoint
	closed    bool
}

var _ transport.Transport = (*Transport)(nil)
var _ transport.Canceler = (*Transport)(nil)

// Open opens the usbfs node at path, for example /dev/bus/usb/001/004.
func Open(path string, opts ...Option) (*Transport, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, wrap("open "+path, err)
	}
	t, err := Wrap(uintptr(fd), opts...)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return t, nil
}

// Wrap takes ownership of an already opened usbfs file descriptor, as handed out by Android's
// UsbDeviceConnection.
func Wrap(fd uintptr, opts ...Option) (*Transport, error) {
	handle, err := usb.WrapSysDevice(int(fd))
	if err != nil {
		return nil, errors.Wrap(err, "failed to wrap device")
	}
	return New(handle, opts...), nil
}

func New(handle *usb.DeviceHandle, opts ...Option) *Transport {
	t := &Transport{
		handle:    handle,
		log:       logrus.StandardLogger(),
		claimed:   make(map[uint8]bool),
		endpoints: make(map[uint8]*endpoint),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ConfigDescriptor reads the full first configuration descriptor, including every class specific
// descriptor that follows it.
func (t *Transport) ConfigDescriptor() ([]byte, error) {
	buf, err := t.handle.RawConfigDescriptor(0)
	if err != nil {
		return nil, wrap("read configuration descriptor", err)
	}
	return buf, nil
}

// ClaimInterface detaches any kernel driver bound to iface and claims it. Claiming an interface
// twice is a no-op.
func (t *Transport) ClaimInterface(iface uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.claimLocked(iface)
}

func (t *Transport) claimLocked(iface uint8) error {
	if t.closed {
		return transport.ErrNoDevice
	}
	if t.claimed[iface] {
		return nil
	}
	if err := t.handle.DetachKernelDriver(iface); err != nil {
		// no driver bound is the common case
		t.log.WithField("interface", iface).WithError(err).Debug("detach kernel driver")
	}
	if err := t.handle.ClaimInterface(iface); err != nil {
		return wrap(fmt.Sprintf("claim interface %d", iface), err)
	}
	t.claimed[iface] = true
	return nil
}

func (t *Transport) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	n, err := t.handle.ControlTransfer(requestType, request, value, index, data, timeout)
	if err != nil {
		return n, wrap("control transfer", err)
	}
	return n, nil
}

func (t *Transport) SelectAlternateSetting(iface, alt uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.claimLocked(iface); err != nil {
		return err
	}
	if err := t.handle.SetInterfaceAltSetting(iface, alt); err != nil {
		return wrap(fmt.Sprintf("set interface %d alternate setting %d", iface, alt), err)
	}
	return nil
}

func (t *Transport) ClearHalt(endpoint uint8) error {
	if err := t.handle.ClearHalt(endpoint); err != nil {
		return wrap(fmt.Sprintf("clear halt 0x%02x", endpoint), err)
	}
	return nil
}

// SubmitIsochronous queues buf on endpoint. Completions for one endpoint are delivered serially
// from a single goroutine, in submission order.
func (t *Transport) SubmitIsochronous(ep uint8, buf *transport.IsoBuffer, onComplete transport.CompletionFunc) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return transport.ErrNoDevice
	}
	e, ok := t.endpoints[ep]
	if !ok {
		e = newEndpoint(t.handle, ep, t.log)
		t.endpoints[ep] = e
	}
	t.mu.Unlock()
	return e.submit(buf, onComplete)
}

func (t *Transport) CancelIsochronous(ep uint8) error {
	t.mu.Lock()
	e, ok := t.endpoints[ep]
	t.mu.Unlock()
	if !ok {
		return nil
	}
	e.cancel()
	return nil
}

// Close cancels outstanding transfers, waits for their completions, releases every claimed
// interface and closes the handle.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	endpoints := t.endpoints
	t.endpoints = nil
	t.mu.Unlock()

	for _, e := range endpoints {
		e.close()
	}
	for iface := range t.claimed {
		if err := t.handle.ReleaseInterface(iface); err != nil {
			t.log.WithField("interface", iface).WithError(err).Warn("failed to release interface")
		}
	}
	return t.handle.Close()
}
