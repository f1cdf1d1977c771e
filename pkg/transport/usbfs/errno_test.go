//go:build linux

package usbfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want transport.Code
	}{
		{unix.ETIMEDOUT, transport.CodeTimeout},
		{unix.EPIPE, transport.CodePipe},
		{unix.ENODEV, transport.CodeNoDevice},
		{unix.EBUSY, transport.CodeBusy},
		{unix.EACCES, transport.CodeAccess},
		{unix.EOVERFLOW, transport.CodeOverflow},
		{unix.EPROTO, transport.CodeIO},
		{errors.New("boom"), transport.CodeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, codeOf(tt.err), "%v", tt.err)
	}
}

func TestWrap(t *testing.T) {
	err := wrap("control transfer", unix.EPIPE)
	assert.True(t, errors.Is(err, transport.ErrPipe))
	assert.True(t, errors.Is(err, unix.EPIPE))
	assert.Nil(t, wrap("noop", nil))

	inner := &transport.Error{Op: "inner", Code: transport.CodeBusy}
	assert.Same(t, inner, wrap("outer", inner))
}

func TestDevicePath(t *testing.T) {
	assert.Equal(t, "/dev/bus/usb/001/004", DevicePath(1, 4))
	assert.True(t, DeviceInfo{DeviceClass: 0xEF, DeviceSubClass: 2, DeviceProtocol: 1}.IsComposite())
}
