//go:build linux

package usbfs

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

// codeOf maps the errno returned by a usbfs ioctl to a transport code.
func codeOf(err error) transport.Code {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return transport.CodeOther
	}
	switch errno {
	case unix.ETIMEDOUT:
		return transport.CodeTimeout
	case unix.EPIPE:
		return transport.CodePipe
	case unix.ENODEV, unix.ESHUTDOWN:
		return transport.CodeNoDevice
	case unix.EBUSY:
		return transport.CodeBusy
	case unix.EACCES, unix.EPERM:
		return transport.CodeAccess
	case unix.ENOENT:
		return transport.CodeNotFound
	case unix.EOVERFLOW:
		return transport.CodeOverflow
	case unix.EINTR:
		return transport.CodeInterrupted
	case unix.ENOMEM:
		return transport.CodeNoMem
	case unix.EINVAL:
		return transport.CodeInvalidParam
	case unix.ENOSYS, unix.EOPNOTSUPP:
		return transport.CodeNotSupported
	case unix.EIO, unix.EPROTO, unix.EILSEQ:
		return transport.CodeIO
	}
	return transport.CodeOther
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *transport.Error
	if errors.As(err, &te) {
		return err
	}
	return &transport.Error{Op: op, Code: codeOf(err), Err: err}
}
