//go:build linux

package usbfs

import (
	"sync"

	usb "github.com/kevmo314/go-usb"
	"github.com/sirupsen/logrus"

	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

// isoTransfer is the part of a usb isochronous transfer the endpoint drives.
type isoTransfer interface {
	submit() error
	wait() error
	cancel()
	// fill copies the received packets into buf and returns the number of bytes copied.
	fill(buf *transport.IsoBuffer) int
}

type usbTransfer struct {
	tx *usb.IsochronousTransfer
}

func (u usbTransfer) submit() error { return u.tx.Submit() }
func (u usbTransfer) wait() error   { return u.tx.Wait() }
func (u usbTransfer) cancel()       { u.tx.Cancel() }

func (u usbTransfer) fill(buf *transport.IsoBuffer) int {
	total := 0
	for i, pkt := range u.tx.Packets() {
		if i >= buf.PacketCount {
			break
		}
		buf.Status[i] = int(pkt.Status)
		if pkt.Status != 0 || pkt.ActualLength == 0 {
			continue
		}
		data, err := u.tx.IsoPacketBuffer(i)
		if err != nil {
			continue
		}
		if int(pkt.ActualLength) < len(data) {
			data = data[:pkt.ActualLength]
		}
		buf.Fill(i, data)
		total += len(data)
	}
	return total
}

type inflight struct {
	tx         isoTransfer
	buf        *transport.IsoBuffer
	onComplete transport.CompletionFunc
}

// endpoint owns the usb transfers backing the IsoBuffers submitted on one isochronous endpoint.
// Transfers are reaped round robin in the order they were submitted. The in-flight queue is
// unbounded so submit never blocks, even when called from a completion on the reaper.
type endpoint struct {
	address     uint8
	log         logrus.FieldLogger
	newTransfer func(packets, packetSize int) (isoTransfer, error)

	mu        sync.Mutex
	cond      *sync.Cond
	transfers map[*transport.IsoBuffer]isoTransfer
	// queue holds submitted transfers in order. The head stays queued until its wait returns
	// so cancel reaches it.
	queue    []inflight
	canceled bool
	closed   bool

	done chan struct{}
}

func newEndpoint(handle *usb.DeviceHandle, address uint8, log logrus.FieldLogger) *endpoint {
	return startEndpoint(address, log, func(packets, packetSize int) (isoTransfer, error) {
		tx, err := handle.NewIsochronousTransfer(address, packets, packetSize)
		if err != nil {
			return nil, err
		}
		return usbTransfer{tx: tx}, nil
	})
}

func startEndpoint(address uint8, log logrus.FieldLogger, newTransfer func(packets, packetSize int) (isoTransfer, error)) *endpoint {
	e := &endpoint{
		address:     address,
		log:         log.WithField("endpoint", address),
		newTransfer: newTransfer,
		transfers:   make(map[*transport.IsoBuffer]isoTransfer),
		done:        make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	go e.reap()
	return e
}

func (e *endpoint) submit(buf *transport.IsoBuffer, onComplete transport.CompletionFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return transport.ErrNoDevice
	}
	e.canceled = false
	tx, ok := e.transfers[buf]
	if !ok {
		var err error
		tx, err = e.newTransfer(buf.PacketCount, buf.PacketSize)
		if err != nil {
			return wrap("create isochronous transfer", err)
		}
		e.transfers[buf] = tx
	}
	if err := tx.submit(); err != nil {
		return wrap("submit isochronous transfer", err)
	}
	e.queue = append(e.queue, inflight{tx: tx, buf: buf, onComplete: onComplete})
	e.cond.Signal()
	return nil
}

// next blocks until a transfer is queued. It returns false once the endpoint is closed and
// drained.
func (e *endpoint) next() (inflight, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) == 0 && !e.closed {
		e.cond.Wait()
	}
	if len(e.queue) == 0 {
		return inflight{}, false
	}
	return e.queue[0], true
}

func (e *endpoint) reap() {
	defer close(e.done)
	for {
		f, ok := e.next()
		if !ok {
			return
		}
		err := f.tx.wait()

		e.mu.Lock()
		e.queue[0] = inflight{}
		e.queue = e.queue[1:]
		canceled := e.canceled
		e.mu.Unlock()

		if err != nil {
			code := codeOf(err)
			if canceled {
				code = transport.CodeInterrupted
			}
			e.log.WithError(err).Debug("isochronous transfer failed")
			f.onComplete(f.buf, int(code))
			continue
		}

		f.buf.Reset()
		f.onComplete(f.buf, f.tx.fill(f.buf))
	}
}

func (e *endpoint) cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
}

func (e *endpoint) cancelLocked() {
	e.canceled = true
	for _, f := range e.queue {
		f.tx.cancel()
	}
}

// close cancels everything in flight and waits until the reaper has delivered the last
// completion.
func (e *endpoint) close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		e.cancelLocked()
		e.cond.Broadcast()
	}
	e.mu.Unlock()
	<-e.done
}
