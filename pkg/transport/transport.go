// Package transport defines the host USB operations the engine needs. Implementations own
// device access, permissions and interface claiming.
package transport

import "time"

// CompletionFunc is called once per submitted isochronous buffer. A negative result is a
// transfer-level failure code.
type CompletionFunc func(buf *IsoBuffer, result int)

type Transport interface {
	// ControlTransfer issues a control transfer on the default pipe and returns the number of
	// bytes transferred.
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
	SelectAlternateSetting(iface, alt uint8) error
	// SubmitIsochronous queues buf on endpoint. onComplete is invoked asynchronously when the
	// buffer completes and may be invoked from a goroutine owned by the transport.
	SubmitIsochronous(endpoint uint8, buf *IsoBuffer, onComplete CompletionFunc) error
}

// Canceler is implemented by transports that can abort in-flight isochronous buffers.
type Canceler interface {
	CancelIsochronous(endpoint uint8) error
}

// IsoBuffer is one isochronous transfer of PacketCount packets of up to PacketSize bytes.
type IsoBuffer struct {
	PacketSize  int
	PacketCount int
	Data        []byte
	// Lengths holds the number of bytes received in each packet.
	Lengths []int
	// Status holds the per-packet completion status. Zero is success.
	Status []int
}

func NewIsoBuffer(packetCount, packetSize int) *IsoBuffer {
	return &IsoBuffer{
		PacketSize:  packetSize,
		PacketCount: packetCount,
		Data:        make([]byte, packetCount*packetSize),
		Lengths:     make([]int, packetCount),
		Status:      make([]int, packetCount),
	}
}

// Packet returns the filled bytes of packet i.
func (b *IsoBuffer) Packet(i int) []byte {
	start := i * b.PacketSize
	n := b.Lengths[i]
	if n > b.PacketSize {
		n = b.PacketSize
	}
	return b.Data[start : start+n]
}

// Fill copies p into packet i and records its length. Bytes past PacketSize are dropped.
func (b *IsoBuffer) Fill(i int, p []byte) {
	b.Lengths[i] = copy(b.Data[i*b.PacketSize:(i+1)*b.PacketSize], p)
	b.Status[i] = 0
}

// Reset clears the packet lengths and statuses before the buffer is resubmitted.
func (b *IsoBuffer) Reset() {
	for i := range b.Lengths {
		b.Lengths[i] = 0
		b.Status[i] = 0
	}
}
