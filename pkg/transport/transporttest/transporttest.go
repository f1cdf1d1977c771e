// Package transporttest provides a scripted transport.Transport for tests.
package transporttest

import (
	"sync"
	"time"

	"github.com/kevmo314/go-uvc-engine/pkg/requests"
	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

// ControlCall is one recorded control transfer. Data holds the bytes sent for SET requests and
// the bytes returned for GET requests.
type ControlCall struct {
	RequestType uint8
	Request     uint8
	Value       uint16
	Index       uint16
	Length      int
	Data        []byte
	Timeout     time.Duration
}

type AltSettingCall struct {
	Interface, AltSetting uint8
}

type Submission struct {
	Endpoint   uint8
	Buffer     *transport.IsoBuffer
	OnComplete transport.CompletionFunc
}

// Complete fills the buffer with packets and invokes the completion callback with result. A
// nil packet leaves that slot empty.
func (s *Submission) Complete(packets [][]byte, result int) {
	s.Buffer.Reset()
	for i, p := range packets {
		if i >= s.Buffer.PacketCount {
			break
		}
		if p != nil {
			s.Buffer.Fill(i, p)
		}
	}
	s.OnComplete(s.Buffer, result)
}

type controlKey struct {
	request      uint8
	value, index uint16
}

type response struct {
	data []byte
	err  error
}

// Transport records every call. GET requests are answered from canned responses first, then
// from the last SET_CUR to the same control, then with zeros.
type Transport struct {
	mu        sync.Mutex
	responses map[controlKey][]response
	current   map[controlKey][]byte
	calls     []ControlCall
	alts      []AltSettingCall
	cancels   []uint8

	submissions chan *Submission

	// AltSettingErr is returned by SelectAlternateSetting when set.
	AltSettingErr error
	// SubmitErr is returned by SubmitIsochronous when set.
	SubmitErr error
}

var _ transport.Transport = (*Transport)(nil)
var _ transport.Canceler = (*Transport)(nil)

func New() *Transport {
	return &Transport{
		responses:   make(map[controlKey][]response),
		current:     make(map[controlKey][]byte),
		submissions: make(chan *Submission, 256),
	}
}

// Respond queues data as the answer to the next request with this code, wValue and wIndex.
// Queued responses are consumed in order; the last one is repeated.
func (t *Transport) Respond(request requests.RequestCode, value, index uint16, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := controlKey{uint8(request), value, index}
	t.responses[k] = append(t.responses[k], response{data: data})
}

// Fail makes the next request with this code, wValue and wIndex return err.
func (t *Transport) Fail(request requests.RequestCode, value, index uint16, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := controlKey{uint8(request), value, index}
	t.responses[k] = append(t.responses[k], response{err: err})
}

func (t *Transport) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	call := ControlCall{
		RequestType: requestType,
		Request:     request,
		Value:       value,
		Index:       index,
		Length:      len(data),
		Timeout:     timeout,
	}
	k := controlKey{request, value, index}
	if q := t.responses[k]; len(q) > 0 {
		r := q[0]
		if len(q) > 1 {
			t.responses[k] = q[1:]
		}
		if r.err != nil {
			t.calls = append(t.calls, call)
			return 0, r.err
		}
		if requestType&0x80 != 0 {
			n := copy(data, r.data)
			call.Data = append([]byte(nil), data[:n]...)
			t.calls = append(t.calls, call)
			return n, nil
		}
	}
	if requestType&0x80 == 0 {
		call.Data = append([]byte(nil), data...)
		if requests.RequestCode(request) == requests.RequestCodeSetCur {
			t.current[controlKey{uint8(requests.RequestCodeGetCur), value, index}] = call.Data
		}
		t.calls = append(t.calls, call)
		return len(data), nil
	}
	for i := range data {
		data[i] = 0
	}
	copy(data, t.current[k])
	call.Data = append([]byte(nil), data...)
	t.calls = append(t.calls, call)
	return len(data), nil
}

func (t *Transport) SelectAlternateSetting(iface, alt uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alts = append(t.alts, AltSettingCall{iface, alt})
	return t.AltSettingErr
}

func (t *Transport) SubmitIsochronous(endpoint uint8, buf *transport.IsoBuffer, onComplete transport.CompletionFunc) error {
	t.mu.Lock()
	err := t.SubmitErr
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.submissions <- &Submission{Endpoint: endpoint, Buffer: buf, OnComplete: onComplete}
	return nil
}

func (t *Transport) CancelIsochronous(endpoint uint8) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancels = append(t.cancels, endpoint)
	return nil
}

// Calls returns the control transfers issued so far.
func (t *Transport) Calls() []ControlCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ControlCall(nil), t.calls...)
}

func (t *Transport) AltSettings() []AltSettingCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]AltSettingCall(nil), t.alts...)
}

func (t *Transport) Cancels() []uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]uint8(nil), t.cancels...)
}

// NextSubmission waits up to timeout for the next submitted isochronous buffer.
func (t *Transport) NextSubmission(timeout time.Duration) (*Submission, bool) {
	select {
	case s := <-t.submissions:
		return s, true
	case <-time.After(timeout):
		return nil, false
	}
}

// Pending returns the number of submissions not yet taken by NextSubmission.
func (t *Transport) Pending() int {
	return len(t.submissions)
}
