package uvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/requests"
	"github.com/kevmo314/go-uvc-engine/pkg/transfers"
	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

var (
	ErrNoVideoFunction = errors.New("no video function")
	ErrNoStreaming     = errors.New("streaming interface not found")
	ErrClosed          = errors.New("device closed")
)

type Option func(*Device)

// claimer is implemented by transports that must claim an interface before addressing it.
type claimer interface {
	ClaimInterface(iface uint8) error
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Device) { d.log = log }
}

// WithTimeout bounds every control transfer the device issues.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithParseOptions(opts ...descriptors.ParseOption) Option {
	return func(d *Device) { d.parseOpts = append(d.parseOpts, opts...) }
}

func WithStreamOptions(opts ...transfers.StreamOption) Option {
	return func(d *Device) { d.streamOpts = append(d.streamOpts, opts...) }
}

// WithConfig applies the negotiation, stream and descriptor settings of cfg.
func WithConfig(cfg *Config) Option {
	return func(d *Device) {
		WithTimeout(cfg.Negotiation.Timeout)(d)
		if cfg.Descriptors.AllowDanglingSources {
			d.parseOpts = append(d.parseOpts, descriptors.AllowDanglingSources())
		}
		d.streamOpts = append(d.streamOpts,
			transfers.WithTransferCount(cfg.Stream.Transfers),
			transfers.WithPacketsPerTransfer(cfg.Stream.PacketsPerTransfer),
			transfers.WithQueueDepth(cfg.Stream.QueueDepth),
		)
	}
}

// Device is an open session with one UVC function. It owns the transport if the transport
// implements io.Closer.
type Device struct {
	t          transport.Transport
	log        logrus.FieldLogger
	timeout    time.Duration
	parseOpts  []descriptors.ParseOption
	streamOpts []transfers.StreamOption

	iads  []*descriptors.InterfaceAssociation
	video *descriptors.InterfaceAssociation

	mu      sync.Mutex
	streams map[uint8]*transfers.Stream
	closed  *atomic.Bool
}

// Open parses the raw configuration descriptor of the device behind t and parks every
// streaming interface on its zero-bandwidth alternate setting.
func Open(t transport.Transport, raw []byte, opts ...Option) (*Device, error) {
	d := &Device{
		t:       t,
		log:     quietLogger(),
		timeout: transfers.DefaultTimeout,
		streams: make(map[uint8]*transfers.Stream),
		closed:  &atomic.Bool{},
	}
	for _, opt := range opts {
		opt(d)
	}
	iads, err := descriptors.Parse(raw, append([]descriptors.ParseOption{descriptors.WithLogger(d.log)}, d.parseOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration descriptor: %w", err)
	}
	d.iads = iads
	for _, iad := range iads {
		if iad.IsVideo() && iad.Control != nil {
			d.video = iad
			break
		}
	}
	if d.video == nil {
		return nil, ErrNoVideoFunction
	}
	if c, ok := t.(claimer); ok {
		if err := c.ClaimInterface(d.video.Control.Number()); err != nil {
			return nil, fmt.Errorf("failed to claim control interface: %w", err)
		}
	}
	for _, si := range d.video.Streaming {
		if err := t.SelectAlternateSetting(si.Number(), 0); err != nil {
			return nil, fmt.Errorf("failed to select zero bandwidth setting on interface %d: %w", si.Number(), err)
		}
	}
	d.log.WithFields(logrus.Fields{
		"iface":      d.video.Control.Number(),
		"streaming":  len(d.video.Streaming),
		"uvc":        d.UVCVersion(),
		"iad_count":  len(iads),
		"unit_count": len(d.video.Control.Units),
	}).Debug("device opened")
	return d, nil
}

// DeviceInfo summarizes the parsed configuration.
type DeviceInfo struct {
	Associations []*descriptors.InterfaceAssociation
	Video        *descriptors.InterfaceAssociation
	Control      *descriptors.ControlInterface
	Streaming    []*descriptors.StreamingInterface
	UVCVersion   string
}

func (d *Device) Info() *DeviceInfo {
	return &DeviceInfo{
		Associations: d.iads,
		Video:        d.video,
		Control:      d.video.Control,
		Streaming:    d.video.Streaming,
		UVCVersion:   d.UVCVersion(),
	}
}

func (d *Device) UVCVersion() string {
	if d.video.Control.Header == nil {
		return ""
	}
	return d.video.Control.Header.UVC.String()
}

// StreamingInterface returns the streaming interface with bInterfaceNumber number. Zero
// selects the first one.
func (d *Device) StreamingInterface(number uint8) (*descriptors.StreamingInterface, error) {
	if number == 0 {
		if len(d.video.Streaming) == 0 {
			return nil, ErrNoStreaming
		}
		return d.video.Streaming[0], nil
	}
	if si := d.video.StreamingInterface(number); si != nil {
		return si, nil
	}
	return nil, fmt.Errorf("%w: interface %d", ErrNoStreaming, number)
}

func (d *Device) negotiator(si *descriptors.StreamingInterface) *transfers.Negotiator {
	return transfers.NewNegotiator(d.t, d.video.Control, si,
		transfers.WithTimeout(d.timeout),
		transfers.WithLogger(d.log),
	)
}

// Negotiate commits req on the streaming interface iface and selects the alternate setting
// that carries it.
func (d *Device) Negotiate(ctx context.Context, iface uint8, req *transfers.FormatRequest) (*transfers.NegotiatedStreamParameters, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	si, err := d.StreamingInterface(iface)
	if err != nil {
		return nil, err
	}
	return d.negotiator(si).Establish(ctx, req)
}

// ProbeBounds reads the probe control limits of the streaming interface iface.
func (d *Device) ProbeBounds(ctx context.Context, iface uint8) (*transfers.ProbeBounds, error) {
	si, err := d.StreamingInterface(iface)
	if err != nil {
		return nil, err
	}
	return d.negotiator(si).Probe(ctx)
}

// StartStream starts streaming with params, which must come from Negotiate. A stream already
// running on the same interface is closed first.
func (d *Device) StartStream(ctx context.Context, params *transfers.NegotiatedStreamParameters) (*transfers.Stream, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.streams[params.InterfaceNumber]; ok {
		old.Close()
	}
	s, err := transfers.StartStream(ctx, d.t, params, append(d.streamOpts, transfers.WithStreamLogger(d.log))...)
	if err != nil {
		return nil, err
	}
	d.streams[params.InterfaceNumber] = s
	return s, nil
}

// StopStream closes the stream on iface and returns the interface to alternate setting 0.
func (d *Device) StopStream(iface uint8) error {
	si, err := d.StreamingInterface(iface)
	if err != nil {
		return err
	}
	d.mu.Lock()
	if s, ok := d.streams[si.Number()]; ok {
		s.Close()
		delete(d.streams, si.Number())
	}
	d.mu.Unlock()
	return d.negotiator(si).StopStreaming()
}

// PowerMode reads VC_VIDEO_POWER_MODE_CONTROL.
func (d *Device) PowerMode() (requests.PowerMode, error) {
	buf := make([]byte, 1)
	if _, err := d.interfaceRequest(requests.RequestCodeGetCur, requests.InterfaceControlSelectorVideoPowerModeControl, buf); err != nil {
		return 0, fmt.Errorf("failed to read power mode: %w", err)
	}
	return requests.PowerMode(buf[0]), nil
}

// SetPowerMode writes the mode bits of VC_VIDEO_POWER_MODE_CONTROL. Only
// PowerModeFullPower and PowerModeVendorDependent are settable.
func (d *Device) SetPowerMode(mode requests.PowerMode) error {
	buf := []byte{uint8(mode.Mode())}
	if _, err := d.interfaceRequest(requests.RequestCodeSetCur, requests.InterfaceControlSelectorVideoPowerModeControl, buf); err != nil {
		return fmt.Errorf("failed to set power mode: %w", err)
	}
	return nil
}

// RequestErrorCode reads the outcome of the last request addressed to the video function.
func (d *Device) RequestErrorCode() (requests.RequestErrorCode, error) {
	buf := make([]byte, 1)
	if _, err := d.interfaceRequest(requests.RequestCodeGetCur, requests.InterfaceControlSelectorRequestErrorCodeControl, buf); err != nil {
		return requests.RequestErrorCodeUnknown, err
	}
	return requests.RequestErrorCode(buf[0]), nil
}

func (d *Device) interfaceRequest(code requests.RequestCode, selector requests.InterfaceControlSelector, buf []byte) (int, error) {
	return d.t.ControlTransfer(
		uint8(code.Type()),
		uint8(code),
		requests.Value(uint8(selector)),
		requests.Index(0, d.video.Control.Number()),
		buf,
		d.timeout,
	)
}

// Close stops every stream, returns the streaming interfaces to alternate setting 0 and
// closes the transport.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	d.mu.Lock()
	for iface, s := range d.streams {
		s.Close()
		delete(d.streams, iface)
	}
	d.mu.Unlock()

	var errs []error
	for _, si := range d.video.Streaming {
		if err := d.t.SelectAlternateSetting(si.Number(), 0); err != nil {
			errs = append(errs, fmt.Errorf("failed to select zero bandwidth setting on interface %d: %w", si.Number(), err))
		}
	}
	if c, ok := d.t.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
