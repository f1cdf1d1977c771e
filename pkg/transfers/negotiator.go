package transfers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/requests"
	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

// DefaultTimeout bounds each control transfer of a negotiation.
const DefaultTimeout = 500 * time.Millisecond

type NegotiateOption func(*Negotiator)

func WithTimeout(d time.Duration) NegotiateOption {
	return func(n *Negotiator) {
		if d > 0 {
			n.timeout = d
		}
	}
}

func WithLogger(log logrus.FieldLogger) NegotiateOption {
	return func(n *Negotiator) {
		n.log = log
	}
}

// Negotiator runs the probe/commit exchange for one streaming interface.
type Negotiator struct {
	t       transport.Transport
	vc      *descriptors.ControlInterface
	vs      *descriptors.StreamingInterface
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewNegotiator(t transport.Transport, vc *descriptors.ControlInterface, vs *descriptors.StreamingInterface, opts ...NegotiateOption) *Negotiator {
	n := &Negotiator{
		t:       t,
		vc:      vc,
		vs:      vs,
		timeout: DefaultTimeout,
		log:     quietLogger(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.WithField("iface", vs.Number())
	return n
}

// Establish negotiates req on vs and selects the alternate setting that can carry it.
func Establish(ctx context.Context, t transport.Transport, vc *descriptors.ControlInterface, vs *descriptors.StreamingInterface, req *FormatRequest, opts ...NegotiateOption) (*NegotiatedStreamParameters, error) {
	return NewNegotiator(t, vc, vs, opts...).Establish(ctx, req)
}

// Establish performs SET_CUR probe, GET_CUR probe, SET_CUR commit and a request error code
// check, then switches the streaming interface to the narrowest alternate setting whose
// endpoint fits the negotiated payload transfer size. The device's answer to the probe is
// accepted as is.
func (n *Negotiator) Establish(ctx context.Context, req *FormatRequest) (*NegotiatedStreamParameters, error) {
	vpcc, err := n.buildProbe(req)
	if err != nil {
		return nil, &NegotiationError{Step: StepBuildProbe, Err: err}
	}
	log := n.log.WithFields(logrus.Fields{
		"format_index": vpcc.FormatIndex,
		"frame_index":  vpcc.FrameIndex,
	})

	buf := make([]byte, descriptors.ProbeCommitControlSize)
	if err := vpcc.MarshalInto(buf); err != nil {
		return nil, &NegotiationError{Step: StepBuildProbe, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, &NegotiationError{Step: StepSetProbe, Err: err}
	}
	log.WithField("step", StepSetProbe).Debug("negotiating")
	if err := n.streamingRequest(requests.RequestCodeSetCur, requests.VideoStreamingInterfaceControlSelectorProbeControl, buf); err != nil {
		return nil, n.fail(StepSetProbe, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, &NegotiationError{Step: StepGetProbe, Err: err}
	}
	log.WithField("step", StepGetProbe).Debug("negotiating")
	got := make([]byte, descriptors.ProbeCommitControlSize)
	m, err := n.streamingRequestN(requests.RequestCodeGetCur, requests.VideoStreamingInterfaceControlSelectorProbeControl, got)
	if err != nil {
		return nil, n.fail(StepGetProbe, err)
	}
	device := &descriptors.VideoProbeCommitControl{}
	if err := device.UnmarshalBinary(got[:m]); err != nil {
		return nil, &NegotiationError{Step: StepGetProbe, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, &NegotiationError{Step: StepSetCommit, Err: err}
	}
	log.WithField("step", StepSetCommit).Debug("negotiating")
	if err := n.streamingRequest(requests.RequestCodeSetCur, requests.VideoStreamingInterfaceControlSelectorCommitControl, got[:m]); err != nil {
		return nil, n.fail(StepSetCommit, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, &NegotiationError{Step: StepRequestErrorCode, Err: err}
	}
	code, err := n.RequestErrorCode()
	if err != nil {
		return nil, &NegotiationError{Step: StepRequestErrorCode, Code: requests.RequestErrorCodeUnknown, Err: err}
	}
	if code != requests.RequestErrorCodeNoError {
		return nil, &NegotiationError{Step: StepRequestErrorCode, Code: code, Err: ErrDeviceRejected}
	}

	params := ParametersFromProbe(device)
	params.InterfaceNumber = n.vs.Number()

	endpointAddress, ok := n.vs.EndpointAddress()
	if !ok {
		return nil, &NegotiationError{Step: StepSelectAlternateSetting, Err: ErrNoEndpoint}
	}
	altsetting, packetSize, err := findIsochronousAltSetting(n.vs, endpointAddress, params.MaxPayloadTransferSize)
	if err != nil {
		return nil, &NegotiationError{Step: StepSelectAlternateSetting, Err: err}
	}
	if err := n.t.SelectAlternateSetting(n.vs.Number(), altsetting.AlternateSetting); err != nil {
		return nil, &NegotiationError{Step: StepSelectAlternateSetting, Err: err}
	}
	params.AlternateSetting = altsetting.AlternateSetting
	params.EndpointAddress = endpointAddress
	params.PacketSize = packetSize

	log.WithFields(logrus.Fields{
		"alt":                       params.AlternateSetting,
		"max_payload_transfer_size": params.MaxPayloadTransferSize,
		"max_video_frame_size":      params.MaxVideoFrameSize,
		"packet_size":               params.PacketSize,
	}).Info("stream negotiated")
	return params, nil
}

// ProbeBounds holds the GET_MIN, GET_MAX and GET_DEF answers for the probe control.
type ProbeBounds struct {
	Min, Max, Def *descriptors.VideoProbeCommitControl
}

// Probe reads the device's probe control bounds without changing any state.
func (n *Negotiator) Probe(ctx context.Context) (*ProbeBounds, error) {
	bounds := &ProbeBounds{}
	for _, q := range []struct {
		code requests.RequestCode
		dst  **descriptors.VideoProbeCommitControl
	}{
		{requests.RequestCodeGetMin, &bounds.Min},
		{requests.RequestCodeGetMax, &bounds.Max},
		{requests.RequestCodeGetDef, &bounds.Def},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := make([]byte, descriptors.ProbeCommitControlSize)
		m, err := n.streamingRequestN(q.code, requests.VideoStreamingInterfaceControlSelectorProbeControl, buf)
		if err != nil {
			return nil, fmt.Errorf("failed to read probe %s: %w", q.code, err)
		}
		vpcc := &descriptors.VideoProbeCommitControl{}
		if err := vpcc.UnmarshalBinary(buf[:m]); err != nil {
			return nil, fmt.Errorf("failed to decode probe %s: %w", q.code, err)
		}
		*q.dst = vpcc
	}
	return bounds, nil
}

// StopStreaming returns the streaming interface to the zero-bandwidth alternate setting.
func (n *Negotiator) StopStreaming() error {
	if err := n.t.SelectAlternateSetting(n.vs.Number(), 0); err != nil {
		return fmt.Errorf("failed to select alternate setting 0: %w", err)
	}
	return nil
}

// RequestErrorCode reads VC_REQUEST_ERROR_CODE_CONTROL, which holds the outcome of the last
// request addressed to the function.
func (n *Negotiator) RequestErrorCode() (requests.RequestErrorCode, error) {
	buf := make([]byte, 1)
	_, err := n.t.ControlTransfer(
		uint8(requests.RequestTypeVideoInterfaceGetRequest),
		uint8(requests.RequestCodeGetCur),
		requests.Value(uint8(requests.InterfaceControlSelectorRequestErrorCodeControl)),
		requests.Index(0, n.vc.Number()),
		buf,
		n.timeout,
	)
	if err != nil {
		return requests.RequestErrorCodeUnknown, err
	}
	return requests.RequestErrorCode(buf[0]), nil
}

// fail builds the error for a failed control transfer, reading the request error code once
// to explain it.
func (n *Negotiator) fail(step Step, err error) error {
	code, cerr := n.RequestErrorCode()
	if cerr != nil {
		n.log.WithField("step", step).WithError(cerr).Debug("failed to read request error code")
		code = requests.RequestErrorCodeUnknown
	}
	return &NegotiationError{Step: step, Code: code, Err: err}
}

func (n *Negotiator) buildProbe(req *FormatRequest) (*descriptors.VideoProbeCommitControl, error) {
	if req == nil {
		req = &FormatRequest{}
	}
	var vf *descriptors.VideoFormat
	if req.FormatIndex == 0 {
		if len(n.vs.Formats) == 0 {
			return nil, ErrFormatNotFound
		}
		vf = n.vs.Formats[0]
	} else if vf = n.vs.Format(req.FormatIndex); vf == nil {
		return nil, fmt.Errorf("%w: index %d", ErrFormatNotFound, req.FormatIndex)
	}
	var frame *descriptors.VideoFrame
	if req.FrameIndex == 0 {
		if len(vf.Frames) == 0 {
			return nil, ErrFrameNotFound
		}
		frame = vf.Frames[0]
	} else if frame = vf.Frame(req.FrameIndex); frame == nil {
		return nil, fmt.Errorf("%w: index %d", ErrFrameNotFound, req.FrameIndex)
	}
	interval := req.FrameInterval
	if interval == 0 {
		interval = frame.DefaultFrameInterval
	}
	return &descriptors.VideoProbeCommitControl{
		HintBitmask:        descriptors.HintFrameInterval,
		FormatIndex:        vf.Index,
		FrameIndex:         frame.Index,
		FrameInterval:      interval,
		FramingInfoBitmask: descriptors.FramingInfoFrameIDRequired | descriptors.FramingInfoEndOfFrame,
	}, nil
}

func (n *Negotiator) streamingRequest(code requests.RequestCode, selector requests.VideoStreamingInterfaceControlSelector, buf []byte) error {
	_, err := n.streamingRequestN(code, selector, buf)
	return err
}

func (n *Negotiator) streamingRequestN(code requests.RequestCode, selector requests.VideoStreamingInterfaceControlSelector, buf []byte) (int, error) {
	return n.t.ControlTransfer(
		uint8(code.Type()),
		uint8(code),
		requests.Value(uint8(selector)),
		requests.Index(0, n.vs.Number()),
		buf,
		n.timeout,
	)
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}
