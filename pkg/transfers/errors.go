package transfers

import (
	"errors"
	"fmt"

	"github.com/kevmo314/go-uvc-engine/pkg/requests"
	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

var (
	ErrInvalidHeader  = errors.New("invalid payload header")
	ErrNoBandwidth    = errors.New("no alternate setting provides the requested bandwidth")
	ErrNoEndpoint     = errors.New("streaming interface has no video endpoint")
	ErrFormatNotFound = errors.New("format not found")
	ErrFrameNotFound  = errors.New("frame not found")
	ErrDeviceRejected = errors.New("device rejected request")
)

// Step identifies the negotiation stage a NegotiationError happened in.
type Step int

const (
	StepBuildProbe Step = iota
	StepSetProbe
	StepGetProbe
	StepSetCommit
	StepRequestErrorCode
	StepSelectAlternateSetting
)

func (s Step) String() string {
	switch s {
	case StepBuildProbe:
		return "build probe"
	case StepSetProbe:
		return "SET_CUR probe"
	case StepGetProbe:
		return "GET_CUR probe"
	case StepSetCommit:
		return "SET_CUR commit"
	case StepRequestErrorCode:
		return "GET_CUR request error code"
	case StepSelectAlternateSetting:
		return "select alternate setting"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// NegotiationError reports the step that failed and the device's request error code, if one
// could be read.
type NegotiationError struct {
	Step Step
	Code requests.RequestErrorCode
	Err  error
}

func (e *NegotiationError) Error() string {
	if e.Code != requests.RequestErrorCodeNoError {
		return fmt.Sprintf("negotiation failed at %s: %s: %v", e.Step, e.Code, e.Err)
	}
	return fmt.Sprintf("negotiation failed at %s: %v", e.Step, e.Err)
}

func (e *NegotiationError) Unwrap() error {
	return e.Err
}

// IOError is a fatal transfer completion. It unwraps to the matching *transport.Error so
// errors.Is(err, transport.ErrNoDevice) works.
type IOError struct {
	Code transport.Code
}

func (e *IOError) Error() string {
	return fmt.Sprintf("isochronous transfer failed: %s", e.Code)
}

func (e *IOError) Unwrap() error {
	return &transport.Error{Op: "isochronous transfer", Code: e.Code}
}
