package descriptors

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestUnmarshalFrame_Discrete(t *testing.T) {
	buf := discreteFrame(0x05, 2, 1280, 720, 333333, 666666, 1000000)
	f, err := UnmarshalFrame(buf)
	if err != nil {
		t.Fatalf("UnmarshalFrame failed: %v", err)
	}
	if f.Index != 2 {
		t.Errorf("Index = %d, want 2", f.Index)
	}
	want := []time.Duration{33333300 * time.Nanosecond, 66666600 * time.Nanosecond, 100 * time.Millisecond}
	if !reflect.DeepEqual(f.DiscreteFrameIntervals, want) {
		t.Errorf("DiscreteFrameIntervals = %v, want %v", f.DiscreteFrameIntervals, want)
	}
	if !reflect.DeepEqual(f.Intervals(), want) {
		t.Errorf("Intervals() = %v, want %v", f.Intervals(), want)
	}
	if got := f.String(); got != "1280x720@30.00fps" {
		t.Errorf("String() = %s, want 1280x720@30.00fps", got)
	}
}

func TestUnmarshalFrame_Continuous(t *testing.T) {
	buf := continuousFrame(0x07, 1, 640, 480, 333333, 1000000, 333333)
	f, err := UnmarshalFrame(buf)
	if err != nil {
		t.Fatalf("UnmarshalFrame failed: %v", err)
	}
	if f.FrameIntervalType != 0 {
		t.Errorf("FrameIntervalType = %d, want 0", f.FrameIntervalType)
	}
	if f.DiscreteFrameIntervals != nil {
		t.Errorf("DiscreteFrameIntervals = %v, want nil", f.DiscreteFrameIntervals)
	}
	c := f.ContinuousFrameInterval
	if c.MinFrameInterval != 33333300*time.Nanosecond || c.MaxFrameInterval != 100*time.Millisecond {
		t.Errorf("continuous range = [%v, %v]", c.MinFrameInterval, c.MaxFrameInterval)
	}
	if n := len(f.Intervals()); n != 3 {
		t.Errorf("len(Intervals()) = %d, want 3", n)
	}
}

func TestVideoFrame_IntervalsFineStep(t *testing.T) {
	f := &VideoFrame{}
	f.ContinuousFrameInterval.MinFrameInterval = 33333300 * time.Nanosecond
	f.ContinuousFrameInterval.MaxFrameInterval = time.Second
	f.ContinuousFrameInterval.FrameIntervalStep = 100 * time.Nanosecond

	want := []time.Duration{33333300 * time.Nanosecond, time.Second}
	if got := f.Intervals(); !reflect.DeepEqual(got, want) {
		t.Errorf("Intervals() = %d entries, want bounds %v", len(got), want)
	}

	f.ContinuousFrameInterval.FrameIntervalStep = (time.Second - 33333300*time.Nanosecond) / (MaxExpandedIntervals - 1)
	if n := len(f.Intervals()); n != MaxExpandedIntervals {
		t.Errorf("len(Intervals()) = %d, want %d", n, MaxExpandedIntervals)
	}
}

func TestUnmarshalFrame_ContinuousTruncated(t *testing.T) {
	buf := continuousFrame(0x05, 1, 640, 480, 1, 2, 1)
	buf = buf[:34]
	buf[0] = 34
	if _, err := UnmarshalFrame(buf); !errors.Is(err, ErrShortDescriptor) {
		t.Errorf("err = %v, want ErrShortDescriptor", err)
	}
}

func TestUnmarshalFrame_FrameBased(t *testing.T) {
	buf := concat([]byte{0x00, 0x24, 0x11, 0x01, 0x00}, le16(1920), le16(1080),
		le32(1000), le32(2000), le32(333333), []byte{0x01}, le32(0), le32(333333))
	buf[0] = byte(len(buf))
	f, err := UnmarshalFrame(buf)
	if err != nil {
		t.Fatalf("UnmarshalFrame failed: %v", err)
	}
	if f.Width != 1920 || f.Height != 1080 {
		t.Errorf("frame = %dx%d, want 1920x1080", f.Width, f.Height)
	}
	if len(f.DiscreteFrameIntervals) != 1 || f.DiscreteFrameIntervals[0] != 33333300*time.Nanosecond {
		t.Errorf("DiscreteFrameIntervals = %v", f.DiscreteFrameIntervals)
	}
}

func TestUnmarshalFrame_UnknownSubtype(t *testing.T) {
	if _, err := UnmarshalFrame([]byte{0x04, 0x24, 0x04, 0x01}); !errors.Is(err, ErrUnknownSubtype) {
		t.Errorf("err = %v, want ErrUnknownSubtype", err)
	}
}

func TestUnmarshalFormat_MJPEG(t *testing.T) {
	vf, err := UnmarshalFormat(mjpegFormat(2, 3))
	if err != nil {
		t.Fatalf("UnmarshalFormat failed: %v", err)
	}
	if vf.Index != 2 || vf.NumFrameDescriptors != 3 {
		t.Errorf("format = index %d frames %d, want 2 and 3", vf.Index, vf.NumFrameDescriptors)
	}
	mf, ok := vf.Descriptor.(*MJPEGFormat)
	if !ok {
		t.Fatalf("Descriptor = %T, want *MJPEGFormat", vf.Descriptor)
	}
	if !mf.FixedSizeSamples() {
		t.Error("FixedSizeSamples() = false, want true")
	}
	if mf.FrameSubtype() != VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG {
		t.Errorf("FrameSubtype() = %#x", mf.FrameSubtype())
	}
}
