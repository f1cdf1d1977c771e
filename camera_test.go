//go:build integration && linux

package uvc

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
)

// UVC_TEST_DEVICE names the usbfs node of an attached webcam, for example
// /dev/bus/usb/001/002.
func openCamera(t *testing.T) *Device {
	t.Helper()
	path := os.Getenv("UVC_TEST_DEVICE")
	if path == "" {
		t.Skip("UVC_TEST_DEVICE not set")
	}
	d, err := OpenPath(path)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestAutoExposureMode(t *testing.T) {
	d := openCamera(t)
	c, err := d.Control("auto_exposure_mode")
	if err != nil {
		t.Skip(err)
	}
	require.NoError(t, d.Set(c, int64(descriptors.AutoExposureModeManual)))
	mode, err := d.Get(c)
	require.NoError(t, err)
	assert.Equal(t, int64(descriptors.AutoExposureModeManual), mode)
}

func TestAutoFocus(t *testing.T) {
	d := openCamera(t)
	c, err := d.Control("focus_auto")
	if err != nil {
		t.Skip(err)
	}
	require.NoError(t, d.Set(c, 1))
	v, err := d.Get(c)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestCapture(t *testing.T) {
	d := openCamera(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	params, err := d.Negotiate(ctx, 0, nil)
	require.NoError(t, err)
	s, err := d.StartStream(ctx, params)
	require.NoError(t, err)
	defer s.Close()

	sample, err := s.ReadSample(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sample.Data)
	assert.LessOrEqual(t, len(sample.Data), int(params.MaxVideoFrameSize))
}
