package uvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
	"github.com/kevmo314/go-uvc-engine/pkg/requests"
	"github.com/kevmo314/go-uvc-engine/pkg/transport"
)

func TestControls(t *testing.T) {
	d, _ := openTestDevice(t)

	var names []string
	for _, c := range d.Controls() {
		names = append(names, c.String())
	}
	assert.Equal(t, []string{
		"auto_exposure_mode@1",
		"exposure_time_absolute@1",
		"brightness@3",
		"contrast@3",
	}, names)

	_, err := d.Control("zoom_absolute")
	assert.ErrorIs(t, err, ErrControlNotFound)
}

func TestControlGetSet(t *testing.T) {
	d, tr := openTestDevice(t)
	brightness, err := d.Control("brightness")
	require.NoError(t, err)

	tr.Respond(requests.RequestCodeGetCur, 0x0200, 0x0300, []byte{0xF6, 0xFF})
	v, err := d.Get(brightness)
	require.NoError(t, err)
	assert.Equal(t, int64(-10), v)

	contrast, err := d.Control("contrast")
	require.NoError(t, err)
	require.NoError(t, d.Set(contrast, 50))
	calls := tr.Calls()
	set := calls[len(calls)-1]
	assert.Equal(t, uint8(requests.RequestCodeSetCur), set.Request)
	assert.Equal(t, uint16(0x0300), set.Value)
	assert.Equal(t, uint16(0x0300), set.Index)
	assert.Equal(t, []byte{50, 0}, set.Data)

	exposure, err := d.Control("exposure_time_absolute")
	require.NoError(t, err)
	require.NoError(t, d.Set(exposure, 156))
	calls = tr.Calls()
	set = calls[len(calls)-1]
	assert.Equal(t, uint16(0x0400), set.Value)
	assert.Equal(t, uint16(0x0100), set.Index)
	assert.Equal(t, []byte{156, 0, 0, 0}, set.Data)

	before := len(tr.Calls())
	assert.ErrorIs(t, d.Set(brightness, 70000), ErrValueOutOfRange)
	assert.Len(t, tr.Calls(), before, "out of range value reached the device")
}

func TestControlRange(t *testing.T) {
	d, tr := openTestDevice(t)
	brightness, err := d.Control("brightness")
	require.NoError(t, err)

	tr.Respond(requests.RequestCodeGetMin, 0x0200, 0x0300, []byte{0xC0, 0xFF})
	tr.Respond(requests.RequestCodeGetMax, 0x0200, 0x0300, []byte{0x40, 0x00})
	tr.Respond(requests.RequestCodeGetRes, 0x0200, 0x0300, []byte{0x01, 0x00})
	tr.Respond(requests.RequestCodeGetDef, 0x0200, 0x0300, []byte{0x00, 0x00})

	r, err := d.Range(brightness)
	require.NoError(t, err)
	assert.Equal(t, ControlRange{Min: -64, Max: 64, Resolution: 1, Default: 0}, r)
}

func TestControlErrors(t *testing.T) {
	d, tr := openTestDevice(t)
	brightness, err := d.Control("brightness")
	require.NoError(t, err)

	tr.Fail(requests.RequestCodeGetCur, 0x0200, 0x0300, transport.ErrPipe)
	_, err = d.Get(brightness)
	assert.ErrorIs(t, err, transport.ErrPipe)

	assert.Error(t, d.SetRaw(brightness, []byte{1}))

	window := Control{UnitID: 1, Definition: descriptors.CameraTerminalControls[18]}
	require.Equal(t, "window", window.Definition.Name)
	_, err = d.Get(window)
	assert.ErrorIs(t, err, ErrCompositeControl)
}

func TestEncodeDecodeControl(t *testing.T) {
	def := descriptors.ControlDefinition{Name: "roll", Size: 2, Signed: true}
	buf, err := encodeControl(def, -3)
	require.NoError(t, err)
	v, err := decodeControl(def, buf)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), v)

	_, err = decodeControl(def, []byte{1})
	assert.Error(t, err)
}

func TestEncodeControl_Bounds(t *testing.T) {
	tests := []struct {
		def   descriptors.ControlDefinition
		value int64
		ok    bool
	}{
		{descriptors.ControlDefinition{Name: "brightness", Size: 2, Signed: true}, 70000, false},
		{descriptors.ControlDefinition{Name: "brightness", Size: 2, Signed: true}, -32768, true},
		{descriptors.ControlDefinition{Name: "brightness", Size: 2, Signed: true}, 32768, false},
		{descriptors.ControlDefinition{Name: "contrast", Size: 2}, 65535, true},
		{descriptors.ControlDefinition{Name: "contrast", Size: 2}, -1, false},
		{descriptors.ControlDefinition{Name: "focus_auto", Size: 1}, 256, false},
		{descriptors.ControlDefinition{Name: "exposure_time_absolute", Size: 4}, 1 << 32, false},
		{descriptors.ControlDefinition{Name: "exposure_time_absolute", Size: 4}, 1<<32 - 1, true},
	}
	for _, tt := range tests {
		_, err := encodeControl(tt.def, tt.value)
		if tt.ok {
			assert.NoError(t, err, "%s = %d", tt.def.Name, tt.value)
		} else {
			assert.ErrorIs(t, err, ErrValueOutOfRange, "%s = %d", tt.def.Name, tt.value)
		}
	}
}
