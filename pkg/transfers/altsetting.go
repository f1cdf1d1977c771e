package transfers

import (
	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
)

// findIsochronousAltSetting returns the alternate setting of si whose endpoint at
// endpointAddress has the smallest effective max packet size that still carries payloadSize
// bytes, and that packet size.
//
// UVC spec 1.5, section 2.4.3: A typical use of alternate settings is to provide a way to change the bandwidth requirements an active
// isochronous pipe imposes on the USB.
func findIsochronousAltSetting(si *descriptors.StreamingInterface, endpointAddress uint8, payloadSize uint32) (*descriptors.AlternateSetting, uint32, error) {
	var (
		best     *descriptors.AlternateSetting
		bestSize uint32
	)
	for _, altsetting := range si.AltSettings() {
		if altsetting.NumEndpoints == 0 || len(altsetting.Endpoints) == 0 {
			// UVC spec 1.5, section 2.4.3: All devices that transfer isochronous video data must
			// incorporate a zero-bandwidth alternate setting for each VideoStreaming interface that has an
			// isochronous video endpoint, and it must be the default alternate setting (alternate setting zero).
			//
			// in other words, if there aren't any endpoints on this alternate setting it's reserved for a zero-bandwidth
			// alternate setting so we can't use it and should skip it.
			continue
		}
		endpoint := altsetting.EndpointByAddress(endpointAddress)
		if endpoint == nil {
			continue
		}
		size := endpoint.EffectiveMaxPacketSize()
		if size < payloadSize {
			continue
		}
		if best == nil || size < bestSize {
			best, bestSize = altsetting, size
		}
	}
	if best == nil {
		return nil, 0, ErrNoBandwidth
	}
	return best, bestSize, nil
}
