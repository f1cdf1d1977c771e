package formats

import (
	"fmt"

	"github.com/kevmo314/go-uvc-engine/pkg/descriptors"
)

// Name describes a format the way it is listed by the tooling, e.g. "YUY2" or "MJPEG".
func Name(vf *descriptors.VideoFormat) string {
	switch d := vf.Descriptor.(type) {
	case *descriptors.UncompressedFormat:
		return CompressionFormat(d.GUIDFormat).Name()
	case *descriptors.MJPEGFormat:
		return "MJPEG"
	case *descriptors.FrameBasedFormat:
		return CompressionFormat(d.GUIDFormat).Name()
	case *descriptors.StreamBasedFormat:
		return CompressionFormat(d.GUIDFormat).Name()
	case *descriptors.MPEG2TSFormat:
		return "MPEG2-TS"
	case *descriptors.DVFormat:
		return "DV"
	case *descriptors.H264Format:
		return "H264"
	case *descriptors.VP8Format:
		return "VP8"
	}
	return fmt.Sprintf("format(%d)", vf.Index)
}

// MIMEType is the content type of one sample of the format.
func MIMEType(vf *descriptors.VideoFormat) string {
	switch d := vf.Descriptor.(type) {
	case *descriptors.MJPEGFormat:
		return "image/jpeg"
	case *descriptors.H264Format:
		return "video/h264"
	case *descriptors.VP8Format:
		return "video/vp8"
	case *descriptors.MPEG2TSFormat:
		return "video/mp2t"
	case *descriptors.DVFormat:
		return "video/dv"
	case *descriptors.FrameBasedFormat:
		switch CompressionFormat(d.GUIDFormat) {
		case CompressionFormatMJPG:
			return "image/jpeg"
		case CompressionFormatH264:
			return "video/h264"
		case CompressionFormatH265:
			return "video/h265"
		}
	}
	return "application/octet-stream"
}
