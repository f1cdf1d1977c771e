package formats

import (
	"bytes"

	"github.com/google/uuid"
)

type CompressionFormat [16]byte

var (
	CompressionFormatYUY2 = CompressionFormat(uuid.MustParse("32595559-0000-0010-8000-00AA00389B71"))
	CompressionFormatUYVY = CompressionFormat(uuid.MustParse("59565955-0000-0010-8000-00AA00389B71"))
	CompressionFormatNV12 = CompressionFormat(uuid.MustParse("3231564E-0000-0010-8000-00AA00389B71"))
	CompressionFormatM420 = CompressionFormat(uuid.MustParse("3032344D-0000-0010-8000-00AA00389B71"))
	CompressionFormatI420 = CompressionFormat(uuid.MustParse("30323449-0000-0010-8000-00AA00389B71"))
	CompressionFormatY800 = CompressionFormat(uuid.MustParse("30303859-0000-0010-8000-00AA00389B71"))
	CompressionFormatP010 = CompressionFormat(uuid.MustParse("30313050-0000-0010-8000-00AA00389B71"))
	CompressionFormatMJPG = CompressionFormat(uuid.MustParse("47504A4D-0000-0010-8000-00AA00389B71"))
	CompressionFormatH264 = CompressionFormat(uuid.MustParse("34363248-0000-0010-8000-00AA00389B71"))
	CompressionFormatH265 = CompressionFormat(uuid.MustParse("35363248-0000-0010-8000-00AA00389B71"))
	CompressionFormatBGR3 = CompressionFormat(uuid.MustParse("E436EB7D-524F-11CE-9F53-0020AF0BA770"))
)

var names = map[CompressionFormat]string{
	CompressionFormatBGR3: "BGR3",
}

// mediaSubtypeSuffix is the tail shared by every FourCC-derived media subtype GUID.
var mediaSubtypeSuffix = uuid.MustParse("00000000-0000-0010-8000-00AA00389B71")

// FourCC returns the four character code encoded in the GUID's first field, if the GUID is a
// FourCC-derived media subtype.
func (cf CompressionFormat) FourCC() (string, bool) {
	if !bytes.Equal(cf[4:], mediaSubtypeSuffix[4:]) {
		return "", false
	}
	code := []byte{cf[3], cf[2], cf[1], cf[0]}
	for _, c := range code {
		if c < 0x20 || c > 0x7e {
			return "", false
		}
	}
	return string(code), true
}

// Name is the FourCC of the format, a well-known name, or the GUID itself.
func (cf CompressionFormat) Name() string {
	if name, ok := names[cf]; ok {
		return name
	}
	if code, ok := cf.FourCC(); ok {
		return code
	}
	return uuid.UUID(cf).String()
}

func (cf CompressionFormat) String() string {
	return cf.Name()
}
