package descriptors

import (
	"fmt"

	"github.com/google/uuid"
)

func copyGUID(dst []byte, src []byte) {
	// copy according to the GUID format defined in UVC spec 1.5, section 2.9.
	dst[0] = src[3]
	dst[1] = src[2]
	dst[2] = src[1]
	dst[3] = src[0]
	dst[4] = src[5]
	dst[5] = src[4]
	dst[6] = src[7]
	dst[7] = src[6]
	copy(dst[8:16], src[8:16])
}

func readGUID(src []byte) uuid.UUID {
	var id uuid.UUID
	copyGUID(id[:], src)
	return id
}

// need checks that buf holds at least n bytes for the descriptor being decoded.
func need(buf []byte, n int) error {
	if len(buf) < n {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortDescriptor, len(buf), n)
	}
	return nil
}
