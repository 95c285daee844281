package o65

import (
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// SegID identifies one of the four logical segments, or the two special
// values `undef` (an external reference) and `abs` (an already-resolved
// absolute value). It is used both as a relocation's source segment and
// as an exported symbol's segment.
type SegID uint8

const (
	SegUndef SegID = 0
	SegAbs   SegID = 1
	SegText  SegID = 2
	SegData  SegID = 3
	SegBSS   SegID = 4
	SegZP    SegID = 5
)

// String renders a segment ID by name, for inspection output. Per the
// open question in spec §9, `abs` is rendered here for completeness even
// though the relocator treats it as format-invalid as a relocation
// source.
func (s SegID) String() string {
	switch s {
	case SegUndef:
		return "undef"
	case SegAbs:
		return "abs"
	case SegText:
		return "text"
	case SegData:
		return "data"
	case SegBSS:
		return "bss"
	case SegZP:
		return "zeropage"
	default:
		return "unknown"
	}
}

// ReadSegment reads exactly size bytes into a freshly owned buffer.
func ReadSegment(r io.Reader, size uint32) ([]byte, error) {
	if err := utils.ValidateBufferSize(uint64(size), utils.MaxSegmentSize, "segment"); err != nil {
		return nil, utils.Wrap("reading segment", ErrBufferTooLarge)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, utils.Wrap("reading segment", shortRead(err))
	}
	return buf, nil
}
