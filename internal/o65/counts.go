package o65

import (
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// ReadCount reads a width-prefixed count: 16 bits if the header's
// 32-bit-width flag is clear, else 32 bits. Unlike the source this
// package is grounded on, the 32-bit case always reads the full four
// bytes — see SPEC_FULL.md's Open Questions for why the short read the
// original performs is not replicated here.
func ReadCount(r io.Reader, width32 bool) (uint32, error) {
	v, err := readU16or32(r, width32)
	if err != nil {
		return 0, utils.Wrap("reading o65 count", err)
	}
	return v, nil
}

// WriteCount writes a count at the width selected by width32.
func WriteCount(w io.Writer, v uint32, width32 bool) error {
	return utils.Wrap("writing o65 count", writeU16or32(w, v, width32))
}
