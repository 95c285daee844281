package o65

import (
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// ReadCString reads a NUL-terminated string, always consuming through the
// terminator regardless of maxLen so the reader's position stays correct
// for whatever follows. If the string's content exceeds maxLen, the
// returned string is truncated to maxLen bytes and truncated is true so
// the caller can emit the §4.1 "truncated" warning instead of treating
// this as a hard failure.
func ReadCString(r io.Reader, maxLen int) (s string, truncated bool, err error) {
	buf := utils.GetBuffer(0)
	defer func() { utils.ReleaseBuffer(buf) }()
	for {
		b, rerr := readU8(r)
		if rerr != nil {
			return "", false, utils.Wrap("reading o65 string", rerr)
		}
		if b == 0 {
			break
		}
		if len(buf) < maxLen {
			buf = append(buf, b)
		} else {
			truncated = true
		}
	}
	return string(buf), truncated, nil
}

// WriteCString writes s followed by a single NUL terminator.
func WriteCString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return utils.Wrap("writing o65 string", err)
	}
	return utils.Wrap("writing o65 string", writeU8(w, 0))
}
