package o65

import "errors"

// Sentinel errors distinguishing the three error kinds every Codec
// operation can produce: a structural violation found in the data
// (wrapped in ErrFormatInvalid), a short read or other I/O failure
// (wrapped in ErrShortRead or surfaced verbatim from the reader), and
// resource exhaustion (ErrBufferTooLarge, guarding against hostile
// length fields before an allocation is attempted).
var (
	// ErrBadSignature means the six leading bytes did not match the
	// `.o65` magic.
	ErrBadSignature = errors.New("o65: bad signature")

	// ErrShortRead means fewer bytes were available than a fixed-shape
	// record requires.
	ErrShortRead = errors.New("o65: short read")

	// ErrFormatInvalid means the bytes were structurally well-formed
	// enough to read but violate a format invariant (e.g. an option
	// record of length 1, or a relocation segment ID that is never
	// valid as a source).
	ErrFormatInvalid = errors.New("o65: invalid format")

	// ErrBufferTooLarge means a length field exceeded the sanity bound
	// in internal/utils before any allocation was attempted.
	ErrBufferTooLarge = errors.New("o65: buffer too large")
)
