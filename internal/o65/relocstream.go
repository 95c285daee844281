package o65

import (
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// RelocReader decodes a single segment's relocation stream: the cursor
// starts at base-1 (wrapping, as the format's own "~0-style sentinel"
// convention expects for a zero base) and advances by each record's
// delta, so Next returns entries with their absolute address already
// resolved.
type RelocReader struct {
	r       io.Reader
	cursor  uint32
	width32 bool
	paged   bool
}

// NewRelocReader creates a reader positioned at base-1, ready to decode
// the stream for one segment.
func NewRelocReader(r io.Reader, base uint32, width32, paged bool) *RelocReader {
	return &RelocReader{r: r, cursor: base - 1, width32: width32, paged: paged}
}

// Next decodes the next record. When kind is RecTerminator the stream is
// exhausted and entry is the zero value; callers must stop iterating.
func (rr *RelocReader) Next() (kind RelocRecordKind, entry RelocEntry, err error) {
	offset, err := readU8(rr.r)
	if err != nil {
		return 0, RelocEntry{}, utils.Wrap("reading relocation offset", err)
	}

	switch offset {
	case 0x00:
		return RecTerminator, RelocEntry{}, nil
	case 0xFF:
		rr.cursor += 254
		return RecSkip, RelocEntry{}, nil
	}

	prevCursor := rr.cursor
	rr.cursor += uint32(offset)
	if rr.cursor <= prevCursor {
		return 0, RelocEntry{}, utils.Wrap("reading relocation", ErrFormatInvalid)
	}

	typeByte, err := readU8(rr.r)
	if err != nil {
		return 0, RelocEntry{}, utils.Wrap("reading relocation type", err)
	}
	relKind, seg := decodeTypeByte(typeByte)

	e := RelocEntry{Offset: rr.cursor, Kind: relKind, Seg: seg}

	if seg == SegUndef {
		id, err := readU16or32(rr.r, rr.width32)
		if err != nil {
			return 0, RelocEntry{}, utils.Wrap("reading relocation undefid", err)
		}
		e.UndefID = id
	}

	switch relKind.trailerWidth(rr.paged) {
	case 1:
		v, err := readU8(rr.r)
		if err != nil {
			return 0, RelocEntry{}, utils.Wrap("reading relocation trailer", err)
		}
		e.Extra = uint32(v)
	case 2:
		v, err := readU16(rr.r)
		if err != nil {
			return 0, RelocEntry{}, utils.Wrap("reading relocation trailer", err)
		}
		e.Extra = uint32(v)
	}

	return RecEntry, e, nil
}

// RelocWriter encodes a single segment's relocation stream, emitting skip
// records as needed and the terminator when the caller calls Close.
type RelocWriter struct {
	w       io.Writer
	cursor  uint32
	width32 bool
	paged   bool
}

// NewRelocWriter creates a writer positioned at base-1.
func NewRelocWriter(w io.Writer, base uint32, width32, paged bool) *RelocWriter {
	return &RelocWriter{w: w, cursor: base - 1, width32: width32, paged: paged}
}

// Put emits e. Entries must be supplied in strictly ascending Offset
// order; violating that is a programmer error in the caller (the
// converter sorts ELF relocations before WriteImage passes them to Put), not a recoverable
// format condition, so it panics rather than returning an error.
func (rw *RelocWriter) Put(e RelocEntry) error {
	if e.Offset <= rw.cursor {
		panic("o65: relocation offsets must be strictly increasing")
	}

	for e.Offset-rw.cursor > 254 {
		if err := writeU8(rw.w, 0xFF); err != nil {
			return utils.Wrap("writing relocation skip", err)
		}
		rw.cursor += 254
	}

	delta := uint8(e.Offset - rw.cursor)
	if err := writeU8(rw.w, delta); err != nil {
		return utils.Wrap("writing relocation offset", err)
	}
	rw.cursor = e.Offset

	if err := writeU8(rw.w, e.Kind.typeByte(e.Seg)); err != nil {
		return utils.Wrap("writing relocation type", err)
	}

	if e.Seg == SegUndef {
		if err := writeU16or32(rw.w, e.UndefID, rw.width32); err != nil {
			return utils.Wrap("writing relocation undefid", err)
		}
	}

	switch e.Kind.trailerWidth(rw.paged) {
	case 1:
		if err := writeU8(rw.w, uint8(e.Extra)); err != nil {
			return utils.Wrap("writing relocation trailer", err)
		}
	case 2:
		if err := writeU16(rw.w, uint16(e.Extra)); err != nil {
			return utils.Wrap("writing relocation trailer", err)
		}
	}

	return nil
}

// Close writes the stream terminator.
func (rw *RelocWriter) Close() error {
	return utils.Wrap("writing relocation terminator", writeU8(rw.w, 0))
}
