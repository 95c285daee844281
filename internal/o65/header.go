package o65

import (
	"bytes"
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// Signature is the six leading bytes of every `.o65` image.
var Signature = [6]byte{0x01, 0x00, 'o', '6', '5', 0x00}

// Header is the fixed-shape record at the start of a `.o65` image. The
// nine address/length fields are stored widened to uint32; their on-disk
// width (16 or 32 bits) is selected by Mode's width32 flag.
type Header struct {
	Mode Mode

	TextBase uint32
	TextLen  uint32
	DataBase uint32
	DataLen  uint32
	BSSBase  uint32
	BSSLen   uint32
	ZPBase   uint32
	ZPLen    uint32
	Stack    uint32
}

// ReadHeader reads and validates a header from r. It returns
// ErrBadSignature if the six leading bytes don't match, ErrShortRead on
// truncated input, and otherwise a populated Header.
func ReadHeader(r io.Reader) (*Header, error) {
	var sig [6]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, utils.Wrap("reading o65 signature", shortRead(err))
	}
	if !bytes.Equal(sig[:], Signature[:]) {
		return nil, ErrBadSignature
	}

	modeWord, err := readU16(r)
	if err != nil {
		return nil, utils.Wrap("reading o65 mode word", err)
	}
	h := &Header{Mode: Mode(modeWord)}
	width32 := h.Mode.Width32()

	fields := []*uint32{
		&h.TextBase, &h.TextLen,
		&h.DataBase, &h.DataLen,
		&h.BSSBase, &h.BSSLen,
		&h.ZPBase, &h.ZPLen,
		&h.Stack,
	}
	for _, f := range fields {
		v, err := readU16or32(r, width32)
		if err != nil {
			return nil, utils.Wrap("reading o65 header field", err)
		}
		*f = v
	}
	return h, nil
}

// needsWidth32 reports whether the size and CPU conditions from spec §3
// force the header to use 32-bit width fields, independent of whatever
// the caller's Mode.Width32 currently says.
func (h *Header) needsWidth32() bool {
	total, err := utils.SafeAdd(uint64(h.TextLen), uint64(h.DataLen))
	if err == nil {
		total, err = utils.SafeAdd(total, uint64(h.BSSLen))
	}
	if err != nil || total >= 1<<16 {
		return true
	}
	if h.Stack >= 1<<16 {
		return true
	}
	return h.Mode.CPU().requires24BitAddresses()
}

// isSimpleLayout reports whether .data and .bss immediately follow the
// preceding segment, the condition the `simple` mode flag records.
func (h *Header) isSimpleLayout() bool {
	return h.DataBase == h.TextBase+h.TextLen && h.BSSBase == h.DataBase+h.DataLen
}

// normalize applies the §3 invariants write_header must enforce before
// emitting the mode word: the paged/align-256 coupling, the forced
// 32-bit-width conditions, and the inferred simple-layout flag.
func (h *Header) normalize() Mode {
	m := h.Mode
	if m.Paged() || m.Align() == AlignPage {
		m = m.WithPaged(true).WithAlign(AlignPage)
	}
	if h.needsWidth32() {
		m = m.WithWidth32(true)
	}
	m = m.WithSimple(h.isSimpleLayout())
	return m
}

// WriteHeader normalizes the mode word per §3 (paged↔align-256 coupling,
// forced width32, inferred simple flag) and writes the signature, mode
// word, and nine fields at the resulting width.
func WriteHeader(w io.Writer, h *Header) error {
	mode := h.normalize()

	if _, err := w.Write(Signature[:]); err != nil {
		return utils.Wrap("writing o65 signature", err)
	}
	if err := writeU16(w, uint16(mode)); err != nil {
		return utils.Wrap("writing o65 mode word", err)
	}

	width32 := mode.Width32()
	fields := []uint32{
		h.TextBase, h.TextLen,
		h.DataBase, h.DataLen,
		h.BSSBase, h.BSSLen,
		h.ZPBase, h.ZPLen,
		h.Stack,
	}
	for _, v := range fields {
		if err := writeU16or32(w, v, width32); err != nil {
			return utils.Wrap("writing o65 header field", err)
		}
	}
	h.Mode = mode
	return nil
}
