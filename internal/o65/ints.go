package o65

import "io"

// Little-endian integer helpers. Width is always fixed regardless of host
// byte order — `.o65` values are always little-endian on disk.

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, shortRead(err)
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

func writeU16(w io.Writer, v uint16) error {
	buf := [2]byte{byte(v), byte(v >> 8)}
	_, err := w.Write(buf[:])
	return err
}

func readU24(r io.Reader) (uint32, error) {
	var buf [3]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, shortRead(err)
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16, nil
}

func writeU24(w io.Writer, v uint32) error {
	buf := [3]byte{byte(v), byte(v >> 8), byte(v >> 16)}
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, shortRead(err)
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

func writeU32(w io.Writer, v uint32) error {
	buf := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	_, err := w.Write(buf[:])
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, shortRead(err)
	}
	return buf[0], nil
}

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// shortRead normalizes io.EOF and io.ErrUnexpectedEOF from a short
// io.ReadFull into the package's ErrShortRead, while letting any other
// reader error (disk failure, etc.) surface verbatim per the §7
// environmental-error rule.
func shortRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrShortRead
	}
	return err
}

// readU16or32 reads a field whose width is selected by the header's
// 32-bit-width mode flag, returning it widened to uint32.
func readU16or32(r io.Reader, width32 bool) (uint32, error) {
	if width32 {
		return readU32(r)
	}
	v, err := readU16(r)
	return uint32(v), err
}

// writeU16or32 writes v at the width selected by width32, truncating to
// 16 bits when width32 is false. Callers are responsible for ensuring
// write_header's normalization already forced width32 when v doesn't fit.
func writeU16or32(w io.Writer, v uint32, width32 bool) error {
	if width32 {
		return writeU32(w, v)
	}
	return writeU16(w, uint16(v))
}
