package relocate

import (
	"fmt"

	"github.com/scigolib/o65/internal/o65"
	"github.com/scigolib/o65/internal/utils"
)

// patch applies one relocation entry's delta to buf, dispatching on
// kind per spec.md §4.3's Patching section. All arithmetic is unsigned
// 32-bit and wraps exactly the way the format's own delta encoding
// wraps; delta is already new_base - old_base, computed with the same
// wraparound convention.
func patch(buf []byte, e o65.RelocEntry, delta uint32) error {
	switch e.Kind {
	case o65.RelocWord:
		return patchWord(buf, e.Offset, delta)
	case o65.RelocHigh:
		return patchHigh(buf, e.Offset, e.Extra, delta)
	case o65.RelocLow:
		return patchLow(buf, e.Offset, delta)
	case o65.RelocSegAdr:
		return patchSegAdr(buf, e.Offset, delta)
	case o65.RelocSeg:
		return patchSeg(buf, e.Offset, e.Extra, delta)
	default:
		return fmt.Errorf("unknown relocation kind %s", e.Kind)
	}
}

func checkBounds(buf []byte, offset uint32, width int) error {
	return utils.ValidateBufferSize(uint64(offset)+uint64(width), uint64(len(buf)), "relocation site")
}

func patchWord(buf []byte, offset, delta uint32) error {
	if err := checkBounds(buf, offset, 2); err != nil {
		return err
	}
	v := uint32(buf[offset]) | uint32(buf[offset+1])<<8
	v = (v + delta) & 0xFFFF
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
	return nil
}

func patchLow(buf []byte, offset, delta uint32) error {
	if err := checkBounds(buf, offset, 1); err != nil {
		return err
	}
	buf[offset] = byte(uint32(buf[offset]) + delta)
	return nil
}

// patchHigh reconstructs the 16-bit address from the stored high byte
// and the relocation's extra (low) byte, adds delta, and writes back
// only the high byte — the low byte is not ours to touch.
func patchHigh(buf []byte, offset uint32, extra, delta uint32) error {
	if err := checkBounds(buf, offset, 1); err != nil {
		return err
	}
	combined := (uint32(buf[offset])<<8 | (extra & 0xFF)) + delta
	buf[offset] = byte(combined >> 8)
	return nil
}

func patchSegAdr(buf []byte, offset, delta uint32) error {
	if err := checkBounds(buf, offset, 3); err != nil {
		return err
	}
	v := uint32(buf[offset]) | uint32(buf[offset+1])<<8 | uint32(buf[offset+2])<<16
	v = (v + delta) & 0xFFFFFF
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
	buf[offset+2] = byte(v >> 16)
	return nil
}

// patchSeg reconstructs the 24-bit address from the stored segment
// (high) byte and the relocation's extra (low 16 bits), adds delta,
// and writes back only the segment byte.
func patchSeg(buf []byte, offset uint32, extra, delta uint32) error {
	if err := checkBounds(buf, offset, 1); err != nil {
		return err
	}
	combined := (uint32(buf[offset])<<16 | (extra & 0xFFFF)) + delta
	buf[offset] = byte(combined >> 16)
	return nil
}
