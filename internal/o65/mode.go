// Package o65 is the binary codec for the `.o65` relocatable object and
// executable file format. It is a bit-exact reader/writer: every field
// width, enumeration, and delta-encoding rule is driven by the header's
// mode word exactly as the format defines it. Package o65 has no opinion
// about where its bytes come from (ELF conversion) or go to (flat-binary
// relocation) — those live in internal/convert and internal/relocate.
package o65

import "fmt"

// Mode is the `.o65` header's 16-bit mode word. Bit layout:
//
//	0x4000 paged    page-alignment required
//	0x2000 width32  sizes/counts are 32-bit
//	0x1000 obj      object file (else executable)
//	0x0800 simple   .data and .bss immediately follow .text/.data
//	0x0400 chain    another image follows
//	0x0200 bsszero  .bss must be zeroed by the loader
//	0x0003 align    0=1B, 1=2B, 2=4B, 3=256B
//	0x80F0 cpu      CPU enum, see CPU
type Mode uint16

const (
	ModePaged   Mode = 0x4000
	ModeWidth32 Mode = 0x2000
	ModeObj     Mode = 0x1000
	ModeSimple  Mode = 0x0800
	ModeChain   Mode = 0x0400
	ModeBSSZero Mode = 0x0200

	modeAlignMask Mode = 0x0003
	modeCPUMask   Mode = 0x80F0
)

// Align enum values packed into the mode word's low two bits.
const (
	AlignByte Mode = 0 // 1-byte alignment
	AlignWord Mode = 1 // 2-byte alignment
	AlignLong Mode = 2 // 4-byte alignment
	AlignPage Mode = 3 // 256-byte alignment
)

// AlignBytes returns the number of bytes the mode's alignment enum
// represents: 1, 2, 4, or 256.
func (a Mode) AlignBytes() uint32 {
	switch a & modeAlignMask {
	case AlignWord:
		return 2
	case AlignLong:
		return 4
	case AlignPage:
		return 256
	default:
		return 1
	}
}

// AlignFromBytes maps a concrete alignment (1, 2, 4, or 256) to its enum
// value. Any value above 4 maps to page alignment; any other value that
// is not exactly 2 or 4 (including 3) maps to byte alignment.
func AlignFromBytes(n uint32) Mode {
	switch {
	case n > 4:
		return AlignPage
	case n == 4:
		return AlignLong
	case n == 2:
		return AlignWord
	default:
		return AlignByte
	}
}

// CPU is the 6-bit CPU enum packed into the mode word's cpu field.
type CPU uint16

const (
	CPU6502      CPU = 0x0000
	CPU65C02     CPU = 0x0010
	CPU65SC02    CPU = 0x0020
	CPU65CE02    CPU = 0x0030
	CPU6502Undoc CPU = 0x0040 // NMOS 6502 with undocumented opcodes
	CPU65816Emu  CPU = 0x0050 // 65816 in emulation mode
	CPU6809      CPU = 0x0080
	CPUZ80       CPU = 0x00A0
	CPU8086      CPU = 0x00D0
	CPU80286     CPU = 0x00E0
	CPU65816     CPU = 0x8000
)

// String renders a CPU enum value by name, for inspection output.
func (c CPU) String() string {
	switch c {
	case CPU6502:
		return "6502"
	case CPU65C02:
		return "65C02"
	case CPU65SC02:
		return "65SC02"
	case CPU65CE02:
		return "65CE02"
	case CPU6502Undoc:
		return "6502 (undocumented opcodes)"
	case CPU65816Emu:
		return "65816 (emulation mode)"
	case CPU6809:
		return "6809"
	case CPUZ80:
		return "Z80"
	case CPU8086:
		return "8086"
	case CPU80286:
		return "80286"
	case CPU65816:
		return "65816"
	default:
		return fmt.Sprintf("CPU(0x%04x)", uint16(c))
	}
}

// requires24BitAddresses reports whether the CPU mandates the 32-bit-width
// header flag regardless of segment sizes: the 65816 in native (16-bit)
// mode and the 80286 both address with 24-bit pointers that don't fit a
// 16-bit field. The 65816 bit is tested individually rather than by exact
// equality, since it can be combined with a sub-variant's low-nibble bits
// (a 65816 binary built with 65C02-compatible code encodes as 0x8010, not
// bare 0x8000).
func (c CPU) requires24BitAddresses() bool {
	return c&CPU65816 != 0 || c == CPU80286
}

// CPU extracts the CPU enum from the mode word.
func (m Mode) CPU() CPU {
	return CPU(m & modeCPUMask)
}

// WithCPU returns m with its CPU field replaced.
func (m Mode) WithCPU(c CPU) Mode {
	return (m &^ Mode(modeCPUMask)) | Mode(c)&modeCPUMask
}

// Align extracts the alignment enum from the mode word.
func (m Mode) Align() Mode {
	return m & modeAlignMask
}

// WithAlign returns m with its alignment field replaced.
func (m Mode) WithAlign(a Mode) Mode {
	return (m &^ modeAlignMask) | (a & modeAlignMask)
}

func (m Mode) Paged() bool   { return m&ModePaged != 0 }
func (m Mode) Width32() bool { return m&ModeWidth32 != 0 }
func (m Mode) Obj() bool     { return m&ModeObj != 0 }
func (m Mode) Simple() bool  { return m&ModeSimple != 0 }
func (m Mode) Chain() bool   { return m&ModeChain != 0 }
func (m Mode) BSSZero() bool { return m&ModeBSSZero != 0 }

func (m Mode) set(bit Mode, on bool) Mode {
	if on {
		return m | bit
	}
	return m &^ bit
}

func (m Mode) WithPaged(on bool) Mode   { return m.set(ModePaged, on) }
func (m Mode) WithWidth32(on bool) Mode { return m.set(ModeWidth32, on) }
func (m Mode) WithObj(on bool) Mode     { return m.set(ModeObj, on) }
func (m Mode) WithSimple(on bool) Mode  { return m.set(ModeSimple, on) }
func (m Mode) WithChain(on bool) Mode   { return m.set(ModeChain, on) }
func (m Mode) WithBSSZero(on bool) Mode { return m.set(ModeBSSZero, on) }
