package elfview

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
)

// FromDebugELF adapts the standard library's debug/elf reader to the
// Image contract, so the converter never depends on debug/elf directly.
// ra must be the same reader f was opened from: debug/elf.FileHeader
// doesn't expose e_flags, so it's read back out of the raw header here.
func FromDebugELF(f *elf.File, ra io.ReaderAt) (Image, error) {
	syms, err := f.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, fmt.Errorf("reading symbol table: %w", err)
	}

	flags, err := readELFFlags(ra, f.Class, f.ByteOrder)
	if err != nil {
		return nil, fmt.Errorf("reading ELF flag word: %w", err)
	}

	img := &debugImage{f: f, syms: syms, flags: flags}

	for _, p := range f.Progs {
		img.progs = append(img.progs, debugProgHeader{p})
	}
	for _, s := range f.Sections {
		img.sections = append(img.sections, debugSection{s, f.Class})
	}

	return img, nil
}

// readELFFlags re-reads e_flags, the one header field debug/elf discards.
// Its offset depends on the address width preceding it in the header.
func readELFFlags(ra io.ReaderAt, class elf.Class, order binary.ByteOrder) (uint32, error) {
	offset := int64(36)
	if class == elf.ELFCLASS64 {
		offset = 48
	}
	var buf [4]byte
	if _, err := ra.ReadAt(buf[:], offset); err != nil {
		return 0, err
	}
	return order.Uint32(buf[:]), nil
}

type debugImage struct {
	f        *elf.File
	progs    []ProgHeader
	sections []Section
	syms     []elf.Symbol
	flags    uint32
}

func (i *debugImage) Type() uint16    { return uint16(i.f.Type) }
func (i *debugImage) Machine() uint16 { return uint16(i.f.Machine) }
func (i *debugImage) Flags() uint32   { return i.flags }
func (i *debugImage) Entry() uint64   { return i.f.Entry }

func (i *debugImage) ProgHeaders() []ProgHeader { return i.progs }
func (i *debugImage) Sections() []Section       { return i.sections }

// Symbols returns the symbol table indexed by ELF symbol index, so a
// relocation's SymIndex selects its symbol directly. debug/elf's
// Symbols omits the null symbol at index 0, so it is put back here.
func (i *debugImage) Symbols() []Symbol {
	out := make([]Symbol, len(i.syms)+1)
	out[0] = debugSymbol{}
	for idx, s := range i.syms {
		out[idx+1] = debugSymbol{s}
	}
	return out
}

type debugProgHeader struct{ p *elf.Prog }

func (p debugProgHeader) Type() uint32    { return uint32(p.p.Type) }
func (p debugProgHeader) Vaddr() uint64   { return p.p.Vaddr }
func (p debugProgHeader) Filesz() uint64  { return p.p.Filesz }
func (p debugProgHeader) Memsz() uint64   { return p.p.Memsz }
func (p debugProgHeader) Align() uint64   { return p.p.Align }
func (p debugProgHeader) Data() ([]byte, error) {
	buf := make([]byte, p.p.Filesz)
	if _, err := p.p.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("reading program header data: %w", err)
	}
	return buf, nil
}

type debugSection struct {
	s     *elf.Section
	class elf.Class
}

func (s debugSection) Name() string  { return s.s.Name }
func (s debugSection) Type() uint32  { return uint32(s.s.Type) }
func (s debugSection) Flags() uint64 { return uint64(s.s.Flags) }
func (s debugSection) Addr() uint64  { return s.s.Addr }
func (s debugSection) Size() uint64  { return s.s.Size }

func (s debugSection) Relocations() []Rela {
	if s.s.Type != elf.SHT_RELA {
		return nil
	}
	data, err := s.s.Data()
	if err != nil {
		return nil
	}

	entsize := 12 // Elf32_Rela: r_offset, r_info, r_addend, 4 bytes each
	if s.class == elf.ELFCLASS64 {
		entsize = 24
	}

	var out []Rela
	for off := 0; off+entsize <= len(data); off += entsize {
		if s.class == elf.ELFCLASS64 {
			out = append(out, decodeRela64(data[off:off+entsize]))
		} else {
			out = append(out, decodeRela32(data[off:off+entsize]))
		}
	}
	return out
}

func decodeRela64(b []byte) Rela {
	le64 := func(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
	offset := le64(b[0:8])
	info := le64(b[8:16])
	addend := int64(le64(b[16:24]))
	return debugRela{
		offset:   offset,
		symIndex: uint32(info >> 32),
		relType:  uint32(info),
		addend:   addend,
	}
}

func decodeRela32(b []byte) Rela {
	offset := uint64(binary.LittleEndian.Uint32(b[0:4]))
	info := binary.LittleEndian.Uint32(b[4:8])
	addend := int64(int32(binary.LittleEndian.Uint32(b[8:12])))
	return debugRela{
		offset:   offset,
		symIndex: info >> 8,
		relType:  info & 0xFF,
		addend:   addend,
	}
}

type debugRela struct {
	offset   uint64
	symIndex uint32
	relType  uint32
	addend   int64
}

func (r debugRela) Offset() uint64   { return r.offset }
func (r debugRela) Type() uint32     { return r.relType }
func (r debugRela) SymIndex() uint32 { return r.symIndex }
func (r debugRela) Addend() int64    { return r.addend }

type debugSymbol struct{ s elf.Symbol }

func (s debugSymbol) Name() string  { return s.s.Name }
func (s debugSymbol) Shndx() uint16 { return uint16(s.s.Section) }
func (s debugSymbol) Value() uint64 { return s.s.Value }
