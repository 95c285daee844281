package convert

import "github.com/scigolib/o65/internal/elfview"

// fakeImage, fakeProgHeader, fakeSection, fakeSymbol, fakeRela implement
// the elfview contract directly as plain structs, so convert's tests
// never need a real ELF binary on disk.

type fakeImage struct {
	typ     uint16
	machine uint16
	flags   uint32
	entry   uint64
	phdrs   []elfview.ProgHeader
	secs    []elfview.Section
	syms    []elfview.Symbol
}

func (f *fakeImage) Type() uint16                     { return f.typ }
func (f *fakeImage) Machine() uint16                  { return f.machine }
func (f *fakeImage) Flags() uint32                    { return f.flags }
func (f *fakeImage) Entry() uint64                    { return f.entry }
func (f *fakeImage) ProgHeaders() []elfview.ProgHeader { return f.phdrs }
func (f *fakeImage) Sections() []elfview.Section       { return f.secs }
func (f *fakeImage) Symbols() []elfview.Symbol         { return f.syms }

type fakeProgHeader struct {
	typ    uint32
	vaddr  uint64
	data   []byte
	memsz  uint64
	align  uint64
}

func (p *fakeProgHeader) Type() uint32   { return p.typ }
func (p *fakeProgHeader) Vaddr() uint64  { return p.vaddr }
func (p *fakeProgHeader) Filesz() uint64 { return uint64(len(p.data)) }
func (p *fakeProgHeader) Memsz() uint64 {
	if p.memsz != 0 {
		return p.memsz
	}
	return uint64(len(p.data))
}
func (p *fakeProgHeader) Align() uint64           { return p.align }
func (p *fakeProgHeader) Data() ([]byte, error)   { return p.data, nil }

type fakeSection struct {
	name  string
	typ   uint32
	flags uint64
	addr  uint64
	size  uint64
	relas []elfview.Rela
}

func (s *fakeSection) Name() string             { return s.name }
func (s *fakeSection) Type() uint32             { return s.typ }
func (s *fakeSection) Flags() uint64            { return s.flags }
func (s *fakeSection) Addr() uint64             { return s.addr }
func (s *fakeSection) Size() uint64             { return s.size }
func (s *fakeSection) Relocations() []elfview.Rela { return s.relas }

type fakeSymbol struct {
	name   string
	shndx  uint16
	value  uint64
}

func (s *fakeSymbol) Name() string  { return s.name }
func (s *fakeSymbol) Shndx() uint16 { return s.shndx }
func (s *fakeSymbol) Value() uint64 { return s.value }

type fakeRela struct {
	offset   uint64
	relType  uint32
	symIndex uint32
	addend   int64
}

func (r fakeRela) Offset() uint64   { return r.offset }
func (r fakeRela) Type() uint32     { return r.relType }
func (r fakeRela) SymIndex() uint32 { return r.symIndex }
func (r fakeRela) Addend() int64    { return r.addend }
