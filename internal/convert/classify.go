package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scigolib/o65/internal/elfview"
)

// segments holds the concatenated loadable-segment bytes and the
// boundaries classify derives from the ELF program and section headers.
// Every field here is the pure, independently-testable result of
// classify — it takes no o65 types and has no side effects.
type segments struct {
	textBase uint32
	bytes    []byte // .text followed by .data, concatenated
	dataOff  int    // index into bytes where .data begins

	bssLen uint32

	zpBase uint32
	zpLen  uint32

	align     uint32
	paged     bool
}

func (s *segments) textLen() uint32 { return uint32(s.dataOff) }
func (s *segments) dataLen() uint32 { return uint32(len(s.bytes) - s.dataOff) }
func (s *segments) dataBase() uint32 { return s.textBase + s.textLen() }
func (s *segments) bssBase() uint32  { return s.dataBase() + s.dataLen() }

// classify concatenates the loadable program headers, splits the result
// into .text/.data at the first writable+alloc PROGBITS section, and
// sums .bss and zeropage lengths from the section table.
func classify(img elfview.Image) (*segments, error) {
	phdrs := loadablePhdrs(img)
	if len(phdrs) == 0 {
		return nil, fmt.Errorf("elf file has no loadable program headers")
	}

	s := &segments{textBase: uint32(phdrs[0].Vaddr())}

	var align uint64 = 1
	prevEnd := phdrs[0].Vaddr()
	for _, p := range phdrs {
		if p.Align() > align {
			align = p.Align()
		}
		if p.Vaddr() < prevEnd {
			break // no more loadable code; zeropage definitions follow
		}
		if p.Vaddr() != prevEnd && len(s.bytes) != 0 {
			return nil, fmt.Errorf("program header gap at 0x%x (expected 0x%x)", p.Vaddr(), prevEnd)
		}
		data, err := p.Data()
		if err != nil {
			return nil, fmt.Errorf("reading program header at 0x%x: %w", p.Vaddr(), err)
		}
		s.bytes = append(s.bytes, data...)
		prevEnd = p.Vaddr() + p.Memsz()
	}
	s.align = clampAlign(align)
	s.paged = s.align == 256

	s.dataOff = len(s.bytes) // default: no .data, everything is .text
	for _, sec := range img.Sections() {
		if sec.Type() != elfview.SHT_PROGBITS {
			continue
		}
		if sec.Flags() != (elfview.SHF_WRITE | elfview.SHF_ALLOC) {
			continue
		}
		if sec.Addr() < uint64(s.textBase) || sec.Addr() >= uint64(s.textBase)+uint64(len(s.bytes)) {
			continue
		}
		s.dataOff = int(sec.Addr() - uint64(s.textBase))
		break
	}

	for _, sec := range img.Sections() {
		if isZeropage(sec) {
			if s.zpLen == 0 || sec.Addr() < uint64(s.zpBase) {
				s.zpBase = uint32(sec.Addr())
			}
			s.zpLen += uint32(sec.Size())
			continue
		}
		if sec.Type() == elfview.SHT_NOBITS {
			s.bssLen += uint32(sec.Size())
		}
	}

	return s, nil
}

func loadablePhdrs(img elfview.Image) []elfview.ProgHeader {
	var out []elfview.ProgHeader
	for _, p := range img.ProgHeaders() {
		if p.Type() == elfview.PT_LOAD {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Vaddr() < out[j].Vaddr() })
	return out
}

func isZeropage(sec elfview.Section) bool {
	if sec.Flags()&elfview.SHF_MOS_ZEROPAGE != 0 {
		return true
	}
	return sec.Name() == ".zp" || strings.HasPrefix(sec.Name(), ".zp.")
}

// clampAlign maps a raw p_align to one of the four values `.o65` can
// express, per spec.md §4.2: anything above 4 clamps to page alignment.
func clampAlign(align uint64) uint32 {
	switch {
	case align > 4:
		return 256
	case align > 2:
		return 4
	case align > 1:
		return 2
	default:
		return 1
	}
}
