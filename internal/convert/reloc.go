package convert

import (
	"fmt"

	"github.com/scigolib/o65/internal/elfview"
	"github.com/scigolib/o65/internal/o65"
)

// relocTarget is the symbol-derived half of an ELF relocation: which
// `.o65` segment the relocator should pull its delta from, and the
// resolved address used by trailer-carrying kinds.
type relocTarget struct {
	seg     o65.SegID
	undefID uint32
	addr    uint64
	skip    bool // target already resolved (SHN_ABS); nothing to emit
}

// resolveTarget implements spec.md §4.2 step 5/6: classify the
// relocation's symbol into an external reference or one of the four
// segments, applying the hosted-mode imaginary-register rewrite.
func resolveTarget(img elfview.Image, rela elfview.Rela, syms []elfview.Symbol, segs *segments, externs *externTable, hosted bool) (relocTarget, error) {
	idx := rela.SymIndex()
	if int(idx) >= len(syms) {
		return relocTarget{}, fmt.Errorf("relocation references out-of-range symbol index %d", idx)
	}
	sym := syms[idx]
	addr := uint64(int64(sym.Value()) + rela.Addend())

	switch sym.Shndx() {
	case elfview.SHN_ABS:
		return relocTarget{skip: true}, nil
	case elfview.SHN_UNDEF:
		return relocTarget{seg: o65.SegUndef, undefID: externs.intern(sym.Name()), addr: addr}, nil
	}

	switch {
	case hosted && addr < 32:
		return relocTarget{seg: o65.SegUndef, undefID: externs.intern(imagRegsName), addr: addr}, nil
	case inRange(addr, uint64(segs.textBase), uint64(segs.textLen())):
		return relocTarget{seg: o65.SegText, addr: addr}, nil
	case inRange(addr, uint64(segs.dataBase()), uint64(segs.dataLen())):
		return relocTarget{seg: o65.SegData, addr: addr}, nil
	case inRange(addr, uint64(segs.bssBase()), uint64(segs.bssLen)):
		return relocTarget{seg: o65.SegBSS, addr: addr}, nil
	case inRange(addr, uint64(segs.zpBase), uint64(segs.zpLen)):
		return relocTarget{seg: o65.SegZP, addr: addr}, nil
	default:
		return relocTarget{}, fmt.Errorf("relocation target 0x%x falls outside every known segment", addr)
	}
}

func inRange(addr, base, length uint64) bool {
	return length > 0 && addr >= base && addr < base+length
}

// translateKind maps an ELF MOS relocation type to a `.o65` kind and its
// trailer value, per spec.md §4.2 step 7.
func translateKind(elfType uint32, addr uint64) (o65.RelocKind, uint32, error) {
	switch elfType {
	case elfview.R_MOS_ADDR8, elfview.R_MOS_ADDR16_LO, elfview.R_MOS_ADDR24_SEGMENT_LO:
		return o65.RelocLow, 0, nil
	case elfview.R_MOS_ADDR16, elfview.R_MOS_ADDR24_SEGMENT:
		return o65.RelocWord, 0, nil
	case elfview.R_MOS_ADDR16_HI, elfview.R_MOS_ADDR24_SEGMENT_HI:
		return o65.RelocHigh, uint32(addr & 0xFF), nil
	case elfview.R_MOS_ADDR24:
		return o65.RelocSegAdr, 0, nil
	case elfview.R_MOS_ADDR24_BANK:
		return o65.RelocSeg, uint32(addr & 0xFFFF), nil
	default:
		return 0, 0, fmt.Errorf("unsupported ELF relocation type %d", elfType)
	}
}
