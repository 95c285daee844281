package relocate

import (
	"fmt"

	"github.com/scigolib/o65/internal/o65"
	"github.com/scigolib/o65/internal/utils"
)

// Layout carries the user-supplied load addresses; a zero field means
// "use the format's documented default" (spec.md §4.3).
type Layout struct {
	Text uint32
	Data uint32
	BSS  uint32
	ZP   uint32
}

// region is one segment's resolved placement: its base address, its
// size as stored in the `.o65` image, and that size rounded up to the
// alignment the allocator enforces.
type region struct {
	Base        uint32
	OrigSize    uint32
	AlignedSize uint32
}

func (r region) end() uint32 { return r.Base + r.AlignedSize }

// sequentialAllocator places regions end-to-end at a fixed alignment,
// generalizing the teacher's end-of-file allocator
// (internal/writer.Allocator) from byte-granular, caller-sized blocks to
// alignment-rounded segments placed in a fixed order: a region either
// starts where the caller asked, or immediately after the previous one.
type sequentialAllocator struct {
	align  uint32
	cursor uint32
}

func newSequentialAllocator(align, start uint32) *sequentialAllocator {
	return &sequentialAllocator{align: align, cursor: start}
}

func (a *sequentialAllocator) place(userAddr, size uint32) (region, error) {
	base := userAddr
	if base == 0 {
		base = a.cursor
	}
	if base%a.align != 0 {
		return region{}, fmt.Errorf("address 0x%x is not a multiple of the required alignment %d", base, a.align)
	}
	aligned, err := utils.AlignUp(uint64(size), uint64(a.align))
	if err != nil {
		return region{}, fmt.Errorf("aligning segment of size %d: %w", size, err)
	}
	r := region{Base: base, OrigSize: size, AlignedSize: uint32(aligned)}
	a.cursor = r.end()
	return r, nil
}

// ResolvedLayout is the outcome of laying out an image's four segments
// at concrete addresses: their new placements and the deltas the
// patcher needs per segment ID.
type ResolvedLayout struct {
	Align uint32

	Text, Data, BSS, ZP region

	// extendBSSIntoBlob is set when the bsszero mode flag forces .bss to
	// follow .data and the output to cover both.
	extendBSSIntoBlob bool
}

// Delta returns new_base - old_base for seg, the adjustment patch.go
// applies to every relocation whose segment ID is seg. Segment IDs
// other than text/data/bss/zeropage (undef is resolved from the
// imports table instead, abs is format-invalid here) are not valid
// inputs.
func (l *ResolvedLayout) Delta(seg o65.SegID, old *o65.Header) (uint32, error) {
	switch seg {
	case o65.SegText:
		return l.Text.Base - old.TextBase, nil
	case o65.SegData:
		return l.Data.Base - old.DataBase, nil
	case o65.SegBSS:
		return l.BSS.Base - old.BSSBase, nil
	case o65.SegZP:
		return l.ZP.Base - old.ZPBase, nil
	default:
		return 0, fmt.Errorf("relocation segment %s cannot be relocated", seg)
	}
}

// ResolveLayout implements spec.md §4.3's Layout stage.
func ResolveLayout(h *o65.Header, layout Layout) (*ResolvedLayout, error) {
	if h.Mode.Obj() {
		return nil, fmt.Errorf("relocator does not accept object-file `.o65` input")
	}

	textBase := layout.Text
	if textBase == 0 {
		textBase = h.TextBase
	}
	if textBase == 0 {
		return nil, fmt.Errorf("input has no .text base address and none was supplied")
	}

	align := h.Mode.Align().AlignBytes()
	if h.Mode.Paged() {
		align = 256
	}

	for _, addr := range []uint32{layout.Text, layout.Data, layout.BSS, layout.ZP} {
		if addr != 0 && addr%align != 0 {
			return nil, fmt.Errorf("address 0x%x is not a multiple of alignment %d", addr, align)
		}
	}

	alloc := newSequentialAllocator(align, textBase)

	textRegion, err := alloc.place(textBase, h.TextLen)
	if err != nil {
		return nil, fmt.Errorf("laying out .text: %w", err)
	}

	dataRegion, err := alloc.place(layout.Data, h.DataLen)
	if err != nil {
		return nil, fmt.Errorf("laying out .data: %w", err)
	}

	bssUserAddr := layout.BSS
	extendBSS := h.Mode.BSSZero()
	if extendBSS {
		bssUserAddr = 0 // must immediately follow .data regardless of a user value
	}
	bssRegion, err := alloc.place(bssUserAddr, h.BSSLen)
	if err != nil {
		return nil, fmt.Errorf("laying out .bss: %w", err)
	}

	zpAddr := layout.ZP
	if zpAddr == 0 {
		zpAddr = h.ZPBase
	}
	zpAligned, err := utils.AlignUp(uint64(h.ZPLen), uint64(align))
	if err != nil {
		return nil, fmt.Errorf("aligning zeropage segment: %w", err)
	}
	zpRegion := region{Base: zpAddr, OrigSize: h.ZPLen, AlignedSize: uint32(zpAligned)}

	return &ResolvedLayout{
		Align:             align,
		Text:              textRegion,
		Data:              dataRegion,
		BSS:               bssRegion,
		ZP:                zpRegion,
		extendBSSIntoBlob: extendBSS,
	}, nil
}
