// Package inspect walks a `.o65` image into a structured report for a
// dump tool to render. Hex/text formatting and 6502 disassembly are
// out of scope here — inspect only decodes and organizes, the way
// spec.md names those as external collaborators.
package inspect

import (
	"fmt"

	"github.com/scigolib/o65/internal/o65"
)

// Report is one image's decoded contents, structured for a formatter to
// print however it likes.
type Report struct {
	Mode    o65.Mode
	CPU     o65.CPU
	Align   uint32
	Header  *o65.Header
	Options []OptionView

	TextLen, DataLen, BSSLen, ZPLen uint32

	Externs []string
	Exports []o65.ExportedSymbol

	TextRelocs []RelocView
	DataRelocs []RelocView

	// Chain is the next image's report, present when the chain mode bit
	// was set (spec.md §8 scenario 6).
	Chain *Report
}

// OptionView renders an option's type by name alongside its raw
// payload, since formatting the payload (e.g. parsing the ELF-machine
// option) is the dump tool's job, not this package's.
type OptionView struct {
	Type    o65.OptionType
	Name    string
	Payload []byte
}

// RelocView is one relocation entry with its segment rendered by name,
// matching the open question's decision to render `abs` for
// completeness even though the relocator rejects it.
type RelocView struct {
	Offset  uint32
	Kind    o65.RelocKind
	Seg     o65.SegID
	UndefID uint32
	Extra   uint32
}

// Walk decodes img into a Report, recursing into any chained image.
func Walk(img *o65.Image) *Report {
	r := &Report{
		Mode:    img.Header.Mode,
		CPU:     img.Header.Mode.CPU(),
		Align:   img.Header.Mode.Align().AlignBytes(),
		Header:  img.Header,
		TextLen: img.Header.TextLen,
		DataLen: img.Header.DataLen,
		BSSLen:  img.Header.BSSLen,
		ZPLen:   img.Header.ZPLen,
		Externs: img.Externs,
		Exports: img.Exports,
	}

	for _, opt := range img.Options {
		r.Options = append(r.Options, OptionView{
			Type:    opt.Type,
			Name:    optionName(opt.Type),
			Payload: opt.Payload,
		})
	}

	for _, e := range img.TextRelocs {
		r.TextRelocs = append(r.TextRelocs, relocView(e))
	}
	for _, e := range img.DataRelocs {
		r.DataRelocs = append(r.DataRelocs, relocView(e))
	}

	if img.Chain != nil {
		r.Chain = Walk(img.Chain)
	}

	return r
}

func relocView(e o65.RelocEntry) RelocView {
	return RelocView{Offset: e.Offset, Kind: e.Kind, Seg: e.Seg, UndefID: e.UndefID, Extra: e.Extra}
}

func optionName(t o65.OptionType) string {
	switch t {
	case o65.OptFilename:
		return "filename"
	case o65.OptOS:
		return "os"
	case o65.OptAssembler:
		return "assembler"
	case o65.OptAuthor:
		return "author"
	case o65.OptCreated:
		return "created"
	case o65.OptELFMachine:
		return "elf-machine"
	default:
		return fmt.Sprintf("option(0x%02x)", uint8(t))
	}
}
