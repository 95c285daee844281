// Package convert implements the ELF-to-`.o65` conversion: classifying
// loadable segments, translating relocations, and assembling the result
// through the o65 codec.
package convert

import (
	"fmt"
	"sort"
	"time"

	"github.com/scigolib/o65/internal/elfview"
	"github.com/scigolib/o65/internal/o65"
)

// Options carries the header options and mode flags the CLI exposes,
// mirroring the fields elf2o65's flags populate.
type Options struct {
	Author       string
	Linker       string
	OSInfo       []byte
	StackSize    uint32
	Hosted       bool
	ForceBSSZero bool

	// AddCreationDate, when true, adds a `created` option stamped with
	// SourceModTime (the input ELF file's modification time).
	AddCreationDate bool
	SourceModTime   time.Time
}

// Convert reads img through the elfview contract and produces a
// `.o65` image plus any non-fatal warnings collected along the way.
func Convert(img elfview.Image, opts Options) (*o65.Image, []Warning, error) {
	var warnings []Warning

	if img.Type() != elfview.ET_EXEC {
		return nil, nil, fmt.Errorf("elf file is not an executable (ET_EXEC)")
	}
	if img.Machine() != elfview.MachineMOS {
		return nil, nil, fmt.Errorf("elf machine 0x%x is not the MOS 6502 family", img.Machine())
	}

	segs, err := classify(img)
	if err != nil {
		return nil, nil, fmt.Errorf("classifying segments: %w", err)
	}

	externs := newExternTable(opts.Hosted)
	syms := img.Symbols()

	textRelocs, dataRelocs, err := translateRelocations(img, syms, segs, externs, opts.Hosted, &warnings)
	if err != nil {
		return nil, nil, fmt.Errorf("translating relocations: %w", err)
	}

	mode := o65.Mode(0).
		WithCPU(cpuFromELFFlags(img.Flags())).
		WithAlign(o65.AlignFromBytes(segs.align)).
		WithPaged(segs.paged).
		WithBSSZero(opts.ForceBSSZero)

	if externs.needsWidth32() {
		mode = mode.WithWidth32(true)
	}

	zpBase, zpLen := segs.zpBase, segs.zpLen
	if opts.Hosted && zpLen >= 32 {
		zpBase -= 32
		zpLen -= 32
	}

	header := &o65.Header{
		Mode:     mode,
		TextBase: segs.textBase,
		TextLen:  segs.textLen(),
		DataBase: segs.dataBase(),
		DataLen:  segs.dataLen(),
		BSSBase:  segs.bssBase(),
		BSSLen:   segs.bssLen,
		ZPBase:   zpBase,
		ZPLen:    zpLen,
		Stack:    opts.StackSize,
	}

	result := &o65.Image{
		Header:     header,
		Options:    buildOptions(img, opts),
		Text:       segs.bytes[:segs.dataOff],
		Data:       segs.bytes[segs.dataOff:],
		Externs:    externs.names,
		TextRelocs: textRelocs,
		DataRelocs: dataRelocs,
		Exports: []o65.ExportedSymbol{
			{Name: "main", Seg: o65.SegText, Value: uint32(img.Entry())},
		},
	}

	return result, warnings, nil
}

// buildOptions assembles the option list in the order spec.md §4.2
// requires: OS, linker, author, created, ELF-machine, each present only
// when the corresponding input was supplied.
func buildOptions(img elfview.Image, opts Options) []*o65.Option {
	var list []*o65.Option
	if len(opts.OSInfo) > 0 {
		list = append(list, &o65.Option{Type: o65.OptOS, Payload: opts.OSInfo})
	}
	if opts.Linker != "" {
		list = append(list, &o65.Option{Type: o65.OptAssembler, Payload: []byte(opts.Linker)})
	}
	if opts.Author != "" {
		list = append(list, &o65.Option{Type: o65.OptAuthor, Payload: []byte(opts.Author)})
	}
	if opts.AddCreationDate {
		stamp := opts.SourceModTime
		if stamp.IsZero() {
			stamp = time.Now()
		}
		list = append(list, &o65.Option{Type: o65.OptCreated, Payload: []byte(stamp.Format(time.UnixDate))})
	}
	list = append(list, o65.NewELFMachineOption(img.Machine(), img.Flags()))
	return list
}

// translateRelocations walks every SHT_RELA section's entries in
// strictly ascending r_offset order, implementing the cursor/segment
// state machine of spec.md §4.2 steps 1-9. The 254-byte skip encoding
// itself is the o65 codec's job (o65.RelocWriter, invoked later by
// o65.WriteImage); this function only decides which logical entries
// exist and which of the two segment streams each belongs to.
func translateRelocations(img elfview.Image, syms []elfview.Symbol, segs *segments, externs *externTable, hosted bool, warnings *[]Warning) (text, data []o65.RelocEntry, err error) {
	type pending struct {
		rela elfview.Rela
	}
	var all []pending
	for _, sec := range img.Sections() {
		for _, r := range sec.Relocations() {
			all = append(all, pending{r})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].rela.Offset() < all[j].rela.Offset() })

	currentIsData := false
	var lastText, lastData uint64
	haveLastText, haveLastData := false, false

	for _, p := range all {
		addr := p.rela.Offset()

		inText := inRange(addr, uint64(segs.textBase), uint64(segs.textLen()))
		inData := inRange(addr, uint64(segs.dataBase()), uint64(segs.dataLen()))

		switch {
		case inText && !currentIsData:
			// stays in .text
		case inData:
			if !currentIsData {
				currentIsData = true
			}
		case inText && currentIsData:
			return nil, nil, fmt.Errorf("relocation at 0x%x moves backward from .data to .text", addr)
		default:
			warnf(warnings, "relocation at 0x%x falls outside .text/.data, skipped", addr)
			continue
		}

		if currentIsData {
			if haveLastData && addr <= lastData {
				warnf(warnings, "duplicate relocation at 0x%x, skipped", addr)
				continue
			}
		} else if haveLastText && addr <= lastText {
			warnf(warnings, "duplicate relocation at 0x%x, skipped", addr)
			continue
		}

		target, terr := resolveTarget(img, p.rela, syms, segs, externs, hosted)
		if terr != nil {
			return nil, nil, terr
		}
		if target.skip {
			continue
		}

		kind, extra, terr := translateKind(p.rela.Type(), target.addr)
		if terr != nil {
			return nil, nil, terr
		}

		entry := o65.RelocEntry{
			Offset:  uint32(addr),
			Kind:    kind,
			Seg:     target.seg,
			UndefID: target.undefID,
			Extra:   extra,
		}

		if currentIsData {
			data = append(data, entry)
			lastData, haveLastData = addr, true
		} else {
			text = append(text, entry)
			lastText, haveLastText = addr, true
		}
	}

	return text, data, nil
}
