package o65

import (
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// maxNameLen bounds a single external/exported-symbol name; names this
// long are already unreasonable for a 6502-family linker.
const maxNameLen = 4096

// ReadExternTable reads the external-reference table: a width-prefixed
// count followed by that many NUL-terminated names. Indices into the
// returned slice are what relocation UndefID fields reference.
func ReadExternTable(r io.Reader, width32 bool) ([]string, error) {
	count, err := ReadCount(r, width32)
	if err != nil {
		return nil, utils.Wrap("reading extern table count", err)
	}
	if err := utils.ValidateBufferSize(uint64(count), utils.MaxTableCount, "extern table"); err != nil {
		return nil, utils.Wrap("reading extern table", ErrBufferTooLarge)
	}

	names := make([]string, count)
	for i := range names {
		name, _, err := ReadCString(r, maxNameLen)
		if err != nil {
			return nil, utils.Wrap("reading extern name", err)
		}
		names[i] = name
	}
	return names, nil
}

// WriteExternTable writes the count then each name in order.
func WriteExternTable(w io.Writer, names []string, width32 bool) error {
	if err := WriteCount(w, uint32(len(names)), width32); err != nil {
		return err
	}
	for _, name := range names {
		if err := WriteCString(w, name); err != nil {
			return err
		}
	}
	return nil
}

// ExportedSymbol is one record of the exported-symbol table.
type ExportedSymbol struct {
	Name  string
	Seg   SegID
	Value uint32
}

// ReadExportTable reads the exported-symbol table: a width-prefixed
// count followed by (name, segment byte, width-prefixed value) records.
func ReadExportTable(r io.Reader, width32 bool) ([]ExportedSymbol, error) {
	count, err := ReadCount(r, width32)
	if err != nil {
		return nil, utils.Wrap("reading export table count", err)
	}
	if err := utils.ValidateBufferSize(uint64(count), utils.MaxTableCount, "export table"); err != nil {
		return nil, utils.Wrap("reading export table", ErrBufferTooLarge)
	}

	syms := make([]ExportedSymbol, count)
	for i := range syms {
		name, _, err := ReadCString(r, maxNameLen)
		if err != nil {
			return nil, utils.Wrap("reading export name", err)
		}
		seg, err := readU8(r)
		if err != nil {
			return nil, utils.Wrap("reading export segment", err)
		}
		value, err := ReadCount(r, width32)
		if err != nil {
			return nil, utils.Wrap("reading export value", err)
		}
		syms[i] = ExportedSymbol{Name: name, Seg: SegID(seg), Value: value}
	}
	return syms, nil
}

// WriteExportTable writes the count then each symbol record.
func WriteExportTable(w io.Writer, syms []ExportedSymbol, width32 bool) error {
	if err := WriteCount(w, uint32(len(syms)), width32); err != nil {
		return err
	}
	for _, sym := range syms {
		if err := WriteCString(w, sym.Name); err != nil {
			return err
		}
		if err := writeU8(w, uint8(sym.Seg)); err != nil {
			return utils.Wrap("writing export segment", err)
		}
		if err := WriteCount(w, sym.Value, width32); err != nil {
			return err
		}
	}
	return nil
}
