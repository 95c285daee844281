package o65

import (
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// Image is a complete `.o65` image: header, options, the .text and .data
// segment bytes (.bss and zeropage have no on-disk bytes, only header
// lengths/bases), the external-reference and exported-symbol tables, the
// relocation entries for each of .text and .data, and an optional
// chained image immediately following (spec §3's "chained image").
type Image struct {
	Header  *Header
	Options []*Option

	Text []byte
	Data []byte

	Externs []string

	TextRelocs []RelocEntry
	DataRelocs []RelocEntry

	Exports []ExportedSymbol

	Chain *Image
}

// ReadImage reads one complete image, following the chain bit to read a
// second image immediately afterward when set (spec §8 scenario 6).
func ReadImage(r io.Reader) (*Image, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	options, err := ReadOptions(r)
	if err != nil {
		return nil, err
	}

	text, err := ReadSegment(r, header.TextLen)
	if err != nil {
		return nil, err
	}
	data, err := ReadSegment(r, header.DataLen)
	if err != nil {
		return nil, err
	}

	width32 := header.Mode.Width32()
	paged := header.Mode.Paged()

	externs, err := ReadExternTable(r, width32)
	if err != nil {
		return nil, err
	}

	textRelocs, err := readRelocStream(r, header.TextBase, width32, paged)
	if err != nil {
		return nil, utils.Wrap("reading text relocations", err)
	}
	dataRelocs, err := readRelocStream(r, header.DataBase, width32, paged)
	if err != nil {
		return nil, utils.Wrap("reading data relocations", err)
	}

	exports, err := ReadExportTable(r, width32)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Header:     header,
		Options:    options,
		Text:       text,
		Data:       data,
		Externs:    externs,
		TextRelocs: textRelocs,
		DataRelocs: dataRelocs,
		Exports:    exports,
	}

	if header.Mode.Chain() {
		chain, err := ReadImage(r)
		if err != nil {
			return nil, utils.Wrap("reading chained image", err)
		}
		img.Chain = chain
	}

	return img, nil
}

// readRelocStream decodes entries from a relocation stream until the
// terminator, discarding skip records (WriteImage reconstructs them from
// the entries' absolute offsets).
func readRelocStream(r io.Reader, base uint32, width32, paged bool) ([]RelocEntry, error) {
	rr := NewRelocReader(r, base, width32, paged)
	var entries []RelocEntry
	for {
		kind, entry, err := rr.Next()
		if err != nil {
			return nil, err
		}
		switch kind {
		case RecTerminator:
			return entries, nil
		case RecEntry:
			entries = append(entries, entry)
		case RecSkip:
			// No relocation to record; the cursor has already advanced.
		}
	}
}

// WriteImage writes a complete image in the order spec §4.1/§4.2
// describe: header, options, .text then .data bytes, extern table,
// .text relocations then .data relocations (each terminated), exports,
// and — if Chain is set — a second complete image immediately after.
func WriteImage(w io.Writer, img *Image) error {
	if img.Chain != nil {
		img.Header.Mode = img.Header.Mode.WithChain(true)
	}

	if err := WriteHeader(w, img.Header); err != nil {
		return err
	}
	if err := WriteOptions(w, img.Options); err != nil {
		return err
	}

	if _, err := w.Write(img.Text); err != nil {
		return utils.Wrap("writing text segment", err)
	}
	if _, err := w.Write(img.Data); err != nil {
		return utils.Wrap("writing data segment", err)
	}

	width32 := img.Header.Mode.Width32()
	paged := img.Header.Mode.Paged()

	if err := WriteExternTable(w, img.Externs, width32); err != nil {
		return err
	}

	if err := writeRelocStream(w, img.TextRelocs, img.Header.TextBase, width32, paged); err != nil {
		return utils.Wrap("writing text relocations", err)
	}
	if err := writeRelocStream(w, img.DataRelocs, img.Header.DataBase, width32, paged); err != nil {
		return utils.Wrap("writing data relocations", err)
	}

	if err := WriteExportTable(w, img.Exports, width32); err != nil {
		return err
	}

	if img.Chain != nil {
		return WriteImage(w, img.Chain)
	}
	return nil
}

func writeRelocStream(w io.Writer, entries []RelocEntry, base uint32, width32, paged bool) error {
	rw := NewRelocWriter(w, base, width32, paged)
	for _, e := range entries {
		if err := rw.Put(e); err != nil {
			return err
		}
	}
	return rw.Close()
}
