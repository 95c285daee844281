// Package relocate implements the `.o65`-to-flat-binary relocator:
// laying out segments at concrete addresses, resolving externals
// against an imports table, and patching relocation sites.
package relocate

import (
	"fmt"

	"github.com/scigolib/o65/internal/o65"
)

// Warning mirrors internal/convert's non-fatal-condition type; kept
// distinct per package since the two tools report unrelated warning
// vocabularies.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// Output is the relocated program, ready to be written as one
// concatenated file or as separate .text/.data outputs.
type Output struct {
	Text []byte
	Data []byte // covers the .bss tail too when the layout extended it
}

// Relocate lays out img's segments per layout, resolves its externals
// against imports, and patches every relocation site.
func Relocate(img *o65.Image, layout Layout, imports Imports) (*Output, []Warning, error) {
	var warnings []Warning

	resolved, err := ResolveLayout(img.Header, layout)
	if err != nil {
		return nil, nil, err
	}

	textBuf := make([]byte, resolved.Text.AlignedSize)
	copy(textBuf, img.Text)

	dataSize := resolved.Data.AlignedSize
	if resolved.extendBSSIntoBlob {
		dataSize += resolved.BSS.AlignedSize
	}
	dataBuf := make([]byte, dataSize)
	copy(dataBuf, img.Data)

	externValues, missing := resolveExterns(img.Externs, imports)
	for _, name := range missing {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("unresolved external %q", name)})
	}

	deltaFor := func(e o65.RelocEntry) (uint32, error) {
		if e.Seg == o65.SegUndef {
			if int(e.UndefID) >= len(externValues) {
				return 0, fmt.Errorf("relocation references external index %d out of range", e.UndefID)
			}
			return externValues[e.UndefID], nil
		}
		return resolved.Delta(e.Seg, img.Header)
	}

	for _, e := range img.TextRelocs {
		delta, derr := deltaFor(e)
		if derr != nil {
			return nil, warnings, derr
		}
		local := e
		local.Offset = e.Offset - img.Header.TextBase
		if err := patch(textBuf, local, delta); err != nil {
			return nil, warnings, fmt.Errorf("patching .text at offset 0x%x: %w", local.Offset, err)
		}
	}
	for _, e := range img.DataRelocs {
		delta, derr := deltaFor(e)
		if derr != nil {
			return nil, warnings, derr
		}
		local := e
		local.Offset = e.Offset - img.Header.DataBase
		if err := patch(dataBuf, local, delta); err != nil {
			return nil, warnings, fmt.Errorf("patching .data at offset 0x%x: %w", local.Offset, err)
		}
	}

	out := &Output{Text: textBuf, Data: dataBuf}

	if len(missing) > 0 {
		return out, warnings, fmt.Errorf("%d unresolved external(s), see warnings", len(missing))
	}
	return out, warnings, nil
}

// resolveExterns looks up every name in order, returning a parallel
// value slice (0 for misses, so patching can still proceed) and the
// sorted-by-first-use list of names that weren't found — spec.md §4.3's
// "missing names set a failure flag but continue so that all misses are
// reported" in one run.
func resolveExterns(names []string, imports Imports) (values []uint32, missing []string) {
	values = make([]uint32, len(names))
	for i, name := range names {
		if v, ok := imports[name]; ok {
			values[i] = v
		} else {
			missing = append(missing, name)
		}
	}
	return values, missing
}
