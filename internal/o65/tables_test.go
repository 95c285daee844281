package o65

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExternTableRoundTrip(t *testing.T) {
	names := []string{"__IMAG_REGS", "printf", "malloc"}

	var buf bytes.Buffer
	require.NoError(t, WriteExternTable(&buf, names, false))

	got, err := ReadExternTable(bytes.NewReader(buf.Bytes()), false)
	require.NoError(t, err)
	require.Equal(t, names, got)
}

func TestExternTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExternTable(&buf, nil, false))
	require.Equal(t, []byte{0, 0}, buf.Bytes())

	got, err := ReadExternTable(bytes.NewReader(buf.Bytes()), false)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestExportTableRoundTrip(t *testing.T) {
	syms := []ExportedSymbol{
		{Name: "_main", Seg: SegText, Value: 0x0200},
		{Name: "_bss_start", Seg: SegBSS, Value: 0x1000},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExportTable(&buf, syms, false))

	got, err := ReadExportTable(bytes.NewReader(buf.Bytes()), false)
	require.NoError(t, err)
	require.Equal(t, syms, got)
}

func TestExportTable32BitWidth(t *testing.T) {
	syms := []ExportedSymbol{{Name: "_big", Seg: SegData, Value: 0xAABBCCDD}}

	var buf bytes.Buffer
	require.NoError(t, WriteExportTable(&buf, syms, true))

	got, err := ReadExportTable(bytes.NewReader(buf.Bytes()), true)
	require.NoError(t, err)
	require.Equal(t, syms, got)
}

func TestReadExternTable_CountTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCount(&buf, 0xFFFFFFFF, true))

	_, err := ReadExternTable(bytes.NewReader(buf.Bytes()), true)
	require.ErrorIs(t, err, ErrBufferTooLarge)
}
