package o65

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteHeader_16BitWidth(t *testing.T) {
	h := &Header{
		Mode:     Mode(0).WithCPU(CPU6502),
		TextBase: 0x0200, TextLen: 0x200,
		DataBase: 0x0400, DataLen: 0x100,
		BSSBase: 0x0500, BSSLen: 0x10,
		Stack: 0x100,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	require.False(t, h.Mode.Width32(), "small header should not force 32-bit width")
	require.Equal(t, Signature[:], buf.Bytes()[:6])

	got, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, h.TextBase, got.TextBase)
	require.Equal(t, h.TextLen, got.TextLen)
	require.Equal(t, h.Stack, got.Stack)
	require.False(t, got.Mode.Width32())
}

func TestWriteHeader_ForcesWidth32OnLargeTextLen(t *testing.T) {
	h := &Header{
		Mode:     Mode(0).WithCPU(CPU6502),
		TextBase: 0x0200, TextLen: 0x10000,
		Stack: 0x100,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.True(t, h.Mode.Width32())

	got, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, h.TextLen, got.TextLen)
	require.True(t, got.Mode.Width32())
}

func TestWriteHeader_ForcesWidth32OnLargeStack(t *testing.T) {
	h := &Header{Mode: Mode(0), TextBase: 1, Stack: 0x10000}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.True(t, h.Mode.Width32())
}

func TestWriteHeader_ForcesWidth32For65816Native(t *testing.T) {
	h := &Header{Mode: Mode(0).WithCPU(CPU65816), TextBase: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.True(t, h.Mode.Width32())
}

func TestWriteHeader_ForcesWidth32For65816WithSubVariantBits(t *testing.T) {
	// elf2o65 maps a W65816 binary to CPU65816|CPU65C02 (0x8010), not bare
	// CPU65816 (0x8000) — the 65816 bit must still be detected by AND.
	h := &Header{Mode: Mode(0).WithCPU(CPU65816 | CPU65C02), TextBase: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.True(t, h.Mode.Width32())
}

func TestWriteHeader_PagedImpliesAlign256(t *testing.T) {
	h := &Header{Mode: ModePaged, TextBase: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))
	require.Equal(t, AlignPage, h.Mode.Align())

	h2 := &Header{Mode: Mode(0).WithAlign(AlignPage), TextBase: 1}
	require.NoError(t, WriteHeader(&buf, h2))
	require.True(t, h2.Mode.Paged())
}

func TestWriteHeader_SimpleFlagInferredFromLayout(t *testing.T) {
	simple := &Header{
		TextBase: 0x1000, TextLen: 0x100,
		DataBase: 0x1100, DataLen: 0x50,
		BSSBase: 0x1150,
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, simple))
	require.True(t, simple.Mode.Simple())

	notSimple := &Header{
		TextBase: 0x1000, TextLen: 0x100,
		DataBase: 0x2000, DataLen: 0x50,
		BSSBase: 0x1150,
	}
	require.NoError(t, WriteHeader(&buf, notSimple))
	require.False(t, notSimple.Mode.Simple())
}

func TestReadHeader_BadSignature(t *testing.T) {
	data := append([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0}, make([]byte, 20)...)
	_, err := ReadHeader(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrBadSignature)
}

func TestReadHeader_ShortRead(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader(Signature[:4]))
	require.Error(t, err)
}

func TestModeAccessors(t *testing.T) {
	m := Mode(0).WithPaged(true).WithWidth32(true).WithCPU(CPU65C02).WithAlign(AlignLong)
	require.True(t, m.Paged())
	require.True(t, m.Width32())
	require.Equal(t, CPU65C02, m.CPU())
	require.Equal(t, uint32(4), m.Align().AlignBytes())

	m = m.WithPaged(false)
	require.False(t, m.Paged())
	require.True(t, m.Width32(), "clearing one flag must not disturb another")
}

func TestAlignFromBytes(t *testing.T) {
	require.Equal(t, AlignByte, AlignFromBytes(1))
	require.Equal(t, AlignWord, AlignFromBytes(2))
	require.Equal(t, AlignLong, AlignFromBytes(4))
	require.Equal(t, AlignPage, AlignFromBytes(256))
	require.Equal(t, AlignPage, AlignFromBytes(4096), "alignment above 4 clamps to page")
	require.Equal(t, AlignByte, AlignFromBytes(3), "unsupported alignment clamps down to byte")
}

func TestCPUString(t *testing.T) {
	require.Equal(t, "6502", CPU6502.String())
	require.Equal(t, "65816", CPU65816.String())
	require.Contains(t, CPU(0x00C0).String(), "CPU(0x")
}
