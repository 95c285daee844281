package elfview

import (
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	mocktesting "github.com/scigolib/o65/internal/testing"
)

func TestReadELFFlags_32Bit(t *testing.T) {
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint32(buf[36:40], 0x6502_0001)
	r := mocktesting.NewMockReaderAt(buf)

	flags, err := readELFFlags(r, elf.ELFCLASS32, binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, uint32(0x6502_0001), flags)
}

func TestReadELFFlags_64Bit(t *testing.T) {
	buf := make([]byte, 52)
	binary.LittleEndian.PutUint32(buf[48:52], 0x0000_0004)
	r := mocktesting.NewMockReaderAt(buf)

	flags, err := readELFFlags(r, elf.ELFCLASS64, binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, uint32(0x0000_0004), flags)
}

func TestReadELFFlags_ShortRead(t *testing.T) {
	r := mocktesting.NewMockReaderAt(make([]byte, 8))
	_, err := readELFFlags(r, elf.ELFCLASS32, binary.LittleEndian)
	require.Error(t, err)
}

func TestDecodeRela32_SplitsInfoField(t *testing.T) {
	b := make([]byte, 12)
	binary.LittleEndian.PutUint32(b[0:4], 0x1000)
	binary.LittleEndian.PutUint32(b[4:8], (7<<8)|uint32(R_MOS_ADDR16))
	binary.LittleEndian.PutUint32(b[8:12], 0xFFFFFFF0) // addend -16

	r := decodeRela32(b)
	require.EqualValues(t, 0x1000, r.Offset())
	require.EqualValues(t, 7, r.SymIndex())
	require.EqualValues(t, R_MOS_ADDR16, r.Type())
	require.EqualValues(t, -16, r.Addend())
}

func TestDecodeRela64_SplitsInfoField(t *testing.T) {
	b := make([]byte, 24)
	binary.LittleEndian.PutUint64(b[0:8], 0x2000)
	binary.LittleEndian.PutUint64(b[8:16], (uint64(9)<<32)|uint64(R_MOS_ADDR24))
	binary.LittleEndian.PutUint64(b[16:24], ^uint64(0)) // addend -1

	r := decodeRela64(b)
	require.EqualValues(t, 0x2000, r.Offset())
	require.EqualValues(t, 9, r.SymIndex())
	require.EqualValues(t, R_MOS_ADDR24, r.Type())
	require.EqualValues(t, -1, r.Addend())
}
