package inspect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/o65/internal/o65"
)

func TestWalk_BasicFields(t *testing.T) {
	img := &o65.Image{
		Header: &o65.Header{
			Mode:     o65.Mode(0).WithCPU(o65.CPU65C02),
			TextLen:  0x10,
			DataLen:  0x4,
			BSSLen:   0x8,
		},
		Options: []*o65.Option{{Type: o65.OptAuthor, Payload: []byte("student")}},
		Externs: []string{"printf"},
		TextRelocs: []o65.RelocEntry{
			{Offset: 0x10, Kind: o65.RelocWord, Seg: o65.SegText},
		},
	}

	report := Walk(img)
	require.Equal(t, o65.CPU65C02, report.CPU)
	require.Equal(t, uint32(0x10), report.TextLen)
	require.Len(t, report.Options, 1)
	require.Equal(t, "author", report.Options[0].Name)
	require.Len(t, report.TextRelocs, 1)
	require.Nil(t, report.Chain)
}

func TestWalk_FollowsChain(t *testing.T) {
	chained := &o65.Image{Header: &o65.Header{}}
	img := &o65.Image{Header: &o65.Header{Mode: o65.ModeChain}, Chain: chained}

	report := Walk(img)
	require.NotNil(t, report.Chain)
	require.Nil(t, report.Chain.Chain)
}

func TestOptionName_UnknownType(t *testing.T) {
	require.Contains(t, optionName(o65.OptionType(0x99)), "0x99")
}
