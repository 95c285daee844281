package convert

import (
	"github.com/scigolib/o65/internal/elfview"
	"github.com/scigolib/o65/internal/o65"
)

// cpuFromELFFlags maps an ELF flag word's architecture bits to a `.o65`
// CPU mode value, mirroring elf2o65.c's map_cpu_type: the flags are
// independent bits, not a dense enum, so each candidate is tested with
// a bitwise AND in priority order rather than a switch on a masked
// field.
func cpuFromELFFlags(flags uint32) o65.CPU {
	switch {
	case flags&elfview.EF_MOS_W65816 != 0:
		// The original maps this to O65_MODE_CPU_65816 | O65_MODE_CPU_65C02,
		// not the emulation-mode enum value: native 65816, 65C02-compatible.
		return o65.CPU65816 | o65.CPU65C02
	case flags&elfview.EF_MOS_65CE02 != 0:
		return o65.CPU65CE02
	case flags&(elfview.EF_MOS_R65C02|elfview.EF_MOS_W65C02) != 0:
		return o65.CPU65SC02
	case flags&elfview.EF_MOS_65C02 != 0:
		return o65.CPU65C02
	case flags&elfview.EF_MOS_6502X != 0:
		return o65.CPU6502Undoc
	default:
		return o65.CPU6502
	}
}
