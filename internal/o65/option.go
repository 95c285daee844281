package o65

import (
	"fmt"
	"io"

	"github.com/scigolib/o65/internal/utils"
)

// OptionType tags an Option's payload.
type OptionType uint8

const (
	OptFilename   OptionType = 0
	OptOS         OptionType = 1
	OptAssembler  OptionType = 2 // assembler/linker name
	OptAuthor     OptionType = 3
	OptCreated    OptionType = 4
	OptELFMachine OptionType = 'E' // ELF machine descriptor: u16 machine + u32 flags
)

// Option is one record of an image's option list: a type tag and its
// payload bytes, framed on disk by a one-byte length that includes the
// two framing bytes (length+type) themselves.
type Option struct {
	Type    OptionType
	Payload []byte
}

// ELFMachine decodes an OptELFMachine option's payload.
func (o *Option) ELFMachine() (machine uint16, flags uint32, err error) {
	if o.Type != OptELFMachine || len(o.Payload) != 6 {
		return 0, 0, fmt.Errorf("o65: not an ELF machine option")
	}
	machine = uint16(o.Payload[0]) | uint16(o.Payload[1])<<8
	flags = uint32(o.Payload[2]) | uint32(o.Payload[3])<<8 | uint32(o.Payload[4])<<16 | uint32(o.Payload[5])<<24
	return machine, flags, nil
}

// NewELFMachineOption builds the OptELFMachine option carrying an ELF
// machine number and flag word verbatim, per spec §4.2.
func NewELFMachineOption(machine uint16, flags uint32) *Option {
	payload := []byte{
		byte(machine), byte(machine >> 8),
		byte(flags), byte(flags >> 8), byte(flags >> 16), byte(flags >> 24),
	}
	return &Option{Type: OptELFMachine, Payload: payload}
}

// ReadOption reads one option record. A nil *Option with terminator=true
// signals the length-0 list terminator; ErrFormatInvalid is returned for
// the illegal length-1 record.
func ReadOption(r io.Reader) (opt *Option, terminator bool, err error) {
	length, err := readU8(r)
	if err != nil {
		return nil, false, utils.Wrap("reading option length", err)
	}
	if length == 0 {
		return nil, true, nil
	}
	if length == 1 {
		return nil, false, utils.Wrap("reading option", ErrFormatInvalid)
	}

	typ, err := readU8(r)
	if err != nil {
		return nil, false, utils.Wrap("reading option type", err)
	}

	payloadLen := int(length) - 2
	if err := utils.ValidateBufferSize(uint64(payloadLen), utils.MaxOptionPayload, "option payload"); err != nil {
		return nil, false, utils.Wrap("reading option payload", ErrBufferTooLarge)
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, false, utils.Wrap("reading option payload", shortRead(err))
	}

	return &Option{Type: OptionType(typ), Payload: payload}, false, nil
}

// WriteOption writes one option record, or the length-0 terminator when
// opt is nil.
func WriteOption(w io.Writer, opt *Option) error {
	if opt == nil {
		return utils.Wrap("writing option terminator", writeU8(w, 0))
	}
	if len(opt.Payload) > utils.MaxOptionPayload {
		return fmt.Errorf("o65: option payload of %d bytes exceeds the %d-byte frame limit", len(opt.Payload), utils.MaxOptionPayload)
	}
	length := uint8(len(opt.Payload) + 2)
	if err := writeU8(w, length); err != nil {
		return utils.Wrap("writing option length", err)
	}
	if err := writeU8(w, uint8(opt.Type)); err != nil {
		return utils.Wrap("writing option type", err)
	}
	if _, err := w.Write(opt.Payload); err != nil {
		return utils.Wrap("writing option payload", err)
	}
	return nil
}

// ReadOptions reads options until the list terminator.
func ReadOptions(r io.Reader) ([]*Option, error) {
	var opts []*Option
	for {
		opt, term, err := ReadOption(r)
		if err != nil {
			return nil, err
		}
		if term {
			return opts, nil
		}
		opts = append(opts, opt)
	}
}

// WriteOptions writes every option in opts followed by the terminator.
func WriteOptions(w io.Writer, opts []*Option) error {
	for _, opt := range opts {
		if err := WriteOption(w, opt); err != nil {
			return err
		}
	}
	return WriteOption(w, nil)
}
