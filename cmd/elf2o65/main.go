// Package main converts a statically-linked MOS 6502-family ELF
// executable into a `.o65` object file.
package main

import (
	"debug/elf"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/scigolib/o65/internal/convert"
	"github.com/scigolib/o65/internal/elfview"
	"github.com/scigolib/o65/internal/o65"
)

func main() {
	author := flag.String("a", "", "author name header option")
	forceBSSZero := flag.Bool("b", false, "force the bss-must-be-zeroed mode flag")
	addDate := flag.Bool("d", false, "add the input file's modification date as a header option")
	hosted := flag.Bool("h", false, "hosted mode: the runtime loader provides imaginary registers")
	linker := flag.String("l", "", "linker/assembler name header option")
	osInfo := flag.String("o", "", "OS info option payload, as whitespace-tolerant hex bytes")
	stackSize := flag.Uint("s", 0, "required stack size")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: elf2o65 [flags] input.elf [output.o65]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	inputPath := args[0]
	outputPath := defaultOutputPath(inputPath)
	if len(args) >= 2 {
		outputPath = args[1]
	}

	osBytes, err := parseHexBytes(*osInfo)
	if err != nil {
		log.Fatalf("invalid -o value: %v", err)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("opening %s: %v", inputPath, err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			log.Printf("closing %s: %v", inputPath, err)
		}
	}()

	stat, err := in.Stat()
	if err != nil {
		log.Fatalf("statting %s: %v", inputPath, err)
	}

	elfFile, err := elf.NewFile(in)
	if err != nil {
		log.Fatalf("reading ELF file: %v", err)
	}

	img, err := elfview.FromDebugELF(elfFile, in)
	if err != nil {
		log.Fatalf("adapting ELF file: %v", err)
	}

	result, warnings, err := convert.Convert(img, convert.Options{
		Author:          *author,
		Linker:          *linker,
		OSInfo:          osBytes,
		StackSize:       uint32(*stackSize),
		Hosted:          *hosted,
		ForceBSSZero:    *forceBSSZero,
		AddCreationDate: *addDate,
		SourceModTime:   stat.ModTime(),
	})
	if err != nil {
		log.Fatalf("converting %s: %v", inputPath, err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", inputPath, w)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("creating %s: %v", outputPath, err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Printf("closing %s: %v", outputPath, err)
		}
	}()

	if err := o65.WriteImage(out, result); err != nil {
		log.Fatalf("writing %s: %v", outputPath, err)
	}
}

func defaultOutputPath(input string) string {
	if strings.HasSuffix(input, ".elf") {
		return strings.TrimSuffix(input, ".elf") + ".o65"
	}
	return input + ".o65"
}

func parseHexBytes(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%q is not a hex byte: %w", f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}
