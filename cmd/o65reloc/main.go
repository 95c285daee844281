// Package main relocates a `.o65` image into one or two flat binaries
// at caller-supplied segment addresses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/scigolib/o65/internal/o65"
	"github.com/scigolib/o65/internal/relocate"
)

func main() {
	textAddr := flag.String("t", "", "text segment address (0x.../0.../decimal)")
	dataAddr := flag.String("d", "", "data segment address")
	bssAddr := flag.String("b", "", "bss segment address")
	zpAddr := flag.String("z", "", "zeropage segment address")
	importsPath := flag.String("i", "", "imports table file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Println("Usage: o65reloc [flags] input.o65 output.bin [data-output.bin]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	inputPath := args[0]
	textOutputPath := args[1]
	dataOutputPath := ""
	if len(args) >= 3 {
		dataOutputPath = args[2]
	}

	layout := relocate.Layout{}
	var err error
	if layout.Text, err = parseAddr(*textAddr); err != nil {
		log.Fatalf("invalid -t value: %v", err)
	}
	if layout.Data, err = parseAddr(*dataAddr); err != nil {
		log.Fatalf("invalid -d value: %v", err)
	}
	if layout.BSS, err = parseAddr(*bssAddr); err != nil {
		log.Fatalf("invalid -b value: %v", err)
	}
	if layout.ZP, err = parseAddr(*zpAddr); err != nil {
		log.Fatalf("invalid -z value: %v", err)
	}

	imports := relocate.Imports{}
	if *importsPath != "" {
		f, err := os.Open(*importsPath)
		if err != nil {
			log.Fatalf("opening %s: %v", *importsPath, err)
		}
		imports, err = relocate.ParseImports(f)
		if err != nil {
			if cerr := f.Close(); cerr != nil {
				log.Printf("closing %s: %v", *importsPath, cerr)
			}
			log.Fatalf("parsing %s: %v", *importsPath, err)
		}
		if err := f.Close(); err != nil {
			log.Printf("closing %s: %v", *importsPath, err)
		}
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

	img, err := o65.ReadImage(in)
	if err != nil {
		log.Fatalf("reading %s: %v", inputPath, err)
	}

	out, warnings, err := relocate.Relocate(img, layout, imports)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", inputPath, w)
	}
	if err != nil {
		log.Fatalf("relocating %s: %v", inputPath, err)
	}

	if dataOutputPath == "" {
		blob := append(append([]byte{}, out.Text...), out.Data...)
		if err := os.WriteFile(textOutputPath, blob, 0o644); err != nil {
			log.Fatalf("writing %s: %v", textOutputPath, err)
		}
		return
	}

	if err := os.WriteFile(textOutputPath, out.Text, 0o644); err != nil {
		log.Fatalf("writing %s: %v", textOutputPath, err)
	}
	if err := os.WriteFile(dataOutputPath, out.Data, 0o644); err != nil {
		log.Fatalf("writing %s: %v", dataOutputPath, err)
	}
}

// parseAddr accepts C-style integer literals: 0x-prefixed hex, a
// leading 0 for octal, else decimal.
func parseAddr(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid address: %w", s, err)
	}
	return uint32(v), nil
}
