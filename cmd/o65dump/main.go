// Package main prints a structured summary of a `.o65` image. Hex
// dumps and 6502 disassembly are out of scope; this only renders what
// internal/inspect decodes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/scigolib/o65/internal/inspect"
	"github.com/scigolib/o65/internal/o65"
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: o65dump input.o65")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := args[0]

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

	printReport(inspect.Walk(img), 0)
}

func printReport(r *inspect.Report, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	fmt.Printf("%scpu=%s align=%d paged=%v bsszero=%v obj=%v\n",
		indent, r.CPU, r.Align, r.Mode.Paged(), r.Mode.BSSZero(), r.Mode.Obj())
	fmt.Printf("%stext=0x%x data=0x%x bss=0x%x zp=0x%x\n",
		indent, r.TextLen, r.DataLen, r.BSSLen, r.ZPLen)

	for _, opt := range r.Options {
		fmt.Printf("%soption %s: % x\n", indent, opt.Name, opt.Payload)
	}

	for i, name := range r.Externs {
		fmt.Printf("%sextern[%d] = %s\n", indent, i, name)
	}
	for _, exp := range r.Exports {
		fmt.Printf("%sexport %s seg=%s value=0x%x\n", indent, exp.Name, exp.Seg, exp.Value)
	}

	for _, rel := range r.TextRelocs {
		fmt.Printf("%stext reloc @0x%x kind=%s seg=%s undef=%d extra=0x%x\n",
			indent, rel.Offset, rel.Kind, rel.Seg, rel.UndefID, rel.Extra)
	}
	for _, rel := range r.DataRelocs {
		fmt.Printf("%sdata reloc @0x%x kind=%s seg=%s undef=%d extra=0x%x\n",
			indent, rel.Offset, rel.Kind, rel.Seg, rel.UndefID, rel.Extra)
	}

	if r.Chain != nil {
		fmt.Printf("%schained image:\n", indent)
		printReport(r.Chain, depth+1)
	}
}
