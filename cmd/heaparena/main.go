// Command heaparena is a small demo and inspection tool for the
// heapalloc allocator. It runs a short scripted sequence of allocate,
// free, and realloc calls over either an in-process byte arena or a
// wazero-hosted WASM linear memory, then prints the consistency
// checker's report. It is a demo, not a scripted allocation-trace test
// driver — just a way to see the allocator run.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tetratelabs/wazero"

	"github.com/wasmkit/heapalloc/internal/arena"
	"github.com/wasmkit/heapalloc/pkg/heapalloc"
)

func main() {
	useWazero := flag.Bool("wazero", false, "host the arena on a wazero-instantiated WASM linear memory instead of an in-process byte slice")
	verbose := flag.Bool("verbose", false, "print a per-block dump alongside the consistency report")
	flag.Parse()

	if err := run(*useWazero, *verbose, os.Stdout); err != nil {
		log.Fatalf("heaparena: %v", err)
	}
}

func run(useWazero, verbose bool, out *os.File) error {
	a, closeArena, err := buildArena(useWazero)
	if err != nil {
		return fmt.Errorf("build arena: %w", err)
	}
	defer closeArena()

	al := heapalloc.New(a)
	if err := al.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	x, err := al.Alloc(48)
	if err != nil {
		return fmt.Errorf("alloc x: %w", err)
	}
	y, err := al.Alloc(48)
	if err != nil {
		return fmt.Errorf("alloc y: %w", err)
	}
	z, err := al.Alloc(48)
	if err != nil {
		return fmt.Errorf("alloc z: %w", err)
	}
	fmt.Fprintf(out, "allocated x=0x%x y=0x%x z=0x%x\n", x, y, z)

	if err := al.Free(x); err != nil {
		return fmt.Errorf("free x: %w", err)
	}
	if err := al.Free(z); err != nil {
		return fmt.Errorf("free z: %w", err)
	}
	if err := al.Free(y); err != nil {
		return fmt.Errorf("free y: %w", err)
	}
	fmt.Fprintln(out, "freed x, z, y — expecting a single coalesced free block")

	a2, err := al.Alloc(64)
	if err != nil {
		return fmt.Errorf("alloc a2: %w", err)
	}
	grown, err := al.Realloc(a2, 100)
	if err != nil {
		return fmt.Errorf("realloc a2: %w", err)
	}
	fmt.Fprintf(out, "a2=0x%x grown=0x%x (same address: %t)\n", a2, grown, a2 == grown)

	var dump io.Writer
	if verbose {
		dump = out
	}
	report := al.CheckHeap(dump)
	if report.OK() {
		fmt.Fprintln(out, "check_heap: no violations")
	} else {
		fmt.Fprintf(out, "check_heap: %d violation(s)\n", len(report.Violations))
		for _, v := range report.Violations {
			fmt.Fprintln(out, "  "+v.String())
		}
	}

	return nil
}

func buildArena(useWazero bool) (arena.Arena, func(), error) {
	if !useWazero {
		return arena.NewByteArena(0), func() {}, nil
	}

	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	wa, err := arena.NewWazeroArena(ctx, rt, 0)
	if err != nil {
		rt.Close(ctx)
		return nil, func() {}, err
	}
	return wa, func() {
		wa.Close()
		rt.Close(ctx)
	}, nil
}
