package arena

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// wasmPageSize is the WASM linear-memory page granularity (64KiB), per the
// WebAssembly spec and the constant wazero itself grows memory by.
const wasmPageSize = 65536

// minimalMemoryModule is a hand-encoded WASM binary exporting a single
// growable linear memory named "memory" with a minimum of one page and no
// declared maximum. It exists purely to give WazeroArena a real
// wazero-hosted api.Memory to grow, without shipping a guest program: no
// functions, globals, or tables, just a memory section and an export
// section naming it.
var minimalMemoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // \0asm
	0x01, 0x00, 0x00, 0x00, // version 1
	// memory section (id 5): 1 memory, no max, min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export section (id 7): export memory index 0 as "memory"
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
}

// WazeroArena is an Arena backed by a wazero-instantiated guest module's
// linear memory. Extend grows the underlying api.Memory in whole pages as
// needed to cover the requested byte extension, mirroring how a real WASM
// host's sbrk-like growth primitive works.
type WazeroArena struct {
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	memory  api.Memory

	top     uint32 // logical high-water mark; <= memory.Size()
	maxSize uint32 // 0 means bounded only by the WASM 4GiB address space
}

// NewWazeroArena instantiates the minimal memory-only guest module inside
// the given wazero runtime and returns an Arena over its linear memory.
// Callers are responsible for closing the runtime they passed in.
func NewWazeroArena(ctx context.Context, rt wazero.Runtime, maxSize uint32) (*WazeroArena, error) {
	mod, err := rt.Instantiate(ctx, minimalMemoryModule)
	if err != nil {
		return nil, fmt.Errorf("instantiate memory host module: %w", err)
	}
	mem := mod.Memory()
	if mem == nil {
		return nil, fmt.Errorf("host module exported no memory")
	}
	return &WazeroArena{ctx: ctx, runtime: rt, module: mod, memory: mem, maxSize: maxSize}, nil
}

func (w *WazeroArena) Bottom() uint32 { return 0 }

func (w *WazeroArena) Top() uint32 { return w.top }

func (w *WazeroArena) Extend(n uint32) (uint32, error) {
	oldTop := w.top
	newTop := oldTop + n
	if w.maxSize != 0 && newTop > w.maxSize {
		return 0, &ArenaError{Op: "extend", Addr: oldTop, Size: n, Message: "arena exhausted"}
	}

	if newTop > w.memory.Size() {
		deficit := newTop - w.memory.Size()
		deltaPages := (deficit + wasmPageSize - 1) / wasmPageSize
		if _, ok := w.memory.Grow(deltaPages); !ok {
			return 0, &ArenaError{Op: "extend", Addr: oldTop, Size: n, Message: "wazero memory.Grow failed"}
		}
	}

	w.top = newTop
	return oldTop, nil
}

func (w *WazeroArena) ReadUint32(addr uint32) (uint32, error) {
	v, ok := w.memory.ReadUint32Le(addr)
	if !ok {
		return 0, boundsErr("read_uint32", addr, 4)
	}
	return v, nil
}

func (w *WazeroArena) WriteUint32(addr uint32, v uint32) error {
	if !w.memory.WriteUint32Le(addr, v) {
		return boundsErr("write_uint32", addr, 4)
	}
	return nil
}

func (w *WazeroArena) ReadBytes(addr, n uint32) ([]byte, error) {
	data, ok := w.memory.Read(addr, n)
	if !ok {
		return nil, boundsErr("read_bytes", addr, n)
	}
	out := make([]byte, n)
	copy(out, data)
	return out, nil
}

func (w *WazeroArena) WriteBytes(addr uint32, data []byte) error {
	if !w.memory.Write(addr, data) {
		return boundsErr("write_bytes", addr, uint32(len(data)))
	}
	return nil
}

// Close releases the underlying guest module instance.
func (w *WazeroArena) Close() error {
	return w.module.Close(w.ctx)
}
