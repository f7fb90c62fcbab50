// Package heapalloc is the public facade over the allocator core: Init,
// Alloc, Free, Realloc, plus CheckHeap, wrapping internal/malloc.Allocator.
package heapalloc

import (
	"io"

	"github.com/wasmkit/heapalloc/internal/arena"
	"github.com/wasmkit/heapalloc/internal/malloc"
)

// Allocator is a dynamic memory allocator over a caller-supplied Arena.
type Allocator struct {
	core *malloc.Allocator
}

// New constructs an Allocator over a using the standard tunables
// (300-probe cap, 128-byte realloc slack, 4-byte words).
func New(a arena.Arena) *Allocator {
	return NewWithConfig(a, malloc.DefaultConfig())
}

// NewWithConfig constructs an Allocator with explicit tunables.
func NewWithConfig(a arena.Arena, cfg malloc.Config) *Allocator {
	return &Allocator{core: malloc.New(a, cfg)}
}

// Init prepares the allocator for use. It must be called exactly once,
// before any other method.
func (h *Allocator) Init() error {
	return h.core.Init()
}

// Alloc returns an address to at least size usable bytes of 8-aligned
// memory, or 0 if size is zero or the arena could not be grown.
func (h *Allocator) Alloc(size uint32) (uint32, error) {
	return h.core.Alloc(size)
}

// Free releases the block at bp. bp == 0 is a no-op; freeing an address
// that is not a live, previously allocated block is undefined behavior.
func (h *Allocator) Free(bp uint32) error {
	return h.core.Free(bp)
}

// Realloc resizes bp to hold at least size bytes.
func (h *Allocator) Realloc(bp uint32, size uint32) (uint32, error) {
	return h.core.Realloc(bp, size)
}

// CheckHeap runs the consistency checker over the whole arena. Pass a
// non-nil w to also receive a per-block diagnostic dump; pass nil to only
// get the violation report.
func (h *Allocator) CheckHeap(w io.Writer) *malloc.CheckReport {
	return h.core.CheckHeap(w)
}

// Config returns the allocator's active tunables.
func (h *Allocator) Config() malloc.Config {
	return h.core.Config()
}
