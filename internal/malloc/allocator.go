// Package malloc implements the allocator core: block layout, the
// explicit free list, the placement engine, the coalescer, the realloc
// engine, and the consistency checker.
//
// The core is single-threaded by design: no mutex, no atomic, no
// suspension point appears anywhere in this package. Every exported
// method runs to completion in the calling goroutine; a host that wants
// concurrent access must serialize its own calls.
package malloc

import "github.com/wasmkit/heapalloc/internal/arena"

// Allocator manages blocks inside a single Arena. The zero value is not
// usable; construct with New and call Init before any other method.
type Allocator struct {
	arena arena.Arena
	cfg   Config

	freeHead   uint32 // head of the free list; 0 means empty
	firstBlock uint32 // first real block, set once by Init, never moves
}

// New constructs an Allocator over the given arena using cfg.
func New(a arena.Arena, cfg Config) *Allocator {
	return &Allocator{arena: a, cfg: cfg}
}

// Init lays down the prologue and epilogue sentinels and prepares the
// allocator for use. It must be called exactly once before any other
// method. Returns an error if the underlying arena cannot be extended.
func (al *Allocator) Init() error {
	al.freeHead = 0

	// Reserve the four sentinel words in one extension: a padding word, the
	// prologue header and footer (kept as two distinct words, not one, so
	// that the first real block's header — which will later overwrite the
	// epilogue slot below — never collides with the prologue), and the
	// epilogue header that terminates the (currently empty) block scan.
	bottom, err := al.arena.Extend(4 * al.cfg.WordSize)
	if err != nil {
		return err
	}

	paddingAddr := bottom
	prologueHeaderAddr := bottom + al.cfg.WordSize
	prologueFooterAddr := bottom + 2*al.cfg.WordSize
	epilogueAddr := bottom + 3*al.cfg.WordSize
	al.firstBlock = bottom + 4*al.cfg.WordSize

	if err := al.arena.WriteUint32(paddingAddr, packTag(0, true)); err != nil {
		return err
	}
	// Prologue header and footer both encode size = double word, allocated.
	// prevFooterAddr(firstBlock) lands exactly on prologueFooterAddr, so the
	// first real block's previous neighbor always reads back as allocated.
	prologueWord := packTag(al.cfg.doubleWordSize(), true)
	if err := al.arena.WriteUint32(prologueHeaderAddr, prologueWord); err != nil {
		return err
	}
	if err := al.arena.WriteUint32(prologueFooterAddr, prologueWord); err != nil {
		return err
	}
	if err := al.arena.WriteUint32(epilogueAddr, packTag(0, true)); err != nil {
		return err
	}

	return nil
}

// Config returns the allocator's active configuration.
func (al *Allocator) Config() Config { return al.cfg }
