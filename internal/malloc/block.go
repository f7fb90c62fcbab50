package malloc

import "github.com/wasmkit/heapalloc/internal/arena"

// A block's header and footer are each one word: (size | alloc) with size
// masked to a multiple of 8 in the high bits and the allocation flag in
// bit 0. Neighbors are located by arithmetic on a block pointer (the
// address of the first payload byte), never by navigating typed fields —
// the boundary tags live in the arena's bytes, not in a Go struct.

const allocBit = uint32(1)
const sizeMask = ^uint32(7)

func packTag(size uint32, allocated bool) uint32 {
	if allocated {
		return (size &^ 7) | allocBit
	}
	return size &^ 7
}

func tagSize(word uint32) uint32 { return word & sizeMask }

func tagAllocated(word uint32) bool { return word&allocBit != 0 }

func alignUp8(n uint32) uint32 { return (n + 7) &^ 7 }

// headerAddr returns the address of bp's header word.
func headerAddr(c Config, bp uint32) uint32 { return bp - c.WordSize }

// footerAddr returns the address of bp's footer word given its payload size.
func footerAddr(bp, size uint32) uint32 { return bp + size }

// nextBlockAddr returns the block pointer of the block immediately after bp.
func nextBlockAddr(c Config, bp, size uint32) uint32 {
	return bp + size + c.doubleWordSize()
}

// prevFooterAddr returns the address of the previous block's footer word.
func prevFooterAddr(c Config, bp uint32) uint32 { return bp - c.doubleWordSize() }

func readHeader(a arena.Arena, c Config, bp uint32) (size uint32, allocated bool, err error) {
	w, err := a.ReadUint32(headerAddr(c, bp))
	if err != nil {
		return 0, false, err
	}
	return tagSize(w), tagAllocated(w), nil
}

func readFooterAt(a arena.Arena, addr uint32) (size uint32, allocated bool, err error) {
	w, err := a.ReadUint32(addr)
	if err != nil {
		return 0, false, err
	}
	return tagSize(w), tagAllocated(w), nil
}

// writeTags writes identical header and footer tags for a block of the
// given payload size and allocation state.
func writeTags(a arena.Arena, c Config, bp, size uint32, allocated bool) error {
	w := packTag(size, allocated)
	if err := a.WriteUint32(headerAddr(c, bp), w); err != nil {
		return err
	}
	return a.WriteUint32(footerAddr(bp, size), w)
}

// prevBlockAddr returns the block pointer of the block immediately before
// bp, read via bp's previous-footer word.
func prevBlockAddr(a arena.Arena, c Config, bp uint32) (uint32, error) {
	prevSize, _, err := readFooterAt(a, prevFooterAddr(c, bp))
	if err != nil {
		return 0, err
	}
	return bp - prevSize - c.doubleWordSize(), nil
}

// Free-list links occupy the first two payload words of a free block: the
// previous-free link at offset 0, the next-free link at offset WordSize.
// A link value of 0 means nil — address 0 can never be a live block
// pointer because it is permanently consumed by the arena's padding word.

func readPrevLink(a arena.Arena, bp uint32) (uint32, error) {
	return a.ReadUint32(bp)
}

func writePrevLink(a arena.Arena, bp, val uint32) error {
	return a.WriteUint32(bp, val)
}

func readNextLink(a arena.Arena, c Config, bp uint32) (uint32, error) {
	return a.ReadUint32(bp + c.WordSize)
}

func writeNextLink(a arena.Arena, c Config, bp, val uint32) error {
	return a.WriteUint32(bp+c.WordSize, val)
}
