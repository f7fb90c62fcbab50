// Package arena provides the grow-only byte-region abstraction the
// allocator core consumes. It deliberately exposes only the capabilities
// named in the allocator's host contract: query the lowest and highest
// valid address, and extend the region by a requested number of bytes.
//
// Unlike a host written in a systems language, a Go Arena also owns direct
// byte access to the region it grows — there is no separate "pointer into
// host memory" the allocator can dereference, so the region's bytes are
// read and written through the same interface that reports its bounds.
package arena

import "fmt"

// ArenaError reports a failure from an Arena implementation, most commonly
// exhaustion during Extend.
type ArenaError struct {
	Op      string
	Addr    uint32
	Size    uint32
	Message string
}

func (e *ArenaError) Error() string {
	return fmt.Sprintf("arena error [%s]: %s (addr=0x%x, size=%d)", e.Op, e.Message, e.Addr, e.Size)
}

// Arena is a single contiguous, grow-only byte region.
type Arena interface {
	// Bottom returns the lowest valid address in the arena.
	Bottom() uint32

	// Top returns one past the highest valid address — the address of the
	// first byte NOT currently part of the arena.
	Top() uint32

	// Extend grows the arena by n bytes and returns the address of the
	// start of the newly added region (the old Top()). It fails with an
	// *ArenaError if the host cannot grow further.
	Extend(n uint32) (uint32, error)

	// ReadUint32 reads a little-endian word at addr.
	ReadUint32(addr uint32) (uint32, error)

	// WriteUint32 writes a little-endian word at addr.
	WriteUint32(addr uint32, v uint32) error

	// ReadBytes copies n bytes starting at addr.
	ReadBytes(addr, n uint32) ([]byte, error)

	// WriteBytes writes data starting at addr.
	WriteBytes(addr uint32, data []byte) error
}

func boundsErr(op string, addr, size uint32) error {
	return &ArenaError{Op: op, Addr: addr, Size: size, Message: "address range outside arena"}
}
