package arena

import "encoding/binary"

// ByteArena is an in-process, growable []byte implementation of Arena. It
// is the default host for tests and for the CLI's standalone demo mode.
//
// Addresses are offsets from the start of the backing slice, so Bottom()
// is always 0. MaxSize, when non-zero, caps growth to simulate an
// out-of-memory host; zero means unbounded (limited only by process
// memory).
type ByteArena struct {
	buf     []byte
	MaxSize uint32
}

// NewByteArena creates an empty ByteArena. maxSize of 0 means unbounded.
func NewByteArena(maxSize uint32) *ByteArena {
	return &ByteArena{buf: make([]byte, 0, 4096), MaxSize: maxSize}
}

func (b *ByteArena) Bottom() uint32 { return 0 }

func (b *ByteArena) Top() uint32 { return uint32(len(b.buf)) }

func (b *ByteArena) Extend(n uint32) (uint32, error) {
	oldTop := uint32(len(b.buf))
	newTop := oldTop + n
	if b.MaxSize != 0 && newTop > b.MaxSize {
		return 0, &ArenaError{Op: "extend", Addr: oldTop, Size: n, Message: "arena exhausted"}
	}
	b.buf = append(b.buf, make([]byte, n)...)
	return oldTop, nil
}

func (b *ByteArena) ReadUint32(addr uint32) (uint32, error) {
	if uint64(addr)+4 > uint64(len(b.buf)) {
		return 0, boundsErr("read_uint32", addr, 4)
	}
	return binary.LittleEndian.Uint32(b.buf[addr : addr+4]), nil
}

func (b *ByteArena) WriteUint32(addr uint32, v uint32) error {
	if uint64(addr)+4 > uint64(len(b.buf)) {
		return boundsErr("write_uint32", addr, 4)
	}
	binary.LittleEndian.PutUint32(b.buf[addr:addr+4], v)
	return nil
}

func (b *ByteArena) ReadBytes(addr, n uint32) ([]byte, error) {
	if uint64(addr)+uint64(n) > uint64(len(b.buf)) {
		return nil, boundsErr("read_bytes", addr, n)
	}
	out := make([]byte, n)
	copy(out, b.buf[addr:addr+n])
	return out, nil
}

func (b *ByteArena) WriteBytes(addr uint32, data []byte) error {
	n := uint32(len(data))
	if uint64(addr)+uint64(n) > uint64(len(b.buf)) {
		return boundsErr("write_bytes", addr, n)
	}
	copy(b.buf[addr:addr+n], data)
	return nil
}
