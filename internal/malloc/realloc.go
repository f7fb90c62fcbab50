package malloc

// Realloc resizes bp to hold at least size bytes of payload: size 0 frees
// bp and returns 0; bp == 0 behaves as Alloc; shrinking (or no-op growth)
// returns bp unchanged; growth first tries to absorb a free next neighbor
// in place, then falls back to a fresh allocation with a copy.
func (al *Allocator) Realloc(bp uint32, size uint32) (uint32, error) {
	if size == 0 {
		return 0, al.Free(bp)
	}
	if bp == 0 {
		return al.Alloc(size)
	}

	oldSize, _, err := readHeader(al.arena, al.cfg, bp)
	if err != nil {
		return 0, err
	}
	if size <= oldSize {
		return bp, nil
	}

	need := alignUp8(size)

	next := nextBlockAddr(al.cfg, bp, oldSize)
	nextSize, nextAllocated, err := readHeader(al.arena, al.cfg, next)
	if err != nil {
		return 0, err
	}
	if !nextAllocated && oldSize+nextSize >= need {
		if err := al.removeFree(next); err != nil {
			return 0, err
		}
		newSize := oldSize + nextSize + al.cfg.doubleWordSize()
		if err := writeTags(al.arena, al.cfg, bp, newSize, true); err != nil {
			return 0, err
		}
		return bp, nil
	}

	newBp, err := al.Alloc(size)
	if err != nil {
		return 0, err
	}
	if newBp == 0 {
		return 0, nil
	}

	copySize := oldSize
	if size < copySize {
		copySize = size
	}
	if copySize > 0 {
		data, err := al.arena.ReadBytes(bp, copySize)
		if err != nil {
			return 0, err
		}
		if err := al.arena.WriteBytes(newBp, data); err != nil {
			return 0, err
		}
	}

	if err := al.Free(bp); err != nil {
		return 0, err
	}
	return newBp, nil
}
