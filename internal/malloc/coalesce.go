package malloc

// Free marks bp's block as free and coalesces it with any free neighbors.
// bp == 0 is a no-op. Freeing an address that is not a live, previously
// allocated block is undefined behavior — it is not defended against on
// this fast path.
func (al *Allocator) Free(bp uint32) error {
	if bp == 0 {
		return nil
	}

	size, _, err := readHeader(al.arena, al.cfg, bp)
	if err != nil {
		return err
	}
	if err := writeTags(al.arena, al.cfg, bp, size, false); err != nil {
		return err
	}

	return al.coalesce(bp, size)
}

// coalesce implements the four-case boundary-tag merge. It runs
// unconditionally on every free — case 1 (both neighbors allocated)
// degenerates to a plain insert rather than skipping the coalesce check
// on an empty free list.
func (al *Allocator) coalesce(bp, size uint32) error {
	_, nextAllocated, err := readHeader(al.arena, al.cfg, nextBlockAddr(al.cfg, bp, size))
	if err != nil {
		return err
	}
	prevSize, prevAllocated, err := readFooterAt(al.arena, prevFooterAddr(al.cfg, bp))
	if err != nil {
		return err
	}

	switch {
	case prevAllocated && nextAllocated:
		return al.insertFree(bp)

	case !prevAllocated && nextAllocated:
		prev := bp - prevSize - al.cfg.doubleWordSize()
		newSize := prevSize + size + al.cfg.doubleWordSize()
		return writeTags(al.arena, al.cfg, prev, newSize, false)

	case prevAllocated && !nextAllocated:
		next := nextBlockAddr(al.cfg, bp, size)
		nextSize, _, err := readHeader(al.arena, al.cfg, next)
		if err != nil {
			return err
		}
		if err := al.removeFree(next); err != nil {
			return err
		}
		newSize := size + nextSize + al.cfg.doubleWordSize()
		if err := writeTags(al.arena, al.cfg, bp, newSize, false); err != nil {
			return err
		}
		return al.insertFree(bp)

	default: // both free
		prev := bp - prevSize - al.cfg.doubleWordSize()
		next := nextBlockAddr(al.cfg, bp, size)
		nextSize, _, err := readHeader(al.arena, al.cfg, next)
		if err != nil {
			return err
		}
		if err := al.removeFree(next); err != nil {
			return err
		}
		newSize := prevSize + size + nextSize + 2*al.cfg.doubleWordSize()
		return writeTags(al.arena, al.cfg, prev, newSize, false)
	}
}
