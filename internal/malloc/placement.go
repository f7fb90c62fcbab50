package malloc

// Alloc returns an address to at least size usable bytes, or (0, nil) if
// size is zero, or (0, err) if no free block fits and the arena could not
// be extended.
func (al *Allocator) Alloc(size uint32) (uint32, error) {
	if size == 0 {
		return 0, nil
	}

	asize := al.adjustedSize(size)

	bp, found, err := al.findFit(asize)
	if err != nil {
		return 0, err
	}
	if found {
		return bp, nil
	}

	return al.extendAndPlace(asize)
}

// adjustedSize computes the asize the placement engine actually searches
// for: the small-request floor for tiny requests, otherwise the 8-aligned
// size plus the realloc slack.
func (al *Allocator) adjustedSize(size uint32) uint32 {
	if size <= al.cfg.SmallRequestFloor {
		return al.cfg.SmallRequestFloor
	}
	return alignUp8(size) + al.cfg.ReallocSlack
}

// findFit performs the probe-capped first-fit scan. found is false if no
// candidate sufficed within the cap or before the list ran out.
func (al *Allocator) findFit(asize uint32) (bp uint32, found bool, err error) {
	candidate := al.freeHead
	for i := 0; candidate != 0 && i < al.cfg.ProbeCap; i++ {
		size, allocated, err := readHeader(al.arena, al.cfg, candidate)
		if err != nil {
			return 0, false, err
		}
		if allocated {
			// Every block reachable from the free list must be free;
			// treat this as an unrecoverable corruption rather than
			// silently skipping it.
			return 0, false, &AllocError{Op: "alloc", Size: asize, Message: "free list contains an allocated block"}
		}

		if size >= asize {
			if size >= asize+al.cfg.SplitThreshold {
				placed, splitErr := al.split(candidate, size, asize)
				return placed, splitErr == nil, splitErr
			}
			if err := al.removeFree(candidate); err != nil {
				return 0, false, err
			}
			if err := writeTags(al.arena, al.cfg, candidate, size, true); err != nil {
				return 0, false, err
			}
			return candidate, true, nil
		}

		candidate, err = readNextLink(al.arena, al.cfg, candidate)
		if err != nil {
			return 0, false, err
		}
	}
	return 0, false, nil
}

// split shrinks candidate in place to its remnant size (staying in the
// free list at its current address) and carves the high end of it into a
// newly allocated block of asize bytes, which is returned.
func (al *Allocator) split(candidate, candidateSize, asize uint32) (uint32, error) {
	remnantSize := candidateSize - asize - al.cfg.doubleWordSize()
	if err := writeTags(al.arena, al.cfg, candidate, remnantSize, false); err != nil {
		return 0, err
	}

	allocated := nextBlockAddr(al.cfg, candidate, remnantSize)
	if err := writeTags(al.arena, al.cfg, allocated, asize, true); err != nil {
		return 0, err
	}
	return allocated, nil
}

// extendAndPlace grows the arena by exactly enough to hold one new block
// of asize bytes, writes its tags, and re-establishes the epilogue.
func (al *Allocator) extendAndPlace(asize uint32) (uint32, error) {
	bp, err := al.arena.Extend(asize + al.cfg.doubleWordSize())
	if err != nil {
		return 0, outOfMemory("alloc", asize)
	}

	if err := writeTags(al.arena, al.cfg, bp, asize, true); err != nil {
		return 0, err
	}

	epilogueAddr := footerAddr(bp, asize) + al.cfg.WordSize
	if err := al.arena.WriteUint32(epilogueAddr, packTag(0, true)); err != nil {
		return 0, err
	}

	return bp, nil
}
