package malloc

// insertFree pushes bp at the head of the free list (LIFO, no sorting).
func (al *Allocator) insertFree(bp uint32) error {
	head := al.freeHead
	if err := writeNextLink(al.arena, al.cfg, bp, head); err != nil {
		return err
	}
	if err := writePrevLink(al.arena, bp, 0); err != nil {
		return err
	}
	if head != 0 {
		if err := writePrevLink(al.arena, head, bp); err != nil {
			return err
		}
	}
	al.freeHead = bp
	return nil
}

// removeFree splices bp out of the free list.
func (al *Allocator) removeFree(bp uint32) error {
	next, err := readNextLink(al.arena, al.cfg, bp)
	if err != nil {
		return err
	}
	prev, err := readPrevLink(al.arena, bp)
	if err != nil {
		return err
	}

	if prev == 0 {
		al.freeHead = next
		if next != 0 {
			if err := writePrevLink(al.arena, next, 0); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeNextLink(al.arena, al.cfg, prev, next); err != nil {
		return err
	}
	if next != 0 {
		if err := writePrevLink(al.arena, next, prev); err != nil {
			return err
		}
	}
	return nil
}
