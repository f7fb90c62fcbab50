package malloc

import (
	"fmt"
	"io"
)

// Violation names one instance of a broken invariant found by CheckHeap.
type Violation struct {
	Invariant string
	Address   uint32
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s at 0x%x: %s", v.Invariant, v.Address, v.Message)
}

// CheckReport is the result of a full-arena consistency scan. It is a
// read-only diagnostic: producing one never mutates allocator state.
type CheckReport struct {
	Violations []Violation
}

// OK reports whether the scan found no violations.
func (r *CheckReport) OK() bool { return len(r.Violations) == 0 }

func (r *CheckReport) add(invariant string, addr uint32, format string, args ...interface{}) {
	r.Violations = append(r.Violations, Violation{
		Invariant: invariant,
		Address:   addr,
		Message:   fmt.Sprintf(format, args...),
	})
}

// CheckHeap walks every block from the first real block to the epilogue,
// verifying header/footer agreement, size alignment, payload alignment,
// block overlap, and free-list membership. When w is non-nil, a one-line
// diagnostic per block is written to it as the scan proceeds; this output
// is for debugging only and is not a stable interface. The checker never
// aborts on a violation — it records it and continues.
func (al *Allocator) CheckHeap(w io.Writer) *CheckReport {
	report := &CheckReport{}

	// The prologue occupies the two words ending at firstBlock's
	// previous-footer slot: header at firstBlock-3*word, footer at
	// firstBlock-2*word (== prevFooterAddr(firstBlock)). The word at
	// firstBlock-word is the original epilogue slot, now overwritten by
	// whatever block was first allocated; it is not part of the prologue.
	prologueHeaderAddr := al.firstBlock - 3*al.cfg.WordSize
	prologueFooterAddr := prevFooterAddr(al.cfg, al.firstBlock)
	for _, addr := range []uint32{prologueHeaderAddr, prologueFooterAddr} {
		word, err := al.arena.ReadUint32(addr)
		if err != nil {
			report.add("prologue", addr, "unreadable: %v", err)
			continue
		}
		if tagSize(word) != al.cfg.doubleWordSize() || !tagAllocated(word) {
			report.add("prologue", addr, "expected size=%d allocated=true, got size=%d allocated=%t",
				al.cfg.doubleWordSize(), tagSize(word), tagAllocated(word))
		}
	}

	inFreeList := al.scanFreeList(report)

	var prevWasFree bool
	var prevEnd uint32
	bp := al.firstBlock
	for {
		headerWord, err := al.arena.ReadUint32(headerAddr(al.cfg, bp))
		if err != nil {
			report.add("scan", bp, "unreadable header: %v", err)
			break
		}
		size := tagSize(headerWord)
		allocated := tagAllocated(headerWord)

		if size == 0 {
			if !allocated {
				report.add("epilogue", bp, "epilogue header not marked allocated")
			}
			if w != nil {
				fmt.Fprintf(w, "0x%x: end of arena\n", bp)
			}
			break
		}

		footerWord, err := al.arena.ReadUint32(footerAddr(bp, size))
		if err != nil {
			report.add("scan", bp, "unreadable footer: %v", err)
			break
		}
		if headerWord != footerWord {
			report.add("header_footer_mismatch", bp, "header=0x%x footer=0x%x", headerWord, footerWord)
		}
		if size%8 != 0 {
			report.add("size_alignment", bp, "payload size %d is not a multiple of 8", size)
		}
		if size < al.cfg.minBlockSize()-2*al.cfg.WordSize {
			report.add("min_block_size", bp, "payload size %d below minimum", size)
		}
		if bp%8 != 0 {
			report.add("payload_alignment", bp, "payload address not 8-aligned")
		}
		if bp < prevEnd {
			report.add("overlap", bp, "block starts before the previous block ended (0x%x)", prevEnd)
		}

		if allocated {
			if inFreeList[bp] {
				report.add("free_list_membership", bp, "allocated block present in free list")
			}
		} else {
			if !inFreeList[bp] {
				report.add("free_list_membership", bp, "free block missing from free list")
			}
			if prevWasFree {
				report.add("not_coalesced", bp, "adjacent free block was not coalesced with its predecessor")
			}
		}

		if w != nil {
			fmt.Fprintf(w, "0x%x: header=[%d:%s] footer=[%d:%s]\n",
				bp, size, allocChar(allocated), tagSize(footerWord), allocChar(tagAllocated(footerWord)))
		}

		prevWasFree = !allocated
		prevEnd = footerAddr(bp, size) + al.cfg.WordSize
		bp = nextBlockAddr(al.cfg, bp, size)
	}

	return report
}

// scanFreeList walks the free list independently of the block scan,
// checking link bounds and detecting cycles, and returns the set of
// addresses it found so the block scan can cross-check membership.
func (al *Allocator) scanFreeList(report *CheckReport) map[uint32]bool {
	seen := make(map[uint32]bool)
	cur := al.freeHead
	for cur != 0 {
		if seen[cur] {
			report.add("free_list_cycle", cur, "free list revisits an address")
			break
		}
		seen[cur] = true

		if cur < al.arena.Bottom() || cur > al.arena.Top() {
			report.add("free_list_bounds", cur, "free-list link outside arena [0x%x, 0x%x]",
				al.arena.Bottom(), al.arena.Top())
			break
		}

		next, err := readNextLink(al.arena, al.cfg, cur)
		if err != nil {
			report.add("free_list_bounds", cur, "unreadable next link: %v", err)
			break
		}
		cur = next
	}
	return seen
}

func allocChar(allocated bool) string {
	if allocated {
		return "a"
	}
	return "f"
}
