package malloc

// Config holds the allocator's tunable constants: the 300-probe search cap
// and the 128-byte realloc slack are deliberate performance/utilization
// trade-offs, configurable rather than hardcoded so a host can tune them.
// The word size and small-request floor live alongside them for the same
// reason.
type Config struct {
	// WordSize is the header/footer unit, in bytes.
	WordSize uint32
	// SmallRequestFloor is the asize used for any request whose size is
	// less than or equal to it.
	SmallRequestFloor uint32
	// ReallocSlack is added to every non-small alloc request's aligned
	// size, trading utilization for fewer future realloc misses.
	ReallocSlack uint32
	// ProbeCap bounds the first-fit free-list scan so a long, fragmented
	// free list can't make Alloc unboundedly slow.
	ProbeCap int
	// SplitThreshold is how much larger than asize a candidate block must
	// be before it's worth splitting instead of consumed whole.
	SplitThreshold uint32
}

// DefaultConfig returns the allocator's standard tunables.
func DefaultConfig() Config {
	return Config{
		WordSize:          4,
		SmallRequestFloor: 32,
		ReallocSlack:      128,
		ProbeCap:          300,
		SplitThreshold:    32,
	}
}

func (c Config) doubleWordSize() uint32 { return 2 * c.WordSize }

// minBlockSize is the smallest total block size (header + payload +
// footer) the allocator ever produces: four words, enough to hold the
// header, footer, and the two free-list link words.
func (c Config) minBlockSize() uint32 { return 4 * c.WordSize }
