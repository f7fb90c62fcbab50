package malloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmkit/heapalloc/internal/arena"
)

func TestAdjustedSize(t *testing.T) {
	cfg := DefaultConfig()
	al := &Allocator{cfg: cfg}

	assert.Equal(t, cfg.SmallRequestFloor, al.adjustedSize(1))
	assert.Equal(t, cfg.SmallRequestFloor, al.adjustedSize(32))
	assert.Equal(t, uint32(64+128), al.adjustedSize(64))
	assert.Equal(t, uint32(104+128), al.adjustedSize(100))
}

func TestAllocZeroSizeReturnsNullWithoutTouchingArena(t *testing.T) {
	al := newTestAllocator(t)
	top := al.arena.Top()

	bp, err := al.Alloc(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), bp)
	assert.Equal(t, top, al.arena.Top())
}

func TestAllocExtendsArenaWhenFreeListEmpty(t *testing.T) {
	al := newTestAllocator(t)

	bp, err := al.Alloc(24)
	require.NoError(t, err)
	require.NotZero(t, bp)

	size, allocated, err := readHeader(al.arena, al.cfg, bp)
	require.NoError(t, err)
	assert.True(t, allocated)
	assert.Equal(t, uint32(32), size)
	assert.Equal(t, uint32(0), bp%8)
}

func TestAllocOutOfMemoryReturnsError(t *testing.T) {
	a := arena.NewByteArena(4 * DefaultConfig().WordSize) // room for sentinels only
	al := New(a, DefaultConfig())
	require.NoError(t, al.Init())

	_, err := al.Alloc(24)
	require.Error(t, err)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
}

func TestFindFitHonorsSplitThreshold(t *testing.T) {
	cfg := Config{WordSize: 4, SmallRequestFloor: 0, ReallocSlack: 0, ProbeCap: 300, SplitThreshold: 32}
	al := New(arena.NewByteArena(0), cfg)
	require.NoError(t, al.Init())

	big, err := al.Alloc(256)
	require.NoError(t, err)
	require.NoError(t, al.Free(big))

	// A request comfortably smaller than the free candidate, by more than
	// SplitThreshold, should split rather than consume the whole block.
	small, err := al.Alloc(64)
	require.NoError(t, err)

	remnantSize, remnantAllocated, err := readHeader(al.arena, cfg, al.freeHead)
	require.NoError(t, err)
	assert.False(t, remnantAllocated)
	assert.Equal(t, uint32(256-64-cfg.doubleWordSize()), remnantSize)

	smallSize, smallAllocated, err := readHeader(al.arena, cfg, small)
	require.NoError(t, err)
	assert.True(t, smallAllocated)
	assert.Equal(t, uint32(64), smallSize)

	// The carved allocation sits at the high end of the original candidate.
	assert.Greater(t, small, al.freeHead)
}

func TestFindFitConsumesWholeCandidateBelowSplitThreshold(t *testing.T) {
	cfg := Config{WordSize: 4, SmallRequestFloor: 0, ReallocSlack: 0, ProbeCap: 300, SplitThreshold: 32}
	al := New(arena.NewByteArena(0), cfg)
	require.NoError(t, al.Init())

	bp, err := al.Alloc(64)
	require.NoError(t, err)
	require.NoError(t, al.Free(bp))

	// A request within SplitThreshold of the candidate's size consumes the
	// whole block instead of carving a sliver remnant.
	reused, err := al.Alloc(40)
	require.NoError(t, err)
	assert.Equal(t, bp, reused)
	assert.Equal(t, uint32(0), al.freeHead)

	size, allocated, err := readHeader(al.arena, cfg, reused)
	require.NoError(t, err)
	assert.True(t, allocated)
	assert.Equal(t, uint32(64), size)
}

func TestFindFitRespectsProbeCap(t *testing.T) {
	cfg := Config{WordSize: 4, SmallRequestFloor: 0, ReallocSlack: 0, ProbeCap: 2, SplitThreshold: 32}
	al := New(arena.NewByteArena(0), cfg)
	require.NoError(t, al.Init())

	// Spacers between the candidates stay allocated forever so freeing
	// small1/small2/big never finds a physically adjacent free neighbor
	// to coalesce with — each stays its own free-list node.
	small1, err := al.Alloc(16)
	require.NoError(t, err)
	_, err = al.Alloc(8)
	require.NoError(t, err)
	small2, err := al.Alloc(16)
	require.NoError(t, err)
	_, err = al.Alloc(8)
	require.NoError(t, err)
	big, err := al.Alloc(512)
	require.NoError(t, err)

	// Free in an order that puts the only sufficient block, big, at the
	// tail of the LIFO free list: head -> small1 -> small2 -> big.
	require.NoError(t, al.Free(big))
	require.NoError(t, al.Free(small2))
	require.NoError(t, al.Free(small1))

	bp, err := al.Alloc(256)
	require.NoError(t, err)

	// With a probe cap of 2, the scan sees only small1 and small2 (both
	// too small) and gives up before reaching big, so the request falls
	// through to a fresh arena extension instead of reusing big.
	assert.NotEqual(t, big, bp)

	bigSize, bigAllocated, err := readHeader(al.arena, cfg, big)
	require.NoError(t, err)
	assert.False(t, bigAllocated)
	assert.Equal(t, uint32(512), bigSize)
}
