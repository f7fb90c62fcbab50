package malloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmkit/heapalloc/internal/arena"
)

func TestInitLaysDownSentinelsAndFirstBlock(t *testing.T) {
	a := arena.NewByteArena(0)
	cfg := DefaultConfig()
	al := New(a, cfg)

	require.NoError(t, al.Init())

	assert.Equal(t, uint32(0), al.freeHead)
	assert.Equal(t, 4*cfg.WordSize, al.firstBlock)
	assert.Equal(t, al.firstBlock, a.Top())

	paddingWord, err := a.ReadUint32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), tagSize(paddingWord))
	assert.True(t, tagAllocated(paddingWord))

	prologueHeaderWord, err := a.ReadUint32(cfg.WordSize)
	require.NoError(t, err)
	assert.Equal(t, cfg.doubleWordSize(), tagSize(prologueHeaderWord))
	assert.True(t, tagAllocated(prologueHeaderWord))

	prologueFooterWord, err := a.ReadUint32(2 * cfg.WordSize)
	require.NoError(t, err)
	assert.Equal(t, prologueHeaderWord, prologueFooterWord)

	epilogueWord, err := a.ReadUint32(3 * cfg.WordSize)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), tagSize(epilogueWord))
	assert.True(t, tagAllocated(epilogueWord))
}

func TestInitOutOfMemoryPropagatesArenaError(t *testing.T) {
	a := arena.NewByteArena(8) // too small for the four sentinel words
	al := New(a, DefaultConfig())

	err := al.Init()
	require.Error(t, err)
}

func TestFirstAllocationOverwritesEpilogueSlotNotPrologue(t *testing.T) {
	al := newTestAllocator(t)
	cfg := al.cfg

	bp, err := al.Alloc(24)
	require.NoError(t, err)
	require.NotZero(t, bp)

	// The new block's header lands exactly where the epilogue used to be,
	// one word below firstBlock; the prologue, two words further back,
	// must be untouched.
	assert.Equal(t, al.firstBlock, bp)

	prologueHeaderWord, err := al.arena.ReadUint32(cfg.WordSize)
	require.NoError(t, err)
	assert.Equal(t, cfg.doubleWordSize(), tagSize(prologueHeaderWord))
	assert.True(t, tagAllocated(prologueHeaderWord))

	size, allocated, err := readHeader(al.arena, cfg, bp)
	require.NoError(t, err)
	assert.True(t, allocated)
	assert.Equal(t, uint32(32), size) // small-request floor
}
