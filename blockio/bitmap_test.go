package blockio_test

import (
	"testing"

	"github.com/StevenMonty/File-System/blockio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBitmapMarksReservedBlocks(t *testing.T) {
	dev := newTestImage(t)

	bm, err := blockio.LoadBitmap(dev)
	require.NoError(t, err)

	assert.True(t, bm.IsAllocated(blockio.RootBlock))
	for i := int64(0); i < blockio.BitmapBlockCount; i++ {
		assert.True(t, bm.IsAllocated(blockio.BitmapStartBlock+i))
	}
	assert.False(t, bm.IsAllocated(1))
}

func TestLoadBitmapIsIdempotent(t *testing.T) {
	dev := newTestImage(t)

	bm, err := blockio.LoadBitmap(dev)
	require.NoError(t, err)
	require.NoError(t, bm.Flush(dev))

	bm2, err := blockio.LoadBitmap(dev)
	require.NoError(t, err)
	assert.True(t, bm2.IsAllocated(blockio.RootBlock))
}

func TestFindFreeBlockDoesNotMutate(t *testing.T) {
	bm := blockio.NewBitmap()
	require.NoError(t, bm.SetBit(blockio.RootBlock))

	first, err := bm.FindFreeBlock()
	require.NoError(t, err)

	second, err := bm.FindFreeBlock()
	require.NoError(t, err)

	assert.Equal(t, first, second, "FindFreeBlock without SetBit must return the same block twice")
}

func TestSetBitThenFindFreeBlockAdvances(t *testing.T) {
	bm := blockio.NewBitmap()
	require.NoError(t, bm.SetBit(blockio.RootBlock))

	first, err := bm.FindFreeBlock()
	require.NoError(t, err)
	require.NoError(t, bm.SetBit(first))

	second, err := bm.FindFreeBlock()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSetBitOutOfRange(t *testing.T) {
	bm := blockio.NewBitmap()
	assert.Error(t, bm.SetBit(blockio.TotalBlocks))
	assert.Error(t, bm.SetBit(-1))
}

func TestFindFreeBlockNoSpace(t *testing.T) {
	bm := blockio.NewBitmap()
	for i := int64(0); i < blockio.TotalBlocks; i++ {
		require.NoError(t, bm.SetBit(i))
	}

	_, err := bm.FindFreeBlock()
	assert.Error(t, err)
}

func TestBitmapFlushRoundTrip(t *testing.T) {
	dev := newTestImage(t)
	bm, err := blockio.LoadBitmap(dev)
	require.NoError(t, err)

	require.NoError(t, bm.SetBit(17))
	require.NoError(t, bm.Flush(dev))

	reloaded, err := blockio.LoadBitmap(dev)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAllocated(17))
}
