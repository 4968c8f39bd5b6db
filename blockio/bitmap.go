package blockio

import (
	"github.com/StevenMonty/File-System/errors"
	"github.com/boljen/go-bitmap"
)

// BitmapBlockCount is the number of blocks the free-space bitmap occupies.
const BitmapBlockCount = 3

// BitmapStartBlock is the first block of the bitmap region.
const BitmapStartBlock = TotalBlocks - BitmapBlockCount

// BitmapSizeBytes is the exact size of the persisted bitmap region. Only the
// first TotalBlocks bits (1,280 bytes) map to blocks of the image; the
// remaining 256 bytes of the three blocks are unused.
const BitmapSizeBytes = BitmapBlockCount * BlockSize

// Bitmap is the in-memory mirror of the free-space bitmap. Bit i corresponds
// to block i of the image; go-bitmap addresses bits MSB-first within each
// byte, which is exactly the on-disk convention this format requires, so the
// bitmap's backing bytes are byte-identical to the persisted region with no
// translation step.
type Bitmap struct {
	bits bitmap.Bitmap
}

// NewBitmap creates an all-clear bitmap of the right size for a fresh image.
func NewBitmap() *Bitmap {
	return &Bitmap{bits: bitmap.New(BitmapSizeBytes * 8)}
}

// LoadBitmap reads the bitmap region from dev and marks block 0 (root) and
// the bitmap's own three blocks as allocated, as init_bitmap must do
// unconditionally and idempotently on every mount.
func LoadBitmap(dev *Device) (*Bitmap, error) {
	raw := make([]byte, 0, BitmapSizeBytes)
	for i := 0; i < BitmapBlockCount; i++ {
		block, err := dev.ReadBlock(BitmapStartBlock + int64(i))
		if err != nil {
			return nil, err
		}
		raw = append(raw, block[:]...)
	}

	bm := &Bitmap{bits: bitmap.Bitmap(raw)}
	bm.markReservedBlocks()
	return bm, nil
}

// markReservedBlocks sets the bits that must always read as allocated: block
// 0 (root) and the three blocks the bitmap itself occupies.
func (bm *Bitmap) markReservedBlocks() {
	bm.bits.Set(RootBlock, true)
	for i := int64(0); i < BitmapBlockCount; i++ {
		bm.bits.Set(int(BitmapStartBlock+i), true)
	}
}

// FindFreeBlock scans from block 0 upward and returns the first unallocated
// block. It does not mark the block allocated; callers must call SetBit
// themselves once they've decided to use it. Two calls to FindFreeBlock
// without an intervening SetBit therefore return the same block.
func (bm *Bitmap) FindFreeBlock() (int64, error) {
	for i := 0; i < TotalBlocks; i++ {
		if !bm.bits.Get(i) {
			return int64(i), nil
		}
	}
	return 0, errors.ErrNoSpaceOnDevice.WithMessage("no free blocks on device")
}

// SetBit marks block n as allocated.
func (bm *Bitmap) SetBit(n int64) error {
	if n < 0 || n >= TotalBlocks {
		return errors.ErrIOFailed.WithMessage("block number out of range")
	}
	bm.bits.Set(int(n), true)
	return nil
}

// IsAllocated reports whether block n is currently marked allocated.
func (bm *Bitmap) IsAllocated(n int64) bool {
	if n < 0 || n >= TotalBlocks {
		return false
	}
	return bm.bits.Get(int(n))
}

// Flush persists the in-memory bitmap back to its three blocks on dev.
func (bm *Bitmap) Flush(dev *Device) error {
	raw := []byte(bm.bits)
	for i := 0; i < BitmapBlockCount; i++ {
		var block Block
		copy(block[:], raw[i*BlockSize:(i+1)*BlockSize])
		if err := dev.WriteBlock(BitmapStartBlock+int64(i), block); err != nil {
			return err
		}
	}
	return nil
}
