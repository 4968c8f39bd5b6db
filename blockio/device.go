// Package blockio provides block-aligned access to a fixed-size disk image
// and the free-space bitmap that tracks which blocks are in use.
package blockio

import (
	"io"

	"github.com/StevenMonty/File-System/errors"
)

// BlockSize is the fixed size, in bytes, of every addressable unit on the
// image: directory blocks, index blocks, data blocks, and the bitmap.
const BlockSize = 512

// TotalBlocks is the fixed number of blocks in the image (5,242,880 bytes).
const TotalBlocks = 10240

// ImageSizeBytes is the exact size an image file must be.
const ImageSizeBytes = TotalBlocks * BlockSize

// RootBlock is the block number of the root directory. It is always 0.
const RootBlock = 0

// Block holds the raw bytes of exactly one block.
type Block [BlockSize]byte

// Device is block-aligned access to a fixed-size disk image. It never trusts
// the underlying stream's file position between calls: every read or write
// seeks first.
type Device struct {
	stream      io.ReadWriteSeeker
	totalBlocks int64
}

// NewDevice wraps a stream as a block device with TotalBlocks blocks. The
// stream must already be exactly ImageSizeBytes long; NewDevice does not
// create or resize it (the image is created externally, e.g. by zeroing
// 5 MiB, per the format's lifecycle).
func NewDevice(stream io.ReadWriteSeeker) *Device {
	return &Device{stream: stream, totalBlocks: TotalBlocks}
}

// ReadBlock reads block n into a fresh Block value.
func (d *Device) ReadBlock(n int64) (Block, error) {
	var block Block
	if n < 0 || n >= d.totalBlocks {
		return block, errors.ErrIOFailed.WithMessage("block number out of range")
	}

	if _, err := d.stream.Seek(n*BlockSize, io.SeekStart); err != nil {
		return block, errors.ErrIOFailed.WrapError(err)
	}

	if _, err := io.ReadFull(d.stream, block[:]); err != nil {
		return block, errors.ErrIOFailed.WrapError(err)
	}
	return block, nil
}

// WriteBlock writes the contents of block to block number n.
func (d *Device) WriteBlock(n int64, block Block) error {
	if n < 0 || n >= d.totalBlocks {
		return errors.ErrIOFailed.WithMessage("block number out of range")
	}

	if _, err := d.stream.Seek(n*BlockSize, io.SeekStart); err != nil {
		return errors.ErrIOFailed.WrapError(err)
	}

	if _, err := d.stream.Write(block[:]); err != nil {
		return errors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// Close releases the underlying stream, if it supports being closed.
func (d *Device) Close() error {
	closer, ok := d.stream.(io.Closer)
	if !ok {
		return nil
	}
	if err := closer.Close(); err != nil {
		return errors.ErrIOFailed.WrapError(err)
	}
	return nil
}
