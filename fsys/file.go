package fsys

import (
	"github.com/StevenMonty/File-System/blockio"
	"github.com/StevenMonty/File-System/errors"
)

// locateStart splits offset into whole blocks and a remainder by dividing by
// BlockSize. It returns the starting index-block slot and the in-block byte
// position to begin at; it does not consult entries[]. An offset
// exactly on a block boundary starts at position 0 of the block at
// offset/BlockSize, never at position BlockSize of the previous block.
func locateStart(offset int64) (slot int, inBlockPos int) {
	slot = int(offset / blockio.BlockSize)
	inBlockPos = int(offset % blockio.BlockSize)
	return
}

// ReadFile performs a positioned read of up to size bytes from the file
// addressed by indexBlock, whose recorded length is fileSize. It returns the
// bytes actually transferred: fewer than requested if offset+size exceeds
// fileSize, or if a zero entries[] slot is hit before size bytes have been
// delivered (a short read, not an error). The read is bound by fileSize and
// the index block's contents only, never by the value of the data bytes
// themselves, so NUL bytes embedded in file contents are ordinary data.
func ReadFile(dev *blockio.Device, indexBlock int64, fileSize int32, offset int64, size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	if offset >= int64(fileSize) {
		return nil, nil
	}
	if offset+int64(size) > int64(fileSize) {
		size = int(int64(fileSize) - offset)
	}

	indexData, err := dev.ReadBlock(indexBlock)
	if err != nil {
		return nil, err
	}
	entries := DecodeIndexBlock(indexData)

	slot, inBlockPos := locateStart(offset)

	out := make([]byte, 0, size)
	for len(out) < size {
		if slot >= MaxEntriesInIndexBlock || entries[slot] == 0 {
			break
		}

		block, err := dev.ReadBlock(entries[slot])
		if err != nil {
			return out, err
		}

		avail := blockio.BlockSize - inBlockPos
		toCopy := size - len(out)
		if toCopy > avail {
			toCopy = avail
		}
		out = append(out, block[inBlockPos:inBlockPos+toCopy]...)
		inBlockPos += toCopy

		if inBlockPos == blockio.BlockSize {
			inBlockPos = 0
			slot++
		}
	}
	return out, nil
}

// WriteFile performs a positioned write of data into the file addressed by
// indexBlock, whose recorded length is fileSize. On success it returns the
// file's new length and has persisted every data block it touched, the
// (possibly extended) index block, and nothing else — the caller is
// responsible for persisting the subdirectory entry with the returned size.
//
// On failure (almost always ErrNoSpaceOnDevice from the allocator), any data
// blocks already written remain on disk and any blocks the allocator handed
// out remain marked allocated, but the index block is not updated to
// reference them and fileSize is returned unchanged: the write leaves
// allocated-but-unreferenced blocks rather than a torn file.
func WriteFile(
	dev *blockio.Device,
	bm *blockio.Bitmap,
	indexBlock int64,
	fileSize int32,
	offset int64,
	data []byte,
) (int32, error) {
	size := len(data)
	if size == 0 {
		return fileSize, errors.ErrPermissionDenied.WithMessage("zero-size write")
	}
	if offset > int64(fileSize) {
		return fileSize, errors.ErrFileTooLarge.WithMessage("write offset past end of file")
	}

	indexData, err := dev.ReadBlock(indexBlock)
	if err != nil {
		return fileSize, err
	}
	entries := DecodeIndexBlock(indexData)

	slot, inBlockPos := locateStart(offset)

	curBlockNum, curBlock, err := loadOrAllocateBlock(dev, bm, &entries, slot)
	if err != nil {
		return fileSize, err
	}

	written := 0
	for written < size {
		curBlock[inBlockPos] = data[written]
		inBlockPos++
		written++

		if inBlockPos == blockio.BlockSize {
			if err := dev.WriteBlock(curBlockNum, curBlock); err != nil {
				return fileSize, err
			}
			inBlockPos = 0
			slot++

			if written < size {
				curBlockNum, curBlock, err = loadOrAllocateBlock(dev, bm, &entries, slot)
				if err != nil {
					return fileSize, err
				}
			}
		}
	}

	if inBlockPos != 0 {
		if err := dev.WriteBlock(curBlockNum, curBlock); err != nil {
			return fileSize, err
		}
	}

	newIndexBlock := EncodeIndexBlock(entries)
	if err := dev.WriteBlock(indexBlock, newIndexBlock); err != nil {
		return fileSize, err
	}

	newSize := int64(fileSize)
	if offset+int64(size) > newSize {
		newSize = offset + int64(size)
	}
	return int32(newSize), nil
}

// loadOrAllocateBlock returns the data block at entries[slot], allocating a
// fresh one and recording it in entries if the slot is empty.
func loadOrAllocateBlock(
	dev *blockio.Device, bm *blockio.Bitmap, entries *[MaxEntriesInIndexBlock]int64, slot int,
) (int64, blockio.Block, error) {
	var block blockio.Block
	if slot >= MaxEntriesInIndexBlock {
		return 0, block, errors.ErrFileTooLarge.WithMessage("file has reached the maximum addressable size")
	}

	if entries[slot] != 0 {
		block, err := dev.ReadBlock(entries[slot])
		return entries[slot], block, err
	}

	newBlock, err := bm.FindFreeBlock()
	if err != nil {
		return 0, block, err
	}
	if err := bm.SetBit(newBlock); err != nil {
		return 0, block, err
	}
	entries[slot] = newBlock
	return newBlock, block, nil
}
