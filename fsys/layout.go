// Package fsys implements the on-disk layout, directory/file lookup, the
// positioned read/write engine, and the operations facade for the two-level
// 8.3 filesystem described by the root directory / subdirectory / index
// block / data block model.
package fsys

import (
	"encoding/binary"

	"github.com/StevenMonty/File-System/blockio"
	"github.com/StevenMonty/File-System/errors"
	"github.com/noxer/bytewriter"
)

// Field widths for the packed on-disk records. Name fields are stored
// NUL-terminated, so the usable length is one less than the field width.
const (
	dirNameFieldSize  = 9 // 8 chars + NUL
	fileNameFieldSize = 9 // 8 chars + NUL
	fileExtFieldSize  = 4 // 3 chars + NUL

	dirEntrySize  = dirNameFieldSize + 8                         // count header is separate
	fileEntrySize = fileNameFieldSize + fileExtFieldSize + 4 + 8 // name, ext, fsize, indexBlock
)

// MaxDirsInRoot is floor((BlockSize - sizeof(int32)) / (9 + sizeof(int64))).
const MaxDirsInRoot = (blockio.BlockSize - 4) / (dirNameFieldSize + 8)

// MaxFilesInDir is the analogous capacity for a subdirectory block.
const MaxFilesInDir = (blockio.BlockSize - 4) / fileEntrySize

// MaxEntriesInIndexBlock is BlockSize / sizeof(int64): an index block is
// nothing but a flat array of data block numbers.
const MaxEntriesInIndexBlock = blockio.BlockSize / 8

// DirEntry is one subdirectory entry in the root directory.
type DirEntry struct {
	Name       string
	StartBlock int64
}

// RootDirectory is the decoded contents of block 0.
type RootDirectory struct {
	Entries []DirEntry
}

// FileEntry is one file entry in a subdirectory block.
type FileEntry struct {
	Name       string
	Ext        string
	Size       int32
	IndexBlock int64
}

// SubdirectoryBlock is the decoded contents of one subdirectory block.
type SubdirectoryBlock struct {
	Entries []FileEntry
}

// encodeName writes s, NUL-padded, into a fixed-width field. s must be
// strictly shorter than width (room must remain for the NUL terminator).
func encodeName(w *bytewriter.Writer, s string, width int) error {
	if len(s) >= width {
		return errors.ErrNameTooLong.WithMessage(s)
	}
	buf := make([]byte, width)
	copy(buf, s)
	_, err := w.Write(buf)
	if err != nil {
		return errors.ErrIOFailed.WrapError(err)
	}
	return nil
}

func decodeName(raw []byte) string {
	nul := len(raw)
	for i, b := range raw {
		if b == 0 {
			nul = i
			break
		}
	}
	return string(raw[:nul])
}

// EncodeRootDirectory serializes root into a 512-byte block. It fails with
// ErrNoSpaceOnDevice if root has more entries than MaxDirsInRoot can hold,
// and with ErrNameTooLong if any name overflows its field.
func EncodeRootDirectory(root RootDirectory) (blockio.Block, error) {
	var block blockio.Block
	if len(root.Entries) > MaxDirsInRoot {
		return block, errors.ErrNoSpaceOnDevice.WithMessage("too many directory entries")
	}

	w := bytewriter.New(block[:])
	if err := binary.Write(w, binary.LittleEndian, int32(len(root.Entries))); err != nil {
		return block, errors.ErrIOFailed.WrapError(err)
	}

	for _, entry := range root.Entries {
		if err := encodeName(w, entry.Name, dirNameFieldSize); err != nil {
			return block, err
		}
		if err := binary.Write(w, binary.LittleEndian, entry.StartBlock); err != nil {
			return block, errors.ErrIOFailed.WrapError(err)
		}
	}
	return block, nil
}

// DecodeRootDirectory parses block 0's contents.
func DecodeRootDirectory(block blockio.Block) (RootDirectory, error) {
	var root RootDirectory
	count := int32(binary.LittleEndian.Uint32(block[0:4]))
	if count < 0 || int(count) > MaxDirsInRoot {
		return root, errors.ErrIOFailed.WithMessage("corrupt root directory entry count")
	}

	offset := 4
	for i := int32(0); i < count; i++ {
		name := decodeName(block[offset : offset+dirNameFieldSize])
		offset += dirNameFieldSize
		startBlock := int64(binary.LittleEndian.Uint64(block[offset : offset+8]))
		offset += 8
		root.Entries = append(root.Entries, DirEntry{Name: name, StartBlock: startBlock})
	}
	return root, nil
}

// EncodeSubdirectoryBlock serializes sub into a 512-byte block.
func EncodeSubdirectoryBlock(sub SubdirectoryBlock) (blockio.Block, error) {
	var block blockio.Block
	if len(sub.Entries) > MaxFilesInDir {
		return block, errors.ErrNoSpaceOnDevice.WithMessage("too many file entries")
	}

	w := bytewriter.New(block[:])
	if err := binary.Write(w, binary.LittleEndian, int32(len(sub.Entries))); err != nil {
		return block, errors.ErrIOFailed.WrapError(err)
	}

	for _, entry := range sub.Entries {
		if err := encodeName(w, entry.Name, fileNameFieldSize); err != nil {
			return block, err
		}
		if err := encodeName(w, entry.Ext, fileExtFieldSize); err != nil {
			return block, err
		}
		if err := binary.Write(w, binary.LittleEndian, entry.Size); err != nil {
			return block, errors.ErrIOFailed.WrapError(err)
		}
		if err := binary.Write(w, binary.LittleEndian, entry.IndexBlock); err != nil {
			return block, errors.ErrIOFailed.WrapError(err)
		}
	}
	return block, nil
}

// DecodeSubdirectoryBlock parses a subdirectory block's contents.
func DecodeSubdirectoryBlock(block blockio.Block) (SubdirectoryBlock, error) {
	var sub SubdirectoryBlock
	count := int32(binary.LittleEndian.Uint32(block[0:4]))
	if count < 0 || int(count) > MaxFilesInDir {
		return sub, errors.ErrIOFailed.WithMessage("corrupt subdirectory entry count")
	}

	offset := 4
	for i := int32(0); i < count; i++ {
		name := decodeName(block[offset : offset+fileNameFieldSize])
		offset += fileNameFieldSize
		ext := decodeName(block[offset : offset+fileExtFieldSize])
		offset += fileExtFieldSize
		size := int32(binary.LittleEndian.Uint32(block[offset : offset+4]))
		offset += 4
		indexBlock := int64(binary.LittleEndian.Uint64(block[offset : offset+8]))
		offset += 8
		sub.Entries = append(sub.Entries, FileEntry{
			Name: name, Ext: ext, Size: size, IndexBlock: indexBlock,
		})
	}
	return sub, nil
}

// EncodeIndexBlock serializes a file's data block list. entries[i] == 0
// means "no block here"; the caller is responsible for never storing 0 as a
// real data block number (block 0 is permanently reserved for the root).
func EncodeIndexBlock(entries [MaxEntriesInIndexBlock]int64) blockio.Block {
	var block blockio.Block
	for i, v := range entries {
		binary.LittleEndian.PutUint64(block[i*8:(i+1)*8], uint64(v))
	}
	return block
}

// DecodeIndexBlock parses an index block into its data block numbers.
func DecodeIndexBlock(block blockio.Block) [MaxEntriesInIndexBlock]int64 {
	var entries [MaxEntriesInIndexBlock]int64
	for i := range entries {
		entries[i] = int64(binary.LittleEndian.Uint64(block[i*8 : (i+1)*8]))
	}
	return entries
}
