package fsys_test

import (
	"testing"

	"github.com/StevenMonty/File-System/fsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootDirectoryRoundTrip(t *testing.T) {
	root := fsys.RootDirectory{
		Entries: []fsys.DirEntry{
			{Name: "alpha", StartBlock: 1},
			{Name: "beta", StartBlock: 2},
		},
	}

	block, err := fsys.EncodeRootDirectory(root)
	require.NoError(t, err)

	decoded, err := fsys.DecodeRootDirectory(block)
	require.NoError(t, err)
	assert.Equal(t, root.Entries, decoded.Entries)
}

func TestRootDirectoryCapacity(t *testing.T) {
	var entries []fsys.DirEntry
	for i := 0; i < fsys.MaxDirsInRoot; i++ {
		entries = append(entries, fsys.DirEntry{Name: "d", StartBlock: int64(i)})
	}
	_, err := fsys.EncodeRootDirectory(fsys.RootDirectory{Entries: entries})
	assert.NoError(t, err)

	entries = append(entries, fsys.DirEntry{Name: "overflow", StartBlock: 999})
	_, err = fsys.EncodeRootDirectory(fsys.RootDirectory{Entries: entries})
	assert.Error(t, err)
}

func TestDirNameTooLong(t *testing.T) {
	root := fsys.RootDirectory{
		Entries: []fsys.DirEntry{{Name: "123456789", StartBlock: 1}},
	}
	_, err := fsys.EncodeRootDirectory(root)
	assert.Error(t, err)
}

func TestDirNameExactlyEightSucceeds(t *testing.T) {
	root := fsys.RootDirectory{
		Entries: []fsys.DirEntry{{Name: "12345678", StartBlock: 1}},
	}
	_, err := fsys.EncodeRootDirectory(root)
	assert.NoError(t, err)
}

func TestSubdirectoryBlockRoundTrip(t *testing.T) {
	sub := fsys.SubdirectoryBlock{
		Entries: []fsys.FileEntry{
			{Name: "hi", Ext: "txt", Size: 5, IndexBlock: 9},
			{Name: "noext", Ext: "", Size: 0, IndexBlock: 10},
		},
	}

	block, err := fsys.EncodeSubdirectoryBlock(sub)
	require.NoError(t, err)

	decoded, err := fsys.DecodeSubdirectoryBlock(block)
	require.NoError(t, err)
	assert.Equal(t, sub.Entries, decoded.Entries)
}

func TestFileExtTooLong(t *testing.T) {
	sub := fsys.SubdirectoryBlock{
		Entries: []fsys.FileEntry{{Name: "a", Ext: "abcd", Size: 0, IndexBlock: 1}},
	}
	_, err := fsys.EncodeSubdirectoryBlock(sub)
	assert.Error(t, err)
}

func TestFileExtExactlyThreeSucceeds(t *testing.T) {
	sub := fsys.SubdirectoryBlock{
		Entries: []fsys.FileEntry{{Name: "a", Ext: "abc", Size: 0, IndexBlock: 1}},
	}
	_, err := fsys.EncodeSubdirectoryBlock(sub)
	assert.NoError(t, err)
}

func TestIndexBlockRoundTrip(t *testing.T) {
	var entries [fsys.MaxEntriesInIndexBlock]int64
	entries[0] = 42
	entries[1] = 43

	block := fsys.EncodeIndexBlock(entries)
	decoded := fsys.DecodeIndexBlock(block)
	assert.Equal(t, entries, decoded)
}

func TestMaxEntriesInIndexBlockIsSixtyFour(t *testing.T) {
	assert.Equal(t, 64, fsys.MaxEntriesInIndexBlock)
}
