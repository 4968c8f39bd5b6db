package fsys

import "github.com/StevenMonty/File-System/errors"

// FindSubdirectory does a linear scan of root's entries for name, matching
// the first 8 characters (the full stored name; the on-disk format has no
// room for more).
func FindSubdirectory(root RootDirectory, name string) (DirEntry, int, bool) {
	for i, entry := range root.Entries {
		if entry.Name == name {
			return entry, i, true
		}
	}
	return DirEntry{}, -1, false
}

// FindFile does a linear scan of sub's entries, matching both the name and
// extension.
func FindFile(sub SubdirectoryBlock, name, ext string) (FileEntry, int, bool) {
	for i, entry := range sub.Entries {
		if entry.Name == name && entry.Ext == ext {
			return entry, i, true
		}
	}
	return FileEntry{}, -1, false
}

// InsertSubdirectory adds a new subdirectory entry to root. It rejects
// duplicates and enforces MaxDirsInRoot.
func InsertSubdirectory(root *RootDirectory, name string, startBlock int64) error {
	if _, _, found := FindSubdirectory(*root, name); found {
		return errors.ErrExists.WithMessage(name)
	}
	if len(root.Entries) >= MaxDirsInRoot {
		return errors.ErrNoSpaceOnDevice.WithMessage("root directory is full")
	}

	root.Entries = append(root.Entries, DirEntry{Name: name, StartBlock: startBlock})
	return nil
}

// InsertFile adds a new file entry to sub. It rejects duplicates and
// enforces MaxFilesInDir.
func InsertFile(sub *SubdirectoryBlock, name, ext string, indexBlock int64) error {
	if _, _, found := FindFile(*sub, name, ext); found {
		return errors.ErrExists.WithMessage(name + "." + ext)
	}
	if len(sub.Entries) >= MaxFilesInDir {
		return errors.ErrNoSpaceOnDevice.WithMessage("directory is full")
	}

	sub.Entries = append(sub.Entries, FileEntry{
		Name: name, Ext: ext, Size: 0, IndexBlock: indexBlock,
	})
	return nil
}
