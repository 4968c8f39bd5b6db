package fsys

import (
	"io"

	"github.com/StevenMonty/File-System/blockio"
	"github.com/StevenMonty/File-System/errors"
	"github.com/hashicorp/go-multierror"
)

// Fixed mode bits this filesystem reports. There is no permission model
// beyond these constants: every directory is 0755, every file is 0666.
const (
	modeDir  = 0040755 // S_IFDIR | 0755
	modeFile = 0100666 // S_IFREG | 0666
)

// Attr is what GetAttr reports for a path.
type Attr struct {
	IsDir bool
	Mode  uint32
	Nlink uint32
	Size  int64
}

// FileSystem is the entry point a kernel bridge dispatches operations
// against. It owns exactly one open image handle and one in-memory bitmap
// for the lifetime of the mount; both are mutated only through its methods,
// never concurrently, since the bridge delivers one operation at a time.
type FileSystem struct {
	dev *blockio.Device
	bm  *blockio.Bitmap
}

// NewFileSystem wraps an already-open image stream. Init must be called
// before any other operation.
func NewFileSystem(stream io.ReadWriteSeeker) *FileSystem {
	return &FileSystem{dev: blockio.NewDevice(stream)}
}

// Init loads the free-space bitmap into memory, marking block 0 and the
// bitmap's own blocks allocated. Idempotent.
func (fs *FileSystem) Init() error {
	bm, err := blockio.LoadBitmap(fs.dev)
	if err != nil {
		return err
	}
	fs.bm = bm
	return nil
}

// Destroy flushes the in-memory bitmap back to disk and closes the image.
// Both steps are attempted even if one fails, and both failures are
// reported.
func (fs *FileSystem) Destroy() error {
	var result *multierror.Error
	if fs.bm != nil {
		if err := fs.bm.Flush(fs.dev); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := fs.dev.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (fs *FileSystem) readRoot() (RootDirectory, error) {
	block, err := fs.dev.ReadBlock(blockio.RootBlock)
	if err != nil {
		return RootDirectory{}, err
	}
	return DecodeRootDirectory(block)
}

func (fs *FileSystem) writeRoot(root RootDirectory) error {
	block, err := EncodeRootDirectory(root)
	if err != nil {
		return err
	}
	return fs.dev.WriteBlock(blockio.RootBlock, block)
}

func (fs *FileSystem) readSubdirectory(startBlock int64) (SubdirectoryBlock, error) {
	block, err := fs.dev.ReadBlock(startBlock)
	if err != nil {
		return SubdirectoryBlock{}, err
	}
	return DecodeSubdirectoryBlock(block)
}

func (fs *FileSystem) writeSubdirectory(startBlock int64, sub SubdirectoryBlock) error {
	block, err := EncodeSubdirectoryBlock(sub)
	if err != nil {
		return err
	}
	return fs.dev.WriteBlock(startBlock, block)
}

// resolveSubdirectory loads root and looks up name, the way every
// multi-token operation needs to before doing anything else.
func (fs *FileSystem) resolveSubdirectory(name string) (RootDirectory, DirEntry, error) {
	root, err := fs.readRoot()
	if err != nil {
		return root, DirEntry{}, err
	}
	entry, _, found := FindSubdirectory(root, name)
	if !found {
		return root, DirEntry{}, errors.ErrNotFound.WithMessage(name)
	}
	return root, entry, nil
}

// GetAttr reports the attributes of path: "/" and subdirectories are
// directories (mode 0755, link count 2); a matching file is a regular file
// (mode 0666, link count 1, sized fsize). Anything else is ErrNotFound.
func (fs *FileSystem) GetAttr(path string) (Attr, error) {
	if path == "/" {
		return Attr{IsDir: true, Mode: modeDir, Nlink: 2}, nil
	}

	parsed, err := ParsePath(path)
	if err != nil {
		return Attr{}, err
	}

	_, dirEntry, err := fs.resolveSubdirectory(parsed.Dir)
	if err != nil {
		return Attr{}, err
	}
	if parsed.Tokens == 1 {
		return Attr{IsDir: true, Mode: modeDir, Nlink: 2}, nil
	}
	sub, err := fs.readSubdirectory(dirEntry.StartBlock)
	if err != nil {
		return Attr{}, err
	}

	fileEntry, _, found := FindFile(sub, parsed.Name, parsed.Ext)
	if !found {
		return Attr{}, errors.ErrNotFound.WithMessage(path)
	}
	return Attr{Mode: modeFile, Nlink: 1, Size: int64(fileEntry.Size)}, nil
}

// ReadDir emits "." and "..", then either every subdirectory name (for "/")
// or every "name.ext" string, with a literal '.' even when the extension is
// empty (for "/DIR"), by calling emit once per name.
func (fs *FileSystem) ReadDir(path string, emit func(name string) error) error {
	if err := emit("."); err != nil {
		return err
	}
	if err := emit(".."); err != nil {
		return err
	}

	if path == "/" {
		root, err := fs.readRoot()
		if err != nil {
			return err
		}
		for _, entry := range root.Entries {
			if err := emit(entry.Name); err != nil {
				return err
			}
		}
		return nil
	}

	parsed, err := ParsePath(path)
	if err != nil {
		return err
	}
	if parsed.Tokens != 1 {
		return errors.ErrNotFound.WithMessage(path)
	}

	_, dirEntry, err := fs.resolveSubdirectory(parsed.Dir)
	if err != nil {
		return err
	}
	sub, err := fs.readSubdirectory(dirEntry.StartBlock)
	if err != nil {
		return err
	}
	for _, entry := range sub.Entries {
		if err := emit(entry.Name + "." + entry.Ext); err != nil {
			return err
		}
	}
	return nil
}

// Mkdir creates a new, empty subdirectory directly under root. It requires
// a single-token path, rejects a path that already exists, and rejects a
// full root directory.
func (fs *FileSystem) Mkdir(path string) error {
	parsed, err := ParsePath(path)
	if err != nil {
		return err
	}
	if parsed.Tokens != 1 {
		return errors.ErrPermissionDenied.WithMessage("mkdir requires a single path component")
	}
	if parsed.Dir == "" {
		return errors.ErrPermissionDenied.WithMessage("empty directory name")
	}

	root, err := fs.readRoot()
	if err != nil {
		return err
	}

	newBlock, err := fs.bm.FindFreeBlock()
	if err != nil {
		return err
	}

	if err := InsertSubdirectory(&root, parsed.Dir, newBlock); err != nil {
		return err
	}

	if err := fs.bm.SetBit(newBlock); err != nil {
		return err
	}

	// The new subdirectory block must read back as "0 files" the first time
	// it's loaded, regardless of whatever was on disk before this block was
	// allocated.
	var zeroed blockio.Block
	if err := fs.dev.WriteBlock(newBlock, zeroed); err != nil {
		return err
	}

	return fs.writeRoot(root)
}

// Mknod creates a new, empty (zero-length) file inside an existing
// subdirectory. It requires a three-token path and a subdirectory that
// already exists.
func (fs *FileSystem) Mknod(path string) error {
	parsed, err := ParsePath(path)
	if err != nil {
		return err
	}
	if parsed.Tokens != 3 {
		return errors.ErrPermissionDenied.WithMessage("mknod requires a full /dir/name.ext path")
	}
	if parsed.Name == "" {
		return errors.ErrPermissionDenied.WithMessage("empty file name")
	}

	_, dirEntry, err := fs.resolveSubdirectory(parsed.Dir)
	if err != nil {
		return err
	}

	sub, err := fs.readSubdirectory(dirEntry.StartBlock)
	if err != nil {
		return err
	}

	// Reject a duplicate name or a full directory before touching the
	// bitmap at all: neither failure is an I/O fault, so neither should
	// leave an allocated-but-unreferenced block behind.
	if _, _, found := FindFile(sub, parsed.Name, parsed.Ext); found {
		return errors.ErrExists.WithMessage(parsed.Name + "." + parsed.Ext)
	}
	if len(sub.Entries) >= MaxFilesInDir {
		return errors.ErrNoSpaceOnDevice.WithMessage("directory is full")
	}

	indexBlockNum, err := fs.bm.FindFreeBlock()
	if err != nil {
		return err
	}
	if err := fs.bm.SetBit(indexBlockNum); err != nil {
		return err
	}
	dataBlockNum, err := fs.bm.FindFreeBlock()
	if err != nil {
		return err
	}
	if err := fs.bm.SetBit(dataBlockNum); err != nil {
		return err
	}

	// sub and parsed.Name/parsed.Ext were already validated above, so this
	// cannot fail with Exists or NoSpace — only the two blocks just claimed
	// are ever at risk of going unreferenced, and only on a genuine I/O
	// fault from here on, matching the leak `spec.md` §5 accepts.
	if err := InsertFile(&sub, parsed.Name, parsed.Ext, indexBlockNum); err != nil {
		return err
	}

	var entries [MaxEntriesInIndexBlock]int64
	entries[0] = dataBlockNum
	if err := fs.dev.WriteBlock(indexBlockNum, EncodeIndexBlock(entries)); err != nil {
		return err
	}

	var zeroed blockio.Block
	if err := fs.dev.WriteBlock(dataBlockNum, zeroed); err != nil {
		return err
	}

	return fs.writeSubdirectory(dirEntry.StartBlock, sub)
}

// Read performs a positioned read of size bytes from path at offset.
func (fs *FileSystem) Read(path string, size int, offset int64) ([]byte, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if parsed.Tokens < 3 {
		return nil, errors.ErrIsADirectory.WithMessage(path)
	}
	if size == 0 {
		return nil, nil
	}

	_, dirEntry, err := fs.resolveSubdirectory(parsed.Dir)
	if err != nil {
		return nil, err
	}
	sub, err := fs.readSubdirectory(dirEntry.StartBlock)
	if err != nil {
		return nil, err
	}
	fileEntry, _, found := FindFile(sub, parsed.Name, parsed.Ext)
	if !found {
		return nil, errors.ErrNotFound.WithMessage(path)
	}

	return ReadFile(fs.dev, fileEntry.IndexBlock, fileEntry.Size, offset, size)
}

// Write performs a positioned write of data into path at offset, growing the
// file and allocating new data blocks as needed. It returns the number of
// bytes written (always len(data) on success).
func (fs *FileSystem) Write(path string, data []byte, offset int64) (int, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return 0, err
	}
	if parsed.Tokens < 3 {
		return 0, errors.ErrNotFound.WithMessage(path)
	}

	_, dirEntry, err := fs.resolveSubdirectory(parsed.Dir)
	if err != nil {
		return 0, err
	}
	sub, err := fs.readSubdirectory(dirEntry.StartBlock)
	if err != nil {
		return 0, err
	}
	fileEntry, idx, found := FindFile(sub, parsed.Name, parsed.Ext)
	if !found {
		return 0, errors.ErrNotFound.WithMessage(path)
	}

	newSize, err := WriteFile(fs.dev, fs.bm, fileEntry.IndexBlock, fileEntry.Size, offset, data)
	if err != nil {
		return 0, err
	}

	sub.Entries[idx].Size = newSize
	if err := fs.writeSubdirectory(dirEntry.StartBlock, sub); err != nil {
		return 0, err
	}
	return len(data), nil
}

// Open is a stubbed success: this filesystem has no file handle state to
// set up.
func (fs *FileSystem) Open(path string) error { return nil }

// Flush is a stubbed success: every write already persists the data, index
// and subdirectory blocks it touches before returning. Blocks it allocates
// are recorded only in the in-memory bitmap, which Destroy writes back.
func (fs *FileSystem) Flush(path string) error { return nil }

// Rmdir, Unlink, and Truncate-to-shrink are deliberate non-goals: this
// filesystem never frees a block. They return success without mutating
// anything.
func (fs *FileSystem) Rmdir(path string) error    { return nil }
func (fs *FileSystem) Unlink(path string) error   { return nil }
func (fs *FileSystem) Truncate(path string) error { return nil }
