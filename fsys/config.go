package fsys

// Config bundles the paths a mount needs: the backing image file and the
// directory to mount the filesystem at. Nothing in this package reads it
// directly; it exists for cmd/m8fsmount to assemble and pass down to
// whichever bridge library drives the actual mount syscalls.
type Config struct {
	ImagePath string
	MountPath string

	// Foreground keeps the mount process attached to the terminal instead of
	// forking into the background, the way most FUSE-style bridges expect.
	Foreground bool
}
