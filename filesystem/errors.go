package filesystem

import "errors"

// Sentinel errors, exported package-level values that callers can compare
// with errors.Is instead of parsing message text.
var (
	// ErrAlreadyMounted is returned by Format or Mount when fs is already
	// bound to the same device it is given.
	ErrAlreadyMounted = errors.New("filesystem: already mounted on this device")

	// ErrNotMounted is returned by any operation that requires a mounted
	// filesystem when none is bound.
	ErrNotMounted = errors.New("filesystem: not mounted")

	// ErrBadMagic is returned by Mount when the superblock's magic number
	// does not match MagicNumber, rather than trusting the image blindly.
	ErrBadMagic = errors.New("filesystem: superblock magic number mismatch")

	// ErrInvalidInode is returned when an inode number is out of range,
	// or refers to a slot that is not currently valid (free).
	ErrInvalidInode = errors.New("filesystem: invalid or unallocated inode")

	// ErrNoFreeInode is returned by Create when the inode table is full.
	ErrNoFreeInode = errors.New("filesystem: no free inode")

	// ErrNoFreeBlock is returned by Write when the free-block bitmap has
	// no block left for a file's indirect pointer block. When a data block
	// cannot be allocated, Write does not return it: the write stops there
	// and returns a short count with a nil error.
	ErrNoFreeBlock = errors.New("filesystem: no free data block")

	// ErrOffsetTooLarge is returned by Read and Write when the requested
	// offset is negative or at or beyond the maximum addressable file size
	// (direct + single indirect coverage).
	ErrOffsetTooLarge = errors.New("filesystem: offset beyond maximum file size")
)
