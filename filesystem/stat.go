package filesystem

import "github.com/simplefs/simplefs/disk"

// Stat returns the size in bytes of inode n. Returns ErrInvalidInode if n is
// out of range or currently unallocated.
func (fs *FileSystem) Stat(n int64) (int64, error) {
	if err := fs.requireMounted(); err != nil {
		return -1, err
	}
	blockNum, index, err := fs.checkInode(n)
	if err != nil {
		return -1, err
	}

	buf := make([]byte, disk.BlockSize)
	if _, err := fs.device.ReadBlock(blockNum, buf); err != nil {
		return -1, err
	}
	inode := decodeInode(buf, index*inodeSize)
	if inode.valid != 1 {
		return -1, ErrInvalidInode
	}

	return int64(inode.size), nil
}
