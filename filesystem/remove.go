package filesystem

import "github.com/simplefs/simplefs/disk"

// Remove releases inode n and all of its data: every non-zero direct
// pointer, the indirect block itself (if any), and every non-zero entry of
// that indirect block are marked free in the bitmap, the inode's pointers
// and size are zeroed, and valid is cleared. The inode block is written
// back before returning. Returns ErrInvalidInode if n is out of range or
// already free, or an I/O error if any disk operation fails.
func (fs *FileSystem) Remove(n int64) error {
	if err := fs.requireMounted(); err != nil {
		return err
	}
	blockNum, index, err := fs.checkInode(n)
	if err != nil {
		return err
	}

	buf := make([]byte, disk.BlockSize)
	if _, err := fs.device.ReadBlock(blockNum, buf); err != nil {
		return err
	}
	inode := decodeInode(buf, index*inodeSize)
	if inode.valid != 1 {
		return ErrInvalidInode
	}

	for i, p := range inode.direct {
		if p != 0 {
			fs.freeBlock(p)
			inode.direct[i] = 0
		}
	}

	if inode.indirect != 0 {
		fs.freeBlock(inode.indirect)

		ibuf := make([]byte, disk.BlockSize)
		if _, err := fs.device.ReadBlock(inode.indirect, ibuf); err != nil {
			return err
		}
		for _, p := range decodePointers(ibuf) {
			if p != 0 {
				fs.freeBlock(p)
			}
		}
		inode.indirect = 0
	}

	inode.valid = 0
	inode.size = 0
	putInode(buf, index, inode)

	if _, err := fs.device.WriteBlock(blockNum, buf); err != nil {
		return err
	}

	fs.log.WithField("inode", n).Debug("inode removed")
	return nil
}
