package filesystem

import "github.com/simplefs/simplefs/disk"

// Create allocates a free inode by a linear scan of the inode table in
// ascending inode-number order, marks it valid with size 0, writes the
// owning inode block back, and returns the new inode number. Returns
// ErrNoFreeInode if the table is exhausted, or an I/O error if any disk
// operation fails.
//
// Direct and indirect pointers are fully zeroed here rather than left
// stale, so a partially-formatted image can never resurrect dangling
// pointers into a freshly created file.
func (fs *FileSystem) Create() (int64, error) {
	if err := fs.requireMounted(); err != nil {
		return -1, err
	}

	buf := make([]byte, disk.BlockSize)
	var curBlock uint32 = 0
	loaded := false

	for n := int64(0); n < int64(fs.meta.inodes); n++ {
		blockNum, index := inodeBlockNumber(n)
		if !loaded || blockNum != curBlock {
			if _, err := fs.device.ReadBlock(blockNum, buf); err != nil {
				return -1, err
			}
			curBlock = blockNum
			loaded = true
		}

		existing := decodeInode(buf, index*inodeSize)
		if existing.valid == 1 {
			continue
		}

		fresh := inodeRecord{valid: 1, size: 0}
		putInode(buf, index, fresh)
		if _, err := fs.device.WriteBlock(blockNum, buf); err != nil {
			return -1, err
		}

		fs.log.WithField("inode", n).Debug("inode created")
		return n, nil
	}

	fs.log.Warn("no free inode available")
	return -1, ErrNoFreeInode
}
