package filesystem

import "github.com/simplefs/simplefs/disk"

// Write copies up to len(buf) bytes into inode n starting at offset,
// allocating data blocks lazily and block-granularly as needed, and returns
// the number of bytes written. The inode block is always flushed before
// returning, including on a short write caused by exhausted capacity, so
// that size growth and any newly allocated pointers are never lost.
//
// The direct-vs-indirect discriminator is `blockIndex < PointersPerInode`
// (not PointersPerBlock), and every disk write's error return is checked.
func (fs *FileSystem) Write(n int64, buf []byte, offset int64) (int, error) {
	if err := fs.requireMounted(); err != nil {
		return -1, err
	}
	if offset < 0 || offset >= maxFileSize {
		return -1, ErrOffsetTooLarge
	}
	blockNum, index, err := fs.checkInode(n)
	if err != nil {
		return -1, err
	}

	inodeBuf := make([]byte, disk.BlockSize)
	if _, err := fs.device.ReadBlock(blockNum, inodeBuf); err != nil {
		return -1, err
	}
	inode := decodeInode(inodeBuf, index*inodeSize)
	if inode.valid != 1 {
		return -1, ErrInvalidInode
	}

	length := len(buf)
	bytesWritten := 0
	current := offset
	scratch := make([]byte, disk.BlockSize)

	flush := func() error {
		if offset+int64(bytesWritten) > int64(inode.size) {
			inode.size = uint32(offset + int64(bytesWritten))
		}
		putInode(inodeBuf, index, inode)
		_, err := fs.device.WriteBlock(blockNum, inodeBuf)
		return err
	}

	var indirectBuf []byte
	var indirectDirty bool

	loadIndirect := func() error {
		if inode.indirect == 0 {
			block, err := fs.allocateBlock()
			if err != nil {
				return err
			}
			inode.indirect = block
			indirectBuf = make([]byte, disk.BlockSize)
			indirectDirty = true
			return nil
		}
		if indirectBuf == nil {
			indirectBuf = make([]byte, disk.BlockSize)
			if _, err := fs.device.ReadBlock(inode.indirect, indirectBuf); err != nil {
				return err
			}
		}
		return nil
	}

writeLoop:
	for bytesWritten < length {
		blockIndex := current / disk.BlockSize
		within := int(current % disk.BlockSize)
		toWrite := disk.BlockSize - within
		if toWrite > length-bytesWritten {
			toWrite = length - bytesWritten
		}

		var target uint32

		if blockIndex < PointersPerInode {
			if inode.direct[blockIndex] == 0 {
				block, err := fs.allocateBlock()
				if err != nil {
					break writeLoop
				}
				inode.direct[blockIndex] = block
			}
			target = inode.direct[blockIndex]
		} else {
			j := blockIndex - PointersPerInode
			if j >= PointersPerBlock {
				break writeLoop
			}
			if err := loadIndirect(); err != nil {
				_ = flush()
				return bytesWritten, err
			}
			pointers := decodePointers(indirectBuf)
			if pointers[j] == 0 {
				block, err := fs.allocateBlock()
				if err != nil {
					break writeLoop
				}
				pointers[j] = block
				copy(indirectBuf, encodePointers(pointers))
				indirectDirty = true
			}
			target = pointers[j]
		}

		if _, err := fs.device.ReadBlock(target, scratch); err != nil {
			_ = flush()
			return bytesWritten, err
		}
		copy(scratch[within:within+toWrite], buf[bytesWritten:bytesWritten+toWrite])
		if _, err := fs.device.WriteBlock(target, scratch); err != nil {
			_ = flush()
			return bytesWritten, err
		}

		bytesWritten += toWrite
		current += int64(toWrite)
	}

	if indirectDirty {
		if _, err := fs.device.WriteBlock(inode.indirect, indirectBuf); err != nil {
			_ = flush()
			return bytesWritten, err
		}
	}

	if err := flush(); err != nil {
		return bytesWritten, err
	}

	fs.log.WithField("inode", n).WithField("bytes", bytesWritten).Debug("inode written")
	return bytesWritten, nil
}
