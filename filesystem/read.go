package filesystem

import "github.com/simplefs/simplefs/disk"

// Read copies up to len(buf) bytes from inode n starting at offset into buf,
// clipped to the inode's recorded size, and returns the number of bytes
// copied. Direct pointers are consulted first, then the indirect block once
// offset crosses the direct region. A zero pointer within the file's live
// size yields zeros for that span rather than failing.
//
// The direct/indirect boundary check is `>=`: blockIndex == PointersPerInode
// must already fall into the indirect region, since direct has exactly
// PointersPerInode entries indexed 0..PointersPerInode-1.
func (fs *FileSystem) Read(n int64, buf []byte, offset int64) (int, error) {
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
	bytesRead := 0
	current := offset
	scratch := make([]byte, disk.BlockSize)

	for current < int64(inode.size) && bytesRead < length {
		blockIndex := current / disk.BlockSize
		if blockIndex >= PointersPerInode {
			break
		}
		within := int(current % disk.BlockSize)
		toRead := disk.BlockSize - within
		if toRead > length-bytesRead {
			toRead = length - bytesRead
		}
		if remaining := int64(inode.size) - current; int64(toRead) > remaining {
			toRead = int(remaining)
		}

		if pointer := inode.direct[blockIndex]; pointer != 0 {
			if _, err := fs.device.ReadBlock(pointer, scratch); err != nil {
				return -1, err
			}
			copy(buf[bytesRead:bytesRead+toRead], scratch[within:within+toRead])
		} else {
			zero(buf[bytesRead : bytesRead+toRead])
		}

		bytesRead += toRead
		current += int64(toRead)
	}

	if inode.indirect != 0 && current < int64(inode.size) && bytesRead < length {
		ibuf := make([]byte, disk.BlockSize)
		if _, err := fs.device.ReadBlock(inode.indirect, ibuf); err != nil {
			return -1, err
		}
		pointers := decodePointers(ibuf)

		for current < int64(inode.size) && bytesRead < length {
			blockIndex := current/disk.BlockSize - PointersPerInode
			if blockIndex < 0 || blockIndex >= PointersPerBlock {
				break
			}
			within := int(current % disk.BlockSize)
			toRead := disk.BlockSize - within
			if toRead > length-bytesRead {
				toRead = length - bytesRead
			}
			if remaining := int64(inode.size) - current; int64(toRead) > remaining {
				toRead = int(remaining)
			}

			if pointer := pointers[blockIndex]; pointer != 0 {
				if _, err := fs.device.ReadBlock(pointer, scratch); err != nil {
					return -1, err
				}
				copy(buf[bytesRead:bytesRead+toRead], scratch[within:within+toRead])
			} else {
				zero(buf[bytesRead : bytesRead+toRead])
			}

			bytesRead += toRead
			current += int64(toRead)
		}
	}

	return bytesRead, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
