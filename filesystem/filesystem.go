package filesystem

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simplefs/simplefs/disk"
	"github.com/simplefs/simplefs/util/bitmap"
)

// FileSystem is the single owning record for a mounted SimpleFS instance:
// the device it is bound to, the superblock copied from disk at mount time,
// and the in-memory free-block bitmap reconstructed by scanning inodes.
// Every operation takes it by pointer receiver, per the Design Notes'
// "mutable global-like filesystem state, modeled as one owning record"
// guidance — there is no package-level mutable state.
type FileSystem struct {
	device *disk.Device
	meta   superblock
	free   *bitmap.Bitmap

	log *logrus.Entry
}

// Mounted reports whether fs is currently bound to a device.
func (fs *FileSystem) Mounted() bool {
	return fs != nil && fs.device != nil
}

// Format writes a fresh superblock (magic, blocks, inode_blocks, inodes)
// and zero-fills every remaining block on dev. fs must not already be
// mounted on dev — formatting an already-mounted disk through the same
// handle is refused.
func Format(fs *FileSystem, dev *disk.Device) error {
	if fs == nil || dev == nil {
		return fmt.Errorf("filesystem: format: %w", ErrNotMounted)
	}
	if fs.device == dev {
		return ErrAlreadyMounted
	}

	blocks := dev.Blocks()
	inodeBlocks := ceilDiv(blocks, InodesPerBlock)
	sb := superblock{
		magic:       MagicNumber,
		blocks:      blocks,
		inodeBlocks: inodeBlocks,
		inodes:      inodeBlocks * InodesPerBlock,
	}

	if _, err := dev.WriteBlock(0, sb.encode()); err != nil {
		return fmt.Errorf("filesystem: format: write superblock: %w", err)
	}

	empty := make([]byte, disk.BlockSize)
	for b := uint32(1); b < blocks; b++ {
		if _, err := dev.WriteBlock(b, empty); err != nil {
			return fmt.Errorf("filesystem: format: zero block %d: %w", b, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"blocks":       sb.blocks,
		"inode_blocks": sb.inodeBlocks,
		"inodes":       sb.inodes,
	}).Debug("filesystem formatted")

	return nil
}

// Mount binds fs to dev: reads and validates the superblock, then
// reconstructs the free-block bitmap by scanning every valid inode's
// direct and indirect pointers. fs must not already be bound to dev.
func Mount(fs *FileSystem, dev *disk.Device) error {
	if fs == nil || dev == nil {
		return fmt.Errorf("filesystem: mount: %w", ErrNotMounted)
	}
	if fs.device == dev {
		return ErrAlreadyMounted
	}

	buf := make([]byte, disk.BlockSize)
	if _, err := dev.ReadBlock(0, buf); err != nil {
		return fmt.Errorf("filesystem: mount: read superblock: %w", err)
	}
	sb, err := decodeSuperblock(buf)
	if err != nil {
		return fmt.Errorf("filesystem: mount: %w", err)
	}
	if sb.magic != MagicNumber {
		return ErrBadMagic
	}

	mountID := uuid.New()
	log := logrus.WithFields(logrus.Fields{"component": "filesystem", "mount_id": mountID})

	free := bitmap.NewBits(int(sb.blocks))
	for i := uint32(0); i <= sb.inodeBlocks; i++ {
		if err := free.Set(int(i)); err != nil {
			return fmt.Errorf("filesystem: mount: reserve block %d: %w", i, err)
		}
	}

	for blockNum := uint32(1); blockNum <= sb.inodeBlocks; blockNum++ {
		if _, err := dev.ReadBlock(blockNum, buf); err != nil {
			return fmt.Errorf("filesystem: mount: read inode block %d: %w", blockNum, err)
		}
		table := append([]byte(nil), buf...)

		for slot := 0; slot < InodesPerBlock; slot++ {
			n := decodeInode(table, slot*inodeSize)
			if n.valid != 1 {
				continue
			}
			for _, p := range n.direct {
				if p != 0 {
					if err := free.Set(int(p)); err != nil {
						return fmt.Errorf("filesystem: mount: mark direct block %d used: %w", p, err)
					}
				}
			}
			if n.indirect != 0 {
				if err := free.Set(int(n.indirect)); err != nil {
					return fmt.Errorf("filesystem: mount: mark indirect block %d used: %w", n.indirect, err)
				}
				ibuf := make([]byte, disk.BlockSize)
				if _, err := dev.ReadBlock(n.indirect, ibuf); err != nil {
					return fmt.Errorf("filesystem: mount: read indirect block %d: %w", n.indirect, err)
				}
				for _, p := range decodePointers(ibuf) {
					if p != 0 {
						if err := free.Set(int(p)); err != nil {
							return fmt.Errorf("filesystem: mount: mark indirect entry %d used: %w", p, err)
						}
					}
				}
			}
		}
	}

	fs.device = dev
	fs.meta = sb
	fs.free = free
	fs.log = log

	log.WithField("in_use_blocks", free.CountSet()).Debug("filesystem mounted")
	return nil
}

// Unmount releases the free-block bitmap and clears the device binding.
// Safe on an unmounted or nil filesystem.
func Unmount(fs *FileSystem) {
	if fs == nil {
		return
	}
	fs.device = nil
	fs.free = nil
	fs.meta = superblock{}
	fs.log = nil
}

// requireMounted is the shared precondition check used by every
// inode-level operation.
func (fs *FileSystem) requireMounted() error {
	if !fs.Mounted() {
		return ErrNotMounted
	}
	return nil
}

// checkInode validates an inode number is in range, returning the owning
// inode table block number and the inode's slot index within it.
func (fs *FileSystem) checkInode(n int64) (blockNum uint32, index int, err error) {
	if n < 0 || uint32(n) >= fs.meta.inodes {
		return 0, 0, ErrInvalidInode
	}
	blockNum, index = inodeBlockNumber(n)
	return blockNum, index, nil
}
