package filesystem

// allocateBlock performs a first-fit scan of the free-block bitmap starting
// at inode_blocks+1 (the first data block), marks the found block not free,
// and returns it. Returns ErrNoFreeBlock if the data region is exhausted.
// No coalescing or rebalancing is attempted; fragmentation is accepted.
//
// FirstFree only knows about the bitmap's byte-rounded bit count, which can
// run past the device's actual block count (a 10-block image backs a
// 16-bit bitmap). Any candidate at or beyond fs.meta.blocks is therefore
// phantom capacity, not a real data block, and must be rejected the same as
// loc < 0.
func (fs *FileSystem) allocateBlock() (uint32, error) {
	start := int(fs.meta.inodeBlocks) + 1
	loc := fs.free.FirstFree(start)
	if loc < 0 || uint32(loc) >= fs.meta.blocks {
		fs.log.Warn("no free data block available")
		return 0, ErrNoFreeBlock
	}
	if err := fs.free.Set(loc); err != nil {
		return 0, err
	}
	return uint32(loc), nil
}

// freeBlock marks a previously allocated block free again.
func (fs *FileSystem) freeBlock(block uint32) {
	_ = fs.free.Clear(int(block))
}
