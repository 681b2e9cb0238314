// Package filesystem implements the SimpleFS Filesystem Core: the on-disk
// superblock/inode layout, the free-block bitmap reconstructed at mount
// time, and the direct+single-indirect address translation used by
// Read/Write. It mediates between user calls (Create, Remove, Stat, Read,
// Write) and a disk.Device; it never interprets a block except through the
// typed decode/encode helpers below, matching the "union-typed block
// buffer, modeled as explicit codecs, never a tagged variant" guidance for
// this kind of on-disk layout.
package filesystem

import (
	"encoding/binary"
	"fmt"

	"github.com/simplefs/simplefs/disk"
)

const (
	// MagicNumber identifies a formatted SimpleFS image.
	MagicNumber uint32 = 0xF0F03410

	// InodesPerBlock is how many 32-byte inode records fit in one block.
	InodesPerBlock = 128

	// PointersPerInode is the number of direct block pointers in an inode.
	PointersPerInode = 5

	// PointersPerBlock is how many 32-bit block numbers fit in one
	// indirect pointer block.
	PointersPerBlock = 1024

	// inodeSize is the on-disk size, in bytes, of one inode record:
	// valid(4) | size(4) | direct[5]*4 | indirect(4).
	inodeSize = 4 + 4 + PointersPerInode*4 + 4

	// superblockSize is the on-disk size of the superblock's defined
	// fields; the remainder of block 0 is zero-filled.
	superblockSize = 4 * 4

	// maxFileSize is the largest file SimpleFS can address: direct
	// coverage plus one full indirect block. Read and Write both reject
	// any offset at or beyond this with ErrOffsetTooLarge.
	maxFileSize = int64(PointersPerInode+PointersPerBlock) * disk.BlockSize
)

// superblock is the fixed-layout header in block 0: magic number, total
// block count, blocks reserved for the inode table, and total inode count.
type superblock struct {
	magic       uint32
	blocks      uint32
	inodeBlocks uint32
	inodes      uint32
}

// encode serializes the superblock into a full BlockSize-byte block 0, with
// the unused tail zero-filled.
func (s superblock) encode() []byte {
	b := make([]byte, disk.BlockSize)
	binary.LittleEndian.PutUint32(b[0:4], s.magic)
	binary.LittleEndian.PutUint32(b[4:8], s.blocks)
	binary.LittleEndian.PutUint32(b[8:12], s.inodeBlocks)
	binary.LittleEndian.PutUint32(b[12:16], s.inodes)
	return b
}

// decodeSuperblock parses the fixed-layout prefix of block 0. It does not
// itself reject a bad magic number; callers that care (mount) check
// s.magic against MagicNumber explicitly.
func decodeSuperblock(b []byte) (superblock, error) {
	if len(b) < superblockSize {
		return superblock{}, fmt.Errorf("filesystem: superblock block too short: %d bytes", len(b))
	}
	return superblock{
		magic:       binary.LittleEndian.Uint32(b[0:4]),
		blocks:      binary.LittleEndian.Uint32(b[4:8]),
		inodeBlocks: binary.LittleEndian.Uint32(b[8:12]),
		inodes:      binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}

// inodeRecord is the fixed-layout on-disk inode: validity, size in bytes, up
// to five direct block pointers, and one single-indirect pointer. A pointer
// value of 0 means "unallocated" (block 0 is reserved for the superblock).
type inodeRecord struct {
	valid    uint32
	size     uint32
	direct   [PointersPerInode]uint32
	indirect uint32
}

// encodeInode serializes one inode record into its 32-byte on-disk form.
func encodeInode(n inodeRecord) []byte {
	b := make([]byte, inodeSize)
	binary.LittleEndian.PutUint32(b[0:4], n.valid)
	binary.LittleEndian.PutUint32(b[4:8], n.size)
	off := 8
	for _, p := range n.direct {
		binary.LittleEndian.PutUint32(b[off:off+4], p)
		off += 4
	}
	binary.LittleEndian.PutUint32(b[off:off+4], n.indirect)
	return b
}

// decodeInode parses one 32-byte inode record out of an inode table block
// at the given byte offset.
func decodeInode(block []byte, offset int) inodeRecord {
	var n inodeRecord
	n.valid = binary.LittleEndian.Uint32(block[offset : offset+4])
	n.size = binary.LittleEndian.Uint32(block[offset+4 : offset+8])
	off := offset + 8
	for i := range n.direct {
		n.direct[i] = binary.LittleEndian.Uint32(block[off : off+4])
		off += 4
	}
	n.indirect = binary.LittleEndian.Uint32(block[off : off+4])
	return n
}

// putInode overwrites the inodeSize-byte slot for index within an inode
// table block already in memory, leaving the rest of the block untouched.
func putInode(block []byte, index int, n inodeRecord) {
	copy(block[index*inodeSize:(index+1)*inodeSize], encodeInode(n))
}

// decodePointers parses an indirect block as PointersPerBlock little-endian
// uint32 block numbers; a zero entry denotes an unused slot.
func decodePointers(block []byte) [PointersPerBlock]uint32 {
	var ptrs [PointersPerBlock]uint32
	for i := range ptrs {
		ptrs[i] = binary.LittleEndian.Uint32(block[i*4 : i*4+4])
	}
	return ptrs
}

// encodePointers serializes PointersPerBlock block numbers into one block.
func encodePointers(ptrs [PointersPerBlock]uint32) []byte {
	b := make([]byte, disk.BlockSize)
	for i, p := range ptrs {
		binary.LittleEndian.PutUint32(b[i*4:i*4+4], p)
	}
	return b
}

// inodeBlockNumber returns the inode table block holding inode n, and n's
// slot index within that block: block 1+n/InodesPerBlock, slot n%InodesPerBlock.
func inodeBlockNumber(n int64) (block uint32, index int) {
	return uint32(1 + n/InodesPerBlock), int(n % InodesPerBlock)
}

// ceilDiv computes ceil(a/b) for non-negative a, positive b.
func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
