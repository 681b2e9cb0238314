package filesystem

import (
	"fmt"
	"io"

	"github.com/simplefs/simplefs/disk"
)

// Debug reads the superblock off dev and prints it, then scans every inode
// table block and prints each valid inode's number, size, direct pointers
// (including zeros), and indirect pointer. A device read failure aborts the
// scan silently; whatever was already written to w stands.
func Debug(dev *disk.Device, w io.Writer) error {
	if dev == nil {
		return fmt.Errorf("filesystem: debug: nil device")
	}

	buf := make([]byte, disk.BlockSize)
	if _, err := dev.ReadBlock(0, buf); err != nil {
		return nil
	}
	sb, err := decodeSuperblock(buf)
	if err != nil {
		return nil
	}

	fmt.Fprintf(w, "SuperBlock:\n")
	fmt.Fprintf(w, "    %d blocks\n", sb.blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", sb.inodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", sb.inodes)
	fmt.Fprintf(w, "\nInode Table:\n")

	for blockNum := uint32(1); blockNum <= sb.inodeBlocks; blockNum++ {
		if _, err := dev.ReadBlock(blockNum, buf); err != nil {
			return nil
		}
		for slot := 0; slot < InodesPerBlock; slot++ {
			inode := decodeInode(buf, slot*inodeSize)
			if inode.valid != 1 {
				continue
			}
			number := int64(slot) + int64(blockNum-1)*InodesPerBlock
			fmt.Fprintf(w, "Inode %d:\n", number)
			fmt.Fprintf(w, "    File size: %d bytes\n", inode.size)
			fmt.Fprintf(w, "    Direct pointers: ")
			for _, p := range inode.direct {
				fmt.Fprintf(w, "%d ", p)
			}
			fmt.Fprintf(w, "\n")
			fmt.Fprintf(w, "    Indirect pointer: %d\n\n", inode.indirect)
		}
	}

	return nil
}
