package filesystem

import "testing"

func TestSuperblockRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sb   superblock
	}{
		{"small", superblock{magic: MagicNumber, blocks: 10, inodeBlocks: 1, inodes: 128}},
		{"large", superblock{magic: MagicNumber, blocks: 1 << 20, inodeBlocks: 8192, inodes: 8192 * InodesPerBlock}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.sb.encode()
			if len(encoded) != 4096 {
				t.Fatalf("expected a full block, got %d bytes", len(encoded))
			}
			got, err := decodeSuperblock(encoded)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.sb {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, tt.sb)
			}
		})
	}
}

func TestInodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  inodeRecord
	}{
		{"empty", inodeRecord{}},
		{"fresh", inodeRecord{valid: 1, size: 0}},
		{"direct only", inodeRecord{valid: 1, size: 100, direct: [5]uint32{2, 3, 4, 5, 6}}},
		{"with indirect", inodeRecord{valid: 1, size: 9000, direct: [5]uint32{2, 3, 4, 5, 6}, indirect: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := encodeInode(tt.rec)
			if len(encoded) != inodeSize {
				t.Fatalf("expected %d bytes, got %d", inodeSize, len(encoded))
			}
			got := decodeInode(encoded, 0)
			if got != tt.rec {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, tt.rec)
			}
		})
	}
}

func TestPutInodeLeavesRestOfBlockUntouched(t *testing.T) {
	block := make([]byte, 4096)
	for i := range block {
		block[i] = 0xAA
	}

	rec := inodeRecord{valid: 1, size: 42, direct: [5]uint32{1, 2, 3, 4, 5}, indirect: 6}
	putInode(block, 1, rec)

	for i := 0; i < inodeSize; i++ {
		if block[i] != 0xAA {
			t.Fatalf("expected slot 0 untouched at byte %d, got %#x", i, block[i])
		}
	}
	got := decodeInode(block, 1*inodeSize)
	if got != rec {
		t.Errorf("expected slot 1 to contain written record, got %+v", got)
	}
	if block[2*inodeSize] != 0xAA {
		t.Errorf("expected slot 2 untouched")
	}
}

func TestInodeBlockNumber(t *testing.T) {
	tests := []struct {
		n         int64
		wantBlock uint32
		wantIndex int
	}{
		{0, 1, 0},
		{127, 1, 127},
		{128, 2, 0},
		{255, 2, 127},
		{256, 3, 0},
	}
	for _, tt := range tests {
		block, index := inodeBlockNumber(tt.n)
		if block != tt.wantBlock || index != tt.wantIndex {
			t.Errorf("inodeBlockNumber(%d) = (%d, %d), want (%d, %d)", tt.n, block, index, tt.wantBlock, tt.wantIndex)
		}
	}
}

func TestPointersRoundTrip(t *testing.T) {
	var ptrs [PointersPerBlock]uint32
	ptrs[0] = 10
	ptrs[500] = 20
	ptrs[PointersPerBlock-1] = 30

	encoded := encodePointers(ptrs)
	if len(encoded) != 4096 {
		t.Fatalf("expected a full block, got %d bytes", len(encoded))
	}
	got := decodePointers(encoded)
	if got != ptrs {
		t.Errorf("round trip mismatch")
	}
}
