package disk_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/simplefs/simplefs/disk"
	"github.com/simplefs/simplefs/disk/disktest"
)

func TestOpenCreatesCorrectSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")
	d, err := disk.Open(path, 10)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if got, want := info.Size(), int64(10*disk.BlockSize); got != want {
		t.Fatalf("image size = %d, want %d", got, want)
	}
	if d.Blocks() != 10 {
		t.Fatalf("Blocks() = %d, want 10", d.Blocks())
	}
}

func TestOpenResizesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")
	if err := os.WriteFile(path, []byte("short"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	d, err := disk.Open(path, 4)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got, want := info.Size(), int64(4*disk.BlockSize); got != want {
		t.Fatalf("image size = %d, want %d", got, want)
	}
}

func TestReadWriteBlockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")
	d, err := disk.Open(path, 4)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	out := bytes.Repeat([]byte{0xAB}, disk.BlockSize)
	if n, err := d.WriteBlock(2, out); err != nil || n != disk.BlockSize {
		t.Fatalf("WriteBlock = %d, %v", n, err)
	}
	if d.Writes() != 1 {
		t.Fatalf("Writes() = %d, want 1", d.Writes())
	}

	in := make([]byte, disk.BlockSize)
	if n, err := d.ReadBlock(2, in); err != nil || n != disk.BlockSize {
		t.Fatalf("ReadBlock = %d, %v", n, err)
	}
	if d.Reads() != 1 {
		t.Fatalf("Reads() = %d, want 1", d.Reads())
	}
	if !bytes.Equal(in, out) {
		t.Fatalf("read back data does not match what was written")
	}
}

func TestReadWriteOutOfRangeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")
	d, err := disk.Open(path, 4)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	buf := make([]byte, disk.BlockSize)
	if _, err := d.ReadBlock(4, buf); err == nil {
		t.Fatalf("expected failure reading out-of-range block")
	}
	if _, err := d.WriteBlock(100, buf); err == nil {
		t.Fatalf("expected failure writing out-of-range block")
	}
}

func TestReadWriteNilBufferFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfs")
	d, err := disk.Open(path, 4)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	if _, err := d.ReadBlock(0, nil); err == nil {
		t.Fatalf("expected failure reading into nil buffer")
	}
}

func TestNilDeviceIsSafe(t *testing.T) {
	var d *disk.Device
	d.Close() // must not panic
	if d.Blocks() != 0 || d.Reads() != 0 || d.Writes() != 0 {
		t.Fatalf("nil device counters should be zero")
	}
	buf := make([]byte, disk.BlockSize)
	if _, err := d.ReadBlock(0, buf); err == nil {
		t.Fatalf("expected failure on nil device")
	}
}

func TestOpenStorageWithInjectedFailures(t *testing.T) {
	s := disktest.New(4 * disk.BlockSize)
	d := disk.OpenStorage(s, 4)
	defer d.Close()

	buf := make([]byte, disk.BlockSize)
	if _, err := d.WriteBlock(0, buf); err != nil {
		t.Fatalf("first write should succeed: %v", err)
	}

	s.FailWritesAfter(0)
	if _, err := d.WriteBlock(1, buf); err == nil {
		t.Fatalf("expected injected write failure")
	}

	s.FailWritesAfter(-1)
	s.FailReadsAfter(0)
	if _, err := d.ReadBlock(0, buf); err == nil {
		t.Fatalf("expected injected read failure")
	}
}
