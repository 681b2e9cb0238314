package filesystem

import (
	"testing"

	"github.com/simplefs/simplefs/disk"
	"github.com/simplefs/simplefs/disk/disktest"
)

func TestWriteFailsOnInjectedDeviceFailure(t *testing.T) {
	storage := disktest.New(10 * disk.BlockSize)
	dev := disk.OpenStorage(storage, 10)

	fs := &FileSystem{}
	if err := Format(fs, dev); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := Mount(fs, dev); err != nil {
		t.Fatalf("mount: %v", err)
	}
	n, err := fs.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	storage.FailWritesAfter(0)
	if _, err := fs.Write(n, []byte("x"), 0); err == nil {
		t.Fatal("expected write to fail once the device refuses writes")
	}
}

func TestReadFailsOnInjectedDeviceFailure(t *testing.T) {
	storage := disktest.New(10 * disk.BlockSize)
	dev := disk.OpenStorage(storage, 10)

	fs := &FileSystem{}
	if err := Format(fs, dev); err != nil {
		t.Fatalf("format: %v", err)
	}
	if err := Mount(fs, dev); err != nil {
		t.Fatalf("mount: %v", err)
	}
	n, err := fs.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := fs.Write(n, []byte("abc"), 0); err != nil {
		t.Fatalf("write: %v", err)
	}

	storage.FailReadsAfter(0)
	out := make([]byte, 3)
	if _, err := fs.Read(n, out, 0); err == nil {
		t.Fatal("expected read to fail once the device refuses reads")
	}
}

func TestFormatFailsOnInjectedWriteFailure(t *testing.T) {
	storage := disktest.New(10 * disk.BlockSize)
	storage.FailWritesAfter(0)
	dev := disk.OpenStorage(storage, 10)

	fs := &FileSystem{}
	if err := Format(fs, dev); err == nil {
		t.Fatal("expected format to fail once the device refuses writes")
	}
}
