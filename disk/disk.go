// Package disk implements the SimpleFS block device: a fixed-size array of
// BlockSize-byte blocks addressed by a 0-based block number, backed by a
// single image file (or any backend.Storage). It performs no caching and no
// interpretation of block contents; that is the Filesystem Core's job.
package disk

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/simplefs/simplefs/backend"
	"github.com/simplefs/simplefs/backend/file"
)

// BlockSize is the fixed size, in bytes, of every block on a SimpleFS image.
const BlockSize = 4096

// ErrDiskFailure is returned by ReadBlock/WriteBlock on any precondition
// violation or underlying I/O error. The original C API collapses all of
// these into a single DISK_FAILURE sentinel (-1). Errors from ReadBlock and
// WriteBlock wrap ErrDiskFailure; the underlying cause, if any, appears in
// the error text but is not wrapped.
var ErrDiskFailure = errors.New("disk: operation failed")

// Device is a handle to an open SimpleFS block device image.
type Device struct {
	storage backend.Storage
	blocks  uint32
	reads   uint64
	writes  uint64
	log     *logrus.Entry
}

// Blocks returns the total number of addressable blocks on the device.
func (d *Device) Blocks() uint32 {
	if d == nil {
		return 0
	}
	return d.blocks
}

// Reads returns the number of successful block reads since Open.
func (d *Device) Reads() uint64 {
	if d == nil {
		return 0
	}
	return d.reads
}

// Writes returns the number of successful block writes since Open.
func (d *Device) Writes() uint64 {
	if d == nil {
		return 0
	}
	return d.writes
}

// Open opens or creates the image file at path, resizing it to exactly
// blocks*BlockSize bytes, and returns a handle tracking I/O counters.
//
// If path already names a real block device rather than a regular file, the
// device is not resized (that would be meaningless) and blocks is instead
// validated against the device's reported size; see validateBlockDevice.
func Open(path string, blocks uint32) (*Device, error) {
	if blocks == 0 {
		return nil, fmt.Errorf("disk: blocks must be > 0")
	}

	size := int64(blocks) * BlockSize

	var storage backend.Storage
	_, statErr := os.Stat(path)
	switch {
	case errors.Is(statErr, os.ErrNotExist):
		var err error
		storage, err = file.CreateFromPath(path, size)
		if err != nil {
			return nil, fmt.Errorf("disk: create %s: %w", path, err)
		}
	case statErr != nil:
		return nil, fmt.Errorf("disk: stat %s: %w", path, statErr)
	default:
		f, err := os.OpenFile(path, os.O_RDWR, 0o600)
		if err != nil {
			return nil, fmt.Errorf("disk: open %s: %w", path, err)
		}
		deviceType, err := DetermineDeviceType(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("disk: %s: %w", path, err)
		}

		switch deviceType {
		case DeviceTypeBlockDevice:
			storage = file.New(f, false)
			if err := validateBlockDevice(storage, size); err != nil {
				_ = storage.Close()
				return nil, fmt.Errorf("disk: %s: %w", path, err)
			}
		case DeviceTypeFile:
			if err := f.Truncate(size); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("disk: resize %s to %d bytes: %w", path, size, err)
			}
			storage = file.New(f, false)
		default:
			_ = f.Close()
			return nil, fmt.Errorf("disk: %s: neither a regular file nor a block device", path)
		}
	}

	return &Device{
		storage: storage,
		blocks:  blocks,
		log:     logrus.WithField("component", "disk"),
	}, nil
}

// OpenStorage wraps an already-open backend.Storage (e.g. an in-memory test
// double, or a file opened by the caller) as a Device of the given size.
// No truncation or resizing is attempted; the caller is responsible for the
// backing store already being large enough.
func OpenStorage(storage backend.Storage, blocks uint32) *Device {
	return &Device{
		storage: storage,
		blocks:  blocks,
		log:     logrus.WithField("component", "disk"),
	}
}

// Close releases the underlying storage resource and reports the read/write
// counter totals. Safe to call on a nil Device.
func (d *Device) Close() {
	if d == nil || d.storage == nil {
		return
	}
	_ = d.storage.Close()
	fmt.Printf("Number of reads: %d\n", d.reads)
	fmt.Printf("Number of writes: %d\n", d.writes)
	d.log.WithFields(logrus.Fields{"reads": d.reads, "writes": d.writes}).Debug("disk closed")
	d.storage = nil
}

// ReadBlock copies BlockSize bytes from the given block into buf, which must
// be at least BlockSize bytes long. Fails if d is nil, block is out of
// range, or the underlying read fails.
func (d *Device) ReadBlock(block uint32, buf []byte) (int, error) {
	if !d.sane(block, buf) {
		return 0, ErrDiskFailure
	}
	n, err := d.storage.ReadAt(buf[:BlockSize], int64(block)*BlockSize)
	if err != nil || n != BlockSize {
		return 0, fmt.Errorf("%w: read block %d: %v", ErrDiskFailure, block, err)
	}
	d.reads++
	return n, nil
}

// WriteBlock writes BlockSize bytes from buf into the given block. Same
// validity preconditions as ReadBlock.
func (d *Device) WriteBlock(block uint32, buf []byte) (int, error) {
	if !d.sane(block, buf) {
		return 0, ErrDiskFailure
	}
	w, err := d.storage.Writable()
	if err != nil {
		return 0, fmt.Errorf("%w: write block %d: %v", ErrDiskFailure, block, err)
	}
	n, err := w.WriteAt(buf[:BlockSize], int64(block)*BlockSize)
	if err != nil || n != BlockSize {
		return 0, fmt.Errorf("%w: write block %d: %v", ErrDiskFailure, block, err)
	}
	d.writes++
	return n, nil
}

func (d *Device) sane(block uint32, buf []byte) bool {
	return d != nil && d.storage != nil && buf != nil && block < d.blocks
}
