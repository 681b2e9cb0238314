package disk

import (
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/simplefs/simplefs/backend"
)

// DeviceType classifies what is backing a SimpleFS image.
type DeviceType int

const (
	DeviceTypeUnknown DeviceType = iota
	// DeviceTypeFile is a plain regular file holding the image.
	DeviceTypeFile
	// DeviceTypeBlockDevice is an OS block device (e.g. /dev/sdb).
	DeviceTypeBlockDevice
)

// DetermineDeviceType inspects f's mode to decide whether it is a regular
// file or an OS block device.
func DetermineDeviceType(f iofs.File) (DeviceType, error) {
	info, err := f.Stat()
	if err != nil {
		return DeviceTypeUnknown, fmt.Errorf("could not stat file: %w", err)
	}
	mode := info.Mode()
	switch {
	case mode.IsRegular():
		return DeviceTypeFile, nil
	case mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0:
		return DeviceTypeBlockDevice, nil
	default:
		return DeviceTypeUnknown, fmt.Errorf("device %s is neither a block device nor a regular file", info.Name())
	}
}

// validateBlockDevice checks that a real block device reports at least
// wantSize bytes of capacity. A block device cannot be resized the way an
// image file can, so Open refuses to proceed rather than silently operating
// on a too-small device. blockDeviceSize is platform-specific (Linux uses
// BLKGETSIZE64 via golang.org/x/sys/unix); on platforms without support the
// check is skipped and the caller-supplied block count is trusted.
func validateBlockDevice(storage backend.Storage, wantSize int64) error {
	osFile, err := storage.Sys()
	if err != nil {
		// Not an *os.File we can ioctl (e.g. a test double); nothing to
		// validate against.
		return nil
	}
	gotSize, ok, err := blockDeviceSize(osFile)
	if err != nil {
		return fmt.Errorf("querying block device size: %w", err)
	}
	if !ok {
		return nil
	}
	if gotSize < wantSize {
		return fmt.Errorf("block device reports %d bytes, need at least %d", gotSize, wantSize)
	}
	return nil
}
