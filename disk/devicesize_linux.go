package disk

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// blockDeviceSize reports f's size in bytes via the BLKGETSIZE64 ioctl. ok
// is false if f is not a block device, in which case the caller should skip
// the capacity check and trust the caller-supplied block count.
func blockDeviceSize(f *os.File) (size int64, ok bool, err error) {
	conn, err := f.SyscallConn()
	if err != nil {
		return 0, false, fmt.Errorf("getting raw connection: %w", err)
	}

	var sizeBytes uint64
	var ioctlErr unix.Errno
	ctrlErr := conn.Control(func(fd uintptr) {
		_, _, ioctlErr = unix.Syscall(unix.SYS_IOCTL, fd, unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&sizeBytes)))
	})
	if ctrlErr != nil {
		return 0, false, fmt.Errorf("control: %w", ctrlErr)
	}
	if ioctlErr != 0 {
		// Not a block device (or the ioctl isn't supported here); let
		// the caller trust the stated block count instead.
		return 0, false, nil
	}
	return int64(sizeBytes), true, nil
}
