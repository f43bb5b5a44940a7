//go:build linux

package blockdev

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sizeInSectors dispatches on the file's mode: block/character devices go
// through BLKGETSIZE64, regular files fall back to the file length,
// anything else returns 0. Grounded on
// original_source/src/utils/disk.rs's get_disk_size and
// gokrazy-tools/cmd/gokr-packer/parttable_linux.go's BLKGETSIZE64 syscall
// idiom.
func sizeInSectors(f *os.File) (uint64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat device: %w", err)
	}

	mode := fi.Mode()
	switch {
	case mode&os.ModeDevice != 0:
		var size uint64
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKGETSIZE64, uintptr(unsafe.Pointer(&size)))
		if errno != 0 {
			return 0, fmt.Errorf("BLKGETSIZE64: %w", errno)
		}
		return size / SectorSize, nil
	case mode.IsRegular():
		return uint64(fi.Size()) / SectorSize, nil
	default:
		return 0, nil
	}
}

// RereadPartitions asks the kernel to re-read the partition table on the
// device at path via BLKRRPART. The "inappropriate ioctl for device"
// error (ENOTTY) is swallowed so the same code path also works against
// plain image files used in tests.
func RereadPartitions(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open device %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), unix.BLKRRPART, 0)
	if errno != 0 {
		if errno == unix.ENOTTY {
			return nil
		}
		return fmt.Errorf("BLKRRPART: %w", errno)
	}

	return nil
}
