//go:build !linux

package blockdev

import "os"

// sizeInSectors on non-Linux platforms only supports regular files; the
// BLKGETSIZE64/BLKRRPART ioctls are Linux-specific and the CLI front-ends
// in this repository are themselves Linux-only (they wrap Linux syscalls
// throughout), but the codec packages stay buildable elsewhere for tests
// run against plain image files.
func sizeInSectors(f *os.File) (uint64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if !fi.Mode().IsRegular() {
		return 0, nil
	}
	return uint64(fi.Size()) / SectorSize, nil
}

// RereadPartitions is a no-op on non-Linux platforms.
func RereadPartitions(path string) error {
	return nil
}
