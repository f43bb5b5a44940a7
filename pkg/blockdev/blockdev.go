// Package blockdev wraps a raw byte-addressable device (a block/character
// special file or a regular image file) with the narrow interface the
// partition-table and ext2 codecs need: a sector-count query and
// unaligned seek-read/seek-write at absolute byte offsets. No caching, no
// alignment assumptions beyond what the underlying device enforces.
package blockdev

import (
	"fmt"
	"io"
	"os"
)

// SectorSize is the logical sector size assumed throughout this module.
// 4K-native devices are out of scope (spec.md §9, Open Question c).
const SectorSize = 512

// Device is the facade the partition-table and ext2 codecs consume. *os.File
// satisfies io.ReaderAt/io.WriterAt directly; SizeInSectors is implemented
// by this package for any *os.File via Open.
type Device interface {
	io.ReaderAt
	io.WriterAt
	SizeInSectors() (uint64, error)
}

// File wraps an *os.File with the Device contract.
type File struct {
	*os.File
}

// Open opens path for reading and writing and returns a Device.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", path, err)
	}
	return &File{File: f}, nil
}

// Create creates (or truncates) a regular file of the given length in
// bytes and returns it as a Device, for building disk images rather than
// operating on real device nodes.
func Create(path string, length int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image %s: %w", path, err)
	}
	if err := f.Truncate(length); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("truncate image %s: %w", path, err)
	}
	return &File{File: f}, nil
}

// SizeInSectors returns the number of 512-byte sectors addressable on the
// device: for a block or character device it issues BLKGETSIZE64; for a
// regular file it divides the file length by the sector size; for
// anything else it returns 0, per spec.md §4.5.
func (f *File) SizeInSectors() (uint64, error) {
	return sizeInSectors(f.File)
}
