package ext2

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyanza-systems/maestro-utils/pkg/blockdev"
)

func newTestDevice(t *testing.T, bytes int64) blockdev.Device {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fs.img")
	dev, err := blockdev.Create(path, bytes)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })
	return dev
}

func TestCreateThenIsPresent(t *testing.T) {
	dev := newTestDevice(t, 16*1024*1024)

	present, err := IsPresent(dev)
	require.NoError(t, err)
	assert.False(t, present)

	require.NoError(t, Create(dev, Config{VolumeLabel: "testvol"}))

	present, err = IsPresent(dev)
	require.NoError(t, err)
	assert.True(t, present)
}

func TestCreateWritesVolumeLabel(t *testing.T) {
	dev := newTestDevice(t, 16*1024*1024)
	require.NoError(t, Create(dev, Config{VolumeLabel: "maestro"}))

	buf := make([]byte, 16)
	_, err := dev.ReadAt(buf, SuperblockOffset+0x78)
	require.NoError(t, err)
	assert.Equal(t, "maestro", string(buf[:7]))
}

func TestCreateMultipleGroups(t *testing.T) {
	// 4096-byte blocks, 32768 blocks per group -> force several groups
	// with a disk a few groups wide.
	dev := newTestDevice(t, 400*1024*1024)
	require.NoError(t, Create(dev, Config{}))

	present, err := IsPresent(dev)
	require.NoError(t, err)
	assert.True(t, present)
}

func TestRootDirectoryEntries(t *testing.T) {
	dev := newTestDevice(t, 16*1024*1024)
	require.NoError(t, Create(dev, Config{}))

	l, err := computeLayout(Config{}, mustSizeInSectors(t, dev))
	require.NoError(t, err)

	buf := make([]byte, l.blockSize)
	_, err = dev.ReadAt(buf, groupOffset(l, 0, l.overheadPerGroup))
	require.NoError(t, err)

	// "." entry: inode 2, rec_len 12, name_len 1.
	assert.Equal(t, uint32(RootDirInode), leUint32(buf[0:4]))
	assert.Equal(t, uint16(12), leUint16(buf[4:6]))
	assert.Equal(t, uint16(1), leUint16(buf[6:8]))
	assert.Equal(t, ".", string(buf[8:9]))

	// ".." entry starts at offset 12 and consumes the rest of the block.
	assert.Equal(t, uint32(RootDirInode), leUint32(buf[12:16]))
	assert.Equal(t, uint16(l.blockSize-12), leUint16(buf[16:18]))
	assert.Equal(t, uint16(2), leUint16(buf[18:20]))
	assert.Equal(t, "..", string(buf[20:22]))
}

func TestCreateWithMinimumBlockSize(t *testing.T) {
	// 1024-byte blocks push s_first_data_block to 1; the superblock and
	// BGDT must land in different blocks (block 1 and block 2).
	dev := newTestDevice(t, 16*1024*1024)
	require.NoError(t, Create(dev, Config{BlockSize: 1024}))

	present, err := IsPresent(dev)
	require.NoError(t, err)
	assert.True(t, present)

	l, err := computeLayout(Config{BlockSize: 1024}, mustSizeInSectors(t, dev))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), l.firstDataBlock)

	bgdtOffset := groupOffset(l, 0, blocksPerSuperblockCopy)
	assert.Equal(t, int64(2048), bgdtOffset, "bgdt start block = (1024/block_size)+1 = 2")
	assert.NotEqual(t, int64(SuperblockOffset), bgdtOffset)

	buf := make([]byte, BlockGroupDescriptorSize)
	_, err = dev.ReadAt(buf, bgdtOffset)
	require.NoError(t, err)
	assert.NotEqual(t, make([]byte, BlockGroupDescriptorSize), buf, "bgdt entry 0 should be non-zero")
}

func TestCreateRejectsUnsupportedBlockSize(t *testing.T) {
	dev := newTestDevice(t, 16*1024*1024)
	require.Error(t, Create(dev, Config{BlockSize: 1500}))
}

func TestInodeAccountingMatchesBitmap(t *testing.T) {
	dev := newTestDevice(t, 16*1024*1024)
	require.NoError(t, Create(dev, Config{}))

	l, err := computeLayout(Config{}, mustSizeInSectors(t, dev))
	require.NoError(t, err)

	bitmap := make([]byte, l.blockSize)
	_, err = dev.ReadAt(bitmap, groupOffset(l, 0, blocksPerSuperblockCopy+l.blocksPerBGDT+l.blocksPerBlockBmp))
	require.NoError(t, err)

	used := 0
	for i := uint32(0); i < l.inodesPerGroup; i++ {
		if bitmap[i/8]&(1<<(i%8)) != 0 {
			used++
		}
	}
	assert.Equal(t, int(firstNonReservedInode-1), used, "bitmap should mark exactly the reserved inodes used")

	bgdt := make([]byte, BlockGroupDescriptorSize)
	_, err = dev.ReadAt(bgdt, groupOffset(l, 0, blocksPerSuperblockCopy))
	require.NoError(t, err)
	bgdtUnallocInodes := leUint16(bgdt[14:16])
	assert.Equal(t, l.inodesPerGroup-(firstNonReservedInode-1), uint32(bgdtUnallocInodes))

	sbBuf := make([]byte, 4)
	_, err = dev.ReadAt(sbBuf, SuperblockOffset+16)
	require.NoError(t, err)
	sbUnallocInodes := leUint32(sbBuf)
	assert.Equal(t, l.groups*l.inodesPerGroup-(firstNonReservedInode-1), sbUnallocInodes)
}

func mustSizeInSectors(t *testing.T, dev blockdev.Device) uint64 {
	t.Helper()
	n, err := dev.SizeInSectors()
	require.NoError(t, err)
	return n
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
