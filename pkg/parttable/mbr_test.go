package parttable

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyanza-systems/maestro-utils/pkg/blockdev"
)

func newTestDevice(t *testing.T, sectors int64) *blockdev.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	dev, err := blockdev.Create(path, sectors*blockdev.SectorSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })
	return dev
}

func TestMBRRoundTrip(t *testing.T) {
	dev := newTestDevice(t, 2048)

	table := &PartitionTable{
		Kind: MBR,
		Partitions: []Partition{
			{Start: 2048, Size: 1000, Type: MBRPartitionType(0x83), Bootable: true},
			{Start: 3048, Size: 500, Type: MBRPartitionType(0x82)},
		},
	}

	require.NoError(t, WriteMBR(dev, table))

	got, err := ReadMBR(dev)
	require.NoError(t, err)
	assert.Equal(t, MBR, got.Kind)
	require.Len(t, got.Partitions, 2)
	assert.Equal(t, table.Partitions[0].Start, got.Partitions[0].Start)
	assert.Equal(t, table.Partitions[0].Size, got.Partitions[0].Size)
	assert.Equal(t, table.Partitions[0].Type, got.Partitions[0].Type)
	assert.True(t, got.Partitions[0].Bootable)
	assert.False(t, got.Partitions[1].Bootable)
}

func TestMBRPreservesBootCode(t *testing.T) {
	dev := newTestDevice(t, 2048)

	bootcode := make([]byte, 440)
	for i := range bootcode {
		bootcode[i] = byte(i)
	}
	_, err := dev.WriteAt(bootcode, 0)
	require.NoError(t, err)

	require.NoError(t, WriteMBR(dev, &PartitionTable{Kind: MBR}))

	got := make([]byte, 440)
	_, err = dev.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, bootcode, got)
}

func TestReadMBRInvalidSignature(t *testing.T) {
	dev := newTestDevice(t, 2048)

	_, err := ReadMBR(dev)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidSignature, perr.Kind)
}

func TestWriteMBRTooManyPartitions(t *testing.T) {
	dev := newTestDevice(t, 2048)

	table := &PartitionTable{Kind: MBR}
	for i := 0; i < 5; i++ {
		table.Partitions = append(table.Partitions, Partition{Start: 2048, Size: 10, Type: MBRPartitionType(0x83)})
	}

	err := WriteMBR(dev, table)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrTooManyPartitions, perr.Kind)
}
