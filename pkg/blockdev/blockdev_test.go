package blockdev

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndSizeInSectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")

	dev, err := Create(path, 64*1024*1024)
	require.NoError(t, err)
	defer func() { _ = dev.Close() }()

	sectors, err := dev.SizeInSectors()
	require.NoError(t, err)
	assert.Equal(t, uint64(64*1024*1024/SectorSize), sectors)
}

func TestWriteReadAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")

	dev, err := Create(path, 4096)
	require.NoError(t, err)
	defer func() { _ = dev.Close() }()

	payload := []byte("hello, disk")
	_, err = dev.WriteAt(payload, 1024)
	require.NoError(t, err)

	buf := make([]byte, len(payload))
	_, err = dev.ReadAt(buf, 1024)
	require.NoError(t, err)
	assert.Equal(t, payload, buf)
}
