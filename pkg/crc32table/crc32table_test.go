package crc32table

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// IEEE is the reflected generator polynomial GPT/ext4 checksums use.
const IEEE = 0xEDB88320

func TestComputeKnownVectors(t *testing.T) {
	table := BuildTable(IEEE)

	assert.Equal(t, uint32(0), Compute(nil, table))
	assert.Equal(t, uint32(0xcbf43926), Compute([]byte("123456789"), table))
}

// TestSelfCheck covers the property from spec.md §8: appending the
// little-endian CRC of a buffer to itself yields a buffer whose CRC is 0.
func TestSelfCheck(t *testing.T) {
	polys := []uint32{IEEE, 0x04C11DB7, 0x1EDC6F41, 0xA833982B}

	rng := rand.New(rand.NewSource(1))

	for _, poly := range polys {
		table := BuildTable(poly)

		for i := 0; i < 50; i++ {
			buf := make([]byte, rng.Intn(512))
			_, err := rng.Read(buf)
			require.NoError(t, err)

			crc := Compute(buf, table)

			var crcBytes [4]byte
			binary.LittleEndian.PutUint32(crcBytes[:], crc)

			extended := append(append([]byte{}, buf...), crcBytes[:]...)
			assert.Equal(t, uint32(0), Compute(extended, table))
		}
	}
}

func TestBuildTableDeterministic(t *testing.T) {
	a := BuildTable(IEEE)
	b := BuildTable(IEEE)
	assert.Equal(t, *a, *b)
}
