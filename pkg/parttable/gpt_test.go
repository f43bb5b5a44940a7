package parttable

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyanza-systems/maestro-utils/pkg/guid"
)

func newGPTTestTable(t *testing.T) *PartitionTable {
	t.Helper()

	u0, err := guid.Random()
	require.NoError(t, err)
	u1, err := guid.Random()
	require.NoError(t, err)

	typ0, err := guid.Parse("0fc63daf-8483-4772-8e79-3d69d8477de4")
	require.NoError(t, err)
	typ1, err := guid.Parse("0657fd6d-a4ab-43c4-84e5-0933c84b4f4f")
	require.NoError(t, err)

	return &PartitionTable{
		Kind: GPT,
		Partitions: []Partition{
			{Start: 2048, Size: 204800, Type: GPTPartitionType(typ0), UUID: &u0},
			{Start: 206848, Size: 2048, Type: GPTPartitionType(typ1), UUID: &u1},
		},
	}
}

func TestGPTRoundTrip(t *testing.T) {
	dev := newTestDevice(t, 1<<20)

	table := newGPTTestTable(t)
	require.NoError(t, WriteGPT(dev, table, rand.Reader))

	got, err := ReadGPT(dev)
	require.NoError(t, err)
	assert.Equal(t, GPT, got.Kind)
	require.Len(t, got.Partitions, 2)

	for i, p := range table.Partitions {
		assert.Equal(t, p.Start, got.Partitions[i].Start)
		assert.Equal(t, p.Size, got.Partitions[i].Size)
		assert.Equal(t, p.Type, got.Partitions[i].Type)
		assert.Equal(t, *p.UUID, *got.Partitions[i].UUID)
	}
}

func TestGPTAlternateRecovery(t *testing.T) {
	dev := newTestDevice(t, 1<<20)

	table := newGPTTestTable(t)
	require.NoError(t, WriteGPT(dev, table, rand.Reader))

	// Corrupt the primary header's signature; ReadGPT must fall back to
	// the alternate header at the last LBA.
	junk := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	_, err := dev.WriteAt(junk, int64(primaryHeaderLBA*512))
	require.NoError(t, err)

	got, err := ReadGPT(dev)
	require.NoError(t, err)
	require.Len(t, got.Partitions, 2)
}

func TestWriteGPTRequiresUUID(t *testing.T) {
	dev := newTestDevice(t, 1<<20)

	typ, err := guid.Parse("0fc63daf-8483-4772-8e79-3d69d8477de4")
	require.NoError(t, err)

	table := &PartitionTable{
		Kind:       GPT,
		Partitions: []Partition{{Start: 2048, Size: 2048, Type: GPTPartitionType(typ)}},
	}

	err = WriteGPT(dev, table, rand.Reader)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidPartitionType, perr.Kind)
}

func TestResolveLBA(t *testing.T) {
	lba, err := ResolveLBA(-1, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(999), lba)

	lba, err = ResolveLBA(100, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), lba)

	_, err = ResolveLBA(-2000, 1000)
	require.Error(t, err)
}
