package parttable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyanza-systems/maestro-utils/pkg/guid"
)

func TestScriptRoundTripMBR(t *testing.T) {
	table := &PartitionTable{
		Kind: MBR,
		Partitions: []Partition{
			{Start: 2048, Size: 1000000, Type: MBRPartitionType(0x83), Bootable: true},
			{Start: 1002048, Size: 204800, Type: MBRPartitionType(0x82)},
		},
	}

	script := Serialize("/dev/sda", table)
	assert.Contains(t, script, "device: /dev/sda\n")
	assert.Contains(t, script, "unit: sectors\n")
	assert.Contains(t, script, "/dev/sda1 : start=2048, size=1000000, type=83, bootable\n")

	got, err := Deserialize(script)
	require.NoError(t, err)
	assert.Equal(t, table.Kind, got.Kind)
	assert.Equal(t, table.Partitions, got.Partitions)
}

func TestScriptRoundTripGPT(t *testing.T) {
	u, err := guid.Random()
	require.NoError(t, err)
	typ, err := guid.Parse("0fc63daf-8483-4772-8e79-3d69d8477de4")
	require.NoError(t, err)

	table := &PartitionTable{
		Kind: GPT,
		Partitions: []Partition{
			{Start: 2048, Size: 204800, Type: GPTPartitionType(typ), UUID: &u},
		},
	}

	script := Serialize("/dev/nvme0n1", table)
	got, err := Deserialize(script)
	require.NoError(t, err)
	assert.Equal(t, GPT, got.Kind)
	require.Len(t, got.Partitions, 1)
	assert.Equal(t, table.Partitions[0].Start, got.Partitions[0].Start)
	assert.Equal(t, table.Partitions[0].Type, got.Partitions[0].Type)
	assert.Equal(t, *table.Partitions[0].UUID, *got.Partitions[0].UUID)
}

func TestDeserializeRejectsUnknownField(t *testing.T) {
	script := "device: /dev/sda\nunit: sectors\n\n/dev/sda1 : start=2048, size=10, type=83, bogus=1\n"
	_, err := Deserialize(script)
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidScript, perr.Kind)
}

func TestDeserializeEmptyYieldsEmptyMBRTable(t *testing.T) {
	got, err := Deserialize("device: /dev/sda\nunit: sectors\n\n")
	require.NoError(t, err)
	assert.Equal(t, MBR, got.Kind)
	assert.Empty(t, got.Partitions)
}
