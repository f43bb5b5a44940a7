package parttable

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/nyanza-systems/maestro-utils/pkg/blockdev"
)

const (
	mbrSize         = blockdev.SectorSize
	mbrBootCodeSize = 440
	// mbrTailOffset is where the disk signature / entries / magic begin,
	// relative to the start of the MBR sector.
	mbrTailOffset    = mbrBootCodeSize
	mbrEntryOffset   = mbrBootCodeSize + 4 + 2 // boot code + disk signature + 2 zero bytes
	mbrEntrySize     = 16
	mbrEntryCount    = 4
	mbrSignatureLow  = 0x55
	mbrSignatureHigh = 0xAA

	mbrAttrBootable = 0x80

	// GPTProtectiveType is the MBR partition type byte (0xEE) used by the
	// protective MBR written ahead of a GPT table.
	GPTProtectiveType = 0xEE
)

// mbrEntry is the 16-byte on-disk layout of one MBR partition entry.
// CHS fields are always written as zero; readers must use LBA (spec.md §4.3).
type mbrEntry struct {
	Attrs         uint8
	CHSStart      [3]byte
	PartitionType uint8
	CHSEnd        [3]byte
	LBAStart      uint32
	SectorsCount  uint32
}

// ReadMBR reads and validates the MBR at the start of dev. It returns
// ErrInvalidSignature if the trailing 0x55 0xAA signature is absent.
func ReadMBR(dev blockdev.Device) (*PartitionTable, error) {
	buf := make([]byte, mbrSize)
	if _, err := dev.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("read mbr: %w", err)
	}

	if buf[510] != mbrSignatureLow || buf[511] != mbrSignatureHigh {
		return nil, newError(ErrInvalidSignature, "no mbr signature found")
	}

	table := &PartitionTable{Kind: MBR}

	for i := 0; i < mbrEntryCount; i++ {
		var entry mbrEntry
		off := mbrEntryOffset + i*mbrEntrySize
		r := bytes.NewReader(buf[off : off+mbrEntrySize])
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return nil, fmt.Errorf("decode mbr entry %d: %w", i, err)
		}

		if entry.SectorsCount == 0 {
			continue
		}

		table.Partitions = append(table.Partitions, Partition{
			Start:    uint64(entry.LBAStart),
			Size:     uint64(entry.SectorsCount),
			Type:     MBRPartitionType(entry.PartitionType),
			Bootable: entry.Attrs&mbrAttrBootable != 0,
		})
	}

	return table, nil
}

// buildMBREntries encodes up to 4 partitions (zero-padded) into their
// on-disk entry form, plus the trailing 0x55 0xAA signature, covering
// bytes [440:512) of the sector.
func buildMBREntries(partitions []Partition) ([]byte, error) {
	buf := new(bytes.Buffer)

	// 4-byte disk signature + 2 zero bytes, left as zero.
	if _, err := buf.Write(make([]byte, 6)); err != nil {
		return nil, err
	}

	for i := 0; i < mbrEntryCount; i++ {
		var entry mbrEntry
		if i < len(partitions) {
			p := partitions[i]
			entry.PartitionType = p.Type.MBRType
			entry.LBAStart = uint32(p.Start)
			entry.SectorsCount = uint32(p.Size)
			if p.Bootable {
				entry.Attrs = mbrAttrBootable
			}
		}

		if err := binary.Write(buf, binary.LittleEndian, &entry); err != nil {
			return nil, fmt.Errorf("encode mbr entry %d: %w", i, err)
		}
	}

	buf.WriteByte(mbrSignatureLow)
	buf.WriteByte(mbrSignatureHigh)

	return buf.Bytes(), nil
}

// WriteMBR writes table's partitions into the 4 MBR entry slots. Only
// bytes [440:512) are written — the boot code at [0:440) is left
// untouched, preserving whatever bootloader already occupies the device
// (spec.md §4.3).
func WriteMBR(dev blockdev.Device, table *PartitionTable) error {
	if table.Kind != MBR {
		return newError(ErrInvalidPartitionType, "WriteMBR called with a %s table", table.Kind)
	}
	if err := table.Validate(); err != nil {
		return err
	}

	tail, err := buildMBREntries(table.Partitions)
	if err != nil {
		return err
	}

	if _, err := dev.WriteAt(tail, mbrTailOffset); err != nil {
		return fmt.Errorf("write mbr: %w", err)
	}

	return nil
}

// writeProtectiveMBR writes a single-entry protective MBR (type 0xEE,
// starting at LBA 1, size min(u32::MAX, totalSectors-1), bootable) ahead
// of a GPT table, per spec.md §4.3.
func writeProtectiveMBR(dev blockdev.Device, totalSectors uint64) error {
	size := totalSectors - 1
	if size > 0xFFFFFFFF {
		size = 0xFFFFFFFF
	}

	tail, err := buildMBREntries([]Partition{{
		Start:    1,
		Size:     size,
		Type:     MBRPartitionType(GPTProtectiveType),
		Bootable: true,
	}})
	if err != nil {
		return err
	}

	if _, err := dev.WriteAt(tail, mbrTailOffset); err != nil {
		return fmt.Errorf("write protective mbr: %w", err)
	}

	return nil
}
