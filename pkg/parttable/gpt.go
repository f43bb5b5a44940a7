package parttable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/nyanza-systems/maestro-utils/pkg/blockdev"
	"github.com/nyanza-systems/maestro-utils/pkg/guid"
)

// GPT on-disk layout constants, grounded on
// direktiv-vorteil/pkg/vimg/partitions.go and generalized from its fixed
// two-partition layout to an arbitrary-count one.
const (
	gptSignature = 0x5452415020494645 // "EFI PART", little-endian

	// GPTHeaderSize is the number of header bytes that participate in the
	// header CRC32 (spec.md §4.3) — the remainder of the sector is
	// reserved and zeroed.
	GPTHeaderSize = 92

	// GPTEntrySize is the fixed size of one partition entry.
	GPTEntrySize = 128

	// MaximumGPTEntries is the number of entry slots in the partition
	// entry array, regardless of how many are populated.
	MaximumGPTEntries = 128

	gptEntriesSectors = MaximumGPTEntries * GPTEntrySize / blockdev.SectorSize

	primaryHeaderLBA  = 1
	primaryEntriesLBA = primaryHeaderLBA + 1
)

// gptHeader is the on-disk GPT header. It occupies exactly one sector:
// 92 meaningful bytes followed by 420 reserved zero bytes, matching the
// teacher's padded layout so a single binary.Write covers the sector.
type gptHeader struct {
	Signature                uint64
	Revision                 uint32
	HeaderSize               uint32
	HeaderCRC32              uint32
	Reserved                 uint32
	MyLBA                    uint64
	AlternateLBA             uint64
	FirstUsableLBA           uint64
	LastUsableLBA            uint64
	DiskGUID                 [16]byte
	PartitionEntryLBA        uint64
	NumberOfPartitionEntries uint32
	SizeOfPartitionEntry     uint32
	PartitionEntryArrayCRC32 uint32
	_                        [420]byte
}

// gptEntry is the on-disk layout of one GPT partition entry.
type gptEntry struct {
	TypeGUID      [16]byte
	PartitionGUID [16]byte
	FirstLBA      uint64
	LastLBA       uint64
	Attributes    uint64
	Name          [72]byte
}

func headerCRC(hdr gptHeader) uint32 {
	hdr.HeaderCRC32 = 0

	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, hdr)

	crc := crc32.NewIEEE()
	_, _ = io.CopyN(crc, bytes.NewReader(buf.Bytes()), GPTHeaderSize)

	return crc.Sum32()
}

func entriesCRC(entries []byte) uint32 {
	crc := crc32.NewIEEE()
	_, _ = crc.Write(entries)
	_, _ = io.CopyN(crc, blockdev.Zeroes, MaximumGPTEntries*GPTEntrySize-int64(len(entries)))
	return crc.Sum32()
}

func gptLayout(totalSectors uint64) (backupEntriesLBA, backupHeaderLBA, firstUsableLBA, lastUsableLBA uint64) {
	backupHeaderLBA = totalSectors - 1
	backupEntriesLBA = backupHeaderLBA - gptEntriesSectors
	firstUsableLBA = uint64(primaryEntriesLBA + gptEntriesSectors)
	lastUsableLBA = backupEntriesLBA - 1
	return
}

// ReadGPT reads the primary GPT header and entry array from dev. If the
// primary header's signature or checksum is invalid, it falls back to
// the alternate header at the last LBA of the disk (spec.md §4.3's
// "alternate-header recovery" scenario) before giving up.
func ReadGPT(dev blockdev.Device) (*PartitionTable, error) {
	totalSectors, err := dev.SizeInSectors()
	if err != nil {
		return nil, fmt.Errorf("determine device size: %w", err)
	}

	hdr, err := readGPTHeaderAt(dev, primaryHeaderLBA)
	if err != nil {
		hdr, err = readGPTHeaderAt(dev, totalSectors-1)
		if err != nil {
			return nil, err
		}
	}

	// hdr.PartitionEntryLBA is stored as an unsigned wire field, but some
	// tools encode a negative entries_start (per spec.md §3's
	// negative-LBA addressing) as its two's-complement bit pattern;
	// reinterpret and resolve it the same way script/MBR offsets are.
	entriesLBA, err := ResolveLBA(int64(hdr.PartitionEntryLBA), totalSectors)
	if err != nil {
		return nil, fmt.Errorf("resolve gpt entries lba: %w", err)
	}

	entriesLen := int64(hdr.NumberOfPartitionEntries) * int64(hdr.SizeOfPartitionEntry)
	entriesBuf := make([]byte, entriesLen)
	if _, err := dev.ReadAt(entriesBuf, int64(entriesLBA*blockdev.SectorSize)); err != nil {
		return nil, fmt.Errorf("read gpt entries: %w", err)
	}

	if entriesCRC(entriesBuf) != hdr.PartitionEntryArrayCRC32 {
		return nil, newError(ErrInvalidChecksum, "gpt entry array checksum mismatch")
	}

	table := &PartitionTable{Kind: GPT}

	for i := 0; i < int(hdr.NumberOfPartitionEntries); i++ {
		var entry gptEntry
		off := i * GPTEntrySize
		r := bytes.NewReader(entriesBuf[off : off+GPTEntrySize])
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return nil, fmt.Errorf("decode gpt entry %d: %w", i, err)
		}

		if entry.TypeGUID == [16]byte{} {
			continue
		}

		partUUID := guid.Guid(entry.PartitionGUID)
		table.Partitions = append(table.Partitions, Partition{
			Start: entry.FirstLBA,
			Size:  entry.LastLBA - entry.FirstLBA + 1,
			Type:  GPTPartitionType(guid.Guid(entry.TypeGUID)),
			UUID:  &partUUID,
		})
	}

	return table, nil
}

func readGPTHeaderAt(dev blockdev.Device, lba uint64) (*gptHeader, error) {
	buf := make([]byte, blockdev.SectorSize)
	if _, err := dev.ReadAt(buf, int64(lba*blockdev.SectorSize)); err != nil {
		return nil, fmt.Errorf("read gpt header at lba %d: %w", lba, err)
	}

	var hdr gptHeader
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("decode gpt header: %w", err)
	}

	if hdr.Signature != gptSignature {
		return nil, newError(ErrInvalidSignature, "no gpt signature at lba %d", lba)
	}
	if headerCRC(hdr) != hdr.HeaderCRC32 {
		return nil, newError(ErrInvalidChecksum, "gpt header checksum mismatch at lba %d", lba)
	}

	return &hdr, nil
}

// WriteGPT writes a protective MBR, primary GPT header and entries, and
// alternate entries and header to dev, per spec.md §4.3. Each partition
// must already carry a non-zero UUID; callers that don't supply one
// should call guid.Random first. The disk GUID is drawn from rng (pass
// crypto/rand.Reader for normal use; a seeded reader makes the output
// reproducible in tests).
func WriteGPT(dev blockdev.Device, table *PartitionTable, rng io.Reader) error {
	if table.Kind != GPT {
		return newError(ErrInvalidPartitionType, "WriteGPT called with a %s table", table.Kind)
	}
	if err := table.Validate(); err != nil {
		return err
	}

	totalSectors, err := dev.SizeInSectors()
	if err != nil {
		return fmt.Errorf("determine device size: %w", err)
	}

	if err := writeProtectiveMBR(dev, totalSectors); err != nil {
		return err
	}

	diskGUID, err := guid.RandomFrom(rng)
	if err != nil {
		return fmt.Errorf("generate disk guid: %w", err)
	}

	entries := new(bytes.Buffer)
	for _, p := range table.Partitions {
		entry := gptEntry{
			TypeGUID: p.Type.GPTType,
			FirstLBA: p.Start,
			LastLBA:  p.Start + p.Size - 1,
		}
		entry.PartitionGUID = *p.UUID
		if err := binary.Write(entries, binary.LittleEndian, &entry); err != nil {
			return fmt.Errorf("encode gpt entry: %w", err)
		}
	}
	entriesBytes := entries.Bytes()
	entriesChecksum := entriesCRC(entriesBytes)

	backupEntriesLBA, backupHeaderLBA, firstUsableLBA, lastUsableLBA := gptLayout(totalSectors)

	primary := gptHeader{
		Signature:                gptSignature,
		Revision:                 0x00010000,
		HeaderSize:               GPTHeaderSize,
		MyLBA:                    primaryHeaderLBA,
		AlternateLBA:             backupHeaderLBA,
		FirstUsableLBA:           firstUsableLBA,
		LastUsableLBA:            lastUsableLBA,
		DiskGUID:                 diskGUID,
		PartitionEntryLBA:        primaryEntriesLBA,
		NumberOfPartitionEntries: MaximumGPTEntries,
		SizeOfPartitionEntry:     GPTEntrySize,
		PartitionEntryArrayCRC32: entriesChecksum,
	}
	primary.HeaderCRC32 = headerCRC(primary)

	backup := primary
	backup.MyLBA = backupHeaderLBA
	backup.AlternateLBA = primaryHeaderLBA
	backup.PartitionEntryLBA = backupEntriesLBA
	backup.HeaderCRC32 = headerCRC(backup)

	if err := writeGPTHeader(dev, primaryHeaderLBA, primary); err != nil {
		return err
	}
	if err := writeGPTEntries(dev, primaryEntriesLBA, entriesBytes); err != nil {
		return err
	}
	if err := writeGPTEntries(dev, backupEntriesLBA, entriesBytes); err != nil {
		return err
	}
	if err := writeGPTHeader(dev, backupHeaderLBA, backup); err != nil {
		return err
	}

	return nil
}

func writeGPTHeader(dev blockdev.Device, lba uint64, hdr gptHeader) error {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("encode gpt header: %w", err)
	}
	if _, err := dev.WriteAt(buf.Bytes(), int64(lba*blockdev.SectorSize)); err != nil {
		return fmt.Errorf("write gpt header at lba %d: %w", lba, err)
	}
	return nil
}

func writeGPTEntries(dev blockdev.Device, lba uint64, entries []byte) error {
	buf := make([]byte, MaximumGPTEntries*GPTEntrySize)
	copy(buf, entries)
	if _, err := dev.WriteAt(buf, int64(lba*blockdev.SectorSize)); err != nil {
		return fmt.Errorf("write gpt entries at lba %d: %w", lba, err)
	}
	return nil
}

// ResolveLBA translates a signed LBA into an absolute sector index.
// Non-negative values pass through unchanged; negative values count
// back from the end of the disk, so -1 is the disk's last sector
// (spec.md §3's negative-LBA addressing).
func ResolveLBA(lba int64, totalSectors uint64) (uint64, error) {
	if lba >= 0 {
		if uint64(lba) >= totalSectors {
			return 0, newError(ErrOutOfRange, "lba %d is out of range for a %d-sector disk", lba, totalSectors)
		}
		return uint64(lba), nil
	}

	if uint64(-lba) > totalSectors {
		return 0, newError(ErrOutOfRange, "lba %d is out of range for a %d-sector disk", lba, totalSectors)
	}

	return totalSectors + uint64(lba), nil
}
