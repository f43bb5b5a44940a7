// Package crc32table implements a table-driven Sarwate CRC32 with a
// configurable generator polynomial, the way the GPT on-disk format
// requires it (reflected-form polynomial, byte-wise table of 256 entries).
//
// github.com/nyanza-systems/maestro-utils/pkg/parttable uses the fixed
// IEEE polynomial (0xEDB88320) for its GPT header/entries checksums
// through the faster stdlib hash/crc32 table instead, since that
// polynomial never changes at runtime there. This package exists for
// callers (and tests) that need the generic build_table/compute contract
// over an arbitrary polynomial.
package crc32table

// Table is a 256-entry byte-wise CRC32 lookup table.
type Table [256]uint32

// BuildTable computes the lookup table for the given generator polynomial
// using the standard reflected (little-endian) construction: seed slot
// len/2 with 1, then for each halving of the seed index, propagate
// seed^table[j] into table[i^j] for every j stepping by 2*i.
func BuildTable(polynom uint32) *Table {
	var table Table

	i := len(table) / 2
	crc := uint32(1)

	for i > 0 {
		if crc&1 != 0 {
			crc = (crc >> 1) ^ polynom
		} else {
			crc >>= 1
		}

		for j := 0; j < len(table); j += 2 * i {
			table[i^j] = crc ^ table[j]
		}

		i >>= 1
	}

	return &table
}

// Compute returns the Sarwate CRC32 checksum of data using table.
func Compute(data []byte, table *Table) uint32 {
	crc := ^uint32(0)

	for _, b := range data {
		crc = table[(crc^uint32(b))&0xff] ^ (crc >> 8)
	}

	return ^crc
}
