package parttable

import (
	"fmt"
	"sort"

	"github.com/nyanza-systems/maestro-utils/pkg/guid"
)

// mbrTypeNames is the MBR partition type catalog, carried over verbatim
// from original_source/fdisk/src/partition.rs's BTreeMap<u8, &str>.
var mbrTypeNames = map[byte]string{
	0x00: "Empty",
	0x01: "FAT12",
	0x02: "XENIX root",
	0x03: "XENIX usr",
	0x04: "FAT16 <32M",
	0x05: "Extended",
	0x06: "FAT16",
	0x07: "HPFS/NTFS/exFAT",
	0x08: "AIX",
	0x09: "AIX bootable",
	0x0a: "OS/2 Boot Manager",
	0x0b: "W95 FAT32",
	0x0c: "W95 FAT32 (LBA)",
	0x0e: "W95 FAT16 (LBA)",
	0x0f: "W95 Ext'd (LBA)",
	0x10: "OPUS",
	0x11: "Hidden FAT12",
	0x12: "Compaq diagnostics",
	0x14: "Hidden FAT16 <3",
	0x16: "Hidden FAT16",
	0x17: "Hidden HPFS/NTFS",
	0x18: "AST SmartSleep",
	0x1b: "Hidden W95 FAT3",
	0x1c: "Hidden W95 FAT3",
	0x1e: "Hidden W95 FAT1",
	0x24: "NEC DOS",
	0x27: "Hidden NTFS Win",
	0x39: "Plan 9",
	0x3c: "PartitionMagic",
	0x40: "Venix 80286",
	0x41: "PPC PReP Boot",
	0x42: "SFS",
	0x4d: "QNX4.x",
	0x4e: "QNX4.x 2nd part",
	0x4f: "QNX4.x 3rd part",
	0x50: "OnTrack DM",
	0x51: "OnTrack DM6 Aux",
	0x52: "CP/M",
	0x53: "OnTrack DM6 Aux",
	0x54: "OnTrackDM6",
	0x55: "EZ-Drive",
	0x56: "Golden Bow",
	0x5c: "Priam Edisk",
	0x61: "SpeedStor",
	0x63: "GNU HURD or Sys",
	0x64: "Novell Netware",
	0x65: "Novell Netware",
	0x70: "DiskSecure Mult",
	0x75: "PC/IX",
	0x80: "Old Minix",
	0x81: "Minix / old Linux",
	0x82: "Linux swap / Solaris",
	0x83: "Linux",
	0x84: "OS/2 hidden",
	0x85: "Linux extended",
	0x86: "NTFS volume set",
	0x87: "NTFS volume set",
	0x88: "Linux plaintext",
	0x8e: "Linux LVM",
	0x93: "Amoeba",
	0x94: "Amoeba BBT",
	0x9f: "BSD/OS",
	0xa0: "IBM Thinkpad",
	0xa5: "FreeBSD",
	0xa6: "OpenBSD",
	0xa7: "NeXTSTEP",
	0xa8: "Darwin UFS",
	0xa9: "NetBSD",
	0xab: "Darwin boot",
	0xaf: "HFS / HFS+",
	0xb7: "BSDI fs",
	0xb8: "BSDI swap",
	0xbb: "Boot Wizard hidden",
	0xbc: "Acronis FAT32",
	0xbe: "Solaris boot",
	0xbf: "Solaris",
	0xc1: "DRDOS/sec",
	0xc4: "DRDOS/sec",
	0xc6: "DRDOS/sec",
	0xc7: "Syrinx",
	0xda: "Non-FS data",
	0xdb: "CP/M / CTOS / .",
	0xde: "Dell Utility",
	0xdf: "BootIt",
	0xe0: "ST AVFS",
	0xe1: "DOS access",
	0xe3: "DOS R/O",
	0xe4: "SpeedStor",
	0xea: "Linux extended",
	0xeb: "BeOS fs",
	0xee: "GPT",
	0xef: "EFI (FAT-12/16/32)",
	0xf0: "Linux/PA-RISC bootloader",
	0xf1: "SpeedStor",
	0xf2: "DOS secondary",
	0xf4: "SpeedStor",
	0xf8: "EBBR protective",
	0xfb: "VMware VMFS",
	0xfc: "VMware VMKCORE",
	0xfd: "Linux raid auto",
	0xfe: "LANstep",
	0xff: "BBT",
}

// gptTypeNames is a catalog of well-known GPT partition type GUIDs. Unlike
// the MBR catalog this isn't copied from any single pack source: it's
// compiled from the widely published UEFI/Linux/BSD/Windows partition
// type GUID registry, the same reference data every fdisk-alike ships.
var gptTypeNames = map[guid.Guid]string{
	mustParseGUID("00000000-0000-0000-0000-000000000000"): "Unused entry",
	mustParseGUID("c12a7328-f81f-11d2-ba4b-00a0c93ec93b"): "EFI System",
	mustParseGUID("024dee41-33e7-11d3-9d69-0008c781f39f"): "MBR partition scheme",
	mustParseGUID("21686148-6449-6e6f-744e-656564454649"): "BIOS boot",
	mustParseGUID("d3bfe2de-3daf-11df-ba40-e3a556d89593"): "Intel Fast Flash",
	mustParseGUID("f4019732-066e-4e12-8273-346c5641494f"): "Sony boot partition",
	mustParseGUID("bfbfafe7-a34f-448a-9a5b-6213eb736c22"): "Lenovo boot partition",
	mustParseGUID("e3c9e316-0b5c-4db8-817d-f92df00215ae"): "Microsoft Reserved",
	mustParseGUID("ebd0a0a2-b9e5-4433-87c0-68b6b72699c7"): "Microsoft basic data",
	mustParseGUID("5808c8aa-7e8f-42e0-85d2-e1e90434cfb3"): "Microsoft LDM metadata",
	mustParseGUID("af9b60a0-1431-4f62-bc68-3311714a69ad"): "Microsoft LDM data",
	mustParseGUID("de94bba4-06d1-4d40-a16a-bfd50179d6ac"): "Windows Recovery Environment",
	mustParseGUID("37affc90-ef7d-4e96-91c3-2d7ae055b174"): "IBM General Parallel Fs",
	mustParseGUID("e75caf8f-f680-4cee-afa3-b001e56efc2d"): "Storage Spaces",
	mustParseGUID("558d43c5-a1ac-43c0-aac8-d1472b2923d1"): "Storage Replica",
	mustParseGUID("75894c1e-3aeb-11d3-b7c1-7b03a0000000"): "HP-UX data",
	mustParseGUID("e2a1e728-32e3-11d6-a682-7b03a0000000"): "HP-UX service",
	mustParseGUID("0fc63daf-8483-4772-8e79-3d69d8477de4"): "Linux filesystem",
	mustParseGUID("a19d880f-05fc-4d3b-a006-743f0f84911e"): "Linux RAID",
	mustParseGUID("0657fd6d-a4ab-43c4-84e5-0933c84b4f4f"): "Linux swap",
	mustParseGUID("e6d6d379-f507-44c2-a23c-238f2a3df928"): "Linux LVM",
	mustParseGUID("933ac7e1-2eb4-4f13-b844-0e14e2aef915"): "Linux /home",
	mustParseGUID("3b8f8425-20e0-4f3b-907f-1a25a76f98e8"): "Linux /srv",
	mustParseGUID("7ffec5c9-2d00-49b7-8941-3ea10a5586b7"): "Linux dm-crypt",
	mustParseGUID("ca7d7ccb-63ed-4c53-861c-1742536059cc"): "Linux LUKS",
	mustParseGUID("8da63339-0007-60c0-c436-083ac8230908"): "Linux reserved",
	mustParseGUID("83bd6b9d-7f41-11dc-be0b-001560b84f0f"): "FreeBSD boot",
	mustParseGUID("516e7cb4-6ecf-11d6-8ff8-00022d09712b"): "FreeBSD disklabel",
	mustParseGUID("516e7cb5-6ecf-11d6-8ff8-00022d09712b"): "FreeBSD swap",
	mustParseGUID("516e7cb6-6ecf-11d6-8ff8-00022d09712b"): "FreeBSD UFS",
	mustParseGUID("516e7cb8-6ecf-11d6-8ff8-00022d09712b"): "FreeBSD Vinum/RAID",
	mustParseGUID("516e7cba-6ecf-11d6-8ff8-00022d09712b"): "FreeBSD ZFS",
	mustParseGUID("48465300-0000-11aa-aa11-00306543ecac"): "Apple HFS/HFS+",
	mustParseGUID("55465300-0000-11aa-aa11-00306543ecac"): "Apple UFS",
	mustParseGUID("52414944-0000-11aa-aa11-00306543ecac"): "Apple RAID",
	mustParseGUID("52414944-5f4f-11aa-aa11-00306543ecac"): "Apple RAID offline",
	mustParseGUID("426f6f74-0000-11aa-aa11-00306543ecac"): "Apple boot",
	mustParseGUID("4c616265-6c00-11aa-aa11-00306543ecac"): "Apple label",
	mustParseGUID("6a82cb45-1dd2-11b2-99a6-080020736631"): "Solaris boot",
	mustParseGUID("6a85cf4d-1dd2-11b2-99a6-080020736631"): "Solaris root",
	mustParseGUID("6a87c46f-1dd2-11b2-99a6-080020736631"): "Solaris /usr & Apple ZFS",
	mustParseGUID("6a898cc3-1dd2-11b2-99a6-080020736631"): "Solaris /var",
	mustParseGUID("6a8b642b-1dd2-11b2-99a6-080020736631"): "Solaris swap",
	mustParseGUID("49f48d32-b10e-11dc-b99b-0019d1879648"): "NetBSD swap",
	mustParseGUID("49f48d5a-b10e-11dc-b99b-0019d1879648"): "NetBSD FFS",
	mustParseGUID("49f48d82-b10e-11dc-b99b-0019d1879648"): "NetBSD LFS",
	mustParseGUID("2db519c4-b10f-11dc-b99b-0019d1879648"): "NetBSD concatenated",
	mustParseGUID("fe3a3bd6-d8b8-11d1-9046-806e6f6e6963"): "VMware VMFS",
	mustParseGUID("9d275380-40ad-11db-bf97-000c2911d1b8"): "VMware reserved",
	mustParseGUID("aa31e02a-400f-11db-9590-000c2911d1b8"): "VMware VMFS",
}

func mustParseGUID(s string) guid.Guid {
	g, err := guid.Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// PrintPartitionTypes returns the known partition type catalog for kind as
// lines, one "<type> <name>" pair per line, sorted by type. Grounded on
// original_source/fdisk/src/partition.rs's print_partition_types (the MBR
// branch; the original's GPT branch is an unimplemented todo!(), filled
// in here from the ecosystem catalog).
func PrintPartitionTypes(kind Kind) []string {
	var lines []string

	switch kind {
	case MBR:
		keys := make([]byte, 0, len(mbrTypeNames))
		for k := range mbrTypeNames {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%02x %s", k, mbrTypeNames[k]))
		}
	case GPT:
		keys := make([]guid.Guid, 0, len(gptTypeNames))
		for k := range gptTypeNames {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s %s", k, gptTypeNames[k]))
		}
	}

	return lines
}

// PartitionTypeName returns the catalog name for t, or "" if unknown.
func PartitionTypeName(t PartitionType) string {
	if t.Kind == GPT {
		return gptTypeNames[t.GPTType]
	}
	return mbrTypeNames[t.MBRType]
}
