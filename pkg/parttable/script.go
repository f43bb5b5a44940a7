package parttable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nyanza-systems/maestro-utils/pkg/guid"
)

// Serialize renders table as an sfdisk-compatible script naming device as
// the disk path, one line per partition of the form
// "<device><index> : start=N, size=N, type=T[, uuid=U][, bootable]".
// Grounded on original_source/fdisk/src/partition.rs's Partition::serialize.
func Serialize(device string, table *PartitionTable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "device: %s\n", device)
	b.WriteString("unit: sectors\n")
	b.WriteString("\n")

	for i, p := range table.Partitions {
		fmt.Fprintf(&b, "%s%d : start=%d, size=%d, type=%s", device, i+1, p.Start, p.Size, p.Type)
		if p.UUID != nil {
			fmt.Fprintf(&b, ", uuid=%s", p.UUID)
		}
		if p.Bootable {
			b.WriteString(", bootable")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Deserialize parses an sfdisk-compatible script back into a
// PartitionTable. The table Kind is inferred from each partition's type
// field: a GUID yields GPT, a two-digit hex byte yields MBR. A script
// with no partition lines yields the empty table of the default (MBR)
// kind.
func Deserialize(data string) (*PartitionTable, error) {
	lines := strings.Split(data, "\n")

	i := 0
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			break
		}
	}

	table := &PartitionTable{Kind: MBR}
	kindKnown := false

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			return nil, newError(ErrInvalidScript, "malformed partition line %q", line)
		}

		p := Partition{}
		fields := strings.Split(line[colon+1:], ",")
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}

			if f == "bootable" {
				p.Bootable = true
				continue
			}

			eq := strings.Index(f, "=")
			if eq < 0 {
				return nil, newError(ErrInvalidScript, "malformed field %q", f)
			}
			name := strings.TrimSpace(f[:eq])
			value := strings.TrimSpace(f[eq+1:])

			switch name {
			case "start":
				v, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return nil, newError(ErrInvalidScript, "invalid start %q: %v", value, err)
				}
				p.Start = v
			case "size":
				v, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return nil, newError(ErrInvalidScript, "invalid size %q: %v", value, err)
				}
				p.Size = v
			case "type":
				t, err := ParsePartitionType(value)
				if err != nil {
					return nil, err
				}
				p.Type = t
				if !kindKnown {
					table.Kind = t.Kind
					kindKnown = true
				}
			case "uuid":
				g, err := guid.Parse(value)
				if err != nil {
					return nil, newError(ErrInvalidScript, "invalid uuid %q: %v", value, err)
				}
				p.UUID = &g
			default:
				return nil, newError(ErrInvalidScript, "unknown field %q", name)
			}
		}

		table.Partitions = append(table.Partitions, p)
	}

	return table, nil
}
