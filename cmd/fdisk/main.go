// Command fdisk lists, dumps, and applies MBR/GPT partition tables. It
// implements both the classic fdisk "list partitions" behavior and the
// sfdisk scripting workflow (dump a table as a script, apply a script
// back to a device), per original_source/fdisk/src/main.rs.
package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sisatech/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nyanza-systems/maestro-utils/pkg/blockdev"
	"github.com/nyanza-systems/maestro-utils/pkg/crc32table"
	"github.com/nyanza-systems/maestro-utils/pkg/parttable"
)

var flagGPT bool
var flagPolynomial uint32

func readTable(dev blockdev.Device) (*parttable.PartitionTable, error) {
	if t, err := parttable.ReadGPT(dev); err == nil {
		return t, nil
	}
	return parttable.ReadMBR(dev)
}

var rootCmd = &cobra.Command{
	Use:   "fdisk",
	Short: "Manipulate MBR and GPT disk partition tables",
}

var listCmd = &cobra.Command{
	Use:   "list <device>...",
	Short: "List the partition table of one or more devices",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			dev, err := blockdev.Open(path)
			if err != nil {
				return err
			}

			table, err := readTable(dev)
			_ = dev.Close()
			if err != nil {
				return errors.Wrapf(err, "read partition table on %s", path)
			}

			fmt.Printf("Disk %s: %s table, %d partitions\n", path, table.Kind, len(table.Partitions))

			out := tablewriter.NewWriter(os.Stdout)
			out.SetAlignment(tablewriter.ALIGN_LEFT)
			out.SetBorder(false)
			out.SetHeader([]string{"Device", "Start", "Size", "Type", "Name"})
			for i, p := range table.Partitions {
				out.Append([]string{
					fmt.Sprintf("%s%d", path, i+1),
					fmt.Sprintf("%d", p.Start),
					fmt.Sprintf("%d", p.Size),
					p.Type.String(),
					parttable.PartitionTypeName(p.Type),
				})
			}
			out.Render()
		}
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <device>",
	Short: "Dump a device's partition table as an sfdisk-compatible script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		dev, err := blockdev.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = dev.Close() }()

		table, err := readTable(dev)
		if err != nil {
			return errors.Wrapf(err, "read partition table on %s", path)
		}

		fmt.Print(parttable.Serialize(path, table))
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <device>",
	Short: "Read an sfdisk-compatible script from stdin and write it to device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		script, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "read script from stdin")
		}

		table, err := parttable.Deserialize(string(script))
		if err != nil {
			return errors.Wrap(err, "parse script")
		}

		dev, err := blockdev.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = dev.Close() }()

		switch table.Kind {
		case parttable.GPT:
			err = parttable.WriteGPT(dev, table, rand.Reader)
		default:
			err = parttable.WriteMBR(dev, table)
		}
		if err != nil {
			return errors.Wrapf(err, "write partition table to %s", path)
		}

		if err := blockdev.RereadPartitions(path); err != nil {
			logrus.Warnf("kernel did not re-read partitions on %s: %v", path, err)
		}

		return nil
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print the known partition type catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := parttable.MBR
		if flagGPT {
			kind = parttable.GPT
		}
		for _, line := range parttable.PrintPartitionTypes(kind) {
			fmt.Println(line)
		}
		return nil
	},
}

var crcCmd = &cobra.Command{
	Use:   "crc32 <file>",
	Short: "Compute the CRC32 checksum of a file's contents with a given generator polynomial",
	Long:  "Debug helper exposing pkg/crc32table's generic Sarwate engine, independent of the fixed IEEE polynomial the GPT codec uses internally.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "read %s", args[0])
		}

		table := crc32table.BuildTable(flagPolynomial)
		fmt.Printf("%08x\n", crc32table.Compute(data, table))
		return nil
	},
}

func init() {
	typesCmd.Flags().BoolVar(&flagGPT, "gpt", false, "print the GPT type GUID catalog instead of MBR")
	crcCmd.Flags().Uint32Var(&flagPolynomial, "polynomial", 0xEDB88320, "reflected generator polynomial")

	rootCmd.AddCommand(listCmd, dumpCmd, applyCmd, typesCmd, crcCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
