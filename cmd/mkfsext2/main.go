// Command mkfsext2 initializes an ext2 filesystem on a device or image
// file, per original_source/mkfs/src/ext2.rs's command-line surface
// (block size, bytes-per-inode ratio, volume label, UUID).
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nyanza-systems/maestro-utils/pkg/blockdev"
	"github.com/nyanza-systems/maestro-utils/pkg/ext2"
	"github.com/nyanza-systems/maestro-utils/pkg/guid"
)

var (
	flagBlockSize     uint32
	flagBytesPerInode uint32
	flagLabel         string
	flagUUID          string
	flagForce         bool
)

var rootCmd = &cobra.Command{
	Use:   "mkfsext2 <device>",
	Short: "Create an ext2 filesystem on a device or image file",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().Uint32VarP(&flagBlockSize, "block-size", "b", 0, "block size in bytes (default 4096)")
	rootCmd.Flags().Uint32VarP(&flagBytesPerInode, "bytes-per-inode", "i", 0, "bytes per inode (default 16384)")
	rootCmd.Flags().StringVarP(&flagLabel, "label", "L", "", "volume label")
	rootCmd.Flags().StringVarP(&flagUUID, "uuid", "U", "", "filesystem UUID (random if omitted)")
	rootCmd.Flags().BoolVarP(&flagForce, "force", "F", false, "format even if the device already looks like an ext2 filesystem")
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	dev, err := blockdev.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	if !flagForce {
		present, err := ext2.IsPresent(dev)
		if err != nil {
			return errors.Wrap(err, "probe existing filesystem")
		}
		if present {
			return errors.Errorf("%s already has an ext2 filesystem; use --force to overwrite", path)
		}
	}

	cfg := ext2.Config{
		BlockSize:     flagBlockSize,
		BytesPerInode: flagBytesPerInode,
		VolumeLabel:   flagLabel,
	}

	if flagUUID != "" {
		id, err := guid.Parse(flagUUID)
		if err != nil {
			return errors.Wrapf(err, "parse --uuid %q", flagUUID)
		}
		cfg.UUID = &id
	}

	if err := ext2.Create(dev, cfg); err != nil {
		return errors.Wrapf(err, "create ext2 filesystem on %s", path)
	}

	fmt.Printf("mkfsext2: created ext2 filesystem on %s\n", path)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
