// Command mount mounts a filesystem, or lists currently mounted
// filesystems, per original_source/src/mount.rs.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

const mtabPath = "/etc/mtab"

var (
	flagList     bool
	flagFSType   string
	flagReadonly bool
)

var rootCmd = &cobra.Command{
	Use:   "mount <device> <dir>",
	Short: "Mount a filesystem",
	Args:  cobra.MaximumNArgs(2),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagList, "list", "l", false, "list mounted filesystems")
	rootCmd.Flags().StringVarP(&flagFSType, "types", "t", "ext2", "filesystem type")
	rootCmd.Flags().BoolVarP(&flagReadonly, "read-only", "r", false, "mount read-only")
}

func run(cmd *cobra.Command, args []string) error {
	if flagList {
		data, err := os.ReadFile(mtabPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return errors.Wrap(err, "read mtab")
		}
		fmt.Print(string(data))
		return nil
	}

	var device, dir string
	switch len(args) {
	case 2:
		device, dir = args[0], args[1]
	default:
		return cmd.Usage()
	}

	var flags uintptr
	if flagReadonly {
		flags |= unix.MS_RDONLY
	}

	if err := unix.Mount(device, dir, flagFSType, flags, ""); err != nil {
		return errors.Wrapf(err, "mount %s on %s", device, dir)
	}

	if err := appendMtab(device, dir, flagFSType); err != nil {
		logrus.Warnf("mount: cannot update mtab: %v", err)
	}

	return nil
}

func appendMtab(device, dir, fsType string) error {
	f, err := os.OpenFile(mtabPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = fmt.Fprintf(f, "%s %s %s rw 0 0\n", device, dir, fsType)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
