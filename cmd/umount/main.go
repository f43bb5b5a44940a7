// Command umount unmounts a filesystem, optionally recursively
// unmounting every mount point nested under the target, per
// original_source/src/umount.rs.
package main

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

const mtabPath = "/etc/mtab"

var flagRecursive bool

var rootCmd = &cobra.Command{
	Use:   "umount <dir>",
	Short: "Unmount a filesystem",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagRecursive, "recursive", "R", false, "unmount filesystems nested under dir too")
}

func run(cmd *cobra.Command, args []string) error {
	target := args[0]

	if !flagRecursive {
		return unmount(target)
	}

	data, err := os.ReadFile(mtabPath)
	if err != nil {
		return errors.Wrap(err, "read mtab")
	}

	var mountpoints []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mp := fields[1]
		if mp == target || strings.HasPrefix(mp, target+"/") {
			mountpoints = append(mountpoints, mp)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(mountpoints)))

	for _, mp := range mountpoints {
		if err := unmount(mp); err != nil {
			logrus.Errorf("umount: cannot unmount %q: %v", mp, err)
		}
	}

	return nil
}

func unmount(target string) error {
	if err := unix.Unmount(target, 0); err != nil {
		return errors.Wrapf(err, "unmount %s", target)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
