// Command dmesg prints the kernel's log buffer, per
// original_source/src/dmesg.rs.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/nyanza-systems/maestro-utils/pkg/kmsg"
)

const kmsgPath = "/dev/kmsg"

func run() error {
	fd, err := unix.Open(kmsgPath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", kmsgPath, err)
	}
	f := os.NewFile(uintptr(fd), kmsgPath)
	defer func() { _ = f.Close() }()

	buf := make([]byte, 8192)
	for {
		n, err := f.Read(buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return nil
			}
			if errors.Is(err, unix.EPIPE) {
				continue
			}
			return fmt.Errorf("read %s: %w", kmsgPath, err)
		}

		entry, perr := kmsg.Parse(string(buf[:n]))
		if perr != nil {
			continue
		}

		fmt.Printf("[%7d.%06d] %s\n", entry.TimeSinceBootMicro/1_000_000, entry.TimeSinceBootMicro%1_000_000, entry.Message)
	}
}

func main() {
	if err := run(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
