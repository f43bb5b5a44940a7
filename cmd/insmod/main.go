// Command insmod loads a kernel module from a file, per
// original_source/src/insmod.rs.
package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

func run(path string, params string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open module %s", path)
	}
	defer func() { _ = f.Close() }()

	if err := unix.FinitModule(int(f.Fd()), params, 0); err != nil {
		return errors.Wrapf(err, "load module %s", path)
	}

	return nil
}

func main() {
	if len(os.Args) < 2 {
		logrus.Error("usage: insmod <filename> [params]")
		os.Exit(1)
	}

	params := strings.Join(os.Args[2:], " ")
	if err := run(os.Args[1], params); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
