// Command rmmod unloads a kernel module, per original_source/src/rmmod.rs.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

func run(name string) error {
	if err := unix.DeleteModule(name, 0); err != nil {
		return errors.Wrapf(err, "unload module %s", name)
	}
	return nil
}

func main() {
	if len(os.Args) != 2 {
		logrus.Error("usage: rmmod <name>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
