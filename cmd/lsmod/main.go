// Command lsmod lists loaded kernel modules from /proc/modules, per
// original_source/src/lsmod.rs.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const modulesPath = "/proc/modules"

func run() error {
	f, err := os.Open(modulesPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", modulesPath)
	}
	defer func() { _ = f.Close() }()

	fmt.Println("Name\tSize\tUsed by")

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		name, size, useCount, usedBy := fields[0], fields[1], fields[2], fields[3]
		fmt.Printf("%s %s  %s %s\n", name, size, useCount, usedBy)
	}

	return errors.Wrap(scanner.Err(), "read /proc/modules")
}

func main() {
	if err := run(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
