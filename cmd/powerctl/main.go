// Command powerctl powers off, reboots, halts, or suspends the system,
// per original_source/src/powerctl/power.rs.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: powerctl {poweroff|reboot|halt|suspend}")
		os.Exit(1)
	}

	var cmd int
	switch os.Args[1] {
	case "poweroff":
		cmd = unix.LINUX_REBOOT_CMD_POWER_OFF
	case "reboot":
		cmd = unix.LINUX_REBOOT_CMD_RESTART
	case "halt":
		cmd = unix.LINUX_REBOOT_CMD_HALT
	case "suspend":
		cmd = unix.LINUX_REBOOT_CMD_SW_SUSPEND
	default:
		fmt.Fprintln(os.Stderr, "Usage: powerctl {poweroff|reboot|halt|suspend}")
		os.Exit(1)
	}

	if err := unix.Reboot(cmd); err != nil {
		logrus.Errorf("powerctl: %v", err)
		os.Exit(1)
	}
}
