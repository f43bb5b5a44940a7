// Command nologin refuses login, printing a configurable message, per
// original_source/src/nologin.rs.
package main

import (
	"os"
)

const nologinMessagePath = "/etc/nologin.txt"

const defaultMessage = "This account is currently not available.\n"

func main() {
	msg, err := os.ReadFile(nologinMessagePath)
	if err != nil {
		msg = []byte(defaultMessage)
	}
	_, _ = os.Stdout.Write(msg)
	os.Exit(1)
}
