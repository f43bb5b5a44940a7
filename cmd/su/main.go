// Command su runs a shell (or command) as a substitute user, per
// original_source/src/su.rs.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/nyanza-systems/maestro-utils/pkg/userdb"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, " su [user] [-c command]")
}

func promptPassword() string {
	fmt.Print("Password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		os.Exit(1)
	}
	return string(pass)
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		printUsage()
		os.Exit(0)
	}

	login := "root"
	if len(args) > 0 && args[0][0] != '-' {
		login = args[0]
		args = args[1:]
	}

	passwdData, err := os.ReadFile(userdb.PasswdPath)
	if err != nil {
		logrus.Errorf("su: cannot read passwd file: %v", err)
		os.Exit(1)
	}
	passwd, err := userdb.ParsePasswd(string(passwdData))
	if err != nil {
		logrus.Errorf("su: cannot parse passwd file: %v", err)
		os.Exit(1)
	}

	entry, ok := userdb.FindPasswd(passwd, login)
	if !ok {
		fmt.Fprintln(os.Stderr, "su: Authentication failure")
		os.Exit(1)
	}

	password := promptPassword()

	correct := userdb.CheckPassword(entry.Password, password)
	if !correct {
		shadowData, err := os.ReadFile(userdb.ShadowPath)
		if err == nil {
			if shadow, err := userdb.ParseShadow(string(shadowData)); err == nil {
				if shadowEntry, ok := userdb.FindShadow(shadow, login); ok {
					correct = userdb.CheckPassword(shadowEntry.PasswordHash, password)
				}
			}
		}
	}

	if !correct {
		fmt.Fprintln(os.Stderr, "su: Authentication failure")
		os.Exit(1)
	}

	shell := entry.Interpreter
	if shell == "" {
		shell = "/bin/sh"
	}

	if err := unix.Setgid(int(entry.GID)); err != nil {
		logrus.Errorf("su: %v", err)
		os.Exit(1)
	}
	if err := unix.Setuid(int(entry.UID)); err != nil {
		logrus.Errorf("su: %v", err)
		os.Exit(1)
	}

	argv := append([]string{shell}, args...)
	env := append(os.Environ(), "HOME="+entry.Home, "USER="+entry.LoginName, "LOGNAME="+entry.LoginName)

	if err := unix.Exec(shell, argv, env); err != nil {
		logrus.Errorf("su: cannot run shell %q: %v", shell, err)
		os.Exit(1)
	}
}
