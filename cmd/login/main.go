// Command login prompts a username and password and, on success,
// replaces itself with the user's shell, per original_source/src/login.rs.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/nyanza-systems/maestro-utils/pkg/userdb"
)

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return name
}

func promptLogin() string {
	fmt.Printf("\n%s login: ", hostname())
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		os.Exit(1)
	}
	return scanner.Text()
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

func authenticate(login, password string) (userdb.PasswdEntry, bool) {
	passwdData, err := os.ReadFile(userdb.PasswdPath)
	if err != nil {
		logrus.Errorf("login: cannot read passwd file: %v", err)
		os.Exit(1)
	}
	passwd, err := userdb.ParsePasswd(string(passwdData))
	if err != nil {
		logrus.Errorf("login: cannot parse passwd file: %v", err)
		os.Exit(1)
	}

	entry, ok := userdb.FindPasswd(passwd, login)
	if !ok {
		return userdb.PasswdEntry{}, false
	}

	if entry.Password != "" && entry.Password != "x" {
		return entry, userdb.CheckPassword(entry.Password, password)
	}

	shadowData, err := os.ReadFile(userdb.ShadowPath)
	if err != nil {
		logrus.Errorf("login: cannot read shadow file: %v", err)
		os.Exit(1)
	}
	shadow, err := userdb.ParseShadow(string(shadowData))
	if err != nil {
		logrus.Errorf("login: cannot parse shadow file: %v", err)
		os.Exit(1)
	}

	shadowEntry, ok := userdb.FindShadow(shadow, login)
	if !ok {
		return entry, false
	}

	return entry, userdb.CheckPassword(shadowEntry.PasswordHash, password)
}

// switchUser drops privileges to the authenticated user and execs their
// login shell, never returning on success.
func switchUser(logname string, user userdb.PasswdEntry) error {
	shell := user.Interpreter
	if shell == "" {
		shell = "/bin/sh"
	}

	path := "/usr/local/bin:/bin:/usr/bin"
	if user.UID == 0 {
		path = "/usr/local/sbin:/usr/local/bin:/sbin:/bin:/usr/sbin:/usr/bin"
	}

	termEnv := os.Getenv("TERM")
	if termEnv == "" {
		termEnv = "linux"
	}

	if err := unix.Setgid(int(user.GID)); err != nil {
		return err
	}
	if err := unix.Setuid(int(user.UID)); err != nil {
		return err
	}
	if err := os.Chdir(user.Home); err != nil {
		return err
	}

	env := []string{
		"HOME=" + user.Home,
		"USER=" + user.LoginName,
		"LOGNAME=" + logname,
		"TERM=" + termEnv,
		"SHELL=" + shell,
		"PATH=" + path,
		"MAIL=/var/spool/mail/" + user.LoginName,
	}

	return unix.Exec(shell, []string{shell}, env)
}

func main() {
	for {
		login := promptLogin()
		password := promptPassword()

		delay := time.NewTimer(time.Second)
		entry, correct := authenticate(login, password)
		<-delay.C

		if correct {
			if err := switchUser(login, entry); err != nil {
				logrus.Errorf("login: cannot initialize session: %v", err)
				os.Exit(1)
			}
			return
		}

		fmt.Println("Login incorrect")
	}
}
