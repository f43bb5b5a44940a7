// Package userdb parses /etc/passwd and /etc/shadow and checks a
// plaintext password against a stored hash.
//
// Grounded on original_source/src/login.rs's use of utils::user::{User,
// Shadow} (colon-delimited deserialize, falling back from the passwd
// field to the shadow file when the former carries no hash) and
// original_source/src/nologin.rs, src/umount.rs for the surrounding
// ambient-command shape. Password hashes here are bcrypt rather than
// glibc crypt(3) $id$ strings: bcrypt is what golang.org/x/crypto (a
// teacher dependency, previously only used for openpgp) actually
// offers, and DESIGN.md records this substitution.
package userdb

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswdPath is the default location of the password database.
	PasswdPath = "/etc/passwd"
	// ShadowPath is the default location of the shadow password database.
	ShadowPath = "/etc/shadow"
)

// PasswdEntry is one line of /etc/passwd.
type PasswdEntry struct {
	LoginName   string
	Password    string
	UID         uint32
	GID         uint32
	GECOS       string
	Home        string
	Interpreter string
}

// ShadowEntry is one line of /etc/shadow.
type ShadowEntry struct {
	LoginName    string
	PasswordHash string
	LastChange   int64
}

// ParsePasswd parses the colon-delimited /etc/passwd format.
func ParsePasswd(data string) ([]PasswdEntry, error) {
	var entries []PasswdEntry

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) != 7 {
			return nil, errors.Errorf("malformed passwd line: %q", line)
		}

		uid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "passwd uid in %q", line)
		}
		gid, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "passwd gid in %q", line)
		}

		entries = append(entries, PasswdEntry{
			LoginName:   fields[0],
			Password:    fields[1],
			UID:         uint32(uid),
			GID:         uint32(gid),
			GECOS:       fields[4],
			Home:        fields[5],
			Interpreter: fields[6],
		})
	}

	return entries, scanner.Err()
}

// ParseShadow parses the colon-delimited /etc/shadow format. Only the
// login name, password hash, and last-change day fields are kept; the
// remaining aging fields aren't consulted by any operation this package
// supports.
func ParseShadow(data string) ([]ShadowEntry, error) {
	var entries []ShadowEntry

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) < 2 {
			return nil, errors.Errorf("malformed shadow line: %q", line)
		}

		var lastChange int64
		if len(fields) > 2 && fields[2] != "" {
			v, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "shadow last-change in %q", line)
			}
			lastChange = v
		}

		entries = append(entries, ShadowEntry{
			LoginName:    fields[0],
			PasswordHash: fields[1],
			LastChange:   lastChange,
		})
	}

	return entries, scanner.Err()
}

// FindPasswd returns the passwd entry for login, and whether one was found.
func FindPasswd(entries []PasswdEntry, login string) (PasswdEntry, bool) {
	for _, e := range entries {
		if e.LoginName == login {
			return e, true
		}
	}
	return PasswdEntry{}, false
}

// FindShadow returns the shadow entry for login, and whether one was found.
func FindShadow(entries []ShadowEntry, login string) (ShadowEntry, bool) {
	for _, e := range entries {
		if e.LoginName == login {
			return e, true
		}
	}
	return ShadowEntry{}, false
}

// CheckPassword reports whether password matches hash. A hash of "x" (the
// passwd-file convention meaning "see the shadow file instead") or "!"/"*"
// (locked account) never matches.
func CheckPassword(hash, password string) bool {
	switch hash {
	case "", "x", "!", "*":
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword produces a new bcrypt hash suitable for a shadow entry.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}
