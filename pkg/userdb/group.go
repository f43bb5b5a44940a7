package userdb

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GroupPath is the default location of the group database.
const GroupPath = "/etc/group"

// GroupEntry is one line of /etc/group.
type GroupEntry struct {
	Name    string
	GID     uint32
	Members []string
}

// ParseGroup parses the colon-delimited /etc/group format.
func ParseGroup(data string) ([]GroupEntry, error) {
	var entries []GroupEntry

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) != 4 {
			return nil, errors.Errorf("malformed group line: %q", line)
		}

		gid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "group gid in %q", line)
		}

		var members []string
		if fields[3] != "" {
			members = strings.Split(fields[3], ",")
		}

		entries = append(entries, GroupEntry{
			Name:    fields[0],
			GID:     uint32(gid),
			Members: members,
		})
	}

	return entries, scanner.Err()
}

// FindGroup returns the group entry for name, and whether one was found.
func FindGroup(entries []GroupEntry, name string) (GroupEntry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return GroupEntry{}, false
}

// FindGroupByGID returns the group entry for gid, and whether one was found.
func FindGroupByGID(entries []GroupEntry, gid uint32) (GroupEntry, bool) {
	for _, e := range entries {
		if e.GID == gid {
			return e, true
		}
	}
	return GroupEntry{}, false
}

// FormatGroup renders a single group line in /etc/group format, without a
// trailing newline.
func FormatGroup(e GroupEntry) string {
	return e.Name + ":x:" + strconv.FormatUint(uint64(e.GID), 10) + ":" + strings.Join(e.Members, ",")
}

// FormatPasswd renders a single passwd line in /etc/passwd format, without
// a trailing newline.
func FormatPasswd(e PasswdEntry) string {
	return strings.Join([]string{
		e.LoginName, e.Password, strconv.FormatUint(uint64(e.UID), 10),
		strconv.FormatUint(uint64(e.GID), 10), e.GECOS, e.Home, e.Interpreter,
	}, ":")
}

// FormatShadow renders a single shadow line in /etc/shadow format, without
// a trailing newline. The minimum, maximum and warning aging fields are
// written as 0, 99999 and 7; the inactive, expire and reserved fields are
// left empty.
func FormatShadow(e ShadowEntry) string {
	return e.LoginName + ":" + e.PasswordHash + ":" + strconv.FormatInt(e.LastChange, 10) + ":0:99999:7:::"
}
