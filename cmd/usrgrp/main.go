// Command usrgrp implements useradd, userdel, groupadd, and groupdel
// against /etc/passwd, /etc/shadow, and /etc/group, per
// original_source/usrgrp/src/main.rs's Args enum (usermod/groupmod are
// left as the original's own unimplemented TODOs).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nyanza-systems/maestro-utils/pkg/userdb"
)

var (
	flagUID        uint32
	flagGID        string
	flagHome       string
	flagShell      string
	flagCreateHome bool
	flagUserGroup  bool
	flagGroupGID   uint32
	flagForce      bool
	flagRemoveHome bool
)

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

func writeLines(path string, lines []string) error {
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	return errors.Wrapf(os.WriteFile(path, []byte(content), 0o644), "write %s", path)
}

var useraddCmd = &cobra.Command{
	Use:   "useradd <name>",
	Short: "Create a new user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		passwdData, err := readFile(userdb.PasswdPath)
		if err != nil {
			return err
		}
		passwd, err := userdb.ParsePasswd(passwdData)
		if err != nil {
			return err
		}
		if _, ok := userdb.FindPasswd(passwd, name); ok {
			return errors.Errorf("user %q already exists", name)
		}

		groupData, err := readFile(userdb.GroupPath)
		if err != nil {
			return err
		}
		groups, err := userdb.ParseGroup(groupData)
		if err != nil {
			return err
		}

		var gid uint32
		switch {
		case flagGID != "" && !flagUserGroup:
			g, err := resolveGroup(groups, flagGID)
			if err != nil {
				return err
			}
			gid = g
		default:
			gid = nextGID(groups)
			groups = append(groups, userdb.GroupEntry{Name: name, GID: gid})
		}

		home := flagHome
		if home == "" {
			home = filepath.Join("/home", name)
		}
		shell := flagShell
		if shell == "" {
			shell = "/bin/sh"
		}

		passwd = append(passwd, userdb.PasswdEntry{
			LoginName: name, Password: "x", UID: flagUID, GID: gid,
			GECOS: "", Home: home, Interpreter: shell,
		})

		if err := writePasswdAndGroup(passwd, groups); err != nil {
			return err
		}

		shadowData, err := readFile(userdb.ShadowPath)
		if err != nil {
			return err
		}
		shadow, err := userdb.ParseShadow(shadowData)
		if err != nil {
			return err
		}
		shadow = append(shadow, userdb.ShadowEntry{LoginName: name, PasswordHash: "!"})
		if err := writeShadow(shadow); err != nil {
			return err
		}

		if flagCreateHome {
			if err := os.MkdirAll(home, 0o755); err != nil {
				return errors.Wrapf(err, "create home %s", home)
			}
		}

		fmt.Printf("useradd: created user %q (uid=%d gid=%d)\n", name, flagUID, gid)
		return nil
	},
}

var userdelCmd = &cobra.Command{
	Use:   "userdel <name>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		passwdData, err := readFile(userdb.PasswdPath)
		if err != nil {
			return err
		}
		passwd, err := userdb.ParsePasswd(passwdData)
		if err != nil {
			return err
		}

		entry, ok := userdb.FindPasswd(passwd, name)
		if !ok {
			return errors.Errorf("user %q does not exist", name)
		}

		kept := passwd[:0]
		for _, e := range passwd {
			if e.LoginName != name {
				kept = append(kept, e)
			}
		}

		lines := make([]string, len(kept))
		for i, e := range kept {
			lines[i] = userdb.FormatPasswd(e)
		}
		if err := writeLines(userdb.PasswdPath, lines); err != nil {
			return err
		}

		if flagRemoveHome && entry.Home != "" {
			if err := os.RemoveAll(entry.Home); err != nil {
				logrus.Warnf("userdel: cannot remove home %s: %v", entry.Home, err)
			}
		}

		fmt.Printf("userdel: removed user %q\n", name)
		return nil
	},
}

var groupaddCmd = &cobra.Command{
	Use:   "groupadd <name>",
	Short: "Create a new group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		groupData, err := readFile(userdb.GroupPath)
		if err != nil {
			return err
		}
		groups, err := userdb.ParseGroup(groupData)
		if err != nil {
			return err
		}
		if _, ok := userdb.FindGroup(groups, name); ok {
			return errors.Errorf("group %q already exists", name)
		}

		gid := flagGroupGID
		if gid == 0 {
			gid = nextGID(groups)
		}
		groups = append(groups, userdb.GroupEntry{Name: name, GID: gid})

		lines := make([]string, len(groups))
		for i, g := range groups {
			lines[i] = userdb.FormatGroup(g)
		}
		if err := writeLines(userdb.GroupPath, lines); err != nil {
			return err
		}

		fmt.Printf("groupadd: created group %q (gid=%d)\n", name, gid)
		return nil
	},
}

var groupdelCmd = &cobra.Command{
	Use:   "groupdel <name>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		groupData, err := readFile(userdb.GroupPath)
		if err != nil {
			return err
		}
		groups, err := userdb.ParseGroup(groupData)
		if err != nil {
			return err
		}
		if _, ok := userdb.FindGroup(groups, name); !ok {
			return errors.Errorf("group %q does not exist", name)
		}

		if !flagForce {
			passwdData, err := readFile(userdb.PasswdPath)
			if err != nil {
				return err
			}
			passwd, err := userdb.ParsePasswd(passwdData)
			if err != nil {
				return err
			}
			if g, ok := userdb.FindGroup(groups, name); ok {
				for _, u := range passwd {
					if u.GID == g.GID {
						return errors.Errorf("group %q is the primary group of user %q, use --force", name, u.LoginName)
					}
				}
			}
		}

		kept := groups[:0]
		for _, g := range groups {
			if g.Name != name {
				kept = append(kept, g)
			}
		}

		lines := make([]string, len(kept))
		for i, g := range kept {
			lines[i] = userdb.FormatGroup(g)
		}
		if err := writeLines(userdb.GroupPath, lines); err != nil {
			return err
		}

		fmt.Printf("groupdel: removed group %q\n", name)
		return nil
	},
}

// resolveGroup resolves a --gid argument, which may name a group or give
// its numeric GID directly.
func resolveGroup(groups []userdb.GroupEntry, ref string) (uint32, error) {
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		if _, ok := userdb.FindGroupByGID(groups, uint32(id)); !ok {
			return 0, errors.Errorf("no group with gid %d", id)
		}
		return uint32(id), nil
	}

	g, ok := userdb.FindGroup(groups, ref)
	if !ok {
		return 0, errors.Errorf("no such group %q", ref)
	}
	return g.GID, nil
}

func nextGID(groups []userdb.GroupEntry) uint32 {
	var max uint32 = 999
	for _, g := range groups {
		if g.GID > max {
			max = g.GID
		}
	}
	return max + 1
}

func writePasswdAndGroup(passwd []userdb.PasswdEntry, groups []userdb.GroupEntry) error {
	passwdLines := make([]string, len(passwd))
	for i, e := range passwd {
		passwdLines[i] = userdb.FormatPasswd(e)
	}
	if err := writeLines(userdb.PasswdPath, passwdLines); err != nil {
		return err
	}

	groupLines := make([]string, len(groups))
	for i, g := range groups {
		groupLines[i] = userdb.FormatGroup(g)
	}
	return writeLines(userdb.GroupPath, groupLines)
}

func writeShadow(shadow []userdb.ShadowEntry) error {
	lines := make([]string, len(shadow))
	for i, e := range shadow {
		lines[i] = userdb.FormatShadow(e)
	}
	return writeLines(userdb.ShadowPath, lines)
}

var rootCmd = &cobra.Command{
	Use:   "usrgrp",
	Short: "Manage local users and groups",
}

func init() {
	useraddCmd.Flags().Uint32VarP(&flagUID, "uid", "u", 0, "UID for the new user")
	useraddCmd.Flags().StringVarP(&flagGID, "gid", "g", "", "group ID or name for the new user")
	useraddCmd.Flags().StringVarP(&flagHome, "home-dir", "d", "", "home directory")
	useraddCmd.Flags().StringVarP(&flagShell, "shell", "s", "", "login shell")
	useraddCmd.Flags().BoolVarP(&flagCreateHome, "create-home", "m", false, "create the user's home directory")
	useraddCmd.Flags().BoolVarP(&flagUserGroup, "user-group", "U", false, "create a group with the same name as the user")

	userdelCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "accepted but has no effect: userdel does not check whether the user is logged in")
	userdelCmd.Flags().BoolVarP(&flagRemoveHome, "remove", "r", false, "remove the home directory (the mail spool is left in place)")

	groupaddCmd.Flags().Uint32VarP(&flagGroupGID, "gid", "g", 0, "GID to use for the group")

	groupdelCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "delete even if it is a user's primary group")

	rootCmd.AddCommand(useraddCmd, userdelCmd, groupaddCmd, groupdelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
