// Package procfs reads process information out of /proc, the way `ps`
// needs it: one ProcessInfo per numeric entry in /proc, built from that
// process's status file.
//
// Grounded on original_source/ps/src/process/status_parser.rs, which
// line-scans "Name: value" pairs out of /proc/{pid}/status; this package
// keeps the same field set and parsing shape in Go's idiom (bufio.Scanner
// over a colon split) instead of hand-rolled string splitting.
package procfs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ProcessInfo mirrors the fields original_source/ps/src/process/mod.rs's
// Process struct fills in from /proc/{pid}/status.
type ProcessInfo struct {
	PID  uint32
	PPID uint32
	Name string
	UID  uint32
	RUID uint32
	GID  uint32
	RGID uint32
}

// ProcDir is the mount point this package reads from. Tests override it
// to point at a fixture directory.
var ProcDir = "/proc"

// List enumerates every process visible under ProcDir.
func List() ([]ProcessInfo, error) {
	entries, err := os.ReadDir(ProcDir)
	if err != nil {
		return nil, errors.Wrap(err, "read /proc")
	}

	var procs []ProcessInfo
	for _, e := range entries {
		pid, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}

		proc, err := readStatus(filepath.Join(ProcDir, e.Name(), "status"), uint32(pid))
		if err != nil {
			if os.IsNotExist(err) {
				// the process exited between ReadDir and our read
				continue
			}
			return nil, err
		}

		procs = append(procs, proc)
	}

	return procs, nil
}

func readStatus(path string, pid uint32) (ProcessInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ProcessInfo{}, err
	}
	defer func() { _ = f.Close() }()

	proc := ProcessInfo{PID: pid}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)

		switch name {
		case "name":
			proc.Name = value
		case "pid":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return ProcessInfo{}, errors.Wrapf(err, "parse pid in %s", path)
			}
			proc.PID = uint32(v)
		case "ppid":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return ProcessInfo{}, errors.Wrapf(err, "parse ppid in %s", path)
			}
			proc.PPID = uint32(v)
		case "uid":
			fields := strings.Fields(value)
			if len(fields) < 3 {
				return ProcessInfo{}, errors.Errorf("malformed Uid line in %s", path)
			}
			uid, err := strconv.ParseUint(fields[0], 10, 32)
			if err != nil {
				return ProcessInfo{}, errors.Wrapf(err, "parse uid in %s", path)
			}
			ruid, err := strconv.ParseUint(fields[2], 10, 32)
			if err != nil {
				return ProcessInfo{}, errors.Wrapf(err, "parse ruid in %s", path)
			}
			proc.UID, proc.RUID = uint32(uid), uint32(ruid)
		case "gid":
			fields := strings.Fields(value)
			if len(fields) < 3 {
				return ProcessInfo{}, errors.Errorf("malformed Gid line in %s", path)
			}
			gid, err := strconv.ParseUint(fields[0], 10, 32)
			if err != nil {
				return ProcessInfo{}, errors.Wrapf(err, "parse gid in %s", path)
			}
			rgid, err := strconv.ParseUint(fields[2], 10, 32)
			if err != nil {
				return ProcessInfo{}, errors.Wrapf(err, "parse rgid in %s", path)
			}
			proc.GID, proc.RGID = uint32(gid), uint32(rgid)
		}
	}

	if err := scanner.Err(); err != nil {
		return ProcessInfo{}, errors.Wrapf(err, "scan %s", path)
	}

	return proc, nil
}

// String renders one ps-style summary line.
func (p ProcessInfo) String() string {
	return fmt.Sprintf("%6d %6d %6d %s", p.PID, p.PPID, p.UID, p.Name)
}
