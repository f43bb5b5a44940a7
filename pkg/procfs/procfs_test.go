package procfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatus(t *testing.T, dir, pid, content string) {
	t.Helper()
	procDir := filepath.Join(dir, pid)
	require.NoError(t, os.MkdirAll(procDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(procDir, "status"), []byte(content), 0o644))
}

func TestListParsesStatusFiles(t *testing.T) {
	dir := t.TempDir()
	writeStatus(t, dir, "1", "Name:\tinit\nPid:\t1\nPPid:\t0\nUid:\t0\t0\t0\t0\nGid:\t0\t0\t0\t0\n")
	writeStatus(t, dir, "42", "Name:\tworker\nPid:\t42\nPPid:\t1\nUid:\t1000\t1000\t1000\t1000\nGid:\t1000\t1000\t1000\t1000\n")
	// non-numeric entries must be skipped
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "self"), 0o755))

	old := ProcDir
	ProcDir = dir
	defer func() { ProcDir = old }()

	procs, err := List()
	require.NoError(t, err)
	require.Len(t, procs, 2)

	byPID := map[uint32]ProcessInfo{}
	for _, p := range procs {
		byPID[p.PID] = p
	}

	assert.Equal(t, "init", byPID[1].Name)
	assert.Equal(t, uint32(0), byPID[1].PPID)
	assert.Equal(t, "worker", byPID[42].Name)
	assert.Equal(t, uint32(1), byPID[42].PPID)
	assert.Equal(t, uint32(1000), byPID[42].UID)
}
