package userdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePasswd(t *testing.T) {
	data := "root:x:0:0:root:/root:/bin/sh\nalice:x:1000:1000:Alice:/home/alice:/bin/bash\n"

	entries, err := ParsePasswd(data)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "root", entries[0].LoginName)
	assert.Equal(t, uint32(0), entries[0].UID)
	assert.Equal(t, "alice", entries[1].LoginName)
	assert.Equal(t, uint32(1000), entries[1].UID)
}

func TestParseShadow(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	data := "root:" + hash + ":19000:0:99999:7:::\n"
	entries, err := ParseShadow(data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "root", entries[0].LoginName)
	assert.Equal(t, int64(19000), entries[0].LastChange)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("x", "anything"))
	assert.False(t, CheckPassword("!", "anything"))
}

func TestFindPasswd(t *testing.T) {
	entries, err := ParsePasswd("root:x:0:0:root:/root:/bin/sh\n")
	require.NoError(t, err)

	e, ok := FindPasswd(entries, "root")
	require.True(t, ok)
	assert.Equal(t, uint32(0), e.UID)

	_, ok = FindPasswd(entries, "nobody")
	assert.False(t, ok)
}
