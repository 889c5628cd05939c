package lifecycle

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWritesStateAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snaprag.lock")

	l, err := Acquire(path)
	require.NoError(t, err)
	assert.Equal(t, StatusStarting, l.state.Status)

	require.NoError(t, l.Update(StatusRunning, []Progress{{Shard: 1, Block: 100}}, ""))

	read, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, read.Status)
	require.Len(t, read.Progress, 1)
	assert.Equal(t, uint64(100), read.Progress[0].Block)

	require.NoError(t, l.Release())

	_, err = Read(path)
	assert.Error(t, err, "lockfile should be removed after Release")
}

func TestAcquireRefusesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snaprag.lock")

	first, err := Acquire(path)
	require.NoError(t, err)
	defer first.Release()

	_, err = Acquire(path)
	assert.Error(t, err)
}
