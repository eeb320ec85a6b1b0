package watch

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIDFileAcquireRelease(t *testing.T) {
	p := NewPIDFile(filepath.Join(t.TempDir(), "state", PIDFileName))

	assert.Equal(t, 0, p.RunningPID())
	require.NoError(t, p.Acquire())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.Equal(t, os.Getpid(), p.RunningPID())

	err = p.Acquire()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, p.Release())
	_, statErr := os.Stat(p.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestPIDFileStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)
	require.NoError(t, os.WriteFile(path, []byte("0"), 0o644))

	p := NewPIDFile(path)
	assert.Equal(t, 0, p.RunningPID())
	require.NoError(t, p.Acquire())
}

func TestPIDFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	p := NewPIDFile(path)
	_, err := p.Read()
	assert.Error(t, err)
	assert.Equal(t, 0, p.RunningPID())
}

func TestPIDFileReleaseOtherOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)
	other := os.Getpid() + 1
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(other)), 0o644))

	p := NewPIDFile(path)
	require.NoError(t, p.Release())
	_, err := os.Stat(path)
	assert.NoError(t, err, "a file owned by another process is left alone")
}

func TestIsProcessRunning(t *testing.T) {
	assert.True(t, IsProcessRunning(os.Getpid()))
	assert.False(t, IsProcessRunning(0))
	assert.False(t, IsProcessRunning(-1))
}
