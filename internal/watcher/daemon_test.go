package watcher

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDaemonRunning_NoPIDFile(t *testing.T) {
	running, err := IsDaemonRunning(filepath.Join(t.TempDir(), "watch.pid"))
	require.NoError(t, err)
	assert.False(t, running)
}

func TestIsDaemonRunning_InvalidPID(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "watch.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte("not-a-pid\n"), 0644))

	running, err := IsDaemonRunning(pidFile)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestIsDaemonRunning_CurrentProcess(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "watch.pid")
	require.NoError(t, writePID(pidFile, os.Getpid()))

	running, err := IsDaemonRunning(pidFile)
	require.NoError(t, err)
	assert.True(t, running)
}

func TestReadWritePID(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "watch.pid")
	require.NoError(t, writePID(pidFile, 4242))

	data, err := os.ReadFile(pidFile)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(4242)+"\n", string(data))

	pid, err := readPID(pidFile)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)
}

func TestStopDaemon_NotRunning(t *testing.T) {
	err := StopDaemon(filepath.Join(t.TempDir(), "watch.pid"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}
