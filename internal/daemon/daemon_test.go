package daemon

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "run", "focuswatch.pid"))
}

func TestWriteReadRemovePID(t *testing.T) {
	d := newTestDaemon(t)

	pid, err := d.ReadPID()
	require.NoError(t, err)
	assert.Zero(t, pid)

	require.NoError(t, d.WritePID())

	pid, err = d.ReadPID()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	running, pid, err := d.IsRunning()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, d.RemovePID())
	require.NoError(t, d.RemovePID())

	_, err = os.Stat(d.PIDFile())
	assert.True(t, os.IsNotExist(err))
}

func TestWritePIDTwiceFromSameProcess(t *testing.T) {
	d := newTestDaemon(t)
	require.NoError(t, d.WritePID())
	assert.NoError(t, d.WritePID())
}

func TestReadPIDInvalid(t *testing.T) {
	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0755))

	for _, content := range []string{"not-a-pid", "-4", ""} {
		require.NoError(t, os.WriteFile(d.PIDFile(), []byte(content), 0644))
		_, err := d.ReadPID()
		assert.Error(t, err, "content %q", content)
	}
}

func TestStalePIDIsRemoved(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signal 0 probing is unix only")
	}

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, cmd.Run())

	d := newTestDaemon(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.PIDFile()), 0755))
	require.NoError(t, os.WriteFile(d.PIDFile(), []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	running, _, err := d.IsRunning()
	require.NoError(t, err)
	assert.False(t, running)

	_, err = os.Stat(d.PIDFile())
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, d.Stop(), ErrNotRunning)
}

func TestStopWithoutPIDFile(t *testing.T) {
	assert.ErrorIs(t, newTestDaemon(t).Stop(), ErrNotRunning)
}
