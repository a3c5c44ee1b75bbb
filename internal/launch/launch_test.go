package launch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vfsutil/pkg/location"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCommand_Arguments(t *testing.T) {
	files := []location.Location{
		location.NewForPath("/tmp/a b.txt"),
		location.MustParse("sftp://host/srv/file"),
	}

	cmd, err := Command(context.Background(), []string{"viewer", "--new"}, location.Location{}, files)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer", "--new", "/tmp/a b.txt", "sftp://host/srv/file"}, cmd.Args)
	assert.Empty(t, cmd.Dir, "zero working directory inherits the caller's")
}

func TestCommand_Errors(t *testing.T) {
	_, err := Command(context.Background(), nil, location.Location{}, nil)
	assert.ErrorIs(t, err, ErrNoCommand)

	_, err = Command(context.Background(), []string{""}, location.Location{}, nil)
	assert.ErrorIs(t, err, ErrNoCommand)

	_, err = Command(context.Background(), []string{"viewer"}, location.Trash(), nil)
	assert.Error(t, err)
}

func TestCommand_WorkingDirectory(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	before, err := os.Getwd()
	require.NoError(t, err)

	cmd, err := Command(context.Background(), []string{"sh", "-c", "pwd"}, location.NewForPath(dir), nil)
	require.NoError(t, err)
	var out bytes.Buffer
	cmd.Stdout = &out
	require.NoError(t, cmd.Run())

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after, "caller's working directory is untouched")
}

func TestStart(t *testing.T) {
	skipWithoutShell(t)

	dir := t.TempDir()
	target := location.NewForPath(filepath.Join(dir, "touched"))

	cmd, err := Start(context.Background(), []string{"touch"}, location.NewForPath(dir), []location.Location{target})
	require.NoError(t, err)
	require.NoError(t, cmd.Wait())

	_, err = os.Stat(filepath.Join(dir, "touched"))
	assert.NoError(t, err)

	_, err = Start(context.Background(), []string{"/nonexistent/helper"}, location.Location{}, nil)
	assert.Error(t, err)
}
