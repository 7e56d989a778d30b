package fsio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat_Path(t *testing.T) {
	fs := newTestFS(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, []byte("abcdef"), 0o600))

	cont := newTestCont()
	fs.Stat(path, cont)
	st, ok := cont.waitValue(t).(*Stat)
	require.True(t, ok, "Stat should resume with a *Stat")

	assert.True(t, st.IsFile())
	assert.False(t, st.IsDirectory())
	assert.EqualValues(t, 6, st.Size())
	assert.NotZero(t, st.Inode())
	assert.NotZero(t, st.LinkCount())
	assert.NotZero(t, st.BlockSize())

	cont = newTestCont()
	fs.Stat(dir, cont)
	st = cont.waitValue(t).(*Stat)
	assert.True(t, st.IsDirectory())
	assert.False(t, st.IsFile())
}

func TestStat_Missing(t *testing.T) {
	fs := newTestFS(t)

	cont := newTestCont()
	fs.Stat(filepath.Join(t.TempDir(), "nope"), cont)
	err := cont.waitError(t)

	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, "stat", hostErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSize_Path(t *testing.T) {
	fs := newTestFS(t)
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("0123"), 0o600))

	cont := newTestCont()
	fs.Size(path, cont)
	assert.EqualValues(t, 4, cont.waitValue(t))
}

func TestDelete_RemovesFile(t *testing.T) {
	fs := newTestFS(t)
	path := filepath.Join(t.TempDir(), "doomed")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	cont := newTestCont()
	fs.Delete(path, cont)
	cont.waitVoid(t)

	_, err := os.Lstat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "file should be gone, got: %v", err)
}

func TestDelete_Missing(t *testing.T) {
	fs := newTestFS(t)

	// Deleting a nonexistent path is a reported failure, never a silent
	// success.
	cont := newTestCont()
	fs.Delete(filepath.Join(t.TempDir(), "nope"), cont)
	err := cont.waitError(t)

	var hostErr *HostError
	require.ErrorAs(t, err, &hostErr)
	assert.Equal(t, "unlink", hostErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRealPath_Canonicalizes(t *testing.T) {
	fs := newTestFS(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	want, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	want, err = filepath.Abs(want)
	require.NoError(t, err)

	// A dot segment must not survive canonicalization.
	cont := newTestCont()
	fs.RealPath(filepath.Join(dir, ".", "f"), cont)
	assert.Equal(t, want, cont.waitValue(t))
}

func TestRealPath_ResolvesSymlink(t *testing.T) {
	fs := newTestFS(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, nil, 0o600))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	want, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	want, err = filepath.Abs(want)
	require.NoError(t, err)

	cont := newTestCont()
	fs.RealPath(link, cont)
	assert.Equal(t, want, cont.waitValue(t))
}

func TestRealPath_Missing(t *testing.T) {
	fs := newTestFS(t)

	cont := newTestCont()
	fs.RealPath(filepath.Join(t.TempDir(), "nope"), cont)
	var hostErr *HostError
	require.ErrorAs(t, cont.waitError(t), &hostErr)
	assert.Equal(t, "realpath", hostErr.Op)
}

func TestList_Directory(t *testing.T) {
	fs := newTestFS(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	cont := newTestCont()
	fs.List(dir, cont)
	names, ok := cont.waitValue(t).([]string)
	require.True(t, ok, "List should resume with a []string")
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names)
}

func TestList_NotADirectory(t *testing.T) {
	fs := newTestFS(t)
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	cont := newTestCont()
	fs.List(path, cont)
	var hostErr *HostError
	require.ErrorAs(t, cont.waitError(t), &hostErr)
}
