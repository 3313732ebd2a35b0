package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypfmt/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.typ", "= Title\n", 0o600)

	content, snap, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "= Title\n", string(content))
	assert.Equal(t, path, snap.Path)
	assert.Equal(t, os.FileMode(0o600), snap.Mode)
	assert.Equal(t, int64(8), snap.Size)

	_, _, err = fsutil.ReadFile(ctx, filepath.Join(dir, "missing.typ"))
	assert.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(ctx, dir)
	assert.ErrorIs(t, err, fsutil.ErrIsDirectory)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = fsutil.ReadFile(cancelled, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "a", 0o644)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		changed, err := snap.Changed(ctx)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("same size new content", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "a", 0o644)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
		require.NoError(t, os.Chtimes(path, snap.ModTime, snap.ModTime))

		changed, err := snap.Changed(ctx)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "a", 0o644)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		changed, err := snap.Changed(ctx)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		var snap *fsutil.Snapshot
		_, err := snap.Changed(ctx)
		assert.ErrorIs(t, err, fsutil.ErrNilSnapshot)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.typ")

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("#f(1, 2)\n"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#f(1, 2)\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	err = fsutil.WriteAtomic(ctx, filepath.Join(dir, "missing", "x.typ"), []byte("x"), 0)
	assert.Error(t, err)
}

func TestReplaceFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("keeps mode", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "#f(1,2)", 0o600)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, fsutil.ReplaceFile(ctx, snap, []byte("#f(1, 2)")))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "#f(1, 2)", string(got))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("refuses concurrent edits", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "one", 0o644)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("edited elsewhere"), 0o644))
		later := snap.ModTime.Add(time.Second)
		require.NoError(t, os.Chtimes(path, later, later))

		err = fsutil.ReplaceFile(ctx, snap, []byte("two"))
		assert.True(t, errors.Is(err, fsutil.ErrModified))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "edited elsewhere", string(got))
	})
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	path := writeFile(t, t.TempDir(), "a.typ", "first", 0o644)
	_, snap, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	backup, err := fsutil.CreateBackup(ctx, snap, []byte("first"), cfg)
	require.NoError(t, err)
	assert.Equal(t, path+fsutil.BackupSuffix, backup)

	again, err := fsutil.CreateBackup(ctx, snap, []byte("second"), cfg)
	require.NoError(t, err)
	assert.Empty(t, again)

	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got), "an existing backup must not be overwritten")

	none, err := fsutil.CreateBackup(ctx, snap, []byte("x"), fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone})
	require.NoError(t, err)
	assert.Empty(t, none)

	disabled, err := fsutil.CreateBackup(ctx, snap, []byte("x"), fsutil.BackupConfig{Mode: fsutil.BackupModeSidecar})
	require.NoError(t, err)
	assert.Empty(t, disabled)
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("#let x = 1\n"))
	f.Add([]byte("\x00\x01\r\n"))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.typ")
		if err := fsutil.WriteAtomic(context.Background(), path, content, 0); err != nil {
			t.Fatalf("WriteAtomic failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != string(content) {
			t.Errorf("content mismatch: got %q, want %q", got, content)
		}
	})
}
