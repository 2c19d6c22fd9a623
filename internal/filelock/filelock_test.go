package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWriteCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "deep", "nested", "out.txt")

	require.NoError(t, AtomicWrite(target, []byte("hello\n")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestAtomicWriteReplacesExistingContent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	require.NoError(t, AtomicWrite(target, []byte("new")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, AtomicWrite(filepath.Join(dir, "out.txt"), []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.txt", entries[0].Name())
}

func TestLockAndUnlock(t *testing.T) {
	dir := t.TempDir()
	lock := New(filepath.Join(dir, "out.txt.lock"))

	require.NoError(t, lock.Lock())
	require.NoError(t, lock.Unlock())
}

func TestTryLockHeldLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt.lock")

	first := New(path)
	require.NoError(t, first.Lock())
	defer first.Unlock()

	// flock semantics for a second handle in the same process vary by
	// platform; only the non-blocking call contract is asserted.
	second := New(path)
	acquired, err := second.TryLock()
	require.NoError(t, err)
	if acquired {
		require.NoError(t, second.Unlock())
	}
}
