package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "a", "b")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	_, err = EnsureDir(dir)
	require.NoError(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "out", "preview.pdf")

	require.NoError(t, WriteFileAtomic(path, []byte("%PDF-1")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1"), data)

	// Overwrite works and leaves no temp files behind.
	require.NoError(t, WriteFileAtomic(path, []byte("%PDF-2")))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
