package dsindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilesIndex(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"patient_c", "patient_a", "patient_b"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	for _, name := range []string{"patient_dir2", "patient_dir1", "other"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patient_dir1", "patient_z"), []byte("x"), 0o644))

	{
		// Regular files, sorted
		idx, err := NewFilesIndex(filepath.Join(dir, "patient*"), FilesOptions{Sort: true})
		assert.NoError(t, err)
		assert.Equal(t, []string{"patient_a", "patient_b", "patient_c"}, idx.Items())
	}
	{
		// Directories, sorted
		idx, err := NewFilesIndex(filepath.Join(dir, "*"), FilesOptions{Dirs: true, Sort: true})
		assert.NoError(t, err)
		assert.Equal(t, []string{"other", "patient_dir1", "patient_dir2"}, idx.Items())
	}
	{
		// Sorting does not change the set of names
		sorted, err := NewFilesIndex(filepath.Join(dir, "*", "patient*"), FilesOptions{Sort: true})
		require.NoError(t, err)
		unsorted, err := NewFilesIndex(filepath.Join(dir, "*", "patient*"), FilesOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"patient_z"}, sorted.Items())
		assert.ElementsMatch(t, sorted.Items(), unsorted.Items())

		all, err := NewFilesIndex(filepath.Join(dir, "p*"), FilesOptions{})
		require.NoError(t, err)
		allSorted, err := NewFilesIndex(filepath.Join(dir, "p*"), FilesOptions{Sort: true})
		require.NoError(t, err)
		assert.ElementsMatch(t, allSorted.Items(), all.Items())
	}
	{
		// Basenames only
		idx, err := NewFilesIndex(filepath.Join(dir, "*", "*"), FilesOptions{})
		assert.NoError(t, err)
		assert.Equal(t, []string{"patient_z"}, idx.Items())
	}
	{
		// No matches
		_, err := NewFilesIndex(filepath.Join(dir, "missing*"), FilesOptions{})
		assert.ErrorIs(t, err, ErrEmptyIndex)
	}
	{
		// Malformed pattern
		_, err := NewFilesIndex(filepath.Join(dir, "["), FilesOptions{})
		assert.ErrorIs(t, err, filepath.ErrBadPattern)
	}
}
