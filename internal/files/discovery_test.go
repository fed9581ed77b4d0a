package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base")

	assert.NotNil(t, discovery)
	assert.Equal(t, "/test/base", discovery.basePath)
}

func TestFindCSVFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "sorted lexically",
			files:    []string{"TSCO.csv", "FLTR.csv", "GSK.csv"},
			expected: []string{"FLTR.csv", "GSK.csv", "TSCO.csv"},
		},
		{
			name:     "mixed file types",
			files:    []string{"report.xlsx", "data.csv", "doc.pdf", "notes.txt"},
			expected: []string{"data.csv"},
		},
		{
			name:     "extension case is ignored",
			files:    []string{"B.CSV", "a.csv"},
			expected: []string{"B.CSV", "a.csv"},
		},
		{
			name:     "empty directory",
			files:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			touch(t, filepath.Join(base, "LSE"), tt.files...)

			found, err := NewDiscovery(base).FindCSVFiles("LSE")
			require.NoError(t, err)

			if tt.expected == nil {
				assert.Empty(t, found)
				return
			}
			assert.Equal(t, tt.expected, names(found))
			for _, f := range found {
				assert.Equal(t, filepath.Join(base, "LSE", f.Name), f.Path)
			}
		})
	}
}

func TestFindFiles_SkipsDirectories(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "a.csv")
	require.NoError(t, os.Mkdir(filepath.Join(base, "dir.csv"), 0755))

	found, err := NewDiscovery("").FindFiles(base, ".csv", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv"}, names(found))
}

func TestFindCSVFiles_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindCSVFiles("NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read directory")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirExists(t *testing.T) {
	base := t.TempDir()
	touch(t, base, "file.csv")

	assert.True(t, DirExists(base))
	assert.False(t, DirExists(filepath.Join(base, "file.csv")))
	assert.False(t, DirExists(filepath.Join(base, "missing")))
}
