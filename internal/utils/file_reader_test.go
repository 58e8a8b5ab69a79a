package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReader_Caching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.mod")
	require.NoError(t, os.WriteFile(path, []byte("module example.com/app\n"), 0o644))

	reader := NewFileReader()

	content, err := reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "module example.com/app\n", content)

	_, err = reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.GetCacheStats().Hits)

	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(path, []byte("module example.com/other\n"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	content, err = reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "module example.com/other\n", content)

	reader.InvalidateFile(path)
	assert.Equal(t, 0, reader.GetCacheStats().Size)
}

func TestFileReader_Errors(t *testing.T) {
	reader := NewFileReader()

	_, err := reader.ReadFile("")
	assert.Error(t, err)

	_, err = reader.ReadFile(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "failed to read file missing")
}
