package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_GenerateByDefault(t *testing.T) {
	root := newModule(t)
	var out, errOut bytes.Buffer

	err := Execute([]string{root + "/..."}, &out, &errOut)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))
	assert.Contains(t, out.String(), "splinter: generating factories and member injectors")
	assert.Contains(t, out.String(), "Factories: 2")
	assert.Contains(t, out.String(), "splinter: generation complete")
}

func TestExecute_GenerateFlags(t *testing.T) {
	root := newModule(t)
	var out, errOut bytes.Buffer

	err := Execute([]string{
		"generate",
		"--strict",
		"-A", "splinter_debug=true",
		"--exclude", "example.com/app/app.Store",
		root + "/...",
	}, &out, &errOut)
	require.ErrorIs(t, err, ErrGenerationFailed)

	assert.NoFileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))
	assert.FileExists(t, filepath.Join(root, "app", "service__memberinjector.gen.go"))
	assert.Contains(t, out.String(), "[NOTE]")
	assert.Contains(t, out.String(), "Errors: 1")
	assert.NotContains(t, out.String(), "generation complete")
}

func TestExecute_QuietAndVerboseConflict(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Execute([]string{"--quiet", "--verbose", t.TempDir()}, &out, &errOut)
	assert.Error(t, err)
}

func TestExecute_Clean(t *testing.T) {
	root := newModule(t)
	var out, errOut bytes.Buffer
	require.NoError(t, Execute([]string{"--quiet", root + "/..."}, &out, &errOut))
	require.FileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))

	out.Reset()
	require.NoError(t, Execute([]string{"clean", "--dry-run", root + "/..."}, &out, &errOut))
	assert.Contains(t, out.String(), "Would remove 3 generated files")
	assert.FileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))

	out.Reset()
	require.NoError(t, Execute([]string{"clean", root + "/..."}, &out, &errOut))
	assert.Contains(t, out.String(), "Removed 3 generated files")
	assert.NoFileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))
	assert.FileExists(t, filepath.Join(root, "app", "store.go"))
}
