package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splinter/internal/templates"
	"github.com/toyz/splinter/internal/utils"
)

func TestGenerator_Run(t *testing.T) {
	root := newModule(t)
	diagnostics, out, errOut := testDiagnostics(utils.DiagnosticInfo)

	generator := NewGenerator(diagnostics)
	err := generator.Run(Config{Directories: []string{root + "/..."}})
	require.NoError(t, err)

	appDir := filepath.Join(root, "app")
	for _, name := range []string{"store__factory.gen.go", "service__factory.gen.go", "service__memberinjector.gen.go"} {
		content, err := os.ReadFile(filepath.Join(appDir, name))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(content), templates.GeneratedHeader), name)
		assert.Contains(t, string(content), "package app")
	}

	summary := generator.GetSummary()
	assert.Equal(t, 1, summary.PackagesProcessed)
	assert.Equal(t, 2, summary.ClassesFound)
	assert.Equal(t, 2, summary.Factories)
	assert.Equal(t, 1, summary.MemberInjectors)
	assert.Len(t, summary.GeneratedFiles, 3)
	assert.Zero(t, summary.Errors)
	assert.Equal(t, 1, summary.Warnings)

	assert.Contains(t, out.String(), "Found 1 packages")
	assert.Contains(t, errOut.String(), "[WARN]")
	assert.Contains(t, errOut.String(), "Start")
}

func TestGenerator_RunTwiceRewritesSameFiles(t *testing.T) {
	root := newModule(t)
	diagnostics, _, _ := testDiagnostics(utils.DiagnosticError)

	generator := NewGenerator(diagnostics)
	require.NoError(t, generator.Run(Config{Directories: []string{filepath.Join(root, "app")}}))
	first := generator.GetSummary().GeneratedFiles

	require.NoError(t, generator.Run(Config{Directories: []string{filepath.Join(root, "app")}}))
	assert.Equal(t, first, generator.GetSummary().GeneratedFiles)
}

func TestGenerator_StrictFailsButWritesValidArtifacts(t *testing.T) {
	root := newModule(t)
	diagnostics, _, errOut := testDiagnostics(utils.DiagnosticInfo)

	generator := NewGenerator(diagnostics)
	err := generator.Run(Config{Directories: []string{root + "/..."}, Strict: true})
	require.ErrorIs(t, err, ErrGenerationFailed)

	summary := generator.GetSummary()
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 2, summary.Factories)
	assert.FileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))
	assert.Contains(t, errOut.String(), "[ERROR]")
}

func TestGenerator_Excludes(t *testing.T) {
	root := newModule(t)
	diagnostics, _, _ := testDiagnostics(utils.DiagnosticError)

	generator := NewGenerator(diagnostics)
	err := generator.Run(Config{
		Directories: []string{root + "/..."},
		Excludes:    []string{"example.com/app/app.Service"},
	})
	require.NoError(t, err)

	summary := generator.GetSummary()
	assert.Equal(t, 1, summary.Factories)
	assert.Zero(t, summary.MemberInjectors)
	assert.NoFileExists(t, filepath.Join(root, "app", "service__factory.gen.go"))
}

func TestGenerator_DryRun(t *testing.T) {
	root := newModule(t)
	diagnostics, out, _ := testDiagnostics(utils.DiagnosticInfo)

	generator := NewGenerator(diagnostics)
	require.NoError(t, generator.Run(Config{Directories: []string{root + "/..."}, DryRun: true}))

	assert.Len(t, generator.GetSummary().GeneratedFiles, 3)
	assert.NoFileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))
	assert.Contains(t, out.String(), "would write")
}

func TestGenerator_ConfigFile(t *testing.T) {
	root := newModule(t)
	writeFiles(t, root, map[string]string{
		"splinter.yaml": "strict: true\n",
	})
	diagnostics, _, _ := testDiagnostics(utils.DiagnosticError)

	generator := NewGenerator(diagnostics)
	err := generator.Run(Config{
		Directories: []string{root + "/..."},
		ConfigFile:  filepath.Join(root, "splinter.yaml"),
	})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config func(root string) Config
		errMsg string
	}{
		{
			name: "no packages",
			config: func(root string) Config {
				empty := filepath.Join(root, "empty")
				require.NoError(t, os.MkdirAll(empty, 0o755))
				return Config{Directories: []string{empty}}
			},
			errMsg: "no Go packages found",
		},
		{
			name: "invalid option",
			config: func(root string) Config {
				return Config{
					Directories: []string{root + "/..."},
					Options:     map[string]string{"splinter_debug": "maybe"},
				}
			},
			errMsg: "splinter_debug",
		},
		{
			name: "missing config file",
			config: func(root string) Config {
				return Config{Directories: []string{root + "/..."}, ConfigFile: filepath.Join(root, "missing.yaml")}
			},
			errMsg: "config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newModule(t)
			diagnostics, _, _ := testDiagnostics(utils.DiagnosticError)

			err := NewGenerator(diagnostics).Run(tt.config(root))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrGenerationFailed)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerator_SyntaxErrorStillGeneratesOtherPackages(t *testing.T) {
	root := newModule(t)
	writeFiles(t, root, map[string]string{
		"broken/broken.go": "package broken\n\nfunc {\n",
	})
	diagnostics, _, errOut := testDiagnostics(utils.DiagnosticInfo)

	generator := NewGenerator(diagnostics)
	err := generator.Run(Config{Directories: []string{root + "/..."}})
	require.ErrorIs(t, err, ErrGenerationFailed)

	assert.Contains(t, errOut.String(), "broken.go")
	assert.FileExists(t, filepath.Join(root, "app", "store__factory.gen.go"))
}
