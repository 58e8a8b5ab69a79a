package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryScanner_ScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.go":                  "package main\n",
		"internal/svc/svc.go":      "package svc\n",
		"internal/svc/svc_test.go": "package svc\n",
		"internal/only/x_test.go":  "package only\n",
		"internal/gen/a.gen.go":    "package gen\n",
		"testdata/fixture/f.go":    "package fixture\n",
		"_scratch/s.go":            "package scratch\n",
		"vendor/dep/dep.go":        "package dep\n",
	})
	scanner := NewDirectoryScanner()

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{name: "plain directory", patterns: []string{root}, expected: []string{root}},
		{name: "plain directory without sources", patterns: []string{filepath.Join(root, "internal")}},
		{
			name:     "recursive",
			patterns: []string{root + "/..."},
			expected: []string{root, filepath.Join(root, "internal", "svc")},
		},
		{
			name:     "duplicates collapse",
			patterns: []string{filepath.Join(root, "internal") + "/...", filepath.Join(root, "internal", "svc")},
			expected: []string{filepath.Join(root, "internal", "svc")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dirs, err := scanner.ScanDirectories(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dirs)
		})
	}
}

func TestDirectoryScanner_MissingDirectory(t *testing.T) {
	_, err := NewDirectoryScanner().ScanDirectories([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
