package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportManager_AddImport(t *testing.T) {
	im := NewImportManager("example.com/app")

	assert.Empty(t, im.AddImport("example.com/app"), "own package needs no import")
	assert.Empty(t, im.AddImport(""))
	assert.Equal(t, "db", im.AddImport("example.com/db"))
	assert.Equal(t, "db", im.AddImport("example.com/db"), "imports are deduplicated")
	assert.Equal(t, "db2", im.AddImport("example.com/legacy/db"))
	assert.Equal(t, "yaml", im.AddImport("gopkg.in/yaml.v3"))
	assert.Equal(t, "store", im.AddNamedImport("example.com/storage", "store"))

	assert.Equal(t, []string{"db", "db2", "store", "yaml"}, im.Aliases())
}

func TestImportManager_GenerateImports(t *testing.T) {
	tests := []struct {
		name     string
		add      func(im *ImportManager)
		expected string
	}{
		{
			name:     "empty",
			add:      func(*ImportManager) {},
			expected: "",
		},
		{
			name: "single",
			add: func(im *ImportManager) {
				im.AddImport("github.com/toyz/splinter/pkg/splinter")
			},
			expected: "import \"github.com/toyz/splinter/pkg/splinter\"\n",
		},
		{
			name: "sorted by path with aliases only when needed",
			add: func(im *ImportManager) {
				im.AddImport("example.com/z/db")
				im.AddImport("example.com/a/db")
				im.AddImport("errors")
			},
			expected: "import (\n\tdb2 \"example.com/a/db\"\n\t\"example.com/z/db\"\n\t\"errors\"\n)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := NewImportManager("example.com/app")
			tt.add(im)
			assert.Equal(t, tt.expected, im.GenerateImports())
		})
	}
}
