package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/splinter/internal/utils"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func testDiagnostics(level utils.DiagnosticLevel) (*utils.DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(&out, &errOut)
	return diagnostics, &out, &errOut
}

const storeSource = `package app

type Store struct{}

//splinter::Inject
func NewStore() *Store { return &Store{} }
`

const serviceSource = `package app

type Service struct {
	//splinter::Inject
	store *Store
}

//splinter::Inject
func (s *Service) Start(store *Store) {}
`

// newModule lays out a small module with one injectable package
func newModule(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"go.mod":              "module example.com/app\n\ngo 1.25\n",
		"app/store.go":        storeSource,
		"app/service.go":      serviceSource,
		"app/service_test.go": "package app\n",
	})
	return root
}
