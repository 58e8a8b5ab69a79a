package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/splinter/internal/models"
)

// ImportManager handles import generation and deduplication for one generated file
type ImportManager struct {
	packagePath string            // package the generated file belongs to
	byPath      map[string]string // path -> alias
	byAlias     map[string]string // alias -> path
}

// NewImportManager creates an import manager for a file in packagePath
func NewImportManager(packagePath string) *ImportManager {
	return &ImportManager{
		packagePath: packagePath,
		byPath:      make(map[string]string),
		byAlias:     make(map[string]string),
	}
}

// AddImport adds an import and returns the name it is referenced by. Types declared in
// the file's own package need no import and return an empty name.
func (im *ImportManager) AddImport(importPath string) string {
	return im.AddNamedImport(importPath, "")
}

// AddNamedImport adds an import preferring name as its alias. When the name is already
// taken by another path a numeric suffix is appended.
func (im *ImportManager) AddNamedImport(importPath, name string) string {
	if importPath == "" || importPath == im.packagePath {
		return ""
	}
	if alias, ok := im.byPath[importPath]; ok {
		return alias
	}

	if name == "" {
		name = models.DefaultPackageName(importPath)
	}
	alias := name
	for i := 2; ; i++ {
		if _, taken := im.byAlias[alias]; !taken {
			break
		}
		alias = fmt.Sprintf("%s%d", name, i)
	}

	im.byPath[importPath] = alias
	im.byAlias[alias] = importPath
	return alias
}

// Aliases returns every name an import is referenced by, sorted
func (im *ImportManager) Aliases() []string {
	aliases := make([]string, 0, len(im.byAlias))
	for alias := range im.byAlias {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// GenerateImports generates the import section, sorted by path. The alias is only
// written when it differs from the name the package would get by default.
func (im *ImportManager) GenerateImports() string {
	if len(im.byPath) == 0 {
		return ""
	}

	paths := make([]string, 0, len(im.byPath))
	for path := range im.byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	imports := make([]string, 0, len(paths))
	for _, path := range paths {
		alias := im.byPath[path]
		if alias == models.DefaultPackageName(path) {
			imports = append(imports, fmt.Sprintf("%q", path))
		} else {
			imports = append(imports, fmt.Sprintf("%s %q", alias, path))
		}
	}

	if len(imports) == 1 {
		return fmt.Sprintf("import %s\n", imports[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, imp := range imports {
		result.WriteString(fmt.Sprintf("\t%s\n", imp))
	}
	result.WriteString(")\n")

	return result.String()
}
