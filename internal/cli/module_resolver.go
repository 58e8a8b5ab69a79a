package cli

import (
	"github.com/toyz/splinter/internal/utils"
)

// ModuleResolver maps package directories to import paths
type ModuleResolver struct {
	goMod        *utils.GoModParser
	customModule string
}

// NewModuleResolver creates a resolver. A non-empty customModule replaces the
// module declared in go.mod.
func NewModuleResolver(customModule string) *ModuleResolver {
	return &ModuleResolver{
		goMod:        utils.NewGoModParser(utils.NewFileReader()),
		customModule: customModule,
	}
}

// ImportPath returns the import path of the package in dir
func (r *ModuleResolver) ImportPath(dir string) (string, error) {
	return r.goMod.ImportPath(dir, r.customModule)
}

// ModuleName returns the module enclosing dir
func (r *ModuleResolver) ModuleName(dir string) (string, error) {
	if r.customModule != "" {
		return r.customModule, nil
	}

	goModPath, err := r.goMod.FindGoModFile(dir)
	if err != nil {
		return "", err
	}
	return r.goMod.ParseModuleName(goModPath)
}
