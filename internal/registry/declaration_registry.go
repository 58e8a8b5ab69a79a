package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/utils"
)

// DeclarationKind distinguishes qualifier and scope annotation declarations
type DeclarationKind int

const (
	QualifierDeclaration DeclarationKind = iota
	ScopeDeclaration
)

// String returns the string representation of the declaration kind
func (k DeclarationKind) String() string {
	switch k {
	case QualifierDeclaration:
		return "qualifier"
	case ScopeDeclaration:
		return "scope"
	default:
		return "unknown"
	}
}

// Declaration is a type declared as a custom qualifier or scope annotation
type Declaration struct {
	Name    string // simple type name
	Package string // import path of the declaring package
	Kind    DeclarationKind
	File    string
	Line    int
}

// QualifiedName returns the annotation identity, e.g. "example.com/app/scopes.Presenter"
func (d *Declaration) QualifiedName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// declarationRegistry implements the DeclarationRegistry interface
type declarationRegistry struct {
	declarations *utils.BaseRegistry[string, *Declaration]
}

// NewDeclarationRegistry creates a new declaration registry
func NewDeclarationRegistry() DeclarationRegistry {
	declarations := utils.NewBaseRegistry[string, *Declaration]("declaration")
	declarations.SetValidator(utils.ChainValidators(
		utils.NotNilValueValidator[string, Declaration]("declaration"),
		func(_ string, decl *Declaration, _ map[string]*Declaration) error {
			if decl.Name == "" {
				return fmt.Errorf("declaration name cannot be empty")
			}
			return nil
		},
		kindConflict,
	))
	return &declarationRegistry{declarations: declarations}
}

// kindConflict rejects declaring one type as both a qualifier and a scope
func kindConflict(name string, decl *Declaration, existing map[string]*Declaration) error {
	prev, exists := existing[name]
	if !exists || prev.Kind == decl.Kind {
		return nil
	}
	return errors.NewRegistrationError(decl.Kind.String(), name,
		fmt.Sprintf("already declared as a %s at %s:%d", prev.Kind, prev.File, prev.Line)).
		WithLocation(errors.SourceLocation{File: decl.File, Line: decl.Line})
}

// Register adds a declaration to the registry. Registering the same declaration
// again is a no-op.
func (r *declarationRegistry) Register(decl *Declaration) error {
	name := ""
	if decl != nil {
		name = decl.QualifiedName()
	}
	_, err := r.declarations.RegisterIfAbsent(name, decl)
	return err
}

// Get retrieves a declaration by qualified name
func (r *declarationRegistry) Get(qualifiedName string) (*Declaration, bool) {
	return r.declarations.Get(qualifiedName)
}

// Resolve looks up an annotation reference as written in a file of package pkg.
// A bare name resolves within pkg; "alias.Name" resolves through the file imports
// (alias to import path).
func (r *declarationRegistry) Resolve(pkg string, imports map[string]string, reference string) (*Declaration, bool) {
	qualifiedName, ok := QualifyReference(pkg, imports, reference)
	if !ok {
		return nil, false
	}
	return r.Get(qualifiedName)
}

// Validate checks that all references resolve to a declaration
func (r *declarationRegistry) Validate(pkg string, imports map[string]string, references []string) error {
	var missing []string

	for _, reference := range references {
		reference = strings.TrimSpace(reference)
		if reference == "" {
			continue
		}
		if _, exists := r.Resolve(pkg, imports, reference); !exists {
			missing = append(missing, reference)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("unknown annotation(s): %s", strings.Join(missing, ", "))
	}

	return nil
}

// List returns all declarations ordered by qualified name
func (r *declarationRegistry) List() []*Declaration {
	result := r.declarations.Values()
	sort.Slice(result, func(i, j int) bool {
		return result[i].QualifiedName() < result[j].QualifiedName()
	})
	return result
}

// QualifyReference turns an annotation reference into a qualified name
func QualifyReference(pkg string, imports map[string]string, reference string) (string, bool) {
	alias, name, qualified := strings.Cut(reference, ".")
	if !qualified {
		if pkg == "" {
			return reference, true
		}
		return pkg + "." + reference, true
	}

	path, ok := imports[alias]
	if !ok {
		return "", false
	}
	return path + "." + name, true
}
