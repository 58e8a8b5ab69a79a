package models

import (
	"fmt"
	"strings"
)

// Built-in annotation identities
const (
	InjectAnnotation             = RuntimePackage + ".Inject"
	NamedAnnotation              = RuntimePackage + ".Named"
	SingletonAnnotation          = RuntimePackage + ".Singleton"
	ReleasableAnnotation         = RuntimePackage + ".Releasable"
	ProvidesSingletonAnnotation  = RuntimePackage + ".ProvidesSingleton"
	ProvidesReleasableAnnotation = RuntimePackage + ".ProvidesReleasable"
)

// Visibility represents the access level of a declared symbol
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPackage
	VisibilityInternal
	VisibilityProtected
	VisibilityPublic
)

// String returns the string representation of the visibility
func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPackage:
		return "package"
	case VisibilityInternal:
		return "internal"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	default:
		return "unknown"
	}
}

// Position represents where a symbol was declared
type Position struct {
	File   string // file path
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// String returns a formatted string representation of the position
func (p Position) String() string {
	if p.File == "" {
		return "unknown location"
	}
	if p.Line == 0 {
		return p.File
	}
	if p.Column == 0 {
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Annotation is an annotation instance attached to a symbol
type Annotation struct {
	Type      string            // qualified identity of the annotation
	Value     string            // positional value, e.g. the name of a Named annotation
	Args      map[string]string // named arguments
	Qualifier bool              // the annotation type is itself marked as a qualifier
	Scope     bool              // the annotation type is itself marked as a scope
	Pos       Position
}

// SimpleName returns the annotation name without its package path
func (a Annotation) SimpleName() string {
	if i := strings.LastIndex(a.Type, "."); i >= 0 {
		return a.Type[i+1:]
	}
	return a.Type
}

// Annotations is an ordered annotation list
type Annotations []Annotation

// Has reports whether an annotation of the given type is present
func (as Annotations) Has(annotationType string) bool {
	_, ok := as.Find(annotationType)
	return ok
}

// Find returns the first annotation of the given type
func (as Annotations) Find(annotationType string) (Annotation, bool) {
	for _, a := range as {
		if a.Type == annotationType {
			return a, true
		}
	}
	return Annotation{}, false
}

// All returns every annotation of the given type in declaration order
func (as Annotations) All(annotationType string) []Annotation {
	var result []Annotation
	for _, a := range as {
		if a.Type == annotationType {
			result = append(result, a)
		}
	}
	return result
}

// Supertype is an edge from a class to the ancestor it extends.
// For Go sources this is the embedded struct field that promotes the ancestor's members.
type Supertype struct {
	Type    TypeRef // named type of the ancestor
	Field   string  // embedded field name used to reach the ancestor
	Pointer bool    // ancestor is embedded through a pointer
}

// Class describes a declared struct type and its members
type Class struct {
	Name         string   // simple name
	Package      string   // import path
	PackageName  string   // package name
	Dir          string   // directory of the declaring source file
	Enclosing    []string // simple names of enclosing types, outermost first
	Visibility   Visibility
	Annotations  Annotations
	Super        *Supertype
	Embeds       []Supertype // every embedded named type, in declaration order
	Fields       []*Field
	Methods      []*Method
	Constructors []*Constructor
	Pos          Position
}

// QualifiedName returns the fully qualified identity of the class
func (c *Class) QualifiedName() string {
	return c.Ref().QualifiedName()
}

// Ref returns the reference describing this class
func (c *Class) Ref() ClassRef {
	return ClassRef{
		Package:     c.Package,
		PackageName: c.PackageName,
		Name:        c.Name,
		Enclosing:   c.Enclosing,
		Dir:         c.Dir,
	}
}

// Type returns the named type of the class
func (c *Class) Type() TypeRef {
	t := Named(c.Package, c.Ref().JoinedName())
	if c.PackageName != "" {
		t.PackageName = c.PackageName
	}
	return t
}

// Method returns the method with the given name
func (c *Class) Method(name string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Field is a struct field
type Field struct {
	Name        string
	Type        TypeRef
	Visibility  Visibility
	Annotations Annotations
	Pos         Position
}

// Param is a function or method parameter
type Param struct {
	Name        string
	Type        TypeRef
	Annotations Annotations
	Pos         Position
}

// Method is a function with an optional receiver
type Method struct {
	Name        string
	Receiver    string // simple name of the receiver type, empty for top-level functions
	Package     string
	Params      []*Param
	Results     []TypeRef
	Throws      []TypeRef // declared failure types, e.g. error
	Visibility  Visibility
	Annotations Annotations
	Pos         Position
}

// Constructor is a function building an instance of its owning class
type Constructor struct {
	Name           string
	Params         []*Param
	Throws         []TypeRef // results following the product
	ReturnsPointer bool
	Result         TypeRef // declared product, T or *T
	Visibility     Visibility
	Annotations    Annotations
	Pos            Position
}

// ClassRef identifies a class for emission and naming purposes
type ClassRef struct {
	Package     string
	PackageName string
	Name        string
	Enclosing   []string
	Dir         string
}

// JoinedName returns the enclosing and simple names joined with '$'
func (r ClassRef) JoinedName() string {
	if len(r.Enclosing) == 0 {
		return r.Name
	}
	return strings.Join(append(append([]string{}, r.Enclosing...), r.Name), "$")
}

// QualifiedName returns the fully qualified class identity
func (r ClassRef) QualifiedName() string {
	if r.Package == "" {
		return r.JoinedName()
	}
	return r.Package + "." + r.JoinedName()
}

// ArtifactName returns the generated artifact name for the given suffix
func (r ClassRef) ArtifactName(suffix string) string {
	return r.JoinedName() + suffix
}

// Artifact suffixes
const (
	FactorySuffix        = "__Factory"
	MemberInjectorSuffix = "__MemberInjector"
)

// FactoryName returns the name of the generated factory artifact
func (r ClassRef) FactoryName() string {
	return r.ArtifactName(FactorySuffix)
}

// MemberInjectorName returns the name of the generated member injector artifact
func (r ClassRef) MemberInjectorName() string {
	return r.ArtifactName(MemberInjectorSuffix)
}

// GoIdent converts an artifact or joined class name into a valid Go identifier
func GoIdent(name string) string {
	return strings.ReplaceAll(name, "$", "_")
}
