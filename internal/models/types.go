package models

import (
	"strings"
)

// RuntimePackage is the import path of the runtime package generated code depends on
const RuntimePackage = "github.com/toyz/splinter/pkg/splinter"

// Well-known wrapper types that change how an injection point is resolved
const (
	ProviderTypeName = "Provider"
	LazyTypeName     = "Lazy"
)

// TypeKind represents the shape of a type reference
type TypeKind int

const (
	NamedType TypeKind = iota
	PointerType
	SliceType
	MapType
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	switch k {
	case NamedType:
		return "named"
	case PointerType:
		return "pointer"
	case SliceType:
		return "slice"
	case MapType:
		return "map"
	default:
		return "unknown"
	}
}

// TypeRef is a language-neutral reference to a declared type.
//
// Named types carry the import path of their package (empty for predeclared
// identifiers such as int or error) and their generic arguments. Composite
// shapes keep their element types in Elem and, for maps, Key.
type TypeRef struct {
	Kind        TypeKind
	Package     string    // import path of the declaring package
	PackageName string    // package name used when the type is rendered from another package
	Name        string    // simple type name
	Args        []TypeRef // generic type arguments
	Elem        *TypeRef  // pointer, slice and map element
	Key         *TypeRef  // map key
}

// Named creates a reference to a named type
func Named(pkg, name string, args ...TypeRef) TypeRef {
	return TypeRef{
		Kind:        NamedType,
		Package:     pkg,
		PackageName: DefaultPackageName(pkg),
		Name:        name,
		Args:        args,
	}
}

// Builtin creates a reference to a predeclared type
func Builtin(name string) TypeRef {
	return TypeRef{Kind: NamedType, Name: name}
}

// PointerTo creates a pointer reference to elem
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: PointerType, Elem: &elem}
}

// SliceOf creates a slice reference of elem
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: SliceType, Elem: &elem}
}

// MapOf creates a map reference
func MapOf(key, elem TypeRef) TypeRef {
	return TypeRef{Kind: MapType, Key: &key, Elem: &elem}
}

// ProviderOf creates a reference to the runtime Provider wrapper
func ProviderOf(payload TypeRef) TypeRef {
	return Named(RuntimePackage, ProviderTypeName, payload)
}

// LazyOf creates a reference to the runtime Lazy wrapper
func LazyOf(payload TypeRef) TypeRef {
	return Named(RuntimePackage, LazyTypeName, payload)
}

// QualifiedName returns the nominal identity of a named type, e.g. "example.com/app.Foo".
// Non-named shapes return their full string form.
func (t TypeRef) QualifiedName() string {
	if t.Kind != NamedType {
		return t.String()
	}
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Is reports whether t is the named type pkg.name, ignoring generic arguments
func (t TypeRef) Is(pkg, name string) bool {
	return t.Kind == NamedType && t.Package == pkg && t.Name == name
}

// IsError reports whether t is the predeclared error type
func (t TypeRef) IsError() bool {
	return t.Is("", "error")
}

// Base strips any pointer indirections
func (t TypeRef) Base() TypeRef {
	for t.Kind == PointerType && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// String returns a fully qualified, human readable form of the type
func (t TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeRef) write(b *strings.Builder) {
	switch t.Kind {
	case PointerType:
		b.WriteString("*")
		writeElem(b, t.Elem)
	case SliceType:
		b.WriteString("[]")
		writeElem(b, t.Elem)
	case MapType:
		b.WriteString("map[")
		writeElem(b, t.Key)
		b.WriteString("]")
		writeElem(b, t.Elem)
	default:
		if t.Package != "" {
			b.WriteString(t.Package)
			b.WriteString(".")
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteString("[")
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteString("]")
		}
	}
}

func writeElem(b *strings.Builder, t *TypeRef) {
	if t == nil {
		b.WriteString("?")
		return
	}
	t.write(b)
}

// Equal reports whether two references describe the same type
func (t TypeRef) Equal(other TypeRef) bool {
	return t.String() == other.String()
}

// DefaultPackageName derives the conventional package name from an import path
func DefaultPackageName(pkg string) string {
	if pkg == "" {
		return ""
	}
	name := pkg
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// gopkg.in/yaml.v3 style and major version suffixes
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	if len(name) > 1 && name[0] == 'v' && strings.Trim(name[1:], "0123456789") == "" {
		trimmed := strings.TrimSuffix(pkg, "/"+name)
		if trimmed != pkg {
			return DefaultPackageName(trimmed)
		}
	}
	return strings.ReplaceAll(name, "-", "_")
}
