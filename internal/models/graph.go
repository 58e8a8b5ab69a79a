package models

import (
	"fmt"
	"sort"
)

// SymbolKind represents the kind of an annotated symbol
type SymbolKind int

const (
	FieldSymbol SymbolKind = iota
	MethodSymbol
	ConstructorSymbol
)

// String returns the string representation of the symbol kind
func (k SymbolKind) String() string {
	switch k {
	case FieldSymbol:
		return "field"
	case MethodSymbol:
		return "method"
	case ConstructorSymbol:
		return "constructor"
	default:
		return "unknown"
	}
}

// Symbol is a member carrying a marker annotation. Owner is nil for
// top-level functions that are not enclosed in any class.
type Symbol struct {
	Kind        SymbolKind
	Owner       *Class
	Field       *Field
	Method      *Method
	Constructor *Constructor
}

// Name returns the member name of the symbol
func (s Symbol) Name() string {
	switch s.Kind {
	case FieldSymbol:
		return s.Field.Name
	case MethodSymbol:
		return s.Method.Name
	case ConstructorSymbol:
		return s.Constructor.Name
	}
	return ""
}

// Annotations returns the annotations attached to the symbol
func (s Symbol) Annotations() Annotations {
	switch s.Kind {
	case FieldSymbol:
		return s.Field.Annotations
	case MethodSymbol:
		return s.Method.Annotations
	case ConstructorSymbol:
		return s.Constructor.Annotations
	}
	return nil
}

// Pos returns the declaration position of the symbol
func (s Symbol) Pos() Position {
	switch s.Kind {
	case FieldSymbol:
		return s.Field.Pos
	case MethodSymbol:
		return s.Method.Pos
	case ConstructorSymbol:
		return s.Constructor.Pos
	}
	return Position{}
}

// String returns "Owner.member" for diagnostics
func (s Symbol) String() string {
	if s.Owner == nil {
		return s.Name()
	}
	return s.Owner.QualifiedName() + "." + s.Name()
}

// SymbolSource is the symbol-resolution collaborator the discovery pass reads from
type SymbolSource interface {
	// Marked enumerates every member carrying the given annotation, deterministically ordered
	Marked(annotationType string) []Symbol
	// Classes returns every known class ordered by qualified name
	Classes() []*Class
	// Class looks up a class by qualified name
	Class(qualifiedName string) (*Class, bool)
	// Supertype returns the direct ancestor of c if it is part of the known set
	Supertype(c *Class) (*Class, bool)
}

// Graph is an in-memory symbol graph
type Graph struct {
	classes map[string]*Class
	order   []string
	funcs   []*Method
}

// NewGraph creates an empty symbol graph
func NewGraph() *Graph {
	return &Graph{
		classes: make(map[string]*Class),
	}
}

// AddClass registers a class. Registering two classes with the same identity is an error.
func (g *Graph) AddClass(c *Class) error {
	if c == nil {
		return fmt.Errorf("class cannot be nil")
	}
	name := c.QualifiedName()
	if _, exists := g.classes[name]; exists {
		return fmt.Errorf("class %s is already registered", name)
	}
	g.classes[name] = c
	g.order = append(g.order, name)
	return nil
}

// MustAddClass registers classes and panics on duplicates; intended for tests and fixtures
func (g *Graph) MustAddClass(classes ...*Class) *Graph {
	for _, c := range classes {
		if err := g.AddClass(c); err != nil {
			panic(err)
		}
	}
	return g
}

// AddFunc registers a top-level function
func (g *Graph) AddFunc(m *Method) {
	g.funcs = append(g.funcs, m)
}

// Len returns the number of classes
func (g *Graph) Len() int {
	return len(g.classes)
}

// Class looks up a class by qualified name
func (g *Graph) Class(qualifiedName string) (*Class, bool) {
	c, ok := g.classes[qualifiedName]
	return c, ok
}

// Classes returns all classes ordered by qualified name
func (g *Graph) Classes() []*Class {
	names := make([]string, len(g.order))
	copy(names, g.order)
	sort.Strings(names)

	result := make([]*Class, 0, len(names))
	for _, name := range names {
		result = append(result, g.classes[name])
	}
	return result
}

// Supertype returns the direct ancestor of c if it is part of the graph
func (g *Graph) Supertype(c *Class) (*Class, bool) {
	if c == nil || c.Super == nil {
		return nil, false
	}
	return g.Class(c.Super.Type.Base().QualifiedName())
}

// Marked enumerates members carrying the given annotation. Classes are visited in
// qualified-name order; within a class fields come first, then methods, then
// constructors, each in declaration order. Top-level functions come last.
func (g *Graph) Marked(annotationType string) []Symbol {
	var symbols []Symbol

	for _, c := range g.Classes() {
		for _, f := range c.Fields {
			if f.Annotations.Has(annotationType) {
				symbols = append(symbols, Symbol{Kind: FieldSymbol, Owner: c, Field: f})
			}
		}
		for _, m := range c.Methods {
			if m.Annotations.Has(annotationType) {
				symbols = append(symbols, Symbol{Kind: MethodSymbol, Owner: c, Method: m})
			}
		}
		for _, ctor := range c.Constructors {
			if ctor.Annotations.Has(annotationType) {
				symbols = append(symbols, Symbol{Kind: ConstructorSymbol, Owner: c, Constructor: ctor})
			}
		}
	}

	funcs := make([]*Method, len(g.funcs))
	copy(funcs, g.funcs)
	sort.SliceStable(funcs, func(i, j int) bool {
		if funcs[i].Package != funcs[j].Package {
			return funcs[i].Package < funcs[j].Package
		}
		return funcs[i].Name < funcs[j].Name
	})
	for _, m := range funcs {
		if m.Annotations.Has(annotationType) {
			symbols = append(symbols, Symbol{Kind: MethodSymbol, Method: m})
		}
	}

	return symbols
}

// Ancestors walks the supertype chain of c within the graph, nearest first.
// The walk stops at the first ancestor outside the graph and guards against cycles.
func (g *Graph) Ancestors(c *Class) []*Class {
	return Ancestors(g, c)
}

// Ancestors walks the supertype chain of c within src, nearest first
func Ancestors(src SymbolSource, c *Class) []*Class {
	var chain []*Class
	seen := map[*Class]bool{c: true}
	for current, ok := src.Supertype(c); ok; current, ok = src.Supertype(current) {
		if seen[current] {
			break
		}
		seen[current] = true
		chain = append(chain, current)
	}
	return chain
}
