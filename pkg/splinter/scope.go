// Package splinter is the runtime generated factories and member injectors depend on:
// a tree of scopes holding bindings, type-safe providers and lazies, and the registry
// generated init functions populate.
package splinter

import (
	"fmt"
	"sync"
)

// SingletonAnnotation is the scope annotation every root scope supports
const SingletonAnnotation = "github.com/toyz/splinter/pkg/splinter.Singleton"

// Scope is the contract generated factories and member injectors resolve against
type Scope interface {
	Name() string
	// Instance resolves key, panicking with an *InjectionFailure when it cannot
	Instance(key Key) any
	// Provider returns a function resolving key on every call
	Provider(key Key) func() any
	// Lazy returns a function resolving key on its first call only
	Lazy(key Key) func() any
	// Parent returns nil for a root scope
	Parent() Scope
	RootScope() Scope
	// ParentScope returns the nearest scope, starting with this one, that supports annotation
	ParentScope(annotation string) Scope
}

// ScopeNode is a node of the scope tree
type ScopeNode struct {
	name   string
	parent *ScopeNode

	mu          sync.Mutex
	children    map[string]*ScopeNode
	annotations map[string]bool
	bindings    map[Key]*binding
	closed      bool
}

// NewScope creates a root scope
func NewScope(name string) *ScopeNode {
	return newScopeNode(name, nil)
}

func newScopeNode(name string, parent *ScopeNode) *ScopeNode {
	return &ScopeNode{
		name:        name,
		parent:      parent,
		children:    make(map[string]*ScopeNode),
		annotations: make(map[string]bool),
		bindings:    make(map[Key]*binding),
	}
}

// Name returns the scope name
func (s *ScopeNode) Name() string {
	return s.name
}

// Parent returns the parent scope or nil
func (s *ScopeNode) Parent() Scope {
	if s.parent == nil {
		return nil
	}
	return s.parent
}

// RootScope returns the root of the tree s belongs to
func (s *ScopeNode) RootScope() Scope {
	return s.root()
}

func (s *ScopeNode) root() *ScopeNode {
	n := s
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// ParentScope returns the nearest scope supporting annotation
func (s *ScopeNode) ParentScope(annotation string) Scope {
	for n := s; n != nil; n = n.parent {
		if n.Supports(annotation) {
			return n
		}
	}
	panic(NewInjectionFailure(fmt.Sprintf("no scope in the hierarchy of %q supports %s", s.name, annotation), nil))
}

// Supports reports whether s carries annotation
func (s *ScopeNode) Supports(annotation string) bool {
	if annotation == SingletonAnnotation && s.parent == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotations[annotation]
}

// SupportScopeAnnotation tags s with a scope annotation
func (s *ScopeNode) SupportScopeAnnotation(annotation string) *ScopeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations[annotation] = true
	return s
}

// OpenSubScope returns the child scope with the given name, creating it if needed
func (s *ScopeNode) OpenSubScope(name string) *ScopeNode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if child, ok := s.children[name]; ok {
		return child
	}
	child := newScopeNode(name, s)
	s.children[name] = child
	return child
}

// Children returns the names of the open child scopes
func (s *ScopeNode) Children() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.children))
	for name := range s.children {
		names = append(names, name)
	}
	return names
}

// Release drops the cached instances of releasable bindings in s and its children
func (s *ScopeNode) Release() {
	s.mu.Lock()
	bindings := make([]*binding, 0, len(s.bindings))
	for _, b := range s.bindings {
		bindings = append(bindings, b)
	}
	children := s.childList()
	s.mu.Unlock()

	for _, b := range bindings {
		b.release()
	}
	for _, child := range children {
		child.Release()
	}
}

// Close closes s and all its children and detaches it from its parent
func (s *ScopeNode) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	children := s.childList()
	s.children = make(map[string]*ScopeNode)
	s.bindings = make(map[Key]*binding)
	s.mu.Unlock()

	for _, child := range children {
		child.Close()
	}

	if s.parent != nil {
		s.parent.mu.Lock()
		if s.parent.children[s.name] == s {
			delete(s.parent.children, s.name)
		}
		s.parent.mu.Unlock()
	}
}

// Closed reports whether Close was called on s
func (s *ScopeNode) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *ScopeNode) childList() []*ScopeNode {
	children := make([]*ScopeNode, 0, len(s.children))
	for _, child := range s.children {
		children = append(children, child)
	}
	return children
}

func (s *ScopeNode) bind(key Key, b *binding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[key] = b
}

// install keeps an existing binding for key and returns the one in effect
func (s *ScopeNode) install(key Key, b *binding) *binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.bindings[key]; ok {
		return existing
	}
	s.bindings[key] = b
	return b
}

// lookup finds the binding for key in s or its ancestors
func (s *ScopeNode) lookup(key Key) (*ScopeNode, *binding) {
	for n := s; n != nil; n = n.parent {
		n.mu.Lock()
		b, ok := n.bindings[key]
		n.mu.Unlock()
		if ok {
			return n, b
		}
	}
	return nil, nil
}

// Instance resolves key. Explicit bindings win; unqualified keys without one fall back
// to the registered factory. Scoped factories install a binding in their target scope,
// unscoped ones build a new instance in s on every request.
func (s *ScopeNode) Instance(key Key) any {
	if s.Closed() {
		panic(NewInjectionFailure(fmt.Sprintf("scope %q is closed", s.name), nil))
	}
	if owner, b := s.lookup(key); b != nil {
		return b.get(owner)
	}
	if key.Qualifier != "" {
		panic(NewInjectionFailure(fmt.Sprintf("cannot resolve %s in scope %q", key, s.name), ErrNoBinding))
	}

	f, ok := defaultRegistry.factory(key.Type)
	if !ok {
		panic(NewInjectionFailure(fmt.Sprintf("cannot resolve %s in scope %q: no factory registered", key, s.name), ErrNoBinding))
	}
	if !f.flags.scoped {
		return f.create(s)
	}

	target, ok := f.target(s).(*ScopeNode)
	if !ok {
		panic(NewInjectionFailure(fmt.Sprintf("target scope of %s is not part of the scope tree", key), nil))
	}
	b := target.install(key, &binding{
		create:     f.create,
		singleton:  f.flags.singleton,
		releasable: f.flags.releasable,
	})
	return b.get(target)
}

// Provider returns a function resolving key from s on every call
func (s *ScopeNode) Provider(key Key) func() any {
	return func() any {
		return s.Instance(key)
	}
}

// Lazy returns a function resolving key from s once
func (s *ScopeNode) Lazy(key Key) func() any {
	l := &lazy[any]{get: func() any {
		return s.Instance(key)
	}}
	return l.Get
}
