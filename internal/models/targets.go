package models

// Kind represents how an injection point is resolved from a scope
type Kind int

const (
	// KindInstance resolves the declared type directly
	KindInstance Kind = iota
	// KindProvider resolves a deferred factory of the payload type
	KindProvider
	// KindLazy resolves a memoized-once wrapper of the payload type
	KindLazy
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "INSTANCE"
	case KindProvider:
		return "PROVIDER"
	case KindLazy:
		return "LAZY"
	default:
		return "UNKNOWN"
	}
}

// InjectionTarget is a single injection point: a constructor parameter, a field or a method parameter
type InjectionTarget struct {
	DeclaredType TypeRef
	PayloadType  TypeRef // type requested from the scope
	OwnerName    string  // field or parameter name
	Kind         Kind
	Qualifier    string // empty when unqualified
}

// EmbedStep is one hop from a class to an embedded ancestor
type EmbedStep struct {
	Field   string
	Pointer bool
}

// SuperclassRef points at the nearest ancestor that requires member injection
type SuperclassRef struct {
	Owner ClassRef
	Type  TypeRef
	// Path is the chain of embedded fields walked from the class down to the ancestor
	Path []EmbedStep
}

// Origin records the source symbol an artifact was derived from
type Origin struct {
	Symbol string
	Pos    Position
}

// ConstructibleClass describes a class that gets a generated factory
type ConstructibleClass struct {
	Owner                ClassRef
	Type                 TypeRef
	ScopeAnnotation      string // empty means unscoped
	IsSingleton          bool
	IsReleasable         bool
	ProvidesSingleton    bool
	ProvidesReleasable   bool
	Super                *SuperclassRef
	HasOwnMemberInjector bool
	Constructor          string // empty means zero-value construction
	ReturnsPointer       bool
	Throws               bool
	Parameters           []InjectionTarget
	Origins              []Origin
}

// HasScopeAnnotation reports whether any scope annotation was found on the class
func (c *ConstructibleClass) HasScopeAnnotation() bool {
	return c.ScopeAnnotation != ""
}

// MethodTarget is an injected method
type MethodTarget struct {
	Name       string
	Shadows    bool // an ancestor injects a method of the same name
	Parameters []InjectionTarget
	Results    []TypeRef
	Throws     []TypeRef
	Pos        Position
}

// InjectableClass describes a class that gets a generated member injector
type InjectableClass struct {
	Owner   ClassRef
	Type    TypeRef
	Fields  []InjectionTarget
	Methods []MethodTarget
	Super   *SuperclassRef
	Origins []Origin
}

// Empty reports whether the class has neither field nor method targets
func (c *InjectableClass) Empty() bool {
	return len(c.Fields) == 0 && len(c.Methods) == 0
}
