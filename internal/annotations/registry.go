package annotations

import (
	"fmt"
	"sort"
	"sync"
)

// SchemaSource looks up the schema of a built-in annotation
type SchemaSource interface {
	Schema(annotationType AnnotationType) (AnnotationSchema, bool)
}

// SchemaRegistry holds the schemas built-in annotations are validated against
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[AnnotationType]AnnotationSchema
}

// NewRegistry creates an empty schema registry
func NewRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: make(map[AnnotationType]AnnotationSchema)}
}

var defaultRegistry = sync.OnceValue(func() *SchemaRegistry {
	registry := NewRegistry()
	if err := RegisterBuiltinSchemas(registry); err != nil {
		panic(err)
	}
	return registry
})

// DefaultRegistry returns the shared registry holding the built-in schemas
func DefaultRegistry() *SchemaRegistry {
	return defaultRegistry()
}

// Register adds schema under schema.Type. Custom annotations have no schema; they are
// declared in source with Qualifier or Scope.
func (r *SchemaRegistry) Register(schema AnnotationSchema) error {
	if schema.Type == CustomAnnotation {
		return &RegistrationError{
			Msg:  "custom annotations have no schema",
			Hint: "Declare custom annotations with //splinter::Qualifier or //splinter::Scope on a type",
		}
	}
	for name, spec := range schema.Parameters {
		if err := checkParameter(name, spec); err != nil {
			return &RegistrationError{
				Msg:  fmt.Sprintf("invalid schema for %s: %v", schema.Type, err),
				Hint: "Fix the parameter declaration",
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[schema.Type]; exists {
		return &RegistrationError{
			Msg:  fmt.Sprintf("annotation type %s is already registered", schema.Type),
			Hint: "Register each schema once",
		}
	}
	r.schemas[schema.Type] = schema
	return nil
}

// Schema returns the schema registered for annotationType
func (r *SchemaRegistry) Schema(annotationType AnnotationType) (AnnotationSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[annotationType]
	return schema, ok
}

// Types returns the registered annotation types in declaration order
func (r *SchemaRegistry) Types() []AnnotationType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]AnnotationType, 0, len(r.schemas))
	for annotationType := range r.schemas {
		types = append(types, annotationType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func checkParameter(name string, spec ParameterSpec) error {
	if name == "" {
		return fmt.Errorf("parameter name cannot be empty")
	}
	if spec.DefaultValue == nil {
		if spec.Type < StringType || spec.Type > IntType {
			return fmt.Errorf("parameter %s has unknown type %d", name, spec.Type)
		}
		return nil
	}

	var ok bool
	switch spec.Type {
	case StringType:
		_, ok = spec.DefaultValue.(string)
	case BoolType:
		_, ok = spec.DefaultValue.(bool)
	case IntType:
		_, ok = spec.DefaultValue.(int)
	default:
		return fmt.Errorf("parameter %s has unknown type %d", name, spec.Type)
	}
	if !ok {
		return fmt.Errorf("default of %s parameter %s is a %T", spec.Type, name, spec.DefaultValue)
	}
	return nil
}
