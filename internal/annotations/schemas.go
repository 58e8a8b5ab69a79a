package annotations

import (
	"fmt"
)

// Built-in annotation schemas

// InjectAnnotationSchema defines the schema for //splinter::Inject annotations
var InjectAnnotationSchema = AnnotationSchema{
	Type:        InjectAnnotation,
	Description: "Marks a constructor, field or method as an injection point",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::Inject",
	},
}

// NamedAnnotationSchema defines the schema for //splinter::Named annotations
var NamedAnnotationSchema = AnnotationSchema{
	Type:        NamedAnnotation,
	Description: "Qualifies an injection point with a name",
	Parameters: map[string]ParameterSpec{
		ValueParameter: {
			Type:        StringType,
			Required:    true,
			Description: "Name of the binding to resolve",
			Validator:   ValidateNonEmpty,
		},
		TargetParameter: {
			Type:        StringType,
			Required:    false,
			Description: "Parameter the qualifier applies to when placed on a function or method",
			Validator:   ValidateNonEmpty,
		},
	},
	Examples: []string{
		`//splinter::Named("primary")`,
		`//splinter::Named(value="primary")`,
		`//splinter::Named("primary", target="db")`,
	},
}

// SingletonAnnotationSchema defines the schema for //splinter::Singleton annotations
var SingletonAnnotationSchema = AnnotationSchema{
	Type:        SingletonAnnotation,
	Description: "Binds instances of the type in the root scope",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::Singleton",
	},
}

// ReleasableAnnotationSchema defines the schema for //splinter::Releasable annotations
var ReleasableAnnotationSchema = AnnotationSchema{
	Type:        ReleasableAnnotation,
	Description: "Allows a cached singleton to be dropped when its scope is released",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::Singleton",
		"//splinter::Releasable",
	},
}

// ProvidesSingletonAnnotationSchema defines the schema for //splinter::ProvidesSingleton annotations
var ProvidesSingletonAnnotationSchema = AnnotationSchema{
	Type:        ProvidesSingletonAnnotation,
	Description: "Caches the created instance in the target scope",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::ProvidesSingleton",
	},
}

// ProvidesReleasableAnnotationSchema defines the schema for //splinter::ProvidesReleasable annotations
var ProvidesReleasableAnnotationSchema = AnnotationSchema{
	Type:        ProvidesReleasableAnnotation,
	Description: "Allows an instance cached by ProvidesSingleton to be released",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::ProvidesSingleton",
		"//splinter::ProvidesReleasable",
	},
}

// QualifierAnnotationSchema defines the schema for //splinter::Qualifier annotations
var QualifierAnnotationSchema = AnnotationSchema{
	Type:        QualifierAnnotation,
	Description: "Declares the annotated type as a custom qualifier annotation",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::Qualifier",
	},
}

// ScopeAnnotationSchema defines the schema for //splinter::Scope annotations
var ScopeAnnotationSchema = AnnotationSchema{
	Type:        ScopeAnnotation,
	Description: "Declares the annotated type as a custom scope annotation",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//splinter::Scope",
	},
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry *SchemaRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}

	return nil
}

// GetBuiltinSchemas returns all built-in annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		InjectAnnotationSchema,
		NamedAnnotationSchema,
		SingletonAnnotationSchema,
		ReleasableAnnotationSchema,
		ProvidesSingletonAnnotationSchema,
		ProvidesReleasableAnnotationSchema,
		QualifierAnnotationSchema,
		ScopeAnnotationSchema,
	}
}
