package annotations

import (
	"fmt"
	"strings"
)

// Prefix marks a line comment as a splinter annotation
const Prefix = "splinter::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	CustomAnnotation AnnotationType = iota
	InjectAnnotation
	NamedAnnotation
	SingletonAnnotation
	ReleasableAnnotation
	ProvidesSingletonAnnotation
	ProvidesReleasableAnnotation
	QualifierAnnotation
	ScopeAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case CustomAnnotation:
		return "custom"
	case InjectAnnotation:
		return "Inject"
	case NamedAnnotation:
		return "Named"
	case SingletonAnnotation:
		return "Singleton"
	case ReleasableAnnotation:
		return "Releasable"
	case ProvidesSingletonAnnotation:
		return "ProvidesSingleton"
	case ProvidesReleasableAnnotation:
		return "ProvidesReleasable"
	case QualifierAnnotation:
		return "Qualifier"
	case ScopeAnnotation:
		return "Scope"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts a built-in annotation name to AnnotationType.
// Unknown names are custom annotations.
func ParseAnnotationType(s string) AnnotationType {
	switch s {
	case "Inject":
		return InjectAnnotation
	case "Named":
		return NamedAnnotation
	case "Singleton":
		return SingletonAnnotation
	case "Releasable":
		return ReleasableAnnotation
	case "ProvidesSingleton":
		return ProvidesSingletonAnnotation
	case "ProvidesReleasable":
		return ProvidesReleasableAnnotation
	case "Qualifier":
		return QualifierAnnotation
	case "Scope":
		return ScopeAnnotation
	default:
		return CustomAnnotation
	}
}

// IsAnnotation reports whether a comment line carries a splinter annotation
func IsAnnotation(comment string) bool {
	content := strings.TrimSpace(comment)
	if !strings.HasPrefix(content, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(content[2:]), Prefix)
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Name       string                 // Simple annotation name as written
	Package    string                 // Package alias for qualified references such as scopes.Presenter
	Parameters map[string]interface{} // Typed parameters; the positional argument is stored under "value"
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// ValueParameter is the parameter name a positional argument is stored under
const ValueParameter = "value"

// TargetParameter routes an annotation placed on a function or method to one of its parameters
const TargetParameter = "target"

// Reference returns the annotation reference as written, e.g. "Presenter" or "scopes.Presenter"
func (p *ParsedAnnotation) Reference() string {
	if p.Package == "" {
		return p.Name
	}
	return p.Package + "." + p.Name
}

// IsBuiltin reports whether the annotation is one of the built-in annotations
func (p *ParsedAnnotation) IsBuiltin() bool {
	return p.Type != CustomAnnotation
}

// Value returns the positional argument as a string
func (p *ParsedAnnotation) Value() string {
	return p.GetString(ValueParameter)
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// StringParameters returns every parameter rendered as a string
func (p *ParsedAnnotation) StringParameters() map[string]string {
	if len(p.Parameters) == 0 {
		return nil
	}
	result := make(map[string]string, len(p.Parameters))
	for key, value := range p.Parameters {
		result[key] = ConvertToString(value)
	}
	return result
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	IntType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Default value if not provided
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// CustomValidator represents a custom validation function for annotations
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Parameters  map[string]ParameterSpec // Parameter specifications
	Validators  []CustomValidator        // Custom validation functions
	Examples    []string                 // Usage examples
}

// ConvertToString converts any value to a string
func ConvertToString(value interface{}) string {
	if strValue, ok := value.(string); ok {
		return strValue
	}
	return fmt.Sprintf("%v", value)
}
