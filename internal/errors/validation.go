package errors

import "fmt"

// RegistrationError represents an error during component registration
type RegistrationError struct {
	*BaseError
	ComponentType string // kind of component being registered
	ComponentName string // name of the component
	Reason        string // why registration failed
}

// NewRegistrationError creates a new registration error
func NewRegistrationError(componentType, componentName, reason string) *RegistrationError {
	message := fmt.Sprintf("failed to register %s '%s': %s", componentType, componentName, reason)

	return &RegistrationError{
		BaseError:     New(RegistrationErrorCode, message),
		ComponentType: componentType,
		ComponentName: componentName,
		Reason:        reason,
	}
}

// WithLocation adds location information to the registration error
func (e *RegistrationError) WithLocation(loc SourceLocation) *RegistrationError {
	e.BaseError.WithLocation(loc)
	return e
}

// StructuralError reports an injection point or class that cannot be generated
type StructuralError struct {
	*BaseError
	Owner  string // qualified name of the owning class, empty for top-level functions
	Member string // field, method or constructor name
}

// NewStructuralError creates a structural error against owner.member
func NewStructuralError(owner, member, message string) *StructuralError {
	return &StructuralError{
		BaseError: New(StructuralErrorCode, fmt.Sprintf("%s: %s", symbolName(owner, member), message)),
		Owner:     owner,
		Member:    member,
	}
}

// WithLocation adds location information to the structural error
func (e *StructuralError) WithLocation(loc SourceLocation) *StructuralError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *StructuralError) WithSuggestion(suggestion string) *StructuralError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// VisibilityError reports an injected method whose visibility breaks policy
type VisibilityError struct {
	*BaseError
	Owner  string
	Member string
	Strict bool // reported as an error rather than a warning
}

// NewVisibilityError creates a visibility policy violation
func NewVisibilityError(owner, member, visibility string, strict bool) *VisibilityError {
	message := fmt.Sprintf("%s: injected method should be package visible, but is %s", symbolName(owner, member), visibility)
	return &VisibilityError{
		BaseError: New(VisibilityErrorCode, message).
			WithSuggestion("Rename the method to start with a lower-case letter"),
		Owner:  owner,
		Member: member,
		Strict: strict,
	}
}

// WithLocation adds location information to the visibility error
func (e *VisibilityError) WithLocation(loc SourceLocation) *VisibilityError {
	e.BaseError.WithLocation(loc)
	return e
}

// GenerationError represents an error during code generation
type GenerationError struct {
	*BaseError
	Artifact string // generated artifact name
	Stage    string // render, format or write
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

func symbolName(owner, member string) string {
	switch {
	case owner == "":
		return member
	case member == "":
		return owner
	default:
		return owner + "." + member
	}
}
