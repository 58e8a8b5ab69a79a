package discovery

import (
	"fmt"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/utils"
)

func structural(owner *models.Class, member string, pos models.Position, format string, args ...interface{}) Diagnostic {
	name := ""
	if owner != nil {
		name = owner.QualifiedName()
	}
	return Diagnostic{
		Severity: SeverityError,
		Err:      errors.NewStructuralError(name, member, fmt.Sprintf(format, args...)).WithLocation(location(pos)),
	}
}

// checkEnclosed rejects injected functions that do not belong to a struct type
func checkEnclosed(symbol models.Symbol) *Diagnostic {
	if symbol.Owner != nil {
		return nil
	}
	d := structural(nil, symbol.Method.Name, symbol.Pos(), "injected method must be enclosed in a struct type")
	if symbol.Method.Receiver != "" {
		d = structural(nil, symbol.Method.Receiver+"."+symbol.Method.Name, symbol.Pos(),
			"injected method must be declared on a struct type")
	}
	return &d
}

// checkNotPrivate rejects injected fields and methods that generated code cannot reach
func checkNotPrivate(symbol models.Symbol, visibility models.Visibility) *Diagnostic {
	if visibility != models.VisibilityPrivate {
		return nil
	}
	d := structural(symbol.Owner, symbol.Name(), symbol.Pos(), "injected %s must not be private", symbol.Kind)
	return &d
}

// checkMethodVisibility reports injected methods that are not package visible. The
// returned flag is true when the method must be dropped.
func checkMethodVisibility(symbol models.Symbol, strict bool) (*Diagnostic, bool) {
	visibility := symbol.Method.Visibility
	if visibility == models.VisibilityPackage || visibility == models.VisibilityInternal {
		return nil, false
	}

	severity := SeverityWarning
	if strict {
		severity = SeverityError
	}
	return &Diagnostic{
		Severity: severity,
		Err: errors.NewVisibilityError(symbol.Owner.QualifiedName(), symbol.Name(), visibility.String(), strict).
			WithLocation(location(symbol.Pos())),
	}, strict
}

// constructorResults checks the results following the product: nothing, or a single error
var constructorResults = utils.NewValidatorChain(
	utils.Custom("results", "a constructor may only return an error after the product", func(throws []models.TypeRef) bool {
		return len(throws) <= 1
	}),
	utils.Custom("results", "the second result of a constructor must be error", func(throws []models.TypeRef) bool {
		return len(throws) == 0 || throws[0].IsError()
	}),
)

func checkConstructor(symbol models.Symbol) *Diagnostic {
	ctor := symbol.Constructor
	if ctor.Visibility == models.VisibilityPrivate {
		d := structural(symbol.Owner, ctor.Name, ctor.Pos, "injected constructor must not be private")
		return &d
	}
	if err := constructorResults.Validate(ctor.Throws); err != nil {
		message := err.Error()
		if validationErr, ok := err.(utils.ValidationError); ok {
			message = validationErr.Message
		}
		return &Diagnostic{
			Severity: SeverityError,
			Err: errors.NewStructuralError(symbol.Owner.QualifiedName(), ctor.Name, message).
				WithLocation(location(ctor.Pos)).
				WithSuggestion(fmt.Sprintf("Return *%s or (*%s, error)", symbol.Owner.Name, symbol.Owner.Name)),
		}
	}
	return nil
}

// classFlags are the class level annotations that drive factory behavior
type classFlags struct {
	scope              string
	singleton          bool
	releasable         bool
	providesSingleton  bool
	providesReleasable bool
}

func (f classFlags) annotated() bool {
	return f.scope != "" || f.singleton || f.releasable || f.providesSingleton || f.providesReleasable
}

// readClassFlags reads the class annotations and reports contradicting combinations
func readClassFlags(c *models.Class) (classFlags, Diagnostics) {
	flags := classFlags{
		singleton:          c.Annotations.Has(models.SingletonAnnotation),
		releasable:         c.Annotations.Has(models.ReleasableAnnotation),
		providesSingleton:  c.Annotations.Has(models.ProvidesSingletonAnnotation),
		providesReleasable: c.Annotations.Has(models.ProvidesReleasableAnnotation),
	}

	var scopes []string
	for _, a := range c.Annotations {
		if a.Scope {
			scopes = append(scopes, a.Type)
		}
	}

	var diagnostics Diagnostics
	switch {
	case len(scopes) > 1:
		diagnostics = append(diagnostics, structural(c, "", c.Pos, "only one scope annotation is allowed, found %d", len(scopes)))
	case len(scopes) == 1:
		flags.scope = scopes[0]
	case flags.singleton:
		flags.scope = models.SingletonAnnotation
	}

	if flags.releasable && !flags.singleton {
		diagnostics = append(diagnostics, structural(c, "", c.Pos, "Releasable requires Singleton"))
	}
	if flags.providesReleasable && !flags.providesSingleton {
		diagnostics = append(diagnostics, structural(c, "", c.Pos, "ProvidesReleasable requires ProvidesSingleton"))
	}

	return flags, diagnostics
}
