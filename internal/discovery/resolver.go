package discovery

import (
	"fmt"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
)

// Resolver classifies injection points
type Resolver struct{}

// NewResolver creates a new injection point resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve builds the injection target for one field or parameter of owner.
//
// The kind is derived only from the nominal identity of the declared type: the runtime
// Provider and Lazy wrappers resolve their first type argument, anything else resolves
// itself. A wrapper without a type argument cannot be resolved and returns an error.
// Extra qualifiers are reported as error diagnostics while the first one is kept.
func (r *Resolver) Resolve(owner, member string, declared models.TypeRef, as models.Annotations, pos models.Position) (models.InjectionTarget, Diagnostics, error) {
	target := models.InjectionTarget{
		DeclaredType: declared,
		PayloadType:  declared,
		OwnerName:    member,
		Kind:         kindOf(declared),
	}

	if target.Kind != models.KindInstance {
		if len(declared.Args) == 0 {
			return models.InjectionTarget{}, nil, errors.NewStructuralError(owner, member,
				fmt.Sprintf("%s is missing its type argument", declared.Name)).
				WithLocation(location(pos)).
				WithSuggestion(fmt.Sprintf("Declare the type as splinter.%s[T]", declared.Name))
		}
		target.PayloadType = declared.Args[0]
	}

	var diagnostics Diagnostics
	qualifiers := qualifiersOf(as)
	if len(qualifiers) > 0 {
		target.Qualifier = qualifiers[0]
	}
	if len(qualifiers) > 1 {
		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityError,
			Err: errors.NewStructuralError(owner, member,
				fmt.Sprintf("only one qualifier annotation is allowed, found %d; using %q", len(qualifiers), qualifiers[0])).
				WithLocation(location(pos)),
		})
	}

	return target, diagnostics, nil
}

func kindOf(t models.TypeRef) models.Kind {
	switch {
	case t.Is(models.RuntimePackage, models.ProviderTypeName):
		return models.KindProvider
	case t.Is(models.RuntimePackage, models.LazyTypeName):
		return models.KindLazy
	default:
		return models.KindInstance
	}
}

// qualifiersOf returns custom qualifier identities first, then Named values, each in
// declaration order
func qualifiersOf(as models.Annotations) []string {
	var qualifiers []string
	for _, a := range as {
		if a.Qualifier {
			qualifiers = append(qualifiers, a.Type)
		}
	}
	for _, a := range as.All(models.NamedAnnotation) {
		qualifiers = append(qualifiers, a.Value)
	}
	return qualifiers
}
