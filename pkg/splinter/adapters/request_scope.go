// Package adapters opens a splinter scope for every HTTP request handled by gin, echo
// or fiber, so that request scoped classes live exactly as long as the request.
package adapters

import (
	"github.com/google/uuid"

	"github.com/toyz/splinter/pkg/splinter"
)

// scopeKey is the context key the request scope is stored under
const scopeKey = "splinter.scope"

// scopePrefix prefixes the name of every request scope
const scopePrefix = "request-"

// RequestScope opens a child scope of a parent scope per request
type RequestScope struct {
	parent      *splinter.ScopeNode
	annotations []string
}

// NewRequestScope creates request scopes under parent. Each one supports the given
// scope annotations, e.g. "example.com/app.RequestScope".
func NewRequestScope(parent *splinter.ScopeNode, annotations ...string) *RequestScope {
	return &RequestScope{
		parent:      parent,
		annotations: annotations,
	}
}

func (r *RequestScope) open() *splinter.ScopeNode {
	scope := r.parent.OpenSubScope(scopePrefix + uuid.NewString())
	for _, annotation := range r.annotations {
		scope.SupportScopeAnnotation(annotation)
	}
	return scope
}
