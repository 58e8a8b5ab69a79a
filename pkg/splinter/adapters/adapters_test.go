package adapters

import (
	"sync/atomic"

	"github.com/toyz/splinter/pkg/splinter"
)

const requestAnnotation = "example.com/app.RequestScope"

type requestState struct {
	id int64
}

var requestStates atomic.Int64

type requestState__Factory struct{}

func (requestState__Factory) CreateInstance(splinter.Scope) *requestState {
	return &requestState{id: requestStates.Add(1)}
}

func (requestState__Factory) TargetScope(scope splinter.Scope) splinter.Scope {
	return scope.ParentScope(requestAnnotation)
}

func (requestState__Factory) HasScopeAnnotation() bool              { return true }
func (requestState__Factory) HasSingletonAnnotation() bool          { return true }
func (requestState__Factory) HasReleasableAnnotation() bool         { return false }
func (requestState__Factory) HasProvidesSingletonAnnotation() bool  { return false }
func (requestState__Factory) HasProvidesReleasableAnnotation() bool { return false }

func init() {
	splinter.RegisterFactory[*requestState](requestState__Factory{})
}

type stateResponse struct {
	ID   int64  `json:"id"`
	Same bool   `json:"same"`
	Path string `json:"path"`
}

func resolveState(scope splinter.Scope, path string) stateResponse {
	first := splinter.GetInstance[*requestState](scope, "")
	second := splinter.GetInstance[*requestState](scope, "")
	return stateResponse{ID: first.id, Same: first == second, Path: path}
}
