package splinter

import (
	"fmt"
	"reflect"
	"sync"
)

// Factory creates instances of T. Implementations are generated and registered from
// init functions.
type Factory[T any] interface {
	CreateInstance(scope Scope) T
	TargetScope(scope Scope) Scope
	HasScopeAnnotation() bool
	HasSingletonAnnotation() bool
	HasReleasableAnnotation() bool
	HasProvidesSingletonAnnotation() bool
	HasProvidesReleasableAnnotation() bool
}

// MemberInjector populates the injected fields and methods of an existing T
type MemberInjector[T any] interface {
	Inject(target T, scope Scope)
}

// factoryFlags are the caching hints a factory carries
type factoryFlags struct {
	scoped             bool
	singleton          bool
	releasable         bool
	providesSingleton  bool
	providesReleasable bool
}

type registeredFactory struct {
	create func(Scope) any
	target func(Scope) Scope
	flags  factoryFlags
}

type registry struct {
	mu        sync.RWMutex
	factories map[reflect.Type]registeredFactory
	injectors map[reflect.Type]func(any, Scope)
}

var defaultRegistry = &registry{
	factories: make(map[reflect.Type]registeredFactory),
	injectors: make(map[reflect.Type]func(any, Scope)),
}

// RegisterFactory makes f the factory used for unbound, unqualified requests of T.
// A later registration for the same type replaces the earlier one.
func RegisterFactory[T any](f Factory[T]) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	defaultRegistry.factories[reflect.TypeFor[T]()] = registeredFactory{
		create: func(scope Scope) any { return f.CreateInstance(scope) },
		target: f.TargetScope,
		flags: factoryFlags{
			scoped:             f.HasScopeAnnotation(),
			singleton:          f.HasSingletonAnnotation(),
			releasable:         f.HasReleasableAnnotation(),
			providesSingleton:  f.HasProvidesSingletonAnnotation(),
			providesReleasable: f.HasProvidesReleasableAnnotation(),
		},
	}
}

// RegisterMemberInjector makes mi the injector used by Inject for targets of type T
func RegisterMemberInjector[T any](mi MemberInjector[T]) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	defaultRegistry.injectors[reflect.TypeFor[T]()] = func(target any, scope Scope) {
		mi.Inject(target.(T), scope)
	}
}

func (r *registry) factory(t reflect.Type) (registeredFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[t]
	return f, ok
}

func (r *registry) injector(t reflect.Type) (func(any, Scope), bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inject, ok := r.injectors[t]
	return inject, ok
}

// Inject populates the injected members of target, which is usually a pointer to a
// struct that was not built by a factory
func Inject(target any, scope Scope) error {
	if target == nil {
		return fmt.Errorf("inject: %w for nil target", ErrNoMemberInjector)
	}
	inject, ok := defaultRegistry.injector(reflect.TypeOf(target))
	if !ok {
		return fmt.Errorf("inject %T: %w", target, ErrNoMemberInjector)
	}
	return Capture(func() { inject(target, scope) })
}
