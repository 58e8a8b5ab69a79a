package splinter

import (
	"fmt"
	"reflect"
	"sync"
)

type binding struct {
	create     func(Scope) any
	singleton  bool
	releasable bool

	mu       sync.Mutex
	created  bool
	instance any
}

// get builds outside the lock so that create may resolve further keys
func (b *binding) get(owner *ScopeNode) any {
	if !b.singleton {
		return b.create(owner)
	}

	b.mu.Lock()
	if b.created {
		instance := b.instance
		b.mu.Unlock()
		return instance
	}
	b.mu.Unlock()

	instance := b.create(owner)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.created {
		b.instance, b.created = instance, true
	}
	return b.instance
}

func (b *binding) release() {
	if !b.releasable {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.instance, b.created = nil, false
}

// BindInstance binds T to value in s
func BindInstance[T any](s *ScopeNode, qualifier string, value T) {
	s.bind(KeyOf[T](qualifier), &binding{
		create:    func(Scope) any { return value },
		singleton: true,
	})
}

// BindProvider binds T to provide, which is called on every request
func BindProvider[T any](s *ScopeNode, qualifier string, provide func() T) {
	s.bind(KeyOf[T](qualifier), &binding{
		create: func(Scope) any { return provide() },
	})
}

// BindImplementation binds T, usually an interface, to the unqualified binding of I
func BindImplementation[T, I any](s *ScopeNode, qualifier string) {
	key := KeyOf[T](qualifier)
	s.bind(key, &binding{
		create: func(scope Scope) any {
			impl := GetInstance[I](scope, "")
			typed, ok := any(impl).(T)
			if !ok {
				panic(NewInjectionFailure(fmt.Sprintf("%T does not implement %s", impl, key.Type), nil))
			}
			return typed
		},
	})
}

// BindProviderClass binds T to the values produced by the provider type P, which is
// itself built by its registered factory. The ProvidesSingleton and ProvidesReleasable
// annotations of P decide whether the provided value is cached in s.
func BindProviderClass[T any, P Provider[T]](s *ScopeNode, qualifier string) {
	f, _ := defaultRegistry.factory(reflect.TypeFor[P]())
	s.bind(KeyOf[T](qualifier), &binding{
		create: func(scope Scope) any {
			return GetInstance[P](scope, "").Get()
		},
		singleton:  f.flags.providesSingleton,
		releasable: f.flags.providesReleasable,
	})
}
