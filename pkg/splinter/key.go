package splinter

import (
	"fmt"
	"reflect"
	"sync"
)

// Key identifies a binding: the requested type and an optional qualifier
type Key struct {
	Type      reflect.Type
	Qualifier string
}

// KeyOf returns the key for T with the given qualifier
func KeyOf[T any](qualifier string) Key {
	return Key{Type: reflect.TypeFor[T](), Qualifier: qualifier}
}

// String returns "Type" or "Type@qualifier"
func (k Key) String() string {
	if k.Qualifier == "" {
		return k.Type.String()
	}
	return fmt.Sprintf("%s@%s", k.Type, k.Qualifier)
}

// Provider returns a value of T each time Get is called
type Provider[T any] interface {
	Get() T
}

// Lazy resolves T on the first call to Get and returns the same value afterwards
type Lazy[T any] interface {
	Get() T
}

type providerFunc[T any] func() T

func (f providerFunc[T]) Get() T {
	return f()
}

// lazy memoizes the first result of get, including a failure
type lazy[T any] struct {
	once   sync.Once
	get    func() T
	value  T
	failed *InjectionFailure
}

func (l *lazy[T]) Get() T {
	l.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				failure, ok := r.(*InjectionFailure)
				if !ok {
					panic(r)
				}
				l.failed = failure
			}
		}()
		l.value = l.get()
	})
	if l.failed != nil {
		panic(l.failed)
	}
	return l.value
}

func cast[T any](key Key, value any) T {
	if value == nil {
		var zero T
		return zero
	}
	typed, ok := value.(T)
	if !ok {
		panic(NewInjectionFailure(fmt.Sprintf("binding for %s produced %T", key, value), nil))
	}
	return typed
}

// GetInstance resolves T from scope
func GetInstance[T any](scope Scope, qualifier string) T {
	key := KeyOf[T](qualifier)
	return cast[T](key, scope.Instance(key))
}

// GetProvider returns a provider resolving T from scope on every call
func GetProvider[T any](scope Scope, qualifier string) Provider[T] {
	key := KeyOf[T](qualifier)
	get := scope.Provider(key)
	return providerFunc[T](func() T {
		return cast[T](key, get())
	})
}

// GetLazy returns a lazy resolving T from scope once
func GetLazy[T any](scope Scope, qualifier string) Lazy[T] {
	key := KeyOf[T](qualifier)
	get := scope.Lazy(key)
	return providerFunc[T](func() T {
		return cast[T](key, get())
	})
}
