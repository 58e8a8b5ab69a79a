package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseRegistry(t *testing.T) {
	registry := NewBaseRegistry[string, int]("numbers")
	assert.Equal(t, 0, registry.Size())

	require.NoError(t, registry.Register("one", 1))
	value, ok := registry.Get("one")
	require.True(t, ok)
	assert.Equal(t, 1, value)
	assert.True(t, registry.Has("one"))
	assert.False(t, registry.Has("two"))

	require.NoError(t, registry.Register("one", 11))
	value, _ = registry.Get("one")
	assert.Equal(t, 11, value)

	stored, err := registry.RegisterIfAbsent("one", 111)
	require.NoError(t, err)
	assert.False(t, stored)
	value, _ = registry.Get("one")
	assert.Equal(t, 11, value)

	stored, err = registry.RegisterIfAbsent("two", 2)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.ElementsMatch(t, []int{11, 2}, registry.Values())
}

func TestBaseRegistry_Validators(t *testing.T) {
	type item struct{ kind string }
	registry := NewBaseRegistry[string, *item]("items")

	conflict := func(key string, value *item, existing map[string]*item) error {
		if prev, ok := existing[key]; ok && prev.kind != value.kind {
			return errors.New("kind conflict")
		}
		return nil
	}
	registry.SetValidator(ChainValidators(
		NotEmptyKeyValidator[*item]("item name"),
		NotNilValueValidator[string, item]("item"),
		conflict,
	))

	assert.EqualError(t, registry.Register("", &item{}), "items registry: item name cannot be empty")
	assert.EqualError(t, registry.Register("a", nil), "items registry: item cannot be nil")

	require.NoError(t, registry.Register("a", &item{kind: "scope"}))
	_, err := registry.RegisterIfAbsent("a", &item{kind: "qualifier"})
	assert.EqualError(t, err, "items registry: kind conflict")
}
