package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(InjectAnnotationSchema))

	schema, ok := registry.Schema(InjectAnnotation)
	require.True(t, ok)
	assert.Equal(t, InjectAnnotation, schema.Type)

	_, ok = registry.Schema(NamedAnnotation)
	assert.False(t, ok)
}

func TestRegistry_RejectsInvalidRegistrations(t *testing.T) {
	require.NoError(t, NewRegistry().Register(ScopeAnnotationSchema))

	tests := []struct {
		name   string
		schema AnnotationSchema
		msg    string
	}{
		{
			name:   "custom annotation",
			schema: AnnotationSchema{Type: CustomAnnotation},
			msg:    "custom annotations have no schema",
		},
		{
			name: "bad default",
			schema: AnnotationSchema{
				Type:       ReleasableAnnotation,
				Parameters: map[string]ParameterSpec{"after": {Type: IntType, DefaultValue: "soon"}},
			},
			msg: "default of int parameter after is a string",
		},
		{
			name: "unknown parameter type",
			schema: AnnotationSchema{
				Type:       ReleasableAnnotation,
				Parameters: map[string]ParameterSpec{"after": {Type: ParameterType(9)}},
			},
			msg: "parameter after has unknown type 9",
		},
		{
			name: "empty parameter name",
			schema: AnnotationSchema{
				Type:       ReleasableAnnotation,
				Parameters: map[string]ParameterSpec{"": {Type: StringType}},
			},
			msg: "parameter name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.schema)
			var regErr *RegistrationError
			require.ErrorAs(t, err, &regErr)
			assert.Contains(t, regErr.Msg, tt.msg)
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(ScopeAnnotationSchema))
		err := registry.Register(ScopeAnnotationSchema)
		var regErr *RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.Contains(t, regErr.Msg, "already registered")
	})
}

func TestDefaultRegistry_HasBuiltins(t *testing.T) {
	types := DefaultRegistry().Types()
	require.Len(t, types, len(GetBuiltinSchemas()))
	assert.Equal(t, InjectAnnotation, types[0])
	assert.Equal(t, ScopeAnnotation, types[len(types)-1])
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestValidator_ApplyDefaults(t *testing.T) {
	schema := AnnotationSchema{
		Type: NamedAnnotation,
		Parameters: map[string]ParameterSpec{
			"value": {Type: StringType, DefaultValue: "default"},
		},
	}
	annotation := &ParsedAnnotation{Type: NamedAnnotation, Name: "Named"}

	require.NoError(t, NewValidator().ApplyDefaults(annotation, schema))
	assert.Equal(t, "default", annotation.Value())
	assert.True(t, annotation.HasParameter("value"))
	assert.False(t, annotation.GetBool("missing"))
}
