package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "error with field",
			err: ValidationError{
				Field:   "username",
				Value:   "",
				Message: "cannot be empty",
			},
			expected: "validation error for field 'username': cannot be empty",
		},
		{
			name: "error without field",
			err: ValidationError{
				Message: "invalid format",
			},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestStringValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator[string]
		value     string
		wantErr   bool
	}{
		{"not empty ok", NotEmpty("f"), "hello", false},
		{"not empty fails", NotEmpty("f"), "", true},
		{"identifier ok", IsValidGoIdentifier("f"), "Foo__Factory", false},
		{"identifier with dollar", IsValidGoIdentifier("f"), "Outer$Inner", true},
		{"identifier empty", IsValidGoIdentifier("f"), "", true},
		{"bool true", IsBool("f"), "true", false},
		{"bool numeric", IsBool("f"), "0", false},
		{"bool garbage", IsBool("f"), "yes please", true},
		{"glob ok", IsGlobPattern("f"), "example.com/*/internal", false},
		{"glob broken", IsGlobPattern("f"), "example.com/[", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("name")).
		Add(Custom("name", "must be short", func(s string) bool { return len(s) < 4 }))

	assert.NoError(t, chain.Validate("abc"))
	assert.Error(t, chain.Validate(""))
	assert.Error(t, chain.Validate("abcdef"))

	errs := NewValidatorChain(NotEmpty("a"), IsValidGoIdentifier("b")).ValidateAll("")
	assert.Len(t, errs, 2)
}

func TestValidateEach(t *testing.T) {
	validator := ValidateEach("patterns", IsGlobPattern("pattern"))

	assert.NoError(t, validator([]string{"a/*", "b"}))

	err := validator([]string{"a/*", "["})
	require.Error(t, err)
	var validationErr ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "patterns[1]", validationErr.Field)
}

func TestConditional(t *testing.T) {
	validator := Conditional(func(s string) bool { return s != "" }, IsBool("flag"))

	assert.NoError(t, validator(""))
	assert.NoError(t, validator("false"))
	assert.Error(t, validator("maybe"))
}
