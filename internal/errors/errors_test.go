package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	err := New(StructuralErrorCode, "broken")
	assert.Equal(t, "broken", err.Error())

	err.WithLocation(SourceLocation{File: "foo.go", Line: 3, Column: 7})
	assert.Equal(t, "foo.go:3:7: broken", err.Error())
	assert.Equal(t, StructuralErrorCode, err.ErrorCode())
	assert.Empty(t, err.Context())
}

func TestStructuralError(t *testing.T) {
	err := NewStructuralError("example.com/app.Foo", "bar", "injected field must not be private").
		WithLocation(SourceLocation{File: "foo.go", Line: 10}).
		WithSuggestion("Give the field a name")

	assert.Equal(t, "foo.go:10: example.com/app.Foo.bar: injected field must not be private", err.Error())
	assert.Equal(t, []string{"Give the field a name"}, err.Suggestions())

	var target SplinterError
	require.True(t, stderrors.As(error(err), &target))
	assert.Equal(t, StructuralErrorCode, target.ErrorCode())

	topLevel := NewStructuralError("", "setup", "injected method must be enclosed in a type")
	assert.Equal(t, "setup: injected method must be enclosed in a type", topLevel.Error())
}

func TestVisibilityError(t *testing.T) {
	err := NewVisibilityError("example.com/app.Foo", "Start", "public", true)
	assert.True(t, err.Strict)
	assert.Equal(t, VisibilityErrorCode, err.ErrorCode())
	assert.Contains(t, err.Error(), "but is public")
	assert.NotEmpty(t, err.Suggestions())
}

func TestWrapFileSystemError_Unwraps(t *testing.T) {
	err := WrapFileSystemError("write", "/tmp/x.gen.go", fs.ErrPermission)

	assert.True(t, stderrors.Is(err, fs.ErrPermission))
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, "write", err.Context()["operation"])
}

func TestWrapGenerateError(t *testing.T) {
	cause := stderrors.New("boom")
	err := WrapGenerateError("Foo__Factory", "format", cause)

	assert.Equal(t, "Foo__Factory", err.Artifact)
	assert.Equal(t, "format", err.Stage)
	assert.ErrorIs(t, err, cause)
}

func TestMultipleErrors(t *testing.T) {
	var multiple *MultipleErrors
	AddToMultiple(&multiple, NewStructuralError("a.A", "x", "first"))
	AddToMultiple(&multiple, NewGenerationError("second"))

	require.NotNil(t, multiple)
	assert.Equal(t, 2, multiple.Count())
	assert.True(t, multiple.HasCode(GenerationErrorCode))
	assert.False(t, multiple.HasCode(VisibilityErrorCode))
	assert.Equal(t, "multiple errors (2 total):\n  1. a.A.x: first\n  2. second", multiple.Error())

	// every collected error is reachable, not only the first
	var generation *GenerationError
	require.ErrorAs(t, multiple, &generation)
	assert.Equal(t, "second", generation.Error())

	single := &MultipleErrors{Errors: []SplinterError{New(ValidationErrorCode, "only")}}
	assert.Equal(t, "only", single.Error())
	assert.Equal(t, "no errors", NewMultipleErrors().Error())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "StructuralError", StructuralErrorCode.String())
	assert.Equal(t, "VisibilityError", VisibilityErrorCode.String())
	assert.Equal(t, "ConfigurationError", ConfigurationErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}
