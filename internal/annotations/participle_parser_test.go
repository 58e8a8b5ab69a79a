package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) *ParticipleParser {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(registry))
	return NewParticipleParser(registry)
}

func TestParticipleParser_Builtins(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "test.go", Line: 1, Column: 1}

	tests := []struct {
		name         string
		input        string
		expectedType AnnotationType
		expectedName string
		params       map[string]interface{}
	}{
		{"inject", "//splinter::Inject", InjectAnnotation, "Inject", map[string]interface{}{}},
		{"inject with spaces", "  // splinter::Inject  ", InjectAnnotation, "Inject", map[string]interface{}{}},
		{"inject with note", "//splinter::Inject // wired at startup", InjectAnnotation, "Inject", map[string]interface{}{}},
		{"named positional", `//splinter::Named("foo")`, NamedAnnotation, "Named", map[string]interface{}{"value": "foo"}},
		{"named keyword", `//splinter::Named(value="foo")`, NamedAnnotation, "Named", map[string]interface{}{"value": "foo"}},
		{"named with target", `//splinter::Named("foo", target="db")`, NamedAnnotation, "Named", map[string]interface{}{"value": "foo", "target": "db"}},
		{"named escaped", `//splinter::Named("a \"b\"")`, NamedAnnotation, "Named", map[string]interface{}{"value": `a "b"`}},
		{"singleton", "//splinter::Singleton", SingletonAnnotation, "Singleton", map[string]interface{}{}},
		{"releasable", "//splinter::Releasable()", ReleasableAnnotation, "Releasable", map[string]interface{}{}},
		{"provides singleton", "//splinter::ProvidesSingleton", ProvidesSingletonAnnotation, "ProvidesSingleton", map[string]interface{}{}},
		{"provides releasable", "//splinter::ProvidesReleasable", ProvidesReleasableAnnotation, "ProvidesReleasable", map[string]interface{}{}},
		{"qualifier", "//splinter::Qualifier", QualifierAnnotation, "Qualifier", map[string]interface{}{}},
		{"scope", "//splinter::Scope", ScopeAnnotation, "Scope", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ParseAnnotation(tt.input, location)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, result.Type)
			assert.Equal(t, tt.expectedName, result.Name)
			assert.Equal(t, tt.params, result.Parameters)
			assert.Equal(t, tt.input, result.Raw)
			assert.True(t, result.IsBuiltin())
		})
	}
}

func TestParticipleParser_CustomAnnotations(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "test.go", Line: 3, Column: 1}

	result, err := parser.ParseAnnotation("//splinter::Presenter", location)
	require.NoError(t, err)
	assert.Equal(t, CustomAnnotation, result.Type)
	assert.Equal(t, "Presenter", result.Reference())
	assert.False(t, result.IsBuiltin())

	result, err = parser.ParseAnnotation("//splinter::scopes.Presenter", location)
	require.NoError(t, err)
	assert.Equal(t, CustomAnnotation, result.Type)
	assert.Equal(t, "scopes", result.Package)
	assert.Equal(t, "Presenter", result.Name)
	assert.Equal(t, "scopes.Presenter", result.Reference())

	// a package qualified built-in name is a different annotation
	result, err = parser.ParseAnnotation("//splinter::other.Inject", location)
	require.NoError(t, err)
	assert.Equal(t, CustomAnnotation, result.Type)

	result, err = parser.ParseAnnotation(`//splinter::Tagged("x", level=3, strict=true, mode=fast)`, location)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"value": "x", "level": 3, "strict": true, "mode": "fast"}, result.Parameters)
	assert.Equal(t, map[string]string{"value": "x", "level": "3", "strict": "true", "mode": "fast"}, result.StringParameters())
}

func TestParticipleParser_Errors(t *testing.T) {
	parser := newTestParser(t)
	location := SourceLocation{File: "test.go", Line: 7, Column: 2}

	tests := []struct {
		name  string
		input string
		code  ErrorCode
	}{
		{"missing prefix", "// Inject", SyntaxErrorCode},
		{"not a comment", "splinter::Inject", SyntaxErrorCode},
		{"empty name", "//splinter::", SyntaxErrorCode},
		{"unclosed call", `//splinter::Named("foo"`, SyntaxErrorCode},
		{"trailing tokens", "//splinter::Inject extra", SyntaxErrorCode},
		{"too deep", "//splinter::a.b.Name", SyntaxErrorCode},
		{"positional after named", `//splinter::Tag(key="a", "b")`, SyntaxErrorCode},
		{"duplicate argument", `//splinter::Tag(key="a", key="b")`, SyntaxErrorCode},
		{"named without value", "//splinter::Named", ValidationErrorCode},
		{"named blank", `//splinter::Named("  ")`, ValidationErrorCode},
		{"inject with argument", `//splinter::Inject("x")`, ValidationErrorCode},
		{"singleton with unknown key", "//splinter::Singleton(lazy=true)", ValidationErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseAnnotation(tt.input, location)
			require.Error(t, err)

			var annotationErr AnnotationError
			require.True(t, errors.As(err, &annotationErr), "expected AnnotationError, got %T", err)
			assert.Equal(t, tt.code, annotationErr.Code())
			assert.Equal(t, "test.go", annotationErr.Location().File)
			assert.NotEmpty(t, annotationErr.Suggestion())
		})
	}
}

func TestIsAnnotation(t *testing.T) {
	assert.True(t, IsAnnotation("//splinter::Inject"))
	assert.True(t, IsAnnotation("// splinter::Named(\"x\")"))
	assert.False(t, IsAnnotation("// Inject marks things"))
	assert.False(t, IsAnnotation("/* splinter::Inject */"))
}

func TestParseAnnotationType(t *testing.T) {
	for _, schema := range GetBuiltinSchemas() {
		assert.Equal(t, schema.Type, ParseAnnotationType(schema.Type.String()))
	}
	assert.Equal(t, CustomAnnotation, ParseAnnotationType("Presenter"))
}
