package parser

import (
	stderrors "errors"
	"fmt"
	"go/ast"
	"strings"

	"github.com/toyz/splinter/internal/annotations"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/registry"
)

// parse reads the annotations of the given comment groups. Each comment is parsed
// once per graph build so malformed annotations are reported a single time.
func (b *builder) parse(fc *fileContext, groups ...*ast.CommentGroup) []*annotations.ParsedAnnotation {
	var result []*annotations.ParsedAnnotation
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, comment := range group.List {
			if !annotations.IsAnnotation(comment.Text) {
				continue
			}

			parsed, seen := b.parsed[comment]
			if !seen {
				position := b.fileSet.Position(comment.Pos())
				location := annotations.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}

				var err error
				parsed, err = b.engine.ParseAnnotation(comment.Text, location)
				if err != nil {
					b.fail(annotationError(comment.Text, location, err))
					parsed = nil
				}
				b.parsed[comment] = parsed
			}
			if parsed != nil {
				result = append(result, parsed)
			}
		}
	}
	return result
}

func annotationError(text string, location annotations.SourceLocation, err error) errors.SplinterError {
	code := errors.SyntaxErrorCode
	detail := err.Error()
	suggestion := ""

	var annotationErr annotations.AnnotationError
	if stderrors.As(err, &annotationErr) {
		if annotationErr.Code() == annotations.ValidationErrorCode {
			code = errors.ValidationErrorCode
		}
		suggestion = annotationErr.Suggestion()
		detail = strings.TrimPrefix(detail, fmt.Sprintf("%s:%d:%d: ", location.File, location.Line, location.Column))
	}

	wrapped := errors.Wrap(code, fmt.Sprintf("invalid annotation %q: %s", strings.TrimSpace(text), detail), err).
		WithLocation(errors.SourceLocation{File: location.File, Line: location.Line, Column: location.Column})
	if suggestion != "" {
		wrapped.WithSuggestion(suggestion)
	}
	return wrapped
}

// resolve parses the annotations of the given comment groups and gives each one its
// qualified identity. Custom annotations must name a declared qualifier or scope type.
func (b *builder) resolve(fc *fileContext, groups ...*ast.CommentGroup) models.Annotations {
	var result models.Annotations
	for _, parsed := range b.parse(fc, groups...) {
		annotation := models.Annotation{
			Value: parsed.Value(),
			Args:  parsed.StringParameters(),
			Pos: models.Position{
				File:   parsed.Location.File,
				Line:   parsed.Location.Line,
				Column: parsed.Location.Column,
			},
		}

		if parsed.IsBuiltin() {
			annotation.Type = models.RuntimePackage + "." + parsed.Type.String()
			result = append(result, annotation)
			continue
		}

		reference := parsed.Reference()
		qualifiedName, ok := registry.QualifyReference(fc.importPath, fc.imports, reference)
		if !ok {
			b.fail(errors.Newf(errors.ValidationErrorCode, "unknown annotation package in %s", reference).
				WithLocation(b.annotationLocation(parsed)).
				WithSuggestion("Import the package that declares the annotation"))
			continue
		}
		decl, ok := b.declarations.Get(qualifiedName)
		if !ok {
			b.fail(errors.Newf(errors.ValidationErrorCode, "unknown annotation %s", reference).
				WithLocation(b.annotationLocation(parsed)).
				WithSuggestion(fmt.Sprintf("Declare %s with //splinter::Qualifier or //splinter::Scope", reference)))
			continue
		}

		annotation.Type = decl.QualifiedName()
		annotation.Qualifier = decl.Kind == registry.QualifierDeclaration
		annotation.Scope = decl.Kind == registry.ScopeDeclaration
		result = append(result, annotation)
	}
	return result
}

func (b *builder) annotationLocation(parsed *annotations.ParsedAnnotation) errors.SourceLocation {
	return errors.SourceLocation{File: parsed.Location.File, Line: parsed.Location.Line, Column: parsed.Location.Column}
}

func annotationTarget(a models.Annotation) (string, bool) {
	target, ok := a.Args[annotations.TargetParameter]
	return target, ok
}

// rejectTargets reports target arguments on annotations that are not attached to a function
func (b *builder) rejectTargets(as models.Annotations) {
	for _, a := range as {
		if target, ok := annotationTarget(a); ok {
			b.fail(errors.Newf(errors.ValidationErrorCode, "%s targets parameter %q but is not placed on a function or method", a.SimpleName(), target).
				WithLocation(errors.SourceLocation{File: a.Pos.File, Line: a.Pos.Line, Column: a.Pos.Column}))
		}
	}
}

// routeTargets moves annotations carrying a target argument from a function onto the
// named parameter. The remaining annotations stay on the function.
func (b *builder) routeTargets(fn *ast.FuncDecl, as models.Annotations, params []*models.Param) models.Annotations {
	var kept models.Annotations
	for _, a := range as {
		target, ok := annotationTarget(a)
		if !ok {
			kept = append(kept, a)
			continue
		}

		var param *models.Param
		for _, candidate := range params {
			if candidate.Name == target {
				param = candidate
				break
			}
		}
		if param == nil {
			b.fail(errors.Newf(errors.ValidationErrorCode, "%s targets unknown parameter %q of %s", a.SimpleName(), target, fn.Name.Name).
				WithLocation(errors.SourceLocation{File: a.Pos.File, Line: a.Pos.Line, Column: a.Pos.Column}))
			continue
		}

		routed := a
		routed.Args = make(map[string]string, len(a.Args))
		for key, value := range a.Args {
			if key != annotations.TargetParameter {
				routed.Args[key] = value
			}
		}
		param.Annotations = append(param.Annotations, routed)
	}
	return kept
}
