package annotations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ParserEngine defines the core parsing functionality
type ParserEngine interface {
	ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error)
}

// ParticipleParser represents a parser using alecthomas/participle
type ParticipleParser struct {
	parser    *participle.Parser[annotationAST]
	registry  SchemaSource
	validator SchemaValidator
}

// annotationAST is the grammar root of a splinter annotation:
//
//	//splinter::Name
//	//splinter::pkg.Name
//	//splinter::Name("value")
//	//splinter::Name(key="value", other=true)
type annotationAST struct {
	Path []string `parser:"Header @Ident ( '.' @Ident )*"`
	Call *callAST `parser:"@@?"`
}

type callAST struct {
	Args []*argumentAST `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
}

type argumentAST struct {
	Key   string    `parser:"( @Ident '=' )?"`
	Value *valueAST `parser:"@@"`
}

type valueAST struct {
	String *string `parser:"  @String"`
	Number *int    `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

func (v *valueAST) value() interface{} {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		switch *v.Ident {
		case "true":
			return true
		case "false":
			return false
		}
		return *v.Ident
	}
	return nil
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Header", Pattern: `//\s*splinter::`},
	{Name: "Note", Pattern: `//.*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[().,=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// NewParticipleParser creates a new parser using participle
func NewParticipleParser(registry SchemaSource) *ParticipleParser {
	parser := participle.MustBuild[annotationAST](
		participle.Lexer(annotationLexer),
		participle.Elide("Whitespace", "Note"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)

	return &ParticipleParser{
		parser:    parser,
		registry:  registry,
		validator: NewValidator(),
	}
}

// ParseAnnotation parses an annotation comment and validates built-in annotations against their schema
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	if !IsAnnotation(comment) {
		return nil, NewSyntaxErrorWithContext("annotation must start with the '//splinter::' prefix", location, comment)
	}

	ast, err := p.parser.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, p.syntaxError(err, location, comment)
	}

	parsed, err := p.buildAnnotation(ast, location, comment)
	if err != nil {
		return nil, err
	}

	if parsed.IsBuiltin() && p.registry != nil {
		if err := p.validateAgainstSchema(parsed); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// buildAnnotation converts the grammar tree into a ParsedAnnotation
func (p *ParticipleParser) buildAnnotation(ast *annotationAST, location SourceLocation, comment string) (*ParsedAnnotation, error) {
	if len(ast.Path) > 2 {
		return nil, NewSyntaxErrorWithContext(
			fmt.Sprintf("invalid annotation reference '%s', expected Name or pkg.Name", strings.Join(ast.Path, ".")),
			location, comment)
	}

	parsed := &ParsedAnnotation{
		Name:       ast.Path[len(ast.Path)-1],
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}
	if len(ast.Path) == 2 {
		parsed.Package = ast.Path[0]
		parsed.Type = CustomAnnotation
	} else {
		parsed.Type = ParseAnnotationType(parsed.Name)
	}

	if ast.Call == nil {
		return parsed, nil
	}

	sawNamed := false
	for _, arg := range ast.Call.Args {
		key := arg.Key
		if key == "" {
			if sawNamed {
				return nil, NewSyntaxErrorWithContext("invalid positional argument after named arguments", location, comment)
			}
			key = ValueParameter
		} else {
			sawNamed = true
		}

		if _, exists := parsed.Parameters[key]; exists {
			return nil, NewSyntaxErrorWithContext(fmt.Sprintf("invalid duplicate argument '%s'", key), location, comment)
		}
		parsed.Parameters[key] = arg.Value.value()
	}

	return parsed, nil
}

// validateAgainstSchema converts, validates and defaults parameters of a built-in annotation
func (p *ParticipleParser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, ok := p.registry.Schema(annotation.Type)
	if !ok {
		return &SchemaError{
			Msg:  fmt.Sprintf("annotation type %s is not registered", annotation.Type),
			Loc:  annotation.Location,
			Hint: "Register the built-in schemas with RegisterBuiltinSchemas",
		}
	}

	if err := p.validator.TransformParameters(annotation, schema); err != nil {
		return err
	}
	if err := p.validator.Validate(annotation, schema); err != nil {
		return err
	}
	return p.validator.ApplyDefaults(annotation, schema)
}

// syntaxError converts a participle error into a SyntaxError positioned within the source file
func (p *ParticipleParser) syntaxError(err error, location SourceLocation, comment string) error {
	msg := err.Error()
	loc := location

	var perr participle.Error
	if errors.As(err, &perr) {
		msg = perr.Message()
		if pos := perr.Position(); pos.Column > 0 && loc.Column > 0 {
			loc.Column += pos.Column - 1
		}
	}

	return NewSyntaxErrorWithContext("unexpected input: "+msg, loc, comment)
}
