package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/splinter/internal/annotations"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/registry"
	"github.com/toyz/splinter/internal/utils"
)

type sourceFile struct {
	path       string
	importPath string
	dir        string
	file       *ast.File
}

// Parser loads Go source files and turns them into a symbol graph.
// Parsed files are cached across rounds; every call to Graph builds a fresh graph.
type Parser struct {
	fileSet *token.FileSet
	engine  annotations.ParserEngine
	cache   *utils.Cache[string, *ast.File]
	sources map[string]*sourceFile
}

// NewParser creates a new source parser
func NewParser() *Parser {
	return &Parser{
		fileSet: token.NewFileSet(),
		engine:  annotations.NewParticipleParser(annotations.DefaultRegistry()),
		cache:   utils.NewCache[string, *ast.File](),
		sources: make(map[string]*sourceFile),
	}
}

// ParseSource parses source code from a string, mostly for tests
func (p *Parser) ParseSource(filename, importPath string, src interface{}) error {
	file, err := parser.ParseFile(p.fileSet, filename, src, parser.ParseComments)
	if err != nil {
		return errors.WrapParseError(filename, err)
	}

	p.add(filename, importPath, file)
	return nil
}

// ParseFile parses a single file from disk
func (p *Parser) ParseFile(path, importPath string) error {
	if file, ok := p.cache.GetWithFileValidation(path, path); ok {
		p.add(path, importPath, file)
		return nil
	}

	file, err := parser.ParseFile(p.fileSet, path, nil, parser.ParseComments)
	if err != nil {
		return errors.WrapParseError(path, err)
	}
	if err := p.cache.SetWithFileInfo(path, file, path); err != nil {
		return errors.WrapFileSystemError("stat", path, err)
	}

	p.add(path, importPath, file)
	return nil
}

// ParseDirectory parses every non-test, non-generated Go file of one package directory
func (p *Parser) ParseDirectory(dir, importPath string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.WrapFileSystemError("read", dir, err)
	}

	sourceFiles := utils.DefaultGoFileFilter()
	packageName := ""
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !sourceFiles(path, entry) {
			continue
		}

		if err := p.ParseFile(path, importPath); err != nil {
			return err
		}

		source := p.sources[path]
		if ast.IsGenerated(source.file) {
			delete(p.sources, path)
			continue
		}
		if packageName == "" {
			packageName = source.file.Name.Name
		} else if packageName != source.file.Name.Name {
			return fmt.Errorf("multiple packages found in directory %s: %s and %s", dir, packageName, source.file.Name.Name)
		}
	}

	return nil
}

// CacheStats reports how often parsed files were reused
func (p *Parser) CacheStats() utils.CacheStats {
	return p.cache.GetStats()
}

// Reset forgets every file added so far. Cached syntax trees are kept.
func (p *Parser) Reset() {
	p.sources = make(map[string]*sourceFile)
}

func (p *Parser) add(path, importPath string, file *ast.File) {
	p.sources[path] = &sourceFile{
		path:       path,
		importPath: importPath,
		dir:        filepath.Dir(path),
		file:       file,
	}
}

// Graph builds the symbol graph of every file added so far. Problems found in the
// sources do not stop the build: the graph holds everything that could be read and
// the returned error lists the rest.
func (p *Parser) Graph() (*models.Graph, error) {
	paths := make([]string, 0, len(p.sources))
	for path := range p.sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	files := make([]*fileContext, 0, len(paths))
	for _, path := range paths {
		files = append(files, newFileContext(p.sources[path]))
	}

	b := &builder{
		fileSet:      p.fileSet,
		engine:       p.engine,
		declarations: registry.NewDeclarationRegistry(),
		graph:        models.NewGraph(),
		parsed:       make(map[*ast.Comment]*annotations.ParsedAnnotation),
	}

	for _, fc := range files {
		b.collectDeclarations(fc)
	}
	for _, fc := range files {
		b.collectClasses(fc)
	}
	b.linkSupertypes()
	for _, fc := range files {
		b.collectFuncs(fc)
	}

	if b.errs != nil && !b.errs.IsEmpty() {
		return b.graph, b.errs
	}
	return b.graph, nil
}

// fileContext carries per-file lookup tables
type fileContext struct {
	*sourceFile
	packageName string
	imports     map[string]string // alias to import path
}

func newFileContext(source *sourceFile) *fileContext {
	fc := &fileContext{
		sourceFile:  source,
		packageName: source.file.Name.Name,
		imports:     make(map[string]string),
	}

	for _, spec := range source.file.Imports {
		path := strings.Trim(spec.Path.Value, "`\"")
		alias := models.DefaultPackageName(path)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			alias = spec.Name.Name
		}
		fc.imports[alias] = path
	}

	return fc
}

// builder holds the state of a single Graph call
type builder struct {
	fileSet      *token.FileSet
	engine       annotations.ParserEngine
	declarations registry.DeclarationRegistry
	graph        *models.Graph
	parsed       map[*ast.Comment]*annotations.ParsedAnnotation
	embedded     []embeddedCandidates
	errs         *errors.MultipleErrors
}

type embeddedCandidates struct {
	class      *models.Class
	candidates []models.Supertype
}

func (b *builder) fail(err errors.SplinterError) {
	errors.AddToMultiple(&b.errs, err)
}

func (b *builder) position(pos token.Pos) models.Position {
	position := b.fileSet.Position(pos)
	return models.Position{File: position.Filename, Line: position.Line, Column: position.Column}
}

func (b *builder) location(pos token.Pos) errors.SourceLocation {
	position := b.fileSet.Position(pos)
	return errors.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}
}

// typeDoc returns the doc comment of a type spec, falling back to the declaration
// doc when the declaration holds a single spec
func typeDoc(decl *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}
	if len(decl.Specs) == 1 {
		return decl.Doc
	}
	return nil
}

func visibilityOf(name string) models.Visibility {
	switch {
	case name == "_":
		return models.VisibilityPrivate
	case token.IsExported(name):
		return models.VisibilityPublic
	default:
		return models.VisibilityPackage
	}
}

// collectDeclarations registers the types declared as custom qualifiers or scopes
func (b *builder) collectDeclarations(fc *fileContext) {
	for _, decl := range fc.file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			for _, parsed := range b.parse(fc, typeDoc(gen, ts)) {
				var kind registry.DeclarationKind
				switch parsed.Type {
				case annotations.QualifierAnnotation:
					kind = registry.QualifierDeclaration
				case annotations.ScopeAnnotation:
					kind = registry.ScopeDeclaration
				default:
					continue
				}

				position := b.fileSet.Position(ts.Pos())
				err := b.declarations.Register(&registry.Declaration{
					Name:    ts.Name.Name,
					Package: fc.importPath,
					Kind:    kind,
					File:    position.Filename,
					Line:    position.Line,
				})
				if err != nil {
					if se, ok := err.(errors.SplinterError); ok {
						b.fail(se)
					} else {
						b.fail(errors.Wrap(errors.RegistrationErrorCode, err.Error(), err))
					}
				}
			}
		}
	}
}

// collectClasses turns every non-generic struct type into a class
func (b *builder) collectClasses(fc *fileContext) {
	for _, decl := range fc.file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok || ts.TypeParams != nil {
				continue
			}

			class := &models.Class{
				Name:        ts.Name.Name,
				Package:     fc.importPath,
				PackageName: fc.packageName,
				Dir:         fc.dir,
				Visibility:  visibilityOf(ts.Name.Name),
				Annotations: b.resolve(fc, typeDoc(gen, ts)),
				Pos:         b.position(ts.Pos()),
			}

			var candidates []models.Supertype
			for _, field := range st.Fields.List {
				fieldAnnotations := b.resolve(fc, field.Doc, field.Comment)
				b.rejectTargets(fieldAnnotations)

				if len(field.Names) == 0 {
					ref := typeRef(fc, field.Type)
					name := embeddedName(field.Type)
					if !fieldAnnotations.Has(models.InjectAnnotation) {
						candidates = append(candidates, models.Supertype{
							Type:    ref.Base(),
							Field:   name,
							Pointer: ref.Kind == models.PointerType,
						})
						continue
					}
					class.Fields = append(class.Fields, &models.Field{
						Name:        name,
						Type:        ref,
						Visibility:  visibilityOf(name),
						Annotations: fieldAnnotations,
						Pos:         b.position(field.Pos()),
					})
					continue
				}

				ref := typeRef(fc, field.Type)
				for _, name := range field.Names {
					class.Fields = append(class.Fields, &models.Field{
						Name:        name.Name,
						Type:        ref,
						Visibility:  visibilityOf(name.Name),
						Annotations: fieldAnnotations,
						Pos:         b.position(name.Pos()),
					})
				}
			}

			if err := b.graph.AddClass(class); err != nil {
				b.fail(errors.Wrap(errors.StructuralErrorCode, err.Error(), err).WithLocation(b.location(ts.Pos())))
				continue
			}
			if len(candidates) > 0 {
				b.embedded = append(b.embedded, embeddedCandidates{class: class, candidates: candidates})
			}
		}
	}
}

// linkSupertypes picks the ancestor of every class: the first embedded struct that is
// part of the graph, otherwise the first embedded named type. Every named candidate is
// kept in Embeds.
func (b *builder) linkSupertypes() {
	for _, entry := range b.embedded {
		var chosen *models.Supertype
		for i := range entry.candidates {
			candidate := entry.candidates[i]
			if candidate.Type.Kind != models.NamedType || candidate.Type.Package == "" {
				continue
			}
			entry.class.Embeds = append(entry.class.Embeds, candidate)
			if _, known := b.graph.Class(candidate.Type.QualifiedName()); known {
				if chosen == nil || !b.inGraph(chosen) {
					chosen = &candidate
				}
				continue
			}
			if chosen == nil {
				chosen = &candidate
			}
		}
		entry.class.Super = chosen
	}
}

func (b *builder) inGraph(st *models.Supertype) bool {
	_, ok := b.graph.Class(st.Type.QualifiedName())
	return ok
}

// collectFuncs attaches methods to their receivers and injected constructors to the
// class they build. Any other annotated function is registered as a top-level function.
func (b *builder) collectFuncs(fc *fileContext) {
	for _, decl := range fc.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		funcAnnotations := b.resolve(fc, fn.Doc)
		params := b.params(fc, fn.Type.Params)
		funcAnnotations = b.routeTargets(fn, funcAnnotations, params)
		results := resultRefs(fc, fn.Type.Results)

		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			receiver := receiverName(fn.Recv.List[0].Type)
			method := &models.Method{
				Name:        fn.Name.Name,
				Receiver:    receiver,
				Package:     fc.importPath,
				Params:      params,
				Results:     results,
				Throws:      errorResults(results),
				Visibility:  visibilityOf(fn.Name.Name),
				Annotations: funcAnnotations,
				Pos:         b.position(fn.Pos()),
			}

			if class, ok := b.graph.Class(qualify(fc.importPath, receiver)); ok {
				class.Methods = append(class.Methods, method)
			} else if len(funcAnnotations) > 0 {
				b.graph.AddFunc(method)
			}
			continue
		}

		if len(funcAnnotations) == 0 {
			continue
		}

		if funcAnnotations.Has(models.InjectAnnotation) {
			if class, ok := b.productOf(fc, results); ok {
				class.Constructors = append(class.Constructors, &models.Constructor{
					Name:           fn.Name.Name,
					Params:         params,
					Throws:         results[1:],
					ReturnsPointer: results[0].Kind == models.PointerType,
					Result:         results[0],
					Visibility:     visibilityOf(fn.Name.Name),
					Annotations:    funcAnnotations,
					Pos:            b.position(fn.Pos()),
				})
				continue
			}
		}

		b.graph.AddFunc(&models.Method{
			Name:        fn.Name.Name,
			Package:     fc.importPath,
			Params:      params,
			Results:     results,
			Throws:      errorResults(results),
			Visibility:  visibilityOf(fn.Name.Name),
			Annotations: funcAnnotations,
			Pos:         b.position(fn.Pos()),
		})
	}
}

// productOf returns the class a constructor builds: its first result must be T or *T
// of a struct declared in the same package
func (b *builder) productOf(fc *fileContext, results []models.TypeRef) (*models.Class, bool) {
	if len(results) == 0 {
		return nil, false
	}
	product := results[0]
	if product.Kind == models.PointerType && product.Elem != nil {
		product = *product.Elem
	}
	if product.Kind != models.NamedType || product.Package != fc.importPath || len(product.Args) > 0 {
		return nil, false
	}
	return b.graph.Class(product.QualifiedName())
}

func (b *builder) params(fc *fileContext, list *ast.FieldList) []*models.Param {
	if list == nil {
		return nil
	}

	var params []*models.Param
	for _, field := range list.List {
		typeExpr := field.Type
		if ellipsis, ok := typeExpr.(*ast.Ellipsis); ok {
			typeExpr = &ast.ArrayType{Elt: ellipsis.Elt}
			b.fail(errors.New(errors.StructuralErrorCode, "variadic parameters cannot be injected").
				WithLocation(b.location(field.Pos())).
				WithSuggestion("Declare the parameter as a slice instead"))
		}

		ref := typeRef(fc, typeExpr)
		if len(field.Names) == 0 {
			params = append(params, &models.Param{
				Name: fmt.Sprintf("arg%d", len(params)),
				Type: ref,
				Pos:  b.position(field.Pos()),
			})
			continue
		}
		for _, name := range field.Names {
			paramName := name.Name
			if paramName == "_" {
				paramName = fmt.Sprintf("arg%d", len(params))
			}
			params = append(params, &models.Param{
				Name: paramName,
				Type: ref,
				Pos:  b.position(name.Pos()),
			})
		}
	}
	return params
}

func resultRefs(fc *fileContext, list *ast.FieldList) []models.TypeRef {
	if list == nil {
		return nil
	}

	var results []models.TypeRef
	for _, field := range list.List {
		ref := typeRef(fc, field.Type)
		count := len(field.Names)
		if count == 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			results = append(results, ref)
		}
	}
	return results
}

func errorResults(results []models.TypeRef) []models.TypeRef {
	var throws []models.TypeRef
	for _, r := range results {
		if r.IsError() {
			throws = append(throws, r)
		}
	}
	return throws
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// embeddedName returns the implicit field name of an embedded type
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
