package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splinter/internal/discovery"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/generator"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/utils/fileops"
)

const app = "example.com/app"

var inject = models.Annotations{{Type: models.InjectAnnotation}}

// sampleGraph holds a constructor-injected Foo, a field-injected Bar and a Baz whose
// only injected field is invalid
func sampleGraph(dir string) *models.Graph {
	foo := &models.Class{Name: "Foo", Package: app, PackageName: "app", Dir: dir, Visibility: models.VisibilityPublic}
	foo.Constructors = []*models.Constructor{{
		Name: "NewFoo", ReturnsPointer: true, Visibility: models.VisibilityPublic, Annotations: inject,
		Pos: models.Position{File: filepath.Join(dir, "foo.go"), Line: 8},
	}}

	bar := &models.Class{Name: "Bar", Package: app, PackageName: "app", Dir: dir, Visibility: models.VisibilityPublic}
	bar.Fields = []*models.Field{{
		Name: "foo", Type: models.PointerTo(foo.Type()), Visibility: models.VisibilityPackage, Annotations: inject,
		Pos: models.Position{File: filepath.Join(dir, "bar.go"), Line: 4},
	}}

	baz := &models.Class{Name: "Baz", Package: app, PackageName: "app", Dir: dir, Visibility: models.VisibilityPublic}
	baz.Fields = []*models.Field{{Name: "_", Type: models.PointerTo(foo.Type()), Visibility: models.VisibilityPrivate, Annotations: inject}}

	return models.NewGraph().MustAddClass(foo, bar, baz)
}

func TestProcess(t *testing.T) {
	writer := NewMemoryWriter()
	var reported discovery.Diagnostics
	p := NewProcessor(discovery.Options{}, writer, ReporterFunc(func(d discovery.Diagnostic) {
		reported = append(reported, d)
	}))

	result := p.Process(sampleGraph("/src/app"))

	// the invalid Baz field fails the round without stopping the rest
	assert.True(t, result.Failed())
	require.Len(t, reported, 1)
	assert.Equal(t, result.Diagnostics, reported)
	assert.Equal(t, errors.StructuralErrorCode, reported[0].Err.ErrorCode())

	assert.Equal(t, []string{
		"example.com/app.Bar__Factory",
		"example.com/app.Foo__Factory",
		"example.com/app.Bar__MemberInjector",
	}, result.Written)
	assert.Equal(t, result.Written, writer.Order)
	assert.Empty(t, result.Skipped)

	assert.Contains(t, writer.Files["example.com/app.Foo__Factory"], "instance := NewFoo()")
	assert.Contains(t, writer.Files["example.com/app.Bar__MemberInjector"], "target.foo = splinter.GetInstance[*Foo](scope, \"\")")

	origins, ok := p.Ledger().Origins("example.com/app.Bar__MemberInjector")
	require.True(t, ok)
	require.Len(t, origins, 1)
	assert.Equal(t, "example.com/app.Bar.foo", origins[0].Symbol)
	assert.Equal(t, 4, origins[0].Pos.Line)
}

func TestProcess_LaterRoundsSkipKnownArtifacts(t *testing.T) {
	writer := NewMemoryWriter()
	p := NewProcessor(discovery.Options{}, writer, nil)

	first := p.Process(sampleGraph("/src/app"))
	require.Len(t, first.Written, 3)

	second := p.Process(sampleGraph("/src/app"))
	assert.Empty(t, second.Written)
	assert.ElementsMatch(t, first.Written, second.Skipped)
	assert.Len(t, writer.Order, 3)
	assert.Equal(t, 3, p.Ledger().Len())
}

func TestProcess_Idempotent(t *testing.T) {
	first := NewMemoryWriter()
	NewProcessor(discovery.Options{}, first, nil).Process(sampleGraph("/src/app"))

	second := NewMemoryWriter()
	NewProcessor(discovery.Options{}, second, nil).Process(sampleGraph("/src/app"))

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.Order, second.Order)
}

func TestProcess_Excludes(t *testing.T) {
	writer := NewMemoryWriter()
	p := NewProcessor(discovery.Options{Excludes: []string{"example.com/app.Ba*"}}, writer, nil)

	result := p.Process(sampleGraph("/src/app"))
	assert.False(t, result.Failed())
	assert.Equal(t, []string{"example.com/app.Foo__Factory"}, result.Written)
}

type failingGenerator struct {
	generator.CodeGenerator
	fail string
}

func (g failingGenerator) GenerateFactory(cc *models.ConstructibleClass) (*generator.Artifact, error) {
	if cc.Owner.Name == g.fail {
		return nil, errors.WrapGenerateError(cc.Owner.FactoryName(), generator.StageRender, fmt.Errorf("boom"))
	}
	return g.CodeGenerator.GenerateFactory(cc)
}

func TestProcess_GenerationFailureOnlyDropsThatArtifact(t *testing.T) {
	writer := NewMemoryWriter()
	gen := failingGenerator{CodeGenerator: generator.NewGenerator(), fail: "Foo"}
	p := NewProcessorWithGenerator(discovery.Options{}, gen, writer, nil)

	result := p.Process(sampleGraph("/src/app"))
	assert.True(t, result.Failed())
	assert.Equal(t, []string{"example.com/app.Bar__Factory", "example.com/app.Bar__MemberInjector"}, result.Written)
	assert.False(t, p.Ledger().Has("example.com/app.Foo__Factory"))

	errs := result.Diagnostics.Filter(discovery.SeverityError)
	require.Len(t, errs, 2)
	assert.Equal(t, errors.GenerationErrorCode, errs[1].Err.ErrorCode())

	var generationErr *errors.GenerationError
	require.ErrorAs(t, errs[1].Err, &generationErr)
	assert.Equal(t, "Foo__Factory", generationErr.Artifact)
	assert.EqualError(t, generationErr.Unwrap(), "boom")
}

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewFileWriter(fileops.NewFileOps())
	p := NewProcessor(discovery.Options{}, writer, nil)

	result := p.Process(sampleGraph(dir))
	require.Len(t, result.Written, 3)
	require.Len(t, writer.Written(), 3)

	content, err := os.ReadFile(filepath.Join(dir, "foo__factory.gen.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "// Code generated by splinter. DO NOT EDIT."))
	assert.FileExists(t, filepath.Join(dir, "bar__memberinjector.gen.go"))
	assert.FileExists(t, filepath.Join(dir, "bar__factory.gen.go"))
}

func TestFileWriter_UnknownDirectory(t *testing.T) {
	p := NewProcessor(discovery.Options{}, NewFileWriter(fileops.NewFileOps()), nil)

	result := p.Process(sampleGraph(""))
	assert.True(t, result.Failed())
	assert.Empty(t, result.Written)
	assert.Equal(t, 0, p.Ledger().Len())
}

func TestLedger(t *testing.T) {
	l := NewLedger()
	origins := []models.Origin{{Symbol: "example.com/app.Foo"}}

	assert.True(t, l.Record("b", origins))
	assert.False(t, l.Record("b", []models.Origin{{Symbol: "other"}}))
	assert.True(t, l.Record("a", nil))

	got, ok := l.Origins("b")
	require.True(t, ok)
	assert.Equal(t, origins, got)

	_, ok = l.Origins("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, l.Artifacts())
}
