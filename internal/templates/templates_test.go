package templates

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/splinter/internal/models"
)

var (
	fooRef = models.ClassRef{Package: "example.com/app", PackageName: "app", Name: "Foo"}
	bar    = models.Named("example.com/app", "Bar")
	baz    = models.Named("example.com/other", "Baz")
)

func requireValidGo(t *testing.T, src string) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.ParseComments)
	require.NoError(t, err, src)
}

func fooFactory() *models.ConstructibleClass {
	return &models.ConstructibleClass{
		Owner:                fooRef,
		Type:                 models.Named("example.com/app", "Foo"),
		ScopeAnnotation:      "example.com/app.Presenter",
		IsSingleton:          true,
		HasOwnMemberInjector: true,
		Constructor:          "NewFoo",
		ReturnsPointer:       true,
		Throws:               true,
		Parameters: []models.InjectionTarget{
			{OwnerName: "bar", Kind: models.KindInstance, DeclaredType: models.PointerTo(bar), PayloadType: models.PointerTo(bar)},
			{OwnerName: "scope", Kind: models.KindProvider, DeclaredType: models.ProviderOf(models.PointerTo(baz)), PayloadType: models.PointerTo(baz), Qualifier: "fast"},
		},
		Origins: []models.Origin{{Symbol: "example.com/app.Foo.NewFoo", Pos: models.Position{File: "/src/app/foo.go", Line: 12, Column: 3}}},
	}
}

func TestRenderFactory(t *testing.T) {
	src, err := NewRenderer().RenderFactory(fooFactory())
	require.NoError(t, err)
	requireValidGo(t, src)

	assert.True(t, strings.HasPrefix(src, GeneratedHeader+"\n// Source: example.com/app.Foo.NewFoo (foo.go:12)\n\npackage app\n"))
	for _, fragment := range []string{
		"\"example.com/other\"",
		"\"github.com/toyz/splinter/pkg/splinter\"",
		"type Foo__Factory struct{}",
		"func (f Foo__Factory) CreateInstance(scope splinter.Scope) *Foo {",
		"scope = f.TargetScope(scope)",
		"bar := splinter.GetInstance[*Bar](scope, \"\")",
		"scope2 := splinter.GetProvider[*other.Baz](scope, \"fast\")",
		"instance, err := NewFoo(bar, scope2)",
		"panic(splinter.NewInjectionFailure(\"example.com/app.Foo__Factory: NewFoo failed\", err))",
		"Foo__MemberInjector{}.Inject(instance, scope)",
		"return scope.ParentScope(\"example.com/app.Presenter\")",
		"func (Foo__Factory) HasScopeAnnotation() bool {\n\treturn true",
		"func (Foo__Factory) HasSingletonAnnotation() bool {\n\treturn true",
		"func (Foo__Factory) HasReleasableAnnotation() bool {\n\treturn false",
		"splinter.RegisterFactory[*Foo](Foo__Factory{})",
	} {
		assert.Contains(t, src, fragment)
	}

	// parameters resolve in declaration order before the constructor runs, and
	// injection follows construction
	order := []string{
		"scope = f.TargetScope(scope)",
		"bar := splinter.GetInstance",
		"scope2 := splinter.GetProvider",
		"instance, err := NewFoo(bar, scope2)",
		"Foo__MemberInjector{}.Inject(instance, scope)",
		"return instance",
	}
	for i := 1; i < len(order); i++ {
		prev, next := strings.Index(src, order[i-1]), strings.Index(src, order[i])
		require.NotEqual(t, -1, prev, order[i-1])
		require.NotEqual(t, -1, next, order[i])
		assert.Less(t, prev, next, "%q must come before %q", order[i-1], order[i])
	}
}

func TestRenderFactory_Variants(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(cc *models.ConstructibleClass)
		contains []string
		excludes []string
	}{
		{
			name: "unscoped zero value",
			modify: func(cc *models.ConstructibleClass) {
				cc.ScopeAnnotation, cc.IsSingleton = "", false
				cc.Constructor, cc.Throws, cc.Parameters = "", false, nil
			},
			contains: []string{"instance := &Foo{}", "return scope\n", "HasScopeAnnotation() bool {\n\treturn false"},
			excludes: []string{"err"},
		},
		{
			name: "singleton without custom scope",
			modify: func(cc *models.ConstructibleClass) {
				cc.ScopeAnnotation = models.SingletonAnnotation
				cc.IsReleasable = true
			},
			contains: []string{"return scope.RootScope()", "HasReleasableAnnotation() bool {\n\treturn true"},
		},
		{
			name: "value product",
			modify: func(cc *models.ConstructibleClass) {
				cc.ReturnsPointer, cc.Throws = false, false
			},
			contains: []string{"CreateInstance(scope splinter.Scope) Foo {", "instance := NewFoo(bar, scope2)", "Foo__MemberInjector{}.Inject(&instance, scope)", "RegisterFactory[Foo]"},
		},
		{
			name: "ancestor injector only",
			modify: func(cc *models.ConstructibleClass) {
				cc.HasOwnMemberInjector = false
				cc.Super = &models.SuperclassRef{
					Owner: models.ClassRef{Package: "example.com/base", PackageName: "base", Name: "Base"},
					Path:  []models.EmbedStep{{Field: "Base"}},
				}
			},
			contains: []string{"base.Base__MemberInjector{}.Inject(&instance.Base, scope)", "\"example.com/base\""},
			excludes: []string{"Foo__MemberInjector"},
		},
		{
			name: "provides flags",
			modify: func(cc *models.ConstructibleClass) {
				cc.ProvidesSingleton, cc.ProvidesReleasable = true, true
			},
			contains: []string{"HasProvidesSingletonAnnotation() bool {\n\treturn true", "HasProvidesReleasableAnnotation() bool {\n\treturn true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := fooFactory()
			tt.modify(cc)

			src, err := NewRenderer().RenderFactory(cc)
			require.NoError(t, err)
			requireValidGo(t, src)
			for _, fragment := range tt.contains {
				assert.Contains(t, src, fragment)
			}
			for _, fragment := range tt.excludes {
				assert.NotContains(t, src, fragment)
			}
		})
	}
}

func TestRenderFactory_LocalsDoNotShadowFileNames(t *testing.T) {
	cc := fooFactory()
	cc.Parameters = []models.InjectionTarget{
		{OwnerName: "other", Kind: models.KindInstance, PayloadType: baz},
		{OwnerName: "Bar", Kind: models.KindInstance, PayloadType: bar},
		{OwnerName: "NewFoo", Kind: models.KindInstance, PayloadType: bar},
		{OwnerName: "_", Kind: models.KindInstance, PayloadType: models.Builtin("int")},
	}

	src, err := NewRenderer().RenderFactory(cc)
	require.NoError(t, err)
	assert.Contains(t, src, "instance, err := NewFoo(other2, Bar2, NewFoo2, arg)")
}

func injectable() *models.InjectableClass {
	return &models.InjectableClass{
		Owner: models.ClassRef{Package: "example.com/app", PackageName: "app", Name: "C"},
		Type:  models.Named("example.com/app", "C"),
		Super: &models.SuperclassRef{
			Owner: models.ClassRef{Package: "example.com/base", PackageName: "base", Name: "Base"},
			Path:  []models.EmbedStep{{Field: "Base", Pointer: true}},
		},
		Fields: []models.InjectionTarget{
			{OwnerName: "conn", Kind: models.KindLazy, PayloadType: models.PointerTo(models.Named("example.com/db", "Conn")), Qualifier: "primary"},
			{OwnerName: "bar", Kind: models.KindInstance, PayloadType: bar},
		},
		Methods: []models.MethodTarget{
			{
				Name:       "start",
				Parameters: []models.InjectionTarget{{OwnerName: "bar", Kind: models.KindInstance, PayloadType: models.PointerTo(bar)}},
				Results:    []models.TypeRef{models.Builtin("error")},
				Throws:     []models.TypeRef{models.Builtin("error")},
			},
			{Name: "stop", Shadows: true},
			{
				Name:       "wire",
				Parameters: []models.InjectionTarget{{OwnerName: "bar", Kind: models.KindProvider, PayloadType: bar}},
				Results:    []models.TypeRef{models.Builtin("int")},
			},
		},
		Origins: []models.Origin{{Symbol: "example.com/app.C.conn"}, {Symbol: "example.com/app.C.start"}},
	}
}

func TestRenderMemberInjector(t *testing.T) {
	src, err := NewRenderer().RenderMemberInjector(injectable())
	require.NoError(t, err)
	requireValidGo(t, src)

	assert.True(t, strings.HasPrefix(src, GeneratedHeader+"\n// Source: example.com/app.C.conn\n// Source: example.com/app.C.start\n\npackage app\n"))
	for _, fragment := range []string{
		"type C__MemberInjector struct{}",
		"func (C__MemberInjector) Inject(target *C, scope splinter.Scope) {",
		"if target.Base != nil {",
		"base.Base__MemberInjector{}.Inject(target.Base, scope)",
		"target.conn = splinter.GetLazy[*db.Conn](scope, \"primary\")",
		"target.bar = splinter.GetInstance[Bar](scope, \"\")",
		"bar := splinter.GetInstance[*Bar](scope, \"\")",
		"if err := target.start(bar); err != nil {",
		"panic(splinter.NewInjectionFailure(\"example.com/app.C__MemberInjector: start failed\", err))",
		"bar2 := splinter.GetProvider[Bar](scope, \"\")",
		"target.wire(bar2)",
		"splinter.RegisterMemberInjector[*C](C__MemberInjector{})",
	} {
		assert.Contains(t, src, fragment)
	}

	// ancestor first, then fields, then methods; a shadowing method runs after the
	// ancestor's injector has called its own version
	assert.Less(t, strings.Index(src, "Base__MemberInjector"), strings.Index(src, "target.conn ="))
	assert.Less(t, strings.Index(src, "target.bar ="), strings.Index(src, "target.start("))
	assert.Less(t, strings.Index(src, "target.start("), strings.Index(src, "target.stop()"))
	assert.Less(t, strings.Index(src, "target.stop()"), strings.Index(src, "target.wire("))
}

func TestRenderMemberInjector_MultipleErrors(t *testing.T) {
	ic := injectable()
	ic.Super = nil
	ic.Methods = []models.MethodTarget{{
		Name:    "check",
		Results: []models.TypeRef{models.Builtin("int"), models.Builtin("error"), models.Builtin("error")},
		Throws:  []models.TypeRef{models.Builtin("error"), models.Builtin("error")},
	}}

	src, err := NewRenderer().RenderMemberInjector(ic)
	require.NoError(t, err)
	requireValidGo(t, src)
	assert.Contains(t, src, "\"errors\"")
	assert.Contains(t, src, "if _, err, err2 := target.check(); err != nil || err2 != nil {")
	assert.Contains(t, src, "errors.Join(err, err2)")
}

func TestRender_Deterministic(t *testing.T) {
	renderer := NewRenderer()

	first, err := renderer.RenderFactory(fooFactory())
	require.NoError(t, err)
	second, err := renderer.RenderFactory(fooFactory())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first, err = renderer.RenderMemberInjector(injectable())
	require.NoError(t, err)
	second, err = renderer.RenderMemberInjector(injectable())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
