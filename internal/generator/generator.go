package generator

import (
	"fmt"
	"strings"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/templates"
	"github.com/toyz/splinter/internal/utils"
)

// ErrEmptyInjector is wrapped by the error returned for a member injector with neither
// fields nor methods to inject
var ErrEmptyInjector = errors.New(errors.GenerationErrorCode, "member injector has no fields or methods to inject")

// Generation stages reported in errors
const (
	StageValidate = "validate"
	StageRender   = "render"
	StageFormat   = "format"
)

// Artifact is one generated source file
type Artifact struct {
	Name        string // artifact name, e.g. Foo__Factory
	Package     string // import path of the package the artifact belongs to
	PackageName string
	Dir         string // directory of the owning class, empty when unknown
	Body        string
	Description string
	Origins     []models.Origin
}

// QualifiedName returns the package qualified artifact name
func (a *Artifact) QualifiedName() string {
	if a.Package == "" {
		return a.Name
	}
	return a.Package + "." + a.Name
}

// FileName returns the name of the file the artifact is written to
func (a *Artifact) FileName() string {
	return GeneratedFileName(a.Name)
}

// GeneratedFileName returns the lower-cased file name of an artifact
func GeneratedFileName(artifact string) string {
	return strings.ToLower(models.GoIdent(artifact)) + utils.GeneratedFileSuffix
}

// Generator implements the CodeGenerator interface
type Generator struct {
	renderer *templates.Renderer
}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{
		renderer: templates.NewRenderer(),
	}
}

// GenerateFactory generates the factory of a constructible class
func (g *Generator) GenerateFactory(cc *models.ConstructibleClass) (*Artifact, error) {
	if cc == nil {
		return nil, errors.NewGenerationError("constructible class cannot be nil")
	}
	artifact := newArtifact(cc.Owner, cc.Owner.FactoryName(), cc.Origins)
	artifact.Description = fmt.Sprintf("Factory for %s", cc.Owner.QualifiedName())

	body, err := g.renderer.RenderFactory(cc)
	if err != nil {
		return nil, errors.WrapGenerateError(artifact.QualifiedName(), StageRender, err)
	}
	return g.finish(artifact, body)
}

// GenerateMemberInjector generates the member injector of an injectable class. A class
// with neither fields nor methods is rejected with ErrEmptyInjector.
func (g *Generator) GenerateMemberInjector(ic *models.InjectableClass) (*Artifact, error) {
	if ic == nil {
		return nil, errors.NewGenerationError("injectable class cannot be nil")
	}
	artifact := newArtifact(ic.Owner, ic.Owner.MemberInjectorName(), ic.Origins)
	artifact.Description = fmt.Sprintf("MemberInjector for %s", ic.Owner.QualifiedName())

	if ic.Empty() {
		return nil, errors.WrapGenerateError(artifact.QualifiedName(), StageValidate, ErrEmptyInjector)
	}

	body, err := g.renderer.RenderMemberInjector(ic)
	if err != nil {
		return nil, errors.WrapGenerateError(artifact.QualifiedName(), StageRender, err)
	}
	return g.finish(artifact, body)
}

func newArtifact(owner models.ClassRef, name string, origins []models.Origin) *Artifact {
	return &Artifact{
		Name:        name,
		Package:     owner.Package,
		PackageName: owner.PackageName,
		Dir:         owner.Dir,
		Origins:     origins,
	}
}

func (g *Generator) finish(artifact *Artifact, body string) (*Artifact, error) {
	formatted, err := utils.FormatGoCodeString(artifact.FileName(), body)
	if err != nil {
		return nil, errors.WrapGenerateError(artifact.QualifiedName(), StageFormat, err)
	}
	artifact.Body = formatted
	return artifact, nil
}
