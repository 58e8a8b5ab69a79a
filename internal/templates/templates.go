package templates

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/splinter/internal/models"
)

// HeaderData is the data of the file header template
type HeaderData struct {
	PackageName string
	Origins     []string
	Imports     string
}

// LocalData is a local variable bound before a call
type LocalData struct {
	Name string
	Expr string
}

// FactoryData is the data of the factory template
type FactoryData struct {
	Name               string
	TypeName           string
	Runtime            string
	Product            string
	Locals             []LocalData
	Construct          string
	Throws             bool
	FailureMessage     string
	Injection          string
	TargetScope        string
	HasScopeAnnotation bool
	Singleton          bool
	Releasable         bool
	ProvidesSingleton  bool
	ProvidesReleasable bool
}

// MemberInjectorData is the data of the member injector template
type MemberInjectorData struct {
	Name       string
	TypeName   string
	Runtime    string
	Target     string
	Statements []string
}

// Reserved local names of generated functions
const (
	scopeVar    = "scope"
	instanceVar = "instance"
	targetVar   = "target"
	errVar      = "err"
	receiverVar = "f"
)

// Renderer renders generated artifacts
type Renderer struct {
	registry *TemplateRegistry
}

// NewRenderer creates a renderer backed by the default templates
func NewRenderer() *Renderer {
	return &Renderer{registry: NewTemplateRegistry()}
}

// RenderFactory renders the complete source file of the factory of cc
func (r *Renderer) RenderFactory(cc *models.ConstructibleClass) (string, error) {
	imports := NewImportManager(cc.Owner.Package)
	utils := NewTemplateUtils(imports)

	data := FactoryData{
		Name:               models.GoIdent(cc.Owner.FactoryName()),
		TypeName:           cc.Owner.JoinedName(),
		Runtime:            utils.Runtime(),
		HasScopeAnnotation: cc.HasScopeAnnotation(),
		Singleton:          cc.IsSingleton,
		Releasable:         cc.IsReleasable,
		ProvidesSingleton:  cc.ProvidesSingleton,
		ProvidesReleasable: cc.ProvidesReleasable,
		Throws:             cc.Throws,
		FailureMessage:     FailureMessage(cc.Owner.Package+"."+models.GoIdent(cc.Owner.FactoryName()), cc.Constructor),
	}

	class := utils.TypeExpr(cc.Type)
	data.Product = class
	if cc.ReturnsPointer {
		data.Product = "*" + class
	}

	exprs := make([]string, len(cc.Parameters))
	for i, p := range cc.Parameters {
		exprs[i] = utils.Resolve(p, scopeVar)
	}

	instanceRef := instanceVar
	if !cc.ReturnsPointer {
		instanceRef = "&" + instanceVar
	}
	switch {
	case cc.HasOwnMemberInjector:
		injector := utils.ClassExpr(cc.Owner, cc.Owner.MemberInjectorName())
		data.Injection = fmt.Sprintf("%s{}.Inject(%s, %s)", injector, instanceRef, scopeVar)
	case cc.Super != nil:
		data.Injection = utils.SuperInjection(instanceVar, cc.Super, scopeVar)
	}

	switch {
	case cc.ScopeAnnotation == models.SingletonAnnotation:
		data.TargetScope = scopeVar + ".RootScope()"
	case cc.HasScopeAnnotation():
		data.TargetScope = fmt.Sprintf("%s.ParentScope(%s)", scopeVar, strconv.Quote(cc.ScopeAnnotation))
	default:
		data.TargetScope = scopeVar
	}

	if cc.Constructor != "" {
		utils.Local(cc.Constructor)
	}
	names := NewNameAllocator(append(utils.Reserved(), scopeVar, instanceVar, errVar, receiverVar, data.Name)...)
	args := make([]string, len(cc.Parameters))
	for i, p := range cc.Parameters {
		args[i] = names.Allocate(p.OwnerName)
		data.Locals = append(data.Locals, LocalData{Name: args[i], Expr: exprs[i]})
	}

	switch {
	case cc.Constructor != "":
		data.Construct = fmt.Sprintf("%s(%s)", cc.Constructor, strings.Join(args, ", "))
	case cc.ReturnsPointer:
		data.Construct = "&" + class + "{}"
	default:
		data.Construct = class + "{}"
	}

	return r.renderFile(FactoryTemplate, cc.Owner, cc.Origins, imports, data)
}

// RenderMemberInjector renders the complete source file of the member injector of ic
func (r *Renderer) RenderMemberInjector(ic *models.InjectableClass) (string, error) {
	imports := NewImportManager(ic.Owner.Package)
	utils := NewTemplateUtils(imports)

	name := models.GoIdent(ic.Owner.MemberInjectorName())
	data := MemberInjectorData{
		Name:     name,
		TypeName: ic.Owner.JoinedName(),
		Runtime:  utils.Runtime(),
		Target:   "*" + utils.TypeExpr(ic.Type),
	}

	if super := utils.SuperInjection(targetVar, ic.Super, scopeVar); super != "" {
		data.Statements = append(data.Statements, super)
	}
	for _, field := range ic.Fields {
		data.Statements = append(data.Statements,
			fmt.Sprintf("%s.%s = %s", targetVar, field.OwnerName, utils.Resolve(field, scopeVar)))
	}

	methods := ic.Methods
	exprs := make([][]string, len(methods))
	join := ""
	for i, m := range methods {
		for _, p := range m.Parameters {
			exprs[i] = append(exprs[i], utils.Resolve(p, scopeVar))
		}
		if len(m.Throws) > 1 && join == "" {
			join = imports.AddImport("errors") + ".Join"
		}
	}

	names := NewNameAllocator(append(utils.Reserved(), scopeVar, targetVar, errVar, name)...)
	for i, m := range methods {
		args := make([]string, len(m.Parameters))
		for j, p := range m.Parameters {
			args[j] = names.Allocate(p.OwnerName)
			data.Statements = append(data.Statements, fmt.Sprintf("%s := %s", args[j], exprs[i][j]))
		}
		call := fmt.Sprintf("%s.%s(%s)", targetVar, m.Name, strings.Join(args, ", "))
		data.Statements = append(data.Statements,
			methodCall(call, m, FailureMessage(ic.Owner.Package+"."+name, m.Name), utils.Runtime(), join))
	}

	return r.renderFile(MemberInjectorTemplate, ic.Owner, ic.Origins, imports, data)
}

// methodCall renders an injected method call. Error results are checked and re-raised
// as an injection failure; other results are discarded. join names errors.Join and is
// only needed for methods with more than one error result.
func methodCall(call string, m models.MethodTarget, message, runtime, join string) string {
	if len(m.Throws) == 0 {
		return call
	}

	lhs := make([]string, len(m.Results))
	var errs []string
	for i, result := range m.Results {
		lhs[i] = "_"
		if result.IsError() {
			lhs[i] = errVar
			if len(errs) > 0 {
				lhs[i] = fmt.Sprintf("%s%d", errVar, len(errs)+1)
			}
			errs = append(errs, lhs[i])
		}
	}

	cause := errs[0]
	conditions := make([]string, len(errs))
	for i, err := range errs {
		conditions[i] = err + " != nil"
	}
	if len(errs) > 1 {
		cause = fmt.Sprintf("%s(%s)", join, strings.Join(errs, ", "))
	}

	return fmt.Sprintf("if %s := %s; %s {\n\tpanic(%s.NewInjectionFailure(%s, %s))\n}",
		strings.Join(lhs, ", "), call, strings.Join(conditions, " || "), runtime, message, cause)
}

func (r *Renderer) renderFile(name string, owner models.ClassRef, origins []models.Origin, imports *ImportManager, data interface{}) (string, error) {
	body, err := executeTemplate(name, r.registry.MustGet(name), data)
	if err != nil {
		return "", err
	}

	header, err := executeTemplate(HeaderTemplate, r.registry.MustGet(HeaderTemplate), HeaderData{
		PackageName: packageName(owner),
		Origins:     describeOrigins(origins),
		Imports:     imports.GenerateImports(),
	})
	if err != nil {
		return "", err
	}

	return header + body, nil
}

func packageName(owner models.ClassRef) string {
	if owner.PackageName != "" {
		return owner.PackageName
	}
	return models.DefaultPackageName(owner.Package)
}

// describeOrigins renders one line per origin; only the file name of a position is kept
// so that output does not depend on where the sources are checked out
func describeOrigins(origins []models.Origin) []string {
	lines := make([]string, 0, len(origins))
	for _, origin := range origins {
		pos := origin.Pos
		if pos.File == "" {
			lines = append(lines, origin.Symbol)
			continue
		}
		pos.File = filepath.Base(pos.File)
		pos.Column = 0
		lines = append(lines, fmt.Sprintf("%s (%s)", origin.Symbol, pos))
	}
	return lines
}

// executeTemplate executes a template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
