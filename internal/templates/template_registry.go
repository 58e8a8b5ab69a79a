package templates

// Template names
const (
	HeaderTemplate         = "header"
	FactoryTemplate        = "factory"
	MemberInjectorTemplate = "member-injector"
)

// GeneratedHeader marks every file written by splinter
const GeneratedHeader = "// Code generated by splinter. DO NOT EDIT."

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerFactoryTemplates()
	registry.registerMemberInjectorTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates[HeaderTemplate] = GeneratedHeader + `
{{- range .Origins}}
// Source: {{.}}
{{- end}}

package {{.PackageName}}

{{.Imports}}`
}

func (tr *TemplateRegistry) registerFactoryTemplates() {
	tr.templates[FactoryTemplate] = `
// {{.Name}} creates {{.TypeName}} instances.
type {{.Name}} struct{}

// CreateInstance builds a {{.TypeName}} in the scope chosen by TargetScope.
func (f {{.Name}}) CreateInstance(scope {{.Runtime}}.Scope) {{.Product}} {
	scope = f.TargetScope(scope)
{{- range .Locals}}
	{{.Name}} := {{.Expr}}
{{- end}}
{{- if .Throws}}
	instance, err := {{.Construct}}
	if err != nil {
		panic({{.Runtime}}.NewInjectionFailure({{.FailureMessage}}, err))
	}
{{- else}}
	instance := {{.Construct}}
{{- end}}
{{- with .Injection}}
	{{.}}
{{- end}}
	return instance
}

// TargetScope returns the scope instances are created in.
func ({{.Name}}) TargetScope(scope {{.Runtime}}.Scope) {{.Runtime}}.Scope {
	return {{.TargetScope}}
}

func ({{.Name}}) HasScopeAnnotation() bool {
	return {{.HasScopeAnnotation}}
}

func ({{.Name}}) HasSingletonAnnotation() bool {
	return {{.Singleton}}
}

func ({{.Name}}) HasReleasableAnnotation() bool {
	return {{.Releasable}}
}

func ({{.Name}}) HasProvidesSingletonAnnotation() bool {
	return {{.ProvidesSingleton}}
}

func ({{.Name}}) HasProvidesReleasableAnnotation() bool {
	return {{.ProvidesReleasable}}
}

func init() {
	{{.Runtime}}.RegisterFactory[{{.Product}}]({{.Name}}{})
}
`
}

func (tr *TemplateRegistry) registerMemberInjectorTemplates() {
	tr.templates[MemberInjectorTemplate] = `
// {{.Name}} injects the members of {{.TypeName}}.
type {{.Name}} struct{}

// Inject populates the injected fields and calls the injected methods of target.
func ({{.Name}}) Inject(target {{.Target}}, scope {{.Runtime}}.Scope) {
{{- range .Statements}}
	{{.}}
{{- end}}
}

func init() {
	{{.Runtime}}.RegisterMemberInjector[{{.Target}}]({{.Name}}{})
}
`
}
